package utils_test

import (
	"testing"
	"time"

	"remind/src-server/utils"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "TIMEZONE", "TICK_INTERVAL", "STORE_BACKEND", "SQLITE_PATH", "STORE_DIR",
		"AUTH_USERNAME", "AUTH_PASSWORD", "JWT_SECRET", "JWT_EXPIRE",
		"DISCORD_APP_TOKEN", "DISCORD_CHANNEL_ID", "AUDIO_PLAYER", "METRIC_COLLECTION_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	c := utils.NewConfig()
	assert.Equal(t, "8080", c.GetPort())
	assert.Equal(t, time.Local, c.GetLocation())
	assert.Equal(t, time.Second, c.GetTickInterval())
	assert.Equal(t, utils.STORE_BACKEND_SQLITE, c.GetStoreBackend())
	assert.Equal(t, "./remind.db", c.GetSqlitePath())
	assert.Equal(t, "data", c.GetStoreDir())
	assert.Equal(t, "me", c.GetAuthUsername())
	assert.NotEmpty(t, c.GetAuthPassword())
	assert.NotEmpty(t, c.GetJWTSecret())
	assert.Equal(t, 168*time.Hour, c.GetJWTExpire())
	assert.False(t, c.DiscordEnabled())
	assert.Equal(t, "aplay", c.GetAudioPlayer())
	assert.Equal(t, 5*time.Second, c.GetMetricCollectionInterval())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("STORE_BACKEND", "File")
	t.Setenv("STORE_DIR", "/var/lib/remind/")
	t.Setenv("AUTH_USERNAME", "alex")
	t.Setenv("AUTH_PASSWORD", "hunter2")
	t.Setenv("DISCORD_APP_TOKEN", "token-123")
	t.Setenv("DISCORD_CHANNEL_ID", "42")
	t.Setenv("AUDIO_PLAYER", "bell")

	c := utils.NewConfig()
	assert.Equal(t, "9000", c.GetPort())
	assert.Equal(t, time.UTC, c.GetLocation())
	assert.Equal(t, 250*time.Millisecond, c.GetTickInterval())
	assert.Equal(t, utils.STORE_BACKEND_FILE, c.GetStoreBackend())
	assert.Equal(t, "/var/lib/remind", c.GetStoreDir())
	assert.Equal(t, "alex", c.GetAuthUsername())
	assert.Equal(t, "hunter2", c.GetAuthPassword())
	assert.True(t, c.DiscordEnabled())
	assert.Equal(t, "42", c.GetDiscordChannelID())
	assert.Equal(t, "bell", c.GetAudioPlayer())
}
