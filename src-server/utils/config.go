package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type StoreBackend string

const (
	STORE_BACKEND_SQLITE = StoreBackend("sqlite")
	STORE_BACKEND_FILE   = StoreBackend("file")
	STORE_BACKEND_MEMORY = StoreBackend("memory")
)

type Config struct {
	port string

	location     *time.Location
	tickInterval time.Duration

	storeBackend StoreBackend
	sqlitePath   string
	storeDir     string

	authUsername string
	authPassword string
	jwtSecret    string
	jwtExpire    time.Duration

	discordAppToken  string
	discordChannelID string

	audioPlayer string

	metricCollectionInterval time.Duration
}

func parseDurationEnv(key, fallback string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}
	duration, err := time.ParseDuration(raw)
	if err != nil || duration <= 0 {
		slog.Error("invalid "+key, "value", raw, "error", err)
		os.Exit(1)
	}
	slog.Debug("env", key, raw, "duration", duration)
	return duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
		tickInterval: parseDurationEnv("TICK_INTERVAL", "1s"),

		storeBackend: func() StoreBackend {
			backend := StoreBackend(strings.ToLower(os.Getenv("STORE_BACKEND")))
			switch backend {
			case "":
				backend = STORE_BACKEND_SQLITE
			case STORE_BACKEND_SQLITE, STORE_BACKEND_FILE, STORE_BACKEND_MEMORY:
			default:
				slog.Error("invalid STORE_BACKEND", "value", backend)
				os.Exit(1)
			}
			slog.Debug("env", "STORE_BACKEND", backend)
			return backend
		}(),
		sqlitePath: func() string {
			sqlitePath := os.Getenv("SQLITE_PATH")
			if sqlitePath == "" {
				sqlitePath = "./remind.db"
			}
			slog.Debug("env", "SQLITE_PATH", sqlitePath)
			return sqlitePath
		}(),
		storeDir: func() string {
			storeDir := os.Getenv("STORE_DIR")
			if storeDir == "" {
				storeDir = "./data"
			}
			slog.Debug("env", "STORE_DIR", storeDir)
			return filepath.Clean(storeDir)
		}(),

		authUsername: func() string {
			username := os.Getenv("AUTH_USERNAME")
			if username == "" {
				username = "me"
			}
			slog.Debug("env", "AUTH_USERNAME", username)
			return username
		}(),
		authPassword: func() string {
			password := os.Getenv("AUTH_PASSWORD")
			if password == "" {
				password = uuid.NewString()
				slog.Warn("AUTH_PASSWORD is not set, generated a one-off password", "password", password)
			}
			return password
		}(),
		jwtSecret: func() string {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				slog.Warn("JWT_SECRET is not set, sessions won't survive a restart")
				secret = uuid.NewString()
			}
			return secret
		}(),
		jwtExpire: parseDurationEnv("JWT_EXPIRE", "168h"),

		discordAppToken: func() string {
			discordAppToken := os.Getenv("DISCORD_APP_TOKEN")
			if len(discordAppToken) > 3 {
				slog.Debug("env", "DISCORD_APP_TOKEN", discordAppToken[0:3]+"...")
			}
			return discordAppToken
		}(),
		discordChannelID: func() string {
			discordChannelID := os.Getenv("DISCORD_CHANNEL_ID")
			slog.Debug("env", "DISCORD_CHANNEL_ID", discordChannelID)
			return discordChannelID
		}(),

		audioPlayer: func() string {
			audioPlayer := strings.ToLower(os.Getenv("AUDIO_PLAYER"))
			switch audioPlayer {
			case "":
				audioPlayer = "aplay"
			case "aplay", "bell", "none":
			default:
				slog.Error("invalid AUDIO_PLAYER", "value", audioPlayer)
				os.Exit(1)
			}
			slog.Debug("env", "AUDIO_PLAYER", audioPlayer)
			return audioPlayer
		}(),

		metricCollectionInterval: parseDurationEnv("METRIC_COLLECTION_INTERVAL", "5s"),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get TIMEZONE env, default to the host's local time
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get TICK_INTERVAL env, default to 1s
func (c *Config) GetTickInterval() time.Duration {
	return c.tickInterval
}

// Get STORE_BACKEND env, default to sqlite
func (c *Config) GetStoreBackend() StoreBackend {
	return c.storeBackend
}

// Get SQLITE_PATH env
func (c *Config) GetSqlitePath() string {
	return c.sqlitePath
}

// Get STORE_DIR env
func (c *Config) GetStoreDir() string {
	return c.storeDir
}

// Get AUTH_USERNAME env
func (c *Config) GetAuthUsername() string {
	return c.authUsername
}

// Get AUTH_PASSWORD env
func (c *Config) GetAuthPassword() string {
	return c.authPassword
}

// Get JWT_SECRET env
func (c *Config) GetJWTSecret() string {
	return c.jwtSecret
}

// Get JWT_EXPIRE env
func (c *Config) GetJWTExpire() time.Duration {
	return c.jwtExpire
}

// Get DISCORD_APP_TOKEN env
func (c *Config) GetDiscordAppToken() string {
	return c.discordAppToken
}

// Get DISCORD_CHANNEL_ID env
func (c *Config) GetDiscordChannelID() string {
	return c.discordChannelID
}

// Discord alerts need both the bot token and a channel.
func (c *Config) DiscordEnabled() bool {
	return c.discordAppToken != "" && c.discordChannelID != ""
}

// Get AUDIO_PLAYER env, one of aplay, bell, none
func (c *Config) GetAudioPlayer() string {
	return c.audioPlayer
}

// Get METRIC_COLLECTION_INTERVAL env
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
