package jwt_test

import (
	"strings"
	"testing"
	"time"

	"remind/src-server/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	payload := jwt.New("alex", now, time.Hour)

	token, err := jwt.Encode(payload, "secret")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	got, err := jwt.Decode(token, "secret", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, payload, *got)

	_, err = jwt.Decode(token, "other secret", now)
	require.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = jwt.Decode(token, "secret", now.Add(time.Hour))
	require.ErrorIs(t, err, jwt.ErrExpired)
}

func TestDecodeTampered(t *testing.T) {
	now := time.Now()
	token, err := jwt.Encode(jwt.New("alex", now, time.Hour), "secret")
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	forged, err := jwt.Encode(jwt.New("mallory", now, time.Hour), "guess")
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")

	for _, bad := range []string{
		"",
		"a.b",
		parts[0] + "." + forgedParts[1] + "." + parts[2],
		parts[0] + "." + parts[1] + ".!!!",
	} {
		_, err := jwt.Decode(bad, "secret", now)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken, bad)
	}
}
