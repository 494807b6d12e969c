package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "ROOM_RECONNECT_GRACE", "DB_RETRY_DELAY", "AWS_ACCESS_KEY_ID", "REDIS_DB", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, 60*time.Second, cfg.Game.ReconnectGrace)
	assert.Equal(t, 5*time.Second, cfg.Game.DBRetryDelay)
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("ROOM_RECONNECT_GRACE", "0s")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("AWS_ACCESS_KEY_ID", "key")
	t.Setenv("REDIS_DB", "3")

	cfg := FromEnv()

	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, time.Duration(0), cfg.Game.ReconnectGrace)
	assert.Equal(t, 90*time.Minute, cfg.Cache.SessionTTL)
	assert.True(t, cfg.S3.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("DB_RETRY_DELAY", "soon")
	t.Setenv("REDIS_DB", "first")

	cfg := FromEnv()

	assert.Equal(t, 5*time.Second, cfg.Game.DBRetryDelay)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestS3StringHidesSecrets(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA-visible")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "very-secret")

	cfg := FromEnv()

	assert.Equal(t, "very-secret", cfg.S3.SecretAccessKey)
	assert.NotContains(t, fmt.Sprintf("%+v", cfg), "very-secret")
	assert.NotContains(t, fmt.Sprintf("%+v", cfg), "AKIA-visible")
}
