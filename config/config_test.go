package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DEBUG_MODE", "DB_DRIVER", "DB_PATH", "TICK_INTERVAL", "EVENT_BACKLOG", "REDIS_HOST", "MINIO_ENDPOINT"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()

	assert.Equal(t, 3000, cfg.Port)
	assert.False(t, cfg.DebugMode)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 1024, cfg.EventBacklog)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.MinioEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("DEBUG_MODE", "true")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("EVENT_BACKLOG", "16")
	t.Setenv("REDIS_HOST", "redis.local")
	t.Setenv("MINIO_ENDPOINT", "minio.local:9000")

	cfg := FromEnv()

	assert.Equal(t, 8088, cfg.Port)
	assert.True(t, cfg.DebugMode)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 16, cfg.EventBacklog)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.MinioEnabled())
}

func TestFromEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("TICK_INTERVAL", "soon")

	cfg := FromEnv()

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, time.Second, cfg.TickInterval)
}
