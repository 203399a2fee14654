package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestNewConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	assert.Equal(t, 720*time.Hour, cfg.SnapshotTTL)
	assert.Equal(t, "0 8 * * MON", cfg.DigestSchedule)
}

func TestNewConfig_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", StoreRedis)
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SNAPSHOT_TTL", "1h")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.SnapshotTTL)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"empty jwt secret", "JWT_SECRET", ""},
		{"empty hmac secret", "HMAC_SECRET", ""},
		{"bad backend", "STORE_BACKEND", "mongo"},
		{"bad redis db", "REDIS_DB", "one"},
		{"bad ttl", "SNAPSHOT_TTL", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
