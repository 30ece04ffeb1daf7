package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.Equal(t, 500*time.Millisecond, cfg.SyncDebounce())
	assert.Equal(t, 3*time.Second, cfg.StatusClear())
	assert.False(t, cfg.IsProduction())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FAMLOG_HTTP_PORT", "9090")
	t.Setenv("FAMLOG_SYNC_DEBOUNCE_MS", "250")
	t.Setenv("FAMLOG_ENVIRONMENT", "production")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 250*time.Millisecond, cfg.SyncDebounce())
	assert.True(t, cfg.IsProduction())
}

func TestResolveDefaultsRejectsEmptyPaths(t *testing.T) {
	cfg := NewForTesting()
	cfg.SQLitePath = ""
	require.Error(t, cfg.ResolveDefaults())

	cfg = NewForTesting()
	cfg.RemoteBaseURL = ""
	require.Error(t, cfg.ResolveDefaults())
}

func TestResolveDefaultsRepairsNonPositiveDurations(t *testing.T) {
	cfg := NewForTesting()
	cfg.SyncDebounceMs = -1
	cfg.StatusClearSeconds = 0
	require.NoError(t, cfg.ResolveDefaults())
	assert.Equal(t, 500, cfg.SyncDebounceMs)
	assert.Equal(t, 3, cfg.StatusClearSeconds)
}

func TestNewForTesting(t *testing.T) {
	cfg := NewForTesting()
	assert.True(t, cfg.IsTesting())
	assert.Equal(t, 10*time.Millisecond, cfg.SyncDebounce())
}
