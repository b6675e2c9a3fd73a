package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StoreBackendFile, cfg.Store.Backend)
	assert.Equal(t, "./data", cfg.Store.DataDir)
	assert.True(t, cfg.Agent.LenientCreation)
	assert.False(t, cfg.Agent.QuoteAwareScan)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, 5*time.Minute, cfg.Stats.CacheTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Brokers)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_BACKEND", "POSTGRES")
	t.Setenv("LENIENT_CREATION", "false")
	t.Setenv("EXTRACTOR_QUOTE_AWARE", "true")
	t.Setenv("STATS_CACHE_TTL", "not-a-duration")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreBackendPostgres, cfg.Store.Backend)
	assert.False(t, cfg.Agent.LenientCreation)
	assert.True(t, cfg.Agent.QuoteAwareScan)
	assert.Equal(t, 5*time.Minute, cfg.Stats.CacheTTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Events.Brokers)
}

func TestUnknownBackendFallsBackToFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_BACKEND", "mongo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreBackendFile, cfg.Store.Backend)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
