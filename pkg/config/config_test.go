package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.twitter.com/1.1", cfg.Twitter.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Twitter.Timeout)
	assert.Equal(t, 100, cfg.Search.Count)
	assert.Equal(t, "recent", cfg.Search.ResultType)
	assert.Equal(t, 3, cfg.Search.MaxPages)
	assert.Equal(t, 5*time.Second, cfg.Search.PageDelay)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TAGWATCH_BEARER_TOKEN", "env-token")
	t.Setenv("TAGWATCH_API_BASE_URL", "http://localhost:8080")
	t.Setenv("TAGWATCH_SEARCH_COUNT", "50")
	t.Setenv("TAGWATCH_MAX_PAGES", "5")
	t.Setenv("TAGWATCH_PAGE_DELAY", "2s")
	t.Setenv("TAGWATCH_STORE_DRIVER", "memory")
	t.Setenv("TAGWATCH_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-token", cfg.Twitter.BearerToken)
	assert.Equal(t, "http://localhost:8080", cfg.Twitter.BaseURL)
	assert.Equal(t, 50, cfg.Search.Count)
	assert.Equal(t, 5, cfg.Search.MaxPages)
	assert.Equal(t, 2*time.Second, cfg.Search.PageDelay)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("TAGWATCH_SEARCH_COUNT", "not-a-number")
	t.Setenv("TAGWATCH_PAGE_DELAY", "garbage")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 100, cfg.Search.Count)
	assert.Equal(t, 5*time.Second, cfg.Search.PageDelay)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
twitter:
  bearer_token: "file-token"
search:
  count: 25
  max_pages: 2
store:
  driver: memory
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "file-token", cfg.Twitter.BearerToken)
	assert.Equal(t, 25, cfg.Search.Count)
	assert.Equal(t, 2, cfg.Search.MaxPages)
	assert.Equal(t, "memory", cfg.Store.Driver)

	// Unset fields keep their defaults.
	assert.Equal(t, "https://api.twitter.com/1.1", cfg.Twitter.BaseURL)
	assert.Equal(t, "recent", cfg.Search.ResultType)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("twitter: ["), 0644))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(path))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
			valid:  true,
		},
		{
			name:   "missing base URL",
			mutate: func(c *Config) { c.Twitter.BaseURL = "" },
			valid:  false,
		},
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.Twitter.Timeout = 0 },
			valid:  false,
		},
		{
			name:   "count too large",
			mutate: func(c *Config) { c.Search.Count = 101 },
			valid:  false,
		},
		{
			name:   "count zero",
			mutate: func(c *Config) { c.Search.Count = 0 },
			valid:  false,
		},
		{
			name:   "invalid result type",
			mutate: func(c *Config) { c.Search.ResultType = "newest" },
			valid:  false,
		},
		{
			name:   "popular result type",
			mutate: func(c *Config) { c.Search.ResultType = "popular" },
			valid:  true,
		},
		{
			name:   "memory driver needs no path",
			mutate: func(c *Config) { c.Store.Driver = "memory"; c.Store.Path = "" },
			valid:  true,
		},
		{
			name:   "sqlite driver needs a path",
			mutate: func(c *Config) { c.Store.Path = "" },
			valid:  false,
		},
		{
			name:   "unknown driver",
			mutate: func(c *Config) { c.Store.Driver = "postgres" },
			valid:  false,
		},
		{
			name:   "invalid log level",
			mutate: func(c *Config) { c.Logging.Level = "trace" },
			valid:  false,
		},
		{
			name:   "negative page delay",
			mutate: func(c *Config) { c.Search.PageDelay = -time.Second },
			valid:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"bearer-token": "flag-token",
		"store":        "/tmp/test.db",
		"count":        42,
		"max-pages":    7,
		"log-level":    "debug",
	})

	assert.Equal(t, "flag-token", cfg.Twitter.BearerToken)
	assert.Equal(t, "/tmp/test.db", cfg.Store.Path)
	assert.Equal(t, 42, cfg.Search.Count)
	assert.Equal(t, 7, cfg.Search.MaxPages)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestMergeCommandLineFlagsIgnoresEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Twitter.BearerToken = "existing"
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"bearer-token": "",
		"count":        0,
	})

	assert.Equal(t, "existing", cfg.Twitter.BearerToken)
	assert.Equal(t, 100, cfg.Search.Count)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
twitter:
  bearer_token: "file-token"
search:
  count: 25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// Environment overrides the file.
	t.Setenv("TAGWATCH_BEARER_TOKEN", "env-token")

	// Flags override the environment.
	cfg, err := Load(path, map[string]interface{}{"count": 10})
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Twitter.BearerToken)
	assert.Equal(t, 10, cfg.Search.Count)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Twitter.BearerToken = "saved-token"
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "saved-token", loaded.Twitter.BearerToken)
}
