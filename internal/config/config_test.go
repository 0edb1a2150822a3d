package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/cabinkeeper/internal/repositories/blobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "sqlite", c.StoreDriver)
	assert.Equal(t, "cabinkeeper.db", c.SQLitePath)
	assert.Equal(t, "rli_", c.KeyPrefix)
	assert.Equal(t, 8, c.SeedCabins)
	assert.Equal(t, "Rancho Laguna Ita", c.PropertyName)
	assert.Equal(t, "gemini-3-flash-preview", c.Model)
	assert.Equal(t, int64(5<<20), c.MaxImageBytes)
	assert.Equal(t, time.Duration(0), c.InsightTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.APIKey)
}

func TestLoadConfig_NoSources_UsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "sunday", cfg.WeekStart)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeTemp(t, "cfg.json", `{
		"store_driver": "memory",
		"seed_cabins": 4,
		"property_name": "Lakeview",
		"insight_timeout": 15000000000,
		"week_start": "monday"
	}`)

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 4, cfg.SeedCabins)
	assert.Equal(t, "Lakeview", cfg.PropertyName)
	assert.Equal(t, 15*time.Second, cfg.InsightTimeout)
	assert.Equal(t, "monday", cfg.WeekStart)
	// untouched keys keep their defaults
	assert.Equal(t, "rli_", cfg.KeyPrefix)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeTemp(t, "cfg.yaml", `
store_driver: s3
s3_bucket: cabins
s3_endpoint: http://127.0.0.1:9000
insight_timeout: 45s
export_cron: "@every 10m"
`)

	cfg, err := LoadConfig([]string{"--config=" + path})
	require.NoError(t, err)
	assert.Equal(t, "s3", cfg.StoreDriver)
	assert.Equal(t, "cabins", cfg.S3Bucket)
	assert.Equal(t, 45*time.Second, cfg.InsightTimeout)
	assert.Equal(t, "@every 10m", cfg.ExportCron)

	opts := cfg.StoreOptions()
	assert.Equal(t, blobs.DriverS3, opts.Driver)
	assert.Equal(t, "cabins", opts.S3.Bucket)
	assert.Equal(t, "http://127.0.0.1:9000", opts.S3.Endpoint)
	assert.Equal(t, "us-east-1", opts.S3.Region)
}

func TestLoadConfig_BadFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.ErrorContains(t, err, "read config file")

	path := writeTemp(t, "broken.json", `{"seed_cabins": "many"}`)
	_, err = LoadConfig([]string{"-c", path})
	require.ErrorContains(t, err, "parse config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeTemp(t, "cfg.json", `{"model": "file-model", "log_level": "warn", "sqlite_path": "file.db"}`)

	t.Setenv("CABINKEEPER_MODEL", "env-model")
	t.Setenv("CABINKEEPER_LOG_LEVEL", "error")

	cfg, err := LoadConfig([]string{"-c", path, "-l", "debug"})
	require.NoError(t, err)
	assert.Equal(t, "file.db", cfg.SQLitePath, "file beats defaults")
	assert.Equal(t, "env-model", cfg.Model, "env beats file")
	assert.Equal(t, "debug", cfg.LogLevel, "flags beat env")
}

func TestLoadConfig_Flags(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig([]string{"-s", "memory", "-db", "x.db", "-m", "m1", "-e", "out.ics", "-unknown", "zzz"})
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "x.db", cfg.SQLitePath)
	assert.Equal(t, "m1", cfg.Model)
	assert.Equal(t, "out.ics", cfg.ExportPath)
}

func TestLoadConfig_APIKeyVariables(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("GEMINI_API_KEY", "gemini")
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.APIKey)

	t.Setenv("API_KEY", "primary")
	cfg, err = LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.APIKey)
}

func TestLoadConfig_Dotenv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { _ = os.Unsetenv("CABINKEEPER_PROPERTY_NAME") })
	t.Setenv("CABINKEEPER_KEY_PREFIX", "real_")

	path := writeTemp(t, "test.env", "CABINKEEPER_PROPERTY_NAME=Dotenv Ranch\nCABINKEEPER_KEY_PREFIX=dotenv_\n")

	cfg, err := LoadConfig([]string{"-env", path})
	require.NoError(t, err)
	assert.Equal(t, "Dotenv Ranch", cfg.PropertyName)
	assert.Equal(t, "real_", cfg.KeyPrefix, "dotenv must not override the real environment")
}

func TestLoadConfig_DefaultDotenvInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("CABINKEEPER_EXPORT_PATH") })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CABINKEEPER_EXPORT_PATH=from-dotenv.ics\n"), 0o600))

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.ics", cfg.ExportPath)
}

func TestLoadConfig_MissingExplicitDotenv(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig([]string{"-env", "does-not-exist.env"})
	require.ErrorContains(t, err, "load dotenv")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"memory", func(c *Config) { c.StoreDriver = "memory" }, ""},
		{"unknown driver", func(c *Config) { c.StoreDriver = "redis" }, "unknown store driver"},
		{"sqlite without path", func(c *Config) { c.SQLitePath = "" }, "database path"},
		{"postgres without dsn", func(c *Config) { c.StoreDriver = "postgres" }, "DSN"},
		{"postgres with dsn", func(c *Config) { c.StoreDriver = "postgres"; c.PostgresDSN = "postgres://x" }, ""},
		{"s3 without bucket", func(c *Config) { c.StoreDriver = "s3" }, "bucket"},
		{"zero seed", func(c *Config) { c.SeedCabins = 0 }, "seed cabins"},
		{"bad week start", func(c *Config) { c.WeekStart = "friday" }, "week start"},
		{"negative timeout", func(c *Config) { c.InsightTimeout = -time.Second }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.errMsg)
		})
	}
}
