package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cardforge/internal/config"
)

// noEnvFile points Load at a dotenv file that does not exist.
func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load(config.Options{EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, ".cardforge", cfg.DataDir)
	assert.Equal(t, filepath.Join(".cardforge", "cardforge.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join(".cardforge", "kv"), cfg.FallbackDir())
	assert.Equal(t, "json", cfg.Fallback.Format)
	assert.True(t, cfg.Primary.Enabled)
	assert.Equal(t, "gemini-2.5-flash", cfg.Summary.Model)
	assert.Equal(t, "127.0.0.1:8787", cfg.Server.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cardforge.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
data_dir: /var/lib/cardforge
fallback:
  format: yaml
  dir: /tmp/kv
primary:
  enabled: false
log:
  level: DEBUG
server:
  addr: 0.0.0.0:9000
  cors_origins: ["https://notes.example"]
`), 0644))

	cfg, err := config.Load(config.Options{File: file, EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/cardforge/cardforge.db", cfg.DatabasePath())
	assert.Equal(t, "/tmp/kv", cfg.FallbackDir())
	assert.Equal(t, "yaml", cfg.Fallback.Format)
	assert.False(t, cfg.Primary.Enabled)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, []string{"https://notes.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_SearchesHome(t *testing.T) {
	home := t.TempDir()
	t.Chdir(t.TempDir())
	t.Setenv("CARDFORGE_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "cardforge.yaml"), []byte("database: notes.db\n"), 0644))

	cfg, err := config.Load(config.Options{EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, "notes.db", cfg.Database)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CARDFORGE_DATA_DIR", "/data")
	t.Setenv("CARDFORGE_FALLBACK_FORMAT", "yaml")
	t.Setenv("CARDFORGE_PRIMARY_ENABLED", "false")
	t.Setenv("CARDFORGE_SUMMARY_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gk")

	cfg, err := config.Load(config.Options{EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, "yaml", cfg.Fallback.Format)
	assert.False(t, cfg.Primary.Enabled)
	assert.Equal(t, "gk", cfg.Summary.APIKey, "falls back to GEMINI_API_KEY")
}

func TestLoad_DotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CARDFORGE_SUMMARY_MODEL=gemini-from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CARDFORGE_SUMMARY_MODEL") })

	cfg, err := config.Load(config.Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "gemini-from-dotenv", cfg.Summary.Model)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CARDFORGE_FALLBACK_FORMAT", "xml")

	_, err := config.Load(config.Options{EnvFile: noEnvFile(t)})
	assert.ErrorContains(t, err, "invalid config")

	_, err = config.Load(config.Options{File: filepath.Join(t.TempDir(), "nope.yaml"), EnvFile: noEnvFile(t)})
	assert.Error(t, err, "an explicit file must exist")
}
