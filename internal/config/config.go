// Package config loads CardForge settings from an optional cardforge.yaml,
// CARDFORGE_* environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CARDFORGE"

type Config struct {
	DataDir  string         `mapstructure:"data_dir" validate:"required"`
	Database string         `mapstructure:"database" validate:"required"`
	Fallback FallbackConfig `mapstructure:"fallback"`
	Primary  PrimaryConfig  `mapstructure:"primary"`
	Log      LogConfig      `mapstructure:"log"`
	Summary  SummaryConfig  `mapstructure:"summary"`
	Server   ServerConfig   `mapstructure:"server"`
}

type FallbackConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format" validate:"oneof=json yaml yml"`
}

type PrimaryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type SummaryConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr" validate:"required,hostname_port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file; when empty cardforge.yaml is searched
	// in $CARDFORGE_HOME and the working directory.
	File string
	// EnvFile is the dotenv file loaded first. Defaults to ".env".
	EnvFile string
}

func defaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".cardforge")
	v.SetDefault("database", "cardforge.db")
	v.SetDefault("fallback.dir", "")
	v.SetDefault("fallback.format", "json")
	v.SetDefault("primary.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("summary.api_key", "")
	v.SetDefault("summary.model", "gemini-2.5-flash")
	v.SetDefault("summary.endpoint", "")
	v.SetDefault("server.addr", "127.0.0.1:8787")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
}

// Load resolves the configuration. A missing config file is not an error.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("cardforge")
		v.SetConfigType("yaml")
		if home := os.Getenv(EnvPrefix + "_HOME"); home != "" {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Summary.APIKey == "" {
		cfg.Summary.APIKey = firstEnv("GEMINI_API_KEY", "API_KEY")
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// DatabasePath is the SQLite file. A relative database name lives in DataDir.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(c.DataDir, c.Database)
}

// FallbackDir is the flat store directory, <data_dir>/kv unless set.
func (c *Config) FallbackDir() string {
	if c.Fallback.Dir != "" {
		return c.Fallback.Dir
	}
	return filepath.Join(c.DataDir, "kv")
}

// SlogLevel maps the configured level name.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
