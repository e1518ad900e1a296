package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spendlog/spendlog/internal/model"
)

// FileName is the project configuration file written by `spendlog init`.
const FileName = "spendlog.yaml"

// Supported store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config represents the top-level spendlog.yaml configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Import ImportConfig `yaml:"import"`
	Log    LogConfig    `yaml:"log"`
}

// StoreConfig selects where transactions live.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // sqlite database, relative to the project directory
}

// ImportConfig controls the import directory and defaults for imported settings.
type ImportConfig struct {
	Dir             string `yaml:"dir"`
	DefaultCurrency string `yaml:"default_currency"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join("data", "spendlog.db"),
		},
		Import: ImportConfig{
			Dir:             "import",
			DefaultCurrency: model.DefaultCurrency,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a spendlog.yaml file from disk. Fields missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadProject loads <dir>/spendlog.yaml, falling back to defaults when the
// file is absent, then applies <dir>/.env and SPENDLOG_* environment overrides.
func LoadProject(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from SPENDLOG_* environment variables.
func (c *Config) ApplyEnv() {
	c.Store.Backend = getEnv("SPENDLOG_STORE_BACKEND", c.Store.Backend)
	c.Store.Path = getEnv("SPENDLOG_DB_PATH", c.Store.Path)
	c.Import.Dir = getEnv("SPENDLOG_IMPORT_DIR", c.Import.Dir)
	c.Import.DefaultCurrency = getEnv("SPENDLOG_DEFAULT_CURRENCY", c.Import.DefaultCurrency)
	c.Log.Level = getEnv("SPENDLOG_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("SPENDLOG_LOG_FORMAT", c.Log.Format)
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			errs = append(errs, "store path cannot be empty when using sqlite backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid store backend %q: must be one of [%s %s]", c.Store.Backend, BackendMemory, BackendSQLite))
	}

	if strings.TrimSpace(c.Import.Dir) == "" {
		errs = append(errs, "import dir cannot be empty")
	}
	if strings.TrimSpace(c.Import.DefaultCurrency) == "" {
		errs = append(errs, "default currency cannot be empty")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format %q: must be text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// ResolvePath makes a project-relative path absolute against dir.
func ResolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
