package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Config holds all application configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Storage StorageConfig `mapstructure:"storage"`
	Library LibraryConfig `mapstructure:"library"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PathsConfig locates the chart storage areas. Empty entries are derived
// from DataDir.
type PathsConfig struct {
	DataDir     string `mapstructure:"data_dir"`
	ChartsDir   string `mapstructure:"charts_dir"`
	RespacksDir string `mapstructure:"respacks_dir"`
}

// StorageConfig selects where the root object is persisted
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "bolt"
	Path    string `mapstructure:"path"`    // Defaults to data.json or chartbox.db in DataDir
}

// LibraryConfig tunes reconciliation
type LibraryConfig struct {
	ScanTimeout  time.Duration `mapstructure:"scan_timeout"`  // 0 disables the listing timeout
	ParseWorkers int           `mapstructure:"parse_workers"` // Charts parsed at once
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir: defaultDataPath(),
		},
		Storage: StorageConfig{
			Backend: BackendFile,
		},
		Library: LibraryConfig{
			ScanTimeout:  30 * time.Second,
			ParseWorkers: 4,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "chartbox.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "chartbox")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "chartbox")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "chartbox")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "chartbox")
	}
}

// newViper seeds a viper instance with the defaults so every key can be
// overridden from the environment (CHARTBOX_LIBRARY_PARSE_WORKERS, ...).
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CHARTBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setAll(v, cfg)
	return v
}

func setAll(v *viper.Viper, cfg *Config) {
	v.SetDefault("paths.data_dir", cfg.Paths.DataDir)
	v.SetDefault("paths.charts_dir", cfg.Paths.ChartsDir)
	v.SetDefault("paths.respacks_dir", cfg.Paths.RespacksDir)
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("library.scan_timeout", cfg.Library.ScanTimeout.String())
	v.SetDefault("library.parse_workers", cfg.Library.ParseWorkers)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// LoadConfig loads configuration from file and environment. An empty path
// searches the default config directory and the working directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultConfigPath())
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML. An empty path writes config.yaml in the
// default config directory.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(DefaultConfigPath(), "config.yaml")
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("paths.data_dir", cfg.Paths.DataDir)
	v.Set("paths.charts_dir", cfg.Paths.ChartsDir)
	v.Set("paths.respacks_dir", cfg.Paths.RespacksDir)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("library.scan_timeout", cfg.Library.ScanTimeout.String())
	v.Set("library.parse_workers", cfg.Library.ParseWorkers)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// resolve expands ~ and derives unset paths from the data directory.
func (c *Config) resolve() {
	c.Paths.DataDir = expandHome(c.Paths.DataDir)
	c.Paths.ChartsDir = expandHome(c.Paths.ChartsDir)
	c.Paths.RespacksDir = expandHome(c.Paths.RespacksDir)
	c.Storage.Path = expandHome(c.Storage.Path)
	c.Logging.File = expandHome(c.Logging.File)
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))

	if c.Paths.ChartsDir == "" {
		c.Paths.ChartsDir = filepath.Join(c.Paths.DataDir, "charts")
	}
	if c.Paths.RespacksDir == "" {
		c.Paths.RespacksDir = filepath.Join(c.Paths.DataDir, "respack")
	}
	if c.Storage.Path == "" {
		if c.Storage.Backend == BackendBolt {
			c.Storage.Path = filepath.Join(c.Paths.DataDir, "chartbox.db")
		} else {
			c.Storage.Path = c.LegacyDataPath()
		}
	}
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendBolt:
	default:
		return fmt.Errorf("invalid storage backend %q: want %q or %q", c.Storage.Backend, BackendFile, BackendBolt)
	}
	if c.Library.ParseWorkers < 0 {
		return fmt.Errorf("invalid library.parse_workers %d", c.Library.ParseWorkers)
	}
	if c.Library.ScanTimeout < 0 {
		return fmt.Errorf("invalid library.scan_timeout %s", c.Library.ScanTimeout)
	}
	return nil
}

// LegacyDataPath is the JSON root in the data directory. The bolt backend
// imports it on first open.
func (c *Config) LegacyDataPath() string {
	return filepath.Join(c.Paths.DataDir, "data.json")
}

// LockPath is the process lock held by the file backend.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "chartbox.lock")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
