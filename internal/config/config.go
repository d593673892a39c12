// ABOUTME: Volley configuration loaded from JSON, VOLLEY_* env vars and defaults.
// ABOUTME: Resolves the data directory and opens the SQLite store from settings.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/volley/internal/storage"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. VOLLEY_DATA_DIR or
// VOLLEY_REPORT_WINDOW_DAYS.
const EnvPrefix = "VOLLEY"

// Config stores volley tool configuration.
type Config struct {
	// DataDir is the directory holding volley.db. Supports ~ expansion.
	// Defaults to ~/.local/share/volley.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`

	// SeedDemo loads the demo roster and sessions into a newly created store.
	SeedDemo bool `json:"seed_demo" mapstructure:"seed_demo"`

	Report ReportConfig `json:"report" mapstructure:"report"`
}

// ReportConfig holds report thresholds.
type ReportConfig struct {
	WindowDays int `json:"window_days" mapstructure:"window_days"`
	MinSample  int `json:"min_sample" mapstructure:"min_sample"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("seed_demo", true)
	v.SetDefault("report.window_days", 28)
	v.SetDefault("report.min_sample", 30)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "volley.db")
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens (and on first use creates) the configured store.
func (c *Config) OpenStorage(logger *log.Logger) (*storage.DB, error) {
	var opts []storage.Option
	if !c.SeedDemo {
		opts = append(opts, storage.WithoutSeed())
	}
	return storage.Open(c.DBPath(), logger, opts...)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "volley", "config.json")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path. A missing file yields the defaults;
// environment variables override both.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Report.WindowDays < 0 || cfg.Report.MinSample < 0 {
		return nil, fmt.Errorf("report thresholds must not be negative")
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
