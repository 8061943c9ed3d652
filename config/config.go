// Package config loads the freelance engine's configuration from a TOML file,
// environment variables and (in the binaries) command-line flags, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/income"
)

// Config holds all freelance engine configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Defaults DefaultsConfig `toml:"defaults"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port                int      `toml:"port"`
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int      `toml:"idle_timeout_seconds"`
	CORSOrigins         []string `toml:"cors_origins"`
}

// StorageConfig holds the database location.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// DefaultsConfig seeds the settings row when the store has none.
type DefaultsConfig struct {
	MonthlyTarget float64  `toml:"monthly_target"`
	WorkDays      []string `toml:"work_days"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
			IdleTimeoutSeconds:  60,
			CORSOrigins:         []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Storage: StorageConfig{
			DBPath: "freelance.db",
		},
		Defaults: DefaultsConfig{
			MonthlyTarget: 8000,
			WorkDays:      []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "freelance")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "freelance")
}

// ConfigPath returns the config file path. FREELANCE_CONFIG wins over the
// XDG location.
func ConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("FREELANCE_CONFIG")); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at ConfigPath and applies environment
// overrides, returning defaults if the file doesn't exist.
func Load() (Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if db := strings.TrimSpace(os.Getenv("FREELANCE_DB")); db != "" {
		cfg.Storage.DBPath = db
	}
	if port := strings.TrimSpace(os.Getenv("FREELANCE_PORT")); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return fmt.Errorf("invalid FREELANCE_PORT %q", port)
		}
		cfg.Server.Port = n
	}
	return nil
}

// Save writes the config to path, creating its directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

// Settings converts the [defaults] section into engine settings.
func (d DefaultsConfig) Settings() (income.Settings, error) {
	week, err := income.ParseWorkWeek(d.WorkDays)
	if err != nil {
		return income.Settings{}, fmt.Errorf("defaults.work_days: %w", err)
	}
	s := income.Settings{
		MonthlyTarget: decimal.NewFromFloat(d.MonthlyTarget),
		WorkDays:      week,
	}
	if err := income.ValidateSettings(s); err != nil {
		return income.Settings{}, fmt.Errorf("defaults: %w", err)
	}
	return s, nil
}
