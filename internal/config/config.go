package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvWorkbook = "WIPFLAGS_WORKBOOK"
	EnvProject  = "WIPFLAGS_PROJECT"
	EnvKits     = "WIPFLAGS_KITS"
	EnvLogLevel = "WIPFLAGS_LOG_LEVEL"
	EnvAddr     = "WIPFLAGS_ADDR"
)

// Config holds all wipflags configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Layout     LayoutConfig     `toml:"layout"`
	Rules      RulesConfig      `toml:"rules"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Server     ServerConfig     `toml:"server"`
}

// GeneralConfig holds the default workbook and project.
type GeneralConfig struct {
	Workbook string   `toml:"workbook,omitempty"`
	Project  string   `toml:"project,omitempty"`
	Kits     *float64 `toml:"kits,omitempty"`
	LogLevel string   `toml:"log_level,omitempty"`
}

// LayoutConfig locates the actuals table inside the workbook.
type LayoutConfig struct {
	ActualsSheet string `toml:"actuals_sheet"`
	SkipRows     int    `toml:"skip_rows"`
}

// RulesConfig points at a YAML classification rules file. Empty means the
// built-in rules.
type RulesConfig struct {
	File string `toml:"file,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// ServerConfig holds watch server settings.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	PollIntervalSec int    `toml:"poll_interval_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			ActualsSheet: "Revenue Actuals",
			SkipRows:     33,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8787",
			PollIntervalSec: 15,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wipflags")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "wipflags")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides (including a .env file in the working directory)
// are applied on top.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	_ = godotenv.Load()
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any WIPFLAGS_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvWorkbook)); v != "" {
		cfg.General.Workbook = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvProject)); v != "" {
		cfg.General.Project = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.General.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvKits)); v != "" {
		kits, err := strconv.ParseFloat(v, 64)
		if err != nil || kits < 0 {
			return fmt.Errorf("%s: invalid kit count %q", EnvKits, v)
		}
		cfg.General.Kits = &kits
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
