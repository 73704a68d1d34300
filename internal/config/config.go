// Package config loads clocking configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"clocking/internal/views"
)

// Environment variables override the config file.
const (
	FileVar = "CLOCKING_FILE"
	AddrVar = "CLOCKING_ADDR"
)

// Config is the root configuration, loaded from
// $XDG_CONFIG_HOME/clocking/config.yaml (default ~/.config/clocking/config.yaml).
type Config struct {
	// File is the SQLite database location; ":memory:" opens an
	// ephemeral store.
	File string `yaml:"file"`

	Server ServerConfig `yaml:"server"`
	Window WindowConfig `yaml:"window"`
}

// ServerConfig holds the HTTP server address.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// WindowConfig is the local working window used for idle-gap synthesis in
// distribution reports, as "HH:MM" strings.
type WindowConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8000"},
		Window: WindowConfig{Start: "08:00", End: "21:00"},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "clocking", "config.yaml"), nil
}

// Load reads the config file if present, applies defaults for missing
// fields, and then applies environment overrides.
func Load() (Config, error) {
	cfg := defaultConfig()

	path, err := Path()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if file := os.Getenv(FileVar); file != "" {
		cfg.File = file
	}
	if addr := os.Getenv(AddrVar); addr != "" {
		cfg.Server.Addr = addr
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultConfig().Server.Addr
	}
	if cfg.Window.Start == "" {
		cfg.Window.Start = defaultConfig().Window.Start
	}
	if cfg.Window.End == "" {
		cfg.Window.End = defaultConfig().Window.End
	}
	return cfg, nil
}

// ParseWindow converts the HH:MM window bounds to a views.Window.
func (c Config) ParseWindow() (views.Window, error) {
	start, err := parseClock(c.Window.Start)
	if err != nil {
		return views.Window{}, fmt.Errorf("window.start: %w", err)
	}
	end, err := parseClock(c.Window.End)
	if err != nil {
		return views.Window{}, fmt.Errorf("window.end: %w", err)
	}
	return views.Window{Start: start, End: end}, nil
}

func parseClock(value string) (views.Clock, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return views.Clock{}, fmt.Errorf("expected HH:MM, got %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return views.Clock{}, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return views.Clock{}, fmt.Errorf("invalid minute in %q", value)
	}
	return views.Clock{Hour: hour, Minute: minute}, nil
}
