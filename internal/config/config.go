// Package config resolves the backend's configuration file and application
// directories.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "INVENTARIO_CONFIG"
	// appDirName is the directory name under XDG config/data homes.
	appDirName = "inventario"
)

// Config holds backend settings loaded from the config file. Zero values
// fall back to built-in defaults at the call site.
type Config struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir"`
	LogFile string `yaml:"log_file"`
}

// Load reads the config file if one can be found. A missing file is not an
// error; the zero Config is returned.
func Load() (Config, error) {
	path := FindConfigPath()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads and parses a config file at an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// FindConfigPath searches for the config file in priority order:
// 1. $INVENTARIO_CONFIG (explicit path)
// 2. $XDG_CONFIG_HOME/inventario/config.yaml
// 3. ~/.config/inventario/config.yaml
//
// Returns empty string if no config file is found.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, appDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", appDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// DataDir returns the absolute application data directory, creating it if
// absent. A non-empty override wins; otherwise $XDG_DATA_HOME/inventario,
// falling back to ~/.local/share/inventario.
func DataDir(override string) (string, error) {
	dir := override
	if dir == "" {
		if xdgHome := os.Getenv("XDG_DATA_HOME"); xdgHome != "" {
			dir = filepath.Join(xdgHome, appDirName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolving home directory: %w", err)
			}
			dir = filepath.Join(home, ".local", "share", appDirName)
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving data directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return abs, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
