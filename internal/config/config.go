package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const appName = "deb2pac"

// Config is the on-disk configuration. Absent keys keep the built-in
// defaults; CLI flags override anything set here.
type Config struct {
	OutputDir          string `toml:"output_dir"`
	IncludeScripts     bool   `toml:"include_scripts"`
	KeepWorkDir        bool   `toml:"keep_work_dir"`
	UsePkgfile         bool   `toml:"use_pkgfile"`
	ToolTimeoutSeconds int    `toml:"tool_timeout_seconds"`
	Quiet              bool   `toml:"quiet"`
	Verbose            bool   `toml:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir:          ".",
		IncludeScripts:     true,
		ToolTimeoutSeconds: 60,
	}
}

// Dir returns the configuration directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// Load reads config.toml from the configuration directory. A missing
// file is not an error.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(Dir(), "config.toml"))
}

// LoadFrom reads a specific configuration file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
