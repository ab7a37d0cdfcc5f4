// Package config loads the tasktree configuration files and resolves which
// project and server address a command should use.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

const (
	// GlobalConfigDir is the name of the global config directory in home
	GlobalConfigDir = ".tasktree"

	// GlobalConfigFileName is the name of the global config file
	GlobalConfigFileName = "config.toml"

	// DefaultDataDirName is the directory under GlobalConfigDir holding project databases
	DefaultDataDirName = "projects"

	// DefaultServerHost is the default server host
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default server port
	DefaultServerPort = 7433
)

// GlobalConfig is the user-level configuration from ~/.tasktree/config.toml.
type GlobalConfig struct {
	DataDir       string       `toml:"data_dir,omitempty"`
	ActiveProject string       `toml:"active_project,omitempty"`
	Server        ServerConfig `toml:"server,omitempty"`
}

// ServerConfig is the [server] section.
type ServerConfig struct {
	Host string `toml:"host,omitempty"`
	Port int    `toml:"port,omitempty"`
}

// GlobalConfigPath returns the global config file location for home.
func GlobalConfigPath(home string) string {
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFileName)
}

// LoadGlobalConfig reads the global config below home.
// A missing file yields an empty config, not an error.
func LoadGlobalConfig(fs afero.Fs, home string) (*GlobalConfig, error) {
	path := GlobalConfigPath(home)
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return &GlobalConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}

	var cfg GlobalConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse global config %s: %w", path, err)
	}
	if cfg.Server.Port != 0 {
		if err := validatePort(cfg.Server.Port); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// SaveGlobalConfig writes cfg to the global config file, creating its directory.
func SaveGlobalConfig(fs afero.Fs, home string, cfg *GlobalConfig) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode global config: %w", err)
	}

	path := GlobalConfigPath(home)
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write global config: %w", err)
	}
	return nil
}

// SetActiveProject records project as the active project, keeping the rest
// of the global config intact.
func SetActiveProject(fs afero.Fs, home, project string) error {
	cfg, err := LoadGlobalConfig(fs, home)
	if err != nil {
		return err
	}
	cfg.ActiveProject = project
	return SaveGlobalConfig(fs, home, cfg)
}

// ResolveDataDir returns the configured data directory with a leading ~
// expanded, or the default below home.
func (c *GlobalConfig) ResolveDataDir(home string) string {
	switch {
	case c.DataDir == "":
		return filepath.Join(home, GlobalConfigDir, DefaultDataDirName)
	case c.DataDir == "~":
		return home
	case strings.HasPrefix(c.DataDir, "~/"):
		return filepath.Join(home, c.DataDir[2:])
	default:
		return c.DataDir
	}
}

// validatePort checks if the port is in the valid range (1-65535)
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}
