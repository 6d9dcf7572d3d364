package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/nadavyigal/Running-coach--sub004/errors"
)

// DefaultUserConfigPath returns the path of the user-level config file.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, ".runcoach", "config.toml"), nil
}

// Persist writes the given config as TOML to path, creating parent
// directories as needed. An existing file is kept as a .back copy.
func Persist(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	if content, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".back", content, 0o644); err != nil {
			return errors.Wrap(err, "failed to back up existing config")
		}
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}
