package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that relocate the config file and data directory.
const (
	EnvConfigPath = "ATTEST_CONFIG_PATH"
	EnvHome       = "ATTEST_HOME"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - ATTEST_CONFIG_PATH: config file location (default: ~/.config/attest.toml)
//   - ATTEST_HOME: base directory for attest data (default: ~/.local/share/attest)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

func getConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "attest.toml"), nil
}

func getBaseDir() (string, error) {
	if path := os.Getenv(EnvHome); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "attest"), nil
}
