package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName   = ".nutriboard"
	sessionFileName = "session.json"
	logFileName     = "nutriboard.log"
)

// GetConfigDir returns the nutriboard configuration directory.
// NUTRIBOARD_HOME takes precedence over ~/.nutriboard.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// EnsureConfigDir creates the configuration directory if it does not exist.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// DefaultConfigPath returns the path of config.yaml inside the config directory.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultConfigName), nil
}

// DefaultSessionPath returns where the 2FA session token is stored.
func DefaultSessionPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// DefaultLogPath returns the log file used when logging.file is "default".
func DefaultLogPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", logFileName), nil
}

// EnsureLogDir creates the parent directory of the configured log file.
// It does nothing when file logging is off.
func (c *Config) EnsureLogDir() error {
	if c.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
