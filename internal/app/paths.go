package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName     = "mergedcal"
	dbFileName     = "mergedcal.db"
	configFileName = "mergedcal"
)

func DefaultDBPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFileName), nil
}

// ConfigDir is the per-user directory holding the database and an optional
// mergedcal.yaml.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// ConfigFileName is the viper config name searched for in ConfigDir and the
// working directory.
func ConfigFileName() string {
	return configFileName
}

func EnsureDBDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}
