package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "notedash"

// GetAppDataDir returns the per-user data directory for the current OS.
func GetAppDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return "", fmt.Errorf("neither LOCALAPPDATA nor APPDATA environment variables are set")
	case "linux":
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			return filepath.Join(xdgDataHome, appName), nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "linux":
		return filepath.Join(homeDir, ".local", "share", appName), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appName), nil
	}
	return filepath.Join(homeDir, "."+appName), nil
}
