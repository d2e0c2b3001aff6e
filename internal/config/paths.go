package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DataDir returns the nudge data directory, ~/.nudge.
func DataDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".nudge")
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return ".nudge"
	}
	return filepath.Join(home, ".nudge")
}

// DBPath returns the action-run history database path.
func DBPath() string {
	return filepath.Join(DataDir(), "nudge.db")
}

// LogPath returns the debug log file path.
func LogPath() string {
	return filepath.Join(DataDir(), "nudge.log")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
