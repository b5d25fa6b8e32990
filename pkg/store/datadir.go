package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir returns the OS-appropriate default data directory for
// chronos.
//
//   - macOS:   ~/Library/Application Support/chronos
//   - Linux:   $XDG_DATA_HOME/chronos (fallback ~/.local/share/chronos)
//   - Windows: %LOCALAPPDATA%\chronos (fallback %APPDATA%\chronos)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "chronos")
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "chronos")
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, "chronos")
		}
		return filepath.Join(home, "chronos")
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "chronos")
		}
		return filepath.Join(home, ".local", "share", "chronos")
	}
}
