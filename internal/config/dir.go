package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the quaderno configuration directory.
//
// Resolution:
//   - $QUADERNO_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/quaderno if set (respects XDG on any platform)
//   - %AppData%/quaderno on Windows
//   - ~/.config/quaderno on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("QUADERNO_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quaderno")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "quaderno")
		}
	}

	// macOS and Linux: ~/.config/quaderno
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "quaderno")
}
