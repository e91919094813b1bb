package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings is the optional user configuration file:
//
//	[markers]
//	homebrew = ["/custom/brew/"]
//
//	disabled = ["yarn"]
//
// markers adds path substrings to a manager's built-in detection markers,
// disabled skips managers during classification entirely.
type Settings struct {
	Markers  map[string][]string `toml:"markers"`
	Disabled []string            `toml:"disabled"`
}

// LoadSettings reads <UserConfigDir>/update-bin/config.toml. A missing file
// is not an error, it just yields zero settings.
func LoadSettings() (Settings, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Settings{}, nil
	}
	return loadSettingsFile(filepath.Join(dir, AppName, "config.toml"))
}

func loadSettingsFile(path string) (Settings, error) {
	var s Settings
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}
