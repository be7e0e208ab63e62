package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// ConfigDir returns the XDG-compliant config directory for padlock,
// typically ~/.config/padlock/ on Linux.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "padlock")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}

// DataDir returns the XDG-compliant data directory for padlock,
// typically ~/.local/share/padlock/ on Linux.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "padlock")
}
