package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// ConfigDir returns the XDG-compliant config directory for otpv
// Typically ~/.config/otpv/ on Linux
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "otpv")
}

// ConfigPath returns the full path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}

// DataDir returns the XDG-compliant data directory for otpv
// Typically ~/.local/share/otpv/ on Linux
func DataDir() string {
	return filepath.Join(xdg.DataHome, "otpv")
}

// DefaultVaultPath is where the file store keeps credentials
func DefaultVaultPath() string {
	return filepath.Join(DataDir(), "vault.json")
}
