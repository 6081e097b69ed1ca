package config

import (
	"fmt"
	"sort"
)

// DefaultBackend is used when no store is configured
const DefaultBackend = "file"

// BackendConfig describes a credential store backend
type BackendConfig struct {
	Description string
	// Encryptable is true when a passphrase seals the stored data
	Encryptable bool
}

// Backends maps backend names to their descriptions
var Backends = map[string]BackendConfig{
	"file": {
		Description: "JSON vault file, optionally sealed with a passphrase",
		Encryptable: true,
	},
	"keyring": {
		Description: "OS keyring (Keychain, Secret Service, WinCred), falls back to file",
		Encryptable: false,
	},
}

// GetBackend returns the configuration for the named backend
func GetBackend(name string) (BackendConfig, error) {
	cfg, ok := Backends[name]
	if !ok {
		return BackendConfig{}, fmt.Errorf("unknown store backend: %s", name)
	}
	return cfg, nil
}

// ValidBackends returns a sorted list of backend names
func ValidBackends() []string {
	names := make([]string, 0, len(Backends))
	for name := range Backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
