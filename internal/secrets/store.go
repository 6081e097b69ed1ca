package secrets

import (
	"errors"
	"sort"
)

// Record is what the vault keeps for one credential.
type Record struct {
	OTPURI      string `json:"otp_uri"`
	Description string `json:"description"`
}

// Store is a persistent mapping from canonical Base32 secret to Record.
// Put and Delete are durable before they return.
type Store interface {
	Put(secret string, rec Record) error
	Get(secret string) (Record, error)
	// Delete is a no-op for absent keys.
	Delete(secret string) error
	// OrderedKeys returns every key in ascending lexicographic order.
	OrderedKeys() ([]string, error)
	Close() error
}

// ErrNotFound is returned when a key is not found in the store
var ErrNotFound = errors.New("credential not found")

// ServiceName is the service identifier for keyring storage
const ServiceName = "otpv"

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
