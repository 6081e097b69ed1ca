package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/99designs/keyring"
)

// KeyringStore implements the Store interface using the OS keyring.
// Each credential is one keyring item whose data is the JSON record.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the OS keyring. fileDir is used by the encrypted
// file backend on platforms without a native keyring.
// Returns an error if the keyring is unavailable on this platform.
func NewKeyringStore(fileDir string) (*KeyringStore, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true, // macOS: don't prompt every access
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.TerminalPrompt,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	return NewKeyringStoreWith(ring), nil
}

// NewKeyringStoreWith wraps an already opened keyring.
func NewKeyringStoreWith(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// Put stores a record in the keyring.
func (s *KeyringStore) Put(secret string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	item := keyring.Item{
		Key:         secret,
		Data:        data,
		Label:       "otpv: " + rec.Description,
		Description: "one-time password secret",
	}
	if err := s.ring.Set(item); err != nil {
		return fmt.Errorf("keyring set failed: %w", err)
	}
	return nil
}

// Get retrieves a record by secret from the keyring.
func (s *KeyringStore) Get(secret string) (Record, error) {
	item, err := s.ring.Get(secret)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("keyring get failed: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(item.Data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to parse keyring record: %w", err)
	}
	return rec, nil
}

// Delete removes a record from the keyring. Missing keys are ignored.
func (s *KeyringStore) Delete(secret string) error {
	if err := s.ring.Remove(secret); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}

// OrderedKeys returns all keys stored in the keyring, sorted.
func (s *KeyringStore) OrderedKeys() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("keyring list failed: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; keyring backends hold no open handles.
func (s *KeyringStore) Close() error {
	return nil
}

var _ Store = (*KeyringStore)(nil)
