package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"golang.org/x/crypto/scrypt"

	"github.com/semmy-space/otpv/internal/otp"
)

const (
	fileVersion = 1
	kdfScrypt   = "scrypt"

	defaultLockTimeout = 5 * time.Second
)

var (
	// ErrPassphraseRequired is returned when a sealed vault is opened without a passphrase.
	ErrPassphraseRequired = errors.New("vault is encrypted: passphrase required")
	// ErrDecrypt is returned when a sealed vault cannot be opened with the given passphrase.
	ErrDecrypt = errors.New("failed to decrypt vault (wrong passphrase?)")

	// ErrLocked is returned when the vault lock stays held past the lock timeout.
	ErrLocked = errors.New("vault lock held by another process")
)

// vaultFile is the on-disk layout. Exactly one of Entries and Sealed is
// used, depending on whether a passphrase is configured.
type vaultFile struct {
	Version int               `json:"version"`
	Entries map[string]Record `json:"entries,omitempty"`
	Sealed  *sealedEntries    `json:"sealed,omitempty"`
}

// sealedEntries holds the entries map encrypted with AES-256-GCM under a
// scrypt-derived key.
type sealedEntries struct {
	KDF   string `json:"kdf"`
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

// legacyRecord is the record shape of vaults written before the
// versioned format, stored as a JSON string per key.
type legacyRecord struct {
	OTPURI string `json:"otpUri"`
	Desc   string `json:"desc"`
}

// FileStore implements Store on top of a single JSON file.
// Every operation re-reads the file under a flock lock; mutations write a
// temp file, fsync it and rename it over the vault before returning.
type FileStore struct {
	path        string
	lockPath    string
	passphrase  []byte
	lockTimeout time.Duration
	log         *zap.Logger

	// cached scrypt output for salt
	salt []byte
	key  []byte
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithPassphrase seals the vault contents with a key derived from passphrase.
func WithPassphrase(passphrase string) FileOption {
	return func(s *FileStore) {
		if passphrase != "" {
			s.passphrase = []byte(passphrase)
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.Logger) FileOption {
	return func(s *FileStore) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLockTimeout bounds how long an operation waits for the vault lock.
// A non-positive d keeps the default.
func WithLockTimeout(d time.Duration) FileOption {
	return func(s *FileStore) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// OpenFileStore opens the vault at path, creating its directory if needed.
// The file itself is created on the first write. The existing contents are
// read once so that a corrupt vault or a wrong passphrase fails early.
func OpenFileStore(path string, opts ...FileOption) (*FileStore, error) {
	s := &FileStore{
		path:        path,
		lockPath:    path + ".lock",
		lockTimeout: defaultLockTimeout,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}

	entries, err := s.load(false)
	if err != nil {
		return nil, err
	}

	s.log.Debug("opened vault file",
		zap.String("path", path),
		zap.Int("entries", len(entries)),
		zap.Bool("sealed", len(s.passphrase) > 0),
	)
	return s, nil
}

// Path returns the vault file location.
func (s *FileStore) Path() string {
	return s.path
}

// Put stores rec under secret, replacing any previous record.
func (s *FileStore) Put(secret string, rec Record) error {
	return s.mutate(func(entries map[string]Record) bool {
		entries[secret] = rec
		return true
	})
}

// Get retrieves the record stored under secret.
func (s *FileStore) Get(secret string) (Record, error) {
	entries, err := s.load(false)
	if err != nil {
		return Record{}, err
	}

	rec, ok := entries[secret]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Delete removes secret from the vault. Absent keys are ignored.
func (s *FileStore) Delete(secret string) error {
	return s.mutate(func(entries map[string]Record) bool {
		if _, ok := entries[secret]; !ok {
			return false
		}
		delete(entries, secret)
		return true
	})
}

// OrderedKeys returns all keys in ascending order.
func (s *FileStore) OrderedKeys() ([]string, error) {
	entries, err := s.load(false)
	if err != nil {
		return nil, err
	}
	return sortedKeys(entries), nil
}

// Close is a no-op; every write is already on disk.
func (s *FileStore) Close() error {
	return nil
}

// load reads the vault under a shared lock, or under the exclusive lock
// the caller already holds when locked is true.
func (s *FileStore) load(locked bool) (map[string]Record, error) {
	if !locked {
		lock, err := s.lock(false)
		if err != nil {
			return nil, err
		}
		defer lock.Unlock()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]Record), nil
		}
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}

	return s.decode(data)
}

// mutate runs fn against the current entries under the exclusive lock and
// writes the result back when fn reports a change.
func (s *FileStore) mutate(fn func(entries map[string]Record) bool) error {
	lock, err := s.lock(true)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	entries, err := s.load(true)
	if err != nil {
		return err
	}

	if !fn(entries) {
		return nil
	}

	data, err := s.encode(entries)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}

	s.log.Debug("flushed vault file", zap.String("path", s.path), zap.Int("entries", len(entries)))
	return nil
}

// lock acquires the vault lock file, retrying with exponential backoff
// while another process holds it.
func (s *FileStore) lock(exclusive bool) (*flock.Flock, error) {
	fl := flock.New(s.lockPath)
	try := fl.TryRLock
	if exclusive {
		try = fl.TryLock
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = s.lockTimeout

	op := func() error {
		ok, err := try()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return ErrLocked
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		s.log.Debug("waiting for vault lock", zap.String("lock", s.lockPath), zap.Duration("retry_in", wait))
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, fmt.Errorf("failed to acquire vault lock: %w", err)
	}
	return fl, nil
}

func (s *FileStore) decode(data []byte) (map[string]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]Record), nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse vault file: %w", err)
	}
	var version int
	if raw, ok := fields["version"]; !ok || json.Unmarshal(raw, &version) != nil {
		return decodeLegacy(fields)
	}

	var vf vaultFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("failed to parse vault file: %w", err)
	}
	if vf.Version != fileVersion {
		return nil, fmt.Errorf("unsupported vault file version %d", vf.Version)
	}

	if vf.Sealed != nil {
		return s.open(vf.Sealed)
	}
	if vf.Entries == nil {
		vf.Entries = make(map[string]Record)
	}
	return vf.Entries, nil
}

// decodeLegacy reads the flat secret -> stringified {otpUri, desc} layout.
// Keys are normalized and URIs re-serialized in canonical form so that a
// migrated vault matches what add would have written. A URI that does not
// parse is kept as is and reported when the entry is used.
func decodeLegacy(fields map[string]json.RawMessage) (map[string]Record, error) {
	entries := make(map[string]Record, len(fields))
	for _, key := range sortedKeys(fields) {
		var encoded string
		if err := json.Unmarshal(fields[key], &encoded); err != nil {
			return nil, fmt.Errorf("failed to parse legacy entry %q: %w", key, err)
		}
		var rec legacyRecord
		if err := json.Unmarshal([]byte(encoded), &rec); err != nil {
			return nil, fmt.Errorf("failed to parse legacy entry %q: %w", key, err)
		}

		uri := rec.OTPURI
		if cred, err := otp.ParseURI(uri); err == nil {
			uri = cred.URI()
		}
		entries[otp.NormalizeSecret(key)] = Record{OTPURI: uri, Description: rec.Desc}
	}
	return entries, nil
}

func (s *FileStore) encode(entries map[string]Record) ([]byte, error) {
	vf := vaultFile{Version: fileVersion}

	if len(s.passphrase) > 0 {
		plaintext, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize vault: %w", err)
		}
		sealed, err := s.seal(plaintext)
		if err != nil {
			return nil, err
		}
		vf.Sealed = sealed
	} else {
		vf.Entries = entries
	}

	data, err := json.MarshalIndent(vf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vault: %w", err)
	}
	return append(data, '\n'), nil
}

// deriveKey returns the AES key for salt, reusing the last derivation.
func (s *FileStore) deriveKey(salt []byte) ([]byte, error) {
	if s.key != nil && bytes.Equal(s.salt, salt) {
		return s.key, nil
	}
	key, err := scrypt.Key(s.passphrase, salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vault key: %w", err)
	}
	s.salt, s.key = salt, key
	return key, nil
}

func (s *FileStore) seal(plaintext []byte) (*sealedEntries, error) {
	salt := s.salt
	if salt == nil {
		salt = make([]byte, 16)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
	}
	key, err := s.deriveKey(salt)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &sealedEntries{
		KDF:   kdfScrypt,
		Salt:  salt,
		Nonce: nonce,
		Data:  gcm.Seal(nil, nonce, plaintext, nil),
	}, nil
}

func (s *FileStore) open(sealed *sealedEntries) (map[string]Record, error) {
	if len(s.passphrase) == 0 {
		return nil, ErrPassphraseRequired
	}
	if sealed.KDF != kdfScrypt {
		return nil, fmt.Errorf("unsupported vault kdf %q", sealed.KDF)
	}

	key, err := s.deriveKey(sealed.Salt)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed.Nonce) != gcm.NonceSize() {
		return nil, ErrDecrypt
	}

	plaintext, err := gcm.Open(nil, sealed.Nonce, sealed.Data, nil)
	if err != nil {
		return nil, ErrDecrypt
	}

	entries := make(map[string]Record)
	if err := json.Unmarshal(plaintext, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse vault entries: %w", err)
	}
	return entries, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// writeFileAtomic replaces path with data via a synced temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".vault-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp vault file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write vault file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync vault file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close vault file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("failed to set vault permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace vault file: %w", err)
	}

	// Persist the rename itself.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		d.Close()
	}
	return nil
}
