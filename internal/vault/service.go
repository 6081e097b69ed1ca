// Package vault implements the operator-facing credential operations on
// top of a secrets.Store.
//
// Credentials are addressed by a 1-based index: the rank of their secret
// among all stored secrets in ascending order. The index is derived on
// every call and is therefore not stable across mutations; deleting entry
// 1 moves entry 2 into slot 1.
package vault

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/semmy-space/otpv/internal/otp"
	"github.com/semmy-space/otpv/internal/secrets"
)

// ErrInvalidIndex is returned for index arguments that are not a number.
var ErrInvalidIndex = errors.New("invalid index")

// Service wraps a Store with the add, list, show and delete operations.
type Service struct {
	store secrets.Store
	log   *zap.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service over store.
func NewService(store secrets.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Added describes the result of an add operation.
type Added struct {
	Secret      string
	Description string
	OTPURI      string
	Replaced    bool
}

// Entry is one row of a listing.
type Entry struct {
	Index       int
	Description string
	Mode        otp.Mode
	Passcode    string // empty for HOTP credentials
	Remaining   int    // seconds left in the TOTP window
}

// Detail is everything known about one credential.
type Detail struct {
	Index       int
	Description string
	Secret      string
	OTPURI      string
	Credential  otp.Credential
}

// Deleted describes a removed credential.
type Deleted struct {
	Index       int
	Secret      string
	Description string
}

// ParseIndex parses a 1-based index argument. Range is checked by the
// operations themselves.
func ParseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIndex, s)
	}
	return n, nil
}

// AddBySecret stores a default TOTP credential (SHA1, 6 digits, 30s) for
// a Base32 secret. The description doubles as the URI label. The entry is
// keyed by the normalized secret text as entered, so "bbbb" is stored
// under BBBB even though its unused trailing bits are dropped on decode.
func (s *Service) AddBySecret(secret, description string) (Added, error) {
	raw, err := otp.DecodeBase32(secret)
	if err != nil {
		return Added{}, err
	}
	description = strings.TrimSpace(description)
	return s.put(otp.NormalizeSecret(secret), otp.NewTOTP(raw, description), description)
}

// AddByURI stores the credential described by an otpauth:// URI under the
// canonical Base32 form of its secret. The description is
// "{issuer} {label}".
func (s *Service) AddByURI(uri string) (Added, error) {
	cred, err := otp.ParseURI(uri)
	if err != nil {
		return Added{}, err
	}
	description := strings.TrimSpace(cred.Issuer + " " + strings.TrimSpace(cred.Label))
	return s.put(cred.SecretText(), cred, description)
}

func (s *Service) put(key string, cred otp.Credential, description string) (Added, error) {
	if err := cred.Validate(); err != nil {
		return Added{}, err
	}

	_, err := s.store.Get(key)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		return Added{}, fmt.Errorf("failed to read credential: %w", err)
	}
	replaced := err == nil

	rec := secrets.Record{
		OTPURI:      cred.URI(),
		Description: description,
	}
	if err := s.store.Put(key, rec); err != nil {
		return Added{}, fmt.Errorf("failed to store credential: %w", err)
	}

	s.log.Debug("stored credential",
		zap.String("mode", string(cred.Mode)),
		zap.String("description", description),
		zap.Bool("replaced", replaced),
	)

	return Added{
		Secret:      key,
		Description: description,
		OTPURI:      rec.OTPURI,
		Replaced:    replaced,
	}, nil
}

// keyAt resolves a 1-based index against the current key order.
func (s *Service) keyAt(n int) (string, bool, error) {
	keys, err := s.store.OrderedKeys()
	if err != nil {
		return "", false, fmt.Errorf("failed to list credentials: %w", err)
	}
	if n < 1 || n > len(keys) {
		return "", false, nil
	}
	return keys[n-1], true, nil
}

// DeleteByIndex removes the credential at index n. An out-of-range index
// is not an error: nothing is deleted and ok is false.
func (s *Service) DeleteByIndex(n int) (d Deleted, ok bool, err error) {
	key, ok, err := s.keyAt(n)
	if err != nil || !ok {
		return Deleted{}, false, err
	}

	rec, err := s.store.Get(key)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		return Deleted{}, false, fmt.Errorf("failed to read credential: %w", err)
	}
	if err := s.store.Delete(key); err != nil {
		return Deleted{}, false, fmt.Errorf("failed to delete credential: %w", err)
	}

	s.log.Debug("deleted credential", zap.Int("index", n), zap.String("description", rec.Description))
	return Deleted{Index: n, Secret: key, Description: rec.Description}, true, nil
}

// ShowByIndex returns the credential at index n, or secrets.ErrNotFound.
func (s *Service) ShowByIndex(n int) (Detail, error) {
	key, rec, cred, err := s.lookup(n)
	if err != nil {
		return Detail{}, err
	}

	return Detail{
		Index:       n,
		Description: rec.Description,
		Secret:      key,
		OTPURI:      rec.OTPURI,
		Credential:  cred,
	}, nil
}

// CodeByIndex returns the current passcode for the TOTP credential at n.
func (s *Service) CodeByIndex(n int) (Entry, error) {
	_, rec, cred, err := s.lookup(n)
	if err != nil {
		return Entry{}, err
	}
	return s.entry(n, rec, cred, s.now())
}

func (s *Service) lookup(n int) (string, secrets.Record, otp.Credential, error) {
	key, ok, err := s.keyAt(n)
	if err != nil {
		return "", secrets.Record{}, otp.Credential{}, err
	}
	if !ok {
		return "", secrets.Record{}, otp.Credential{}, fmt.Errorf("%w: no credential at index %d", secrets.ErrNotFound, n)
	}

	rec, err := s.store.Get(key)
	if err != nil {
		return "", secrets.Record{}, otp.Credential{}, fmt.Errorf("failed to read credential %d: %w", n, err)
	}
	cred, err := otp.ParseURI(rec.OTPURI)
	if err != nil {
		return "", secrets.Record{}, otp.Credential{}, fmt.Errorf("credential %d: %w", n, err)
	}
	return key, rec, cred, nil
}

// ListWithCodes returns every credential in index order with the passcode
// valid now. HOTP credentials are listed without a passcode.
func (s *Service) ListWithCodes() ([]Entry, error) {
	keys, err := s.store.OrderedKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	now := s.now()
	entries := make([]Entry, 0, len(keys))
	for i, key := range keys {
		rec, err := s.store.Get(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read credential %d: %w", i+1, err)
		}
		cred, err := otp.ParseURI(rec.OTPURI)
		if err != nil {
			return nil, fmt.Errorf("credential %d: %w", i+1, err)
		}

		e, err := s.entry(i+1, rec, cred, now)
		if err != nil && !errors.Is(err, otp.ErrUnsupportedMode) {
			return nil, err
		}
		entries = append(entries, e)
	}

	s.log.Debug("listed credentials", zap.Int("count", len(entries)), zap.Time("at", now))
	return entries, nil
}

// entry builds a listing row. For HOTP credentials the row is returned
// together with otp.ErrUnsupportedMode.
func (s *Service) entry(n int, rec secrets.Record, cred otp.Credential, now time.Time) (Entry, error) {
	e := Entry{
		Index:       n,
		Description: rec.Description,
		Mode:        cred.Mode,
	}

	code, err := cred.Code(now)
	if err != nil {
		return e, fmt.Errorf("credential %d: %w", n, err)
	}
	e.Passcode = code
	e.Remaining = otp.Remaining(now.Unix(), cred.Period)
	return e, nil
}
