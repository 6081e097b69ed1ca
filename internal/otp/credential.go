package otp

import (
	"fmt"
	"time"
)

// Mode selects how the moving factor is derived.
type Mode string

const (
	ModeTOTP Mode = "totp"
	ModeHOTP Mode = "hotp"
)

const (
	DefaultAlgorithm = SHA1
	DefaultDigits    = 6
	DefaultPeriod    = 30
)

// Credential holds everything needed to derive passcodes for one account.
type Credential struct {
	Secret    []byte
	Algorithm Algorithm
	Digits    int
	Mode      Mode
	Period    int    // seconds, TOTP only
	Counter   uint64 // HOTP only
	Issuer    string
	Label     string
}

// NewTOTP returns a credential with the parameters most authenticator
// apps assume: SHA1, 6 digits, 30 second period.
func NewTOTP(secret []byte, label string) Credential {
	return Credential{
		Secret:    secret,
		Algorithm: DefaultAlgorithm,
		Digits:    DefaultDigits,
		Mode:      ModeTOTP,
		Period:    DefaultPeriod,
		Label:     label,
	}
}

// SecretText returns the canonical Base32 form of the secret.
func (c Credential) SecretText() string {
	return EncodeBase32(c.Secret)
}

// Validate checks the parameters a passcode depends on.
func (c Credential) Validate() error {
	if len(c.Secret) == 0 {
		return fmt.Errorf("%w: empty secret", ErrInvalidEncoding)
	}
	if _, err := c.Algorithm.hash(); err != nil {
		return err
	}
	if err := ValidateDigits(c.Digits); err != nil {
		return err
	}
	switch c.Mode {
	case ModeTOTP:
		if c.Period <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidPeriod, c.Period)
		}
		if c.Counter != 0 {
			return fmt.Errorf("%w: counter %d set on a TOTP credential", ErrInvalidCounter, c.Counter)
		}
	case ModeHOTP:
		if c.Period != 0 {
			return fmt.Errorf("%w: period %d set on a HOTP credential", ErrInvalidPeriod, c.Period)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, string(c.Mode))
	}
	return nil
}

// Code returns the TOTP passcode valid at now. HOTP credentials return
// ErrUnsupportedMode because generating one would have to advance the
// stored counter.
func (c Credential) Code(now time.Time) (string, error) {
	if c.Mode != ModeTOTP {
		return "", fmt.Errorf("%w: %s has no time-based code", ErrUnsupportedMode, c.Mode)
	}
	return TOTP(c.Secret, now.Unix(), c.Period, c.Digits, c.Algorithm)
}
