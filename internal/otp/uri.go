package otp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const uriScheme = "otpauth"

// ParseURI parses an otpauth:// URI as described by the Google
// Authenticator key URI format.
func ParseURI(raw string) (Credential, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %w", ErrMalformedURI, err)
	}
	if !strings.EqualFold(u.Scheme, uriScheme) {
		return Credential{}, fmt.Errorf("%w: scheme %q", ErrMalformedURI, u.Scheme)
	}

	c := Credential{
		Algorithm: DefaultAlgorithm,
		Digits:    DefaultDigits,
	}

	switch m := Mode(strings.ToLower(u.Host)); m {
	case ModeTOTP, ModeHOTP:
		c.Mode = m
	default:
		return Credential{}, fmt.Errorf("%w: type %q", ErrMalformedURI, u.Host)
	}

	c.Issuer, c.Label, err = splitLabel(u.EscapedPath())
	if err != nil {
		return Credential{}, err
	}

	q := u.Query()

	secret := q.Get("secret")
	if secret == "" {
		return Credential{}, fmt.Errorf("%w: missing secret", ErrMalformedURI)
	}
	if c.Secret, err = DecodeBase32(secret); err != nil {
		return Credential{}, fmt.Errorf("%w: secret: %w", ErrMalformedURI, err)
	}

	if v := q.Get("issuer"); v != "" {
		c.Issuer = v
	}

	if v := q.Get("algorithm"); v != "" {
		if c.Algorithm, err = ParseAlgorithm(v); err != nil {
			return Credential{}, fmt.Errorf("%w: %w", ErrMalformedURI, err)
		}
	}

	if v := q.Get("digits"); v != "" {
		if c.Digits, err = strconv.Atoi(v); err != nil {
			return Credential{}, fmt.Errorf("%w: %w: %q", ErrMalformedURI, ErrInvalidDigitCount, v)
		}
		if err := ValidateDigits(c.Digits); err != nil {
			return Credential{}, fmt.Errorf("%w: %w", ErrMalformedURI, err)
		}
	}

	switch c.Mode {
	case ModeTOTP:
		c.Period = DefaultPeriod
		if v := q.Get("period"); v != "" {
			if c.Period, err = strconv.Atoi(v); err != nil || c.Period <= 0 {
				return Credential{}, fmt.Errorf("%w: %w: %q", ErrMalformedURI, ErrInvalidPeriod, v)
			}
		}
	case ModeHOTP:
		if v := q.Get("counter"); v != "" {
			if c.Counter, err = strconv.ParseUint(v, 10, 64); err != nil {
				return Credential{}, fmt.Errorf("%w: counter %q", ErrMalformedURI, v)
			}
		}
	}

	return c, nil
}

// splitLabel splits an escaped path into issuer and account label. Only
// a literal colon separates them, so an escaped %3A stays in the label.
// The label is kept verbatim, including any leading spaces.
func splitLabel(escaped string) (issuer, label string, err error) {
	p := strings.TrimPrefix(escaped, "/")
	if i := strings.Index(p, ":"); i >= 0 {
		if issuer, err = url.PathUnescape(p[:i]); err != nil {
			return "", "", fmt.Errorf("%w: issuer: %w", ErrMalformedURI, err)
		}
		p = p[i+1:]
	}
	if label, err = url.PathUnescape(p); err != nil {
		return "", "", fmt.Errorf("%w: label: %w", ErrMalformedURI, err)
	}
	return issuer, label, nil
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), ":", "%3A")
}

// URI serializes c in canonical form. Parameter order is fixed, so
// serializing an unchanged credential always yields the same bytes.
func (c Credential) URI() string {
	mode := c.Mode
	if mode == "" {
		mode = ModeTOTP
	}
	alg := c.Algorithm
	if alg == "" {
		alg = DefaultAlgorithm
	}
	digits := c.Digits
	if digits == 0 {
		digits = DefaultDigits
	}

	var b strings.Builder
	b.WriteString(uriScheme + "://")
	b.WriteString(string(mode))
	b.WriteByte('/')
	if c.Issuer != "" {
		b.WriteString(escapeLabel(c.Issuer))
		b.WriteByte(':')
	}
	b.WriteString(escapeLabel(c.Label))

	b.WriteString("?secret=")
	b.WriteString(c.SecretText())
	if c.Issuer != "" {
		b.WriteString("&issuer=")
		b.WriteString(url.QueryEscape(c.Issuer))
	}
	b.WriteString("&algorithm=")
	b.WriteString(string(alg))
	b.WriteString("&digits=")
	b.WriteString(strconv.Itoa(digits))

	switch mode {
	case ModeHOTP:
		b.WriteString("&counter=")
		b.WriteString(strconv.FormatUint(c.Counter, 10))
	default:
		period := c.Period
		if period == 0 {
			period = DefaultPeriod
		}
		b.WriteString("&period=")
		b.WriteString(strconv.Itoa(period))
	}

	return b.String()
}
