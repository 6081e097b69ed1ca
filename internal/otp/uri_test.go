package otp

import (
	"testing"

	pqotp "github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := DecodeBase32(s)
	require.NoError(t, err)
	return b
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected Credential
	}{
		{
			name: "minimal totp",
			uri:  "otpauth://totp/alice?secret=JBSWY3DPEHPK3PXP",
			expected: Credential{
				Secret: mustDecode(t, "JBSWY3DPEHPK3PXP"), Algorithm: SHA1, Digits: 6,
				Mode: ModeTOTP, Period: 30, Label: "alice",
			},
		},
		{
			name: "issuer prefix and parameter",
			uri:  "otpauth://totp/ACME%20Co:john.doe@email.com?secret=HXDMVJECJJWSRB3HWIZR4IFUGFTMXBOZ&issuer=ACME%20Co&algorithm=SHA1&digits=6&period=30",
			expected: Credential{
				Secret: mustDecode(t, "HXDMVJECJJWSRB3HWIZR4IFUGFTMXBOZ"), Algorithm: SHA1, Digits: 6,
				Mode: ModeTOTP, Period: 30, Issuer: "ACME Co", Label: "john.doe@email.com",
			},
		},
		{
			name: "issuer parameter overrides prefix",
			uri:  "otpauth://totp/Old:bob?secret=JBSWY3DPEHPK3PXP&issuer=New",
			expected: Credential{
				Secret: mustDecode(t, "JBSWY3DPEHPK3PXP"), Algorithm: SHA1, Digits: 6,
				Mode: ModeTOTP, Period: 30, Issuer: "New", Label: "bob",
			},
		},
		{
			name: "space after colon",
			uri:  "otpauth://totp/Example:%20alice?secret=JBSWY3DPEHPK3PXP",
			expected: Credential{
				Secret: mustDecode(t, "JBSWY3DPEHPK3PXP"), Algorithm: SHA1, Digits: 6,
				Mode: ModeTOTP, Period: 30, Issuer: "Example", Label: " alice",
			},
		},
		{
			name: "sha512 eight digits sixty seconds lower-case params",
			uri:  "OTPAUTH://TOTP/x?secret=jbswy3dpehpk3pxp&algorithm=sha512&digits=8&period=60",
			expected: Credential{
				Secret: mustDecode(t, "JBSWY3DPEHPK3PXP"), Algorithm: SHA512, Digits: 8,
				Mode: ModeTOTP, Period: 60, Label: "x",
			},
		},
		{
			name: "hotp with counter",
			uri:  "otpauth://hotp/Svc:carol?secret=JBSWY3DPEHPK3PXP&counter=42&period=99",
			expected: Credential{
				Secret: mustDecode(t, "JBSWY3DPEHPK3PXP"), Algorithm: SHA1, Digits: 6,
				Mode: ModeHOTP, Counter: 42, Issuer: "Svc", Label: "carol",
			},
		},
		{
			name: "escaped colon stays in label",
			uri:  "otpauth://totp/a%3Ab?secret=JBSWY3DPEHPK3PXP",
			expected: Credential{
				Secret: mustDecode(t, "JBSWY3DPEHPK3PXP"), Algorithm: SHA1, Digits: 6,
				Mode: ModeTOTP, Period: 30, Label: "a:b",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseURIErrors(t *testing.T) {
	tests := []struct {
		name  string
		uri   string
		extra error
	}{
		{name: "wrong scheme", uri: "https://totp/a?secret=JBSWY3DPEHPK3PXP"},
		{name: "unknown type", uri: "otpauth://motp/a?secret=JBSWY3DPEHPK3PXP"},
		{name: "missing secret", uri: "otpauth://totp/a?issuer=x"},
		{name: "bad secret", uri: "otpauth://totp/a?secret=not-base32!", extra: ErrInvalidEncoding},
		{name: "bad algorithm", uri: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&algorithm=MD5", extra: ErrUnsupportedAlgorithm},
		{name: "digits not a number", uri: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&digits=six", extra: ErrInvalidDigitCount},
		{name: "digits out of range", uri: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&digits=4", extra: ErrInvalidDigitCount},
		{name: "zero period", uri: "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&period=0", extra: ErrInvalidPeriod},
		{name: "negative counter", uri: "otpauth://hotp/a?secret=JBSWY3DPEHPK3PXP&counter=-1"},
		{name: "not a uri", uri: "::::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURI(tt.uri)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedURI)
			if tt.extra != nil {
				assert.ErrorIs(t, err, tt.extra)
			}
		})
	}
}

func TestURICanonicalForm(t *testing.T) {
	c := Credential{
		Secret: mustDecode(t, "JBSWY3DPEHPK3PXP"), Algorithm: SHA256, Digits: 8,
		Mode: ModeTOTP, Period: 60, Issuer: "ACME Co", Label: "john@example.com",
	}

	expected := "otpauth://totp/ACME%20Co:john@example.com?secret=JBSWY3DPEHPK3PXP&issuer=ACME+Co&algorithm=SHA256&digits=8&period=60"
	assert.Equal(t, expected, c.URI())
	assert.Equal(t, c.URI(), c.URI(), "serialization must be stable")

	h := c
	h.Mode = ModeHOTP
	h.Counter = 7
	h.Period = 0
	assert.Equal(t,
		"otpauth://hotp/ACME%20Co:john@example.com?secret=JBSWY3DPEHPK3PXP&issuer=ACME+Co&algorithm=SHA256&digits=8&counter=7",
		h.URI())
}

func TestURIRoundTrip(t *testing.T) {
	secret := mustDecode(t, "HXDMVJECJJWSRB3HWIZR4IFUGFTMXBOZ")

	credentials := []Credential{
		NewTOTP(secret, "test account"),
		{Secret: secret, Algorithm: SHA256, Digits: 7, Mode: ModeTOTP, Period: 45, Issuer: "Issuer: With Colon", Label: "a/b?c"},
		{Secret: secret, Algorithm: SHA512, Digits: 8, Mode: ModeHOTP, Counter: 1<<64 - 1, Issuer: "Bank", Label: "100% me"},
		{Secret: secret, Algorithm: SHA1, Digits: 6, Mode: ModeTOTP, Period: 30},
		{Secret: secret, Algorithm: SHA1, Digits: 6, Mode: ModeTOTP, Period: 30, Label: " leading space"},
		{Secret: secret, Algorithm: SHA1, Digits: 6, Mode: ModeTOTP, Period: 30, Issuer: "Svc", Label: "  two spaces"},
		{Secret: secret, Algorithm: SHA1, Digits: 6, Mode: ModeHOTP, Label: "hotp zero counter"},
	}

	for _, c := range credentials {
		t.Run(c.Label, func(t *testing.T) {
			require.NoError(t, c.Validate())
			uri := c.URI()
			parsed, err := ParseURI(uri)
			require.NoError(t, err, uri)
			assert.Equal(t, c, parsed)
			assert.Equal(t, uri, parsed.URI())
		})
	}
}

func TestURIRoundTripRejectsInapplicableFields(t *testing.T) {
	secret := mustDecode(t, "JBSWY3DPEHPK3PXP")

	hotp := Credential{Secret: secret, Algorithm: SHA1, Digits: 6, Mode: ModeHOTP, Period: 60, Counter: 3}
	assert.ErrorIs(t, hotp.Validate(), ErrInvalidPeriod)

	totp := NewTOTP(secret, "t")
	totp.Counter = 5
	assert.ErrorIs(t, totp.Validate(), ErrInvalidCounter)

	// The URI drops the inapplicable field, so only the valid form survives.
	hotp.Period = 0
	parsed, err := ParseURI(hotp.URI())
	require.NoError(t, err)
	assert.Equal(t, hotp, parsed)
}

func TestURIReadableByPquerna(t *testing.T) {
	c := Credential{
		Secret: mustDecode(t, "JBSWY3DPEHPK3PXP"), Algorithm: SHA256, Digits: 8,
		Mode: ModeTOTP, Period: 60, Issuer: "Example", Label: "alice@example.com",
	}

	key, err := pqotp.NewKeyFromURL(c.URI())
	require.NoError(t, err)

	assert.Equal(t, "totp", key.Type())
	assert.Equal(t, "Example", key.Issuer())
	assert.Equal(t, "alice@example.com", key.AccountName())
	assert.Equal(t, "JBSWY3DPEHPK3PXP", key.Secret())
	assert.Equal(t, uint64(60), key.Period())
	assert.Equal(t, pqotp.DigitsEight, key.Digits())
	assert.Equal(t, pqotp.AlgorithmSHA256, key.Algorithm())
}
