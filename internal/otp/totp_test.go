package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	tests := []struct {
		name     string
		unix     int64
		period   int
		expected uint64
	}{
		{name: "epoch", unix: 0, period: 30, expected: 0},
		{name: "last second of first window", unix: 29, period: 30, expected: 0},
		{name: "first second of second window", unix: 30, period: 30, expected: 1},
		{name: "rfc vector", unix: 1111111109, period: 30, expected: 0x023523EC},
		{name: "sixty second period", unix: 119, period: 60, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Counter(tt.unix, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCounterInvalidPeriod(t *testing.T) {
	for _, period := range []int{0, -30} {
		_, err := Counter(100, period)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	}
}

func TestCounterBeforeEpoch(t *testing.T) {
	_, err := Counter(-1, 30)
	assert.ErrorIs(t, err, ErrTimeBeforeEpoch)
	assert.NotErrorIs(t, err, ErrInvalidPeriod)

	_, err = TOTP([]byte("12345678901234567890"), -60, 30, 6, SHA1)
	assert.ErrorIs(t, err, ErrTimeBeforeEpoch)
}

func TestTOTPSameWindowMatches(t *testing.T) {
	secret, err := DecodeBase32("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	start := int64(1_700_000_010) // window [1700000010, 1700000040)
	first, err := TOTP(secret, start, 30, 6, SHA1)
	require.NoError(t, err)

	for offset := int64(0); offset < 30; offset++ {
		got, err := TOTP(secret, start+offset, 30, 6, SHA1)
		require.NoError(t, err)
		assert.Equal(t, first, got, "offset %d", offset)
	}

	next, err := TOTP(secret, start+30, 30, 6, SHA1)
	require.NoError(t, err)
	expected, err := HOTP(secret, uint64(start/30)+1, 6, SHA1)
	require.NoError(t, err)
	assert.Equal(t, expected, next)
}

func TestTOTPDelegatesToHOTP(t *testing.T) {
	secret, err := DecodeBase32("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)

	now := int64(1_234_567_890)
	got, err := TOTP(secret, now, 30, 6, SHA1)
	require.NoError(t, err)

	want, err := HOTP(secret, uint64(now/30), 6, SHA1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		unix     int64
		period   int
		expected int
	}{
		{unix: 0, period: 30, expected: 30},
		{unix: 29, period: 30, expected: 1},
		{unix: 31, period: 30, expected: 29},
		{unix: 10, period: 0, expected: 0},
		{unix: -5, period: 30, expected: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Remaining(tt.unix, tt.period), "unix=%d period=%d", tt.unix, tt.period)
	}
}
