package otp

import "fmt"

// Counter returns the TOTP moving factor for unixSeconds.
func Counter(unixSeconds int64, period int) (uint64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPeriod, period)
	}
	if unixSeconds < 0 {
		return 0, fmt.Errorf("%w: %d", ErrTimeBeforeEpoch, unixSeconds)
	}
	return uint64(unixSeconds) / uint64(period), nil
}

// TOTP computes the RFC 6238 passcode for secret at unixSeconds.
func TOTP(secret []byte, unixSeconds int64, period, digits int, alg Algorithm) (string, error) {
	counter, err := Counter(unixSeconds, period)
	if err != nil {
		return "", err
	}
	return HOTP(secret, counter, digits, alg)
}

// Remaining returns how many seconds the window containing unixSeconds
// has left. It returns 0 for a non-positive period or a pre-epoch time.
func Remaining(unixSeconds int64, period int) int {
	if period <= 0 || unixSeconds < 0 {
		return 0
	}
	return period - int(unixSeconds%int64(period))
}
