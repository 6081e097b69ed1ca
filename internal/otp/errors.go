package otp

import "errors"

var (
	ErrInvalidEncoding      = errors.New("invalid base32 encoding")
	ErrMalformedURI         = errors.New("malformed otpauth URI")
	ErrInvalidDigitCount    = errors.New("invalid digit count")
	ErrInvalidPeriod        = errors.New("invalid period")
	ErrInvalidCounter       = errors.New("invalid counter")
	ErrTimeBeforeEpoch      = errors.New("time before unix epoch")
	ErrUnsupportedMode      = errors.New("unsupported OTP mode")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)
