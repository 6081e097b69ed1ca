package otp

import (
	"fmt"
	"strings"
)

// base32Alphabet is the RFC 4648 section 6 alphabet.
const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

var base32Index [256]int8

func init() {
	for i := range base32Index {
		base32Index[i] = -1
	}
	for i := 0; i < len(base32Alphabet); i++ {
		base32Index[base32Alphabet[i]] = int8(i)
	}
}

// NormalizeSecret upper-cases s and drops spaces and trailing padding.
// It does not validate the result.
func NormalizeSecret(s string) string {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	return strings.TrimRight(s, "=")
}

// DecodeBase32 decodes RFC 4648 Base32 text. Case is ignored, spaces are
// skipped and trailing '=' padding is optional. Bits left over after the
// last whole byte are ignored.
func DecodeBase32(text string) ([]byte, error) {
	s := NormalizeSecret(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidEncoding)
	}

	// An unpadded tail of 1, 3 or 6 characters cannot come from whole bytes.
	switch len(s) % 8 {
	case 1, 3, 6:
		return nil, fmt.Errorf("%w: impossible length %d", ErrInvalidEncoding, len(s))
	}

	out := make([]byte, 0, len(s)*5/8)
	var buf uint32
	var bits uint
	for i := 0; i < len(s); i++ {
		v := base32Index[s[i]]
		if v < 0 {
			return nil, fmt.Errorf("%w: illegal character %q at offset %d", ErrInvalidEncoding, s[i], i)
		}
		buf = buf<<5 | uint32(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buf>>bits))
		}
	}
	return out, nil
}

// EncodeBase32 encodes b as upper-case Base32 without padding.
func EncodeBase32(b []byte) string {
	var sb strings.Builder
	sb.Grow((len(b)*8 + 4) / 5)

	var buf uint32
	var bits uint
	for _, c := range b {
		buf = buf<<8 | uint32(c)
		bits += 8
		for bits >= 5 {
			bits -= 5
			sb.WriteByte(base32Alphabet[(buf>>bits)&0x1f])
		}
	}
	if bits > 0 {
		sb.WriteByte(base32Alphabet[(buf<<(5-bits))&0x1f])
	}
	return sb.String()
}
