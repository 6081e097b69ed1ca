package secrets

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyringStore(t *testing.T) {
	exerciseStore(t, NewKeyringStoreWith(keyring.NewArrayKeyring(nil)))
}

func TestKeyringStoreItemShape(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	s := NewKeyringStoreWith(ring)

	require.NoError(t, s.Put("JBSWY3DPEHPK3PXP", Record{OTPURI: "otpauth://totp/x?secret=JBSWY3DPEHPK3PXP", Description: "work"}))

	item, err := ring.Get("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	assert.Equal(t, "otpv: work", item.Label)
	assert.JSONEq(t, `{"otp_uri":"otpauth://totp/x?secret=JBSWY3DPEHPK3PXP","description":"work"}`, string(item.Data))
}

func TestKeyringStoreCorruptItem(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: "AAAA", Data: []byte("not json")}})
	s := NewKeyringStoreWith(ring)

	_, err := s.Get("AAAA")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
