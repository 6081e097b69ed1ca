package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBackend(t *testing.T) {
	for _, name := range []string{"file", "keyring"} {
		t.Run("valid_"+name, func(t *testing.T) {
			cfg, err := GetBackend(name)
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Description)
		})
	}

	t.Run("unknown backend returns error", func(t *testing.T) {
		_, err := GetBackend("s3")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown store backend")
	})

	t.Run("empty string returns error", func(t *testing.T) {
		_, err := GetBackend("")
		assert.Error(t, err)
	})

	t.Run("only the file backend takes a passphrase", func(t *testing.T) {
		file, err := GetBackend("file")
		require.NoError(t, err)
		assert.True(t, file.Encryptable)

		keyring, err := GetBackend("keyring")
		require.NoError(t, err)
		assert.False(t, keyring.Encryptable)
	})
}

func TestValidBackends(t *testing.T) {
	assert.Equal(t, []string{"file", "keyring"}, ValidBackends())
	assert.Contains(t, ValidBackends(), DefaultBackend)
}
