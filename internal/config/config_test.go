package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Store)
	assert.Equal(t, DefaultBackend, cfg.ResolvedStore())
	assert.Equal(t, DefaultVaultPath(), cfg.ResolvedVaultPath())
	assert.Equal(t, path, cfg.Path())
}

func TestLoadUsesXDGConfigHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	path := filepath.Join(home, "otpv", "config.json5")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(`{default_output: "json"}`), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "json", cfg.DefaultOutput)
}

func TestLoadJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	data := `{
  // hand-edited
  store: "keyring",
  vault_path: "/tmp/v.json",
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "keyring", cfg.Store)
	assert.Equal(t, "/tmp/v.json", cfg.ResolvedVaultPath())
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{"store": "s3"}`), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{{{`), 0600))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestSetGetUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json5")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("store", "keyring"))
	require.NoError(t, cfg.Set("default_output", "json"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	v, err := reloaded.Get("store")
	require.NoError(t, err)
	assert.Equal(t, "keyring", v)
	v, err = reloaded.Get("default_output")
	require.NoError(t, err)
	assert.Equal(t, "json", v)

	require.NoError(t, reloaded.Unset("store"))
	again, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Empty(t, again.Store)
	assert.Equal(t, "json", again.DefaultOutput)
}

func TestSetValidates(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)

	tests := []struct {
		key, value string
		wantErr    string
	}{
		{"store", "s3", "unknown store backend"},
		{"default_output", "yaml", "invalid output format"},
		{"region", "us", "unknown config key"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := cfg.Set(tt.key, tt.value)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetUnknownKey(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.Get("client_id")
	assert.ErrorContains(t, err, "unknown config key")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"default_output", "store", "vault_path"}, Keys())
}

func TestDefaultPaths(t *testing.T) {
	assert.Equal(t, "otpv", filepath.Base(ConfigDir()))
	assert.Equal(t, "config.json5", filepath.Base(ConfigPath()))
	assert.Equal(t, filepath.Join(DataDir(), "vault.json"), DefaultVaultPath())
}
