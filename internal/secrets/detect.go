package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// Options selects and configures a Store backend.
type Options struct {
	Backend    string // BackendFile (default) or BackendKeyring
	Path       string // vault file path, also anchors the keyring fallback dir
	Passphrase string // seals the vault file when set
	Logger     *zap.Logger
}

// Open creates a Store for opts. A keyring request falls back to the
// vault file when no usable keyring exists (WSL, headless, open failure).
func Open(opts Options) (Store, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	openFile := func() (Store, error) {
		return OpenFileStore(opts.Path, WithPassphrase(opts.Passphrase), WithLogger(log))
	}

	switch opts.Backend {
	case "", BackendFile:
		return openFile()

	case BackendKeyring:
		dataDir := filepath.Dir(opts.Path)

		// WSL and headless environments can't use keyring reliably
		if IsWSL() || IsHeadless() {
			warnOnce(log, dataDir, "no desktop keyring in WSL/headless environment, using vault file",
				zap.String("path", opts.Path))
			return openFile()
		}

		store, err := NewKeyringStore(filepath.Join(dataDir, "keyring"))
		if err != nil {
			warnOnce(log, dataDir, "keyring unavailable, falling back to vault file",
				zap.Error(err), zap.String("path", opts.Path))
			return openFile()
		}
		if opts.Passphrase != "" {
			log.Warn("passphrase ignored, the keyring store is not sealed by otpv")
		}
		log.Debug("opened keyring store", zap.String("service", ServiceName))
		return store, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}

// warnOnce logs a fallback warning, but only the first time.
// Subsequent invocations are suppressed via a marker file in dir.
func warnOnce(log *zap.Logger, dir, msg string, fields ...zap.Field) {
	marker := filepath.Join(dir, ".keyring-fallback-warned")
	if fileExists(marker) {
		log.Debug(msg, fields...)
		return
	}
	log.Warn(msg, fields...)
	_ = os.MkdirAll(dir, 0700)
	_ = os.WriteFile(marker, []byte("1"), 0600)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsWSL returns true if running under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}

	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// IsHeadless returns true if running in a headless environment (no display server).
// Only applicable on Linux; macOS and Windows are assumed to have GUI.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
