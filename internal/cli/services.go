package cli

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/semmy-space/otpv/internal/config"
	"github.com/semmy-space/otpv/internal/output"
	"github.com/semmy-space/otpv/internal/secrets"
	"github.com/semmy-space/otpv/internal/vault"
)

// ServiceProvider lazily opens the credential store and vault service.
// Commands that never touch the vault (config, version) never open it.
type ServiceProvider struct {
	opts      secrets.Options
	ask       bool
	prompt    func() (string, error)
	vaultOpts []vault.Option
	log       *zap.Logger

	once  sync.Once
	store secrets.Store
	svc   *vault.Service
	err   error
}

// NewServiceProvider creates a ServiceProvider for the resolved flags and config.
// Precedence is flag > env > config file > default.
func NewServiceProvider(cfg *config.Config, g *Globals, log *zap.Logger) *ServiceProvider {
	backend := g.Store
	if backend == "" {
		backend = cfg.ResolvedStore()
	}
	path := g.Vault
	if path == "" {
		path = cfg.ResolvedVaultPath()
	}

	return &ServiceProvider{
		opts: secrets.Options{
			Backend:    backend,
			Path:       path,
			Passphrase: g.Passphrase,
			Logger:     log,
		},
		ask:       g.AskPassphrase,
		prompt:    readPassphrase,
		vaultOpts: []vault.Option{vault.WithLogger(log)},
		log:       log,
	}
}

// newServiceProviderWithStore wraps an already open store.
func newServiceProviderWithStore(store secrets.Store, opts ...vault.Option) *ServiceProvider {
	sp := &ServiceProvider{log: zap.NewNop()}
	sp.once.Do(func() {
		sp.store = store
		sp.svc = vault.NewService(store, opts...)
	})
	return sp
}

// Vault returns the vault service, opening the store on first call.
func (sp *ServiceProvider) Vault() (*vault.Service, error) {
	sp.once.Do(func() {
		if sp.ask {
			if !encryptable(sp.opts.Backend) {
				sp.log.Warn("--ask-passphrase has no effect on this store, not prompting",
					zap.String("store", sp.opts.Backend))
			} else {
				pass, err := sp.prompt()
				if err != nil {
					sp.err = &output.CLIError{
						ExitCode: output.ExitAuth,
						Message:  fmt.Sprintf("Failed to read passphrase: %v", err),
					}
					return
				}
				sp.opts.Passphrase = pass
			}
		}

		store, err := secrets.Open(sp.opts)
		if err != nil {
			sp.err = &output.CLIError{
				ExitCode: output.ExitConfigError,
				Message:  fmt.Sprintf("Failed to open credential store: %v", err),
				Err:      err,
			}
			return
		}

		fields := []zap.Field{zap.String("requested", sp.opts.Backend)}
		if fs, ok := store.(*secrets.FileStore); ok {
			fields = append(fields,
				zap.String("backend", secrets.BackendFile),
				zap.String("path", fs.Path()),
				zap.Bool("sealed", sp.opts.Passphrase != ""),
			)
		} else {
			fields = append(fields, zap.String("backend", secrets.BackendKeyring))
		}
		sp.log.Debug("opened credential store", fields...)

		sp.store = store
		sp.svc = vault.NewService(store, sp.vaultOpts...)
	})
	return sp.svc, sp.err
}

// encryptable reports whether a passphrase means anything to backend.
// Unknown names are left for secrets.Open to reject.
func encryptable(backend string) bool {
	cfg, err := config.GetBackend(backend)
	return err != nil || cfg.Encryptable
}

// Close releases the store if it was opened.
func (sp *ServiceProvider) Close() error {
	if sp.store == nil {
		return nil
	}
	return sp.store.Close()
}
