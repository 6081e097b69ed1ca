package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/semmy-space/otpv/internal/config"
	"github.com/semmy-space/otpv/internal/output"
)

// ConfigGetCmd implements config get command
type ConfigGetCmd struct {
	Key string `arg:"" help:"Config key to get (store, vault_path, default_output)"`
}

// Run executes the get command
func (cmd *ConfigGetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	value, err := cfg.Get(cmd.Key)
	if err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitNotFound,
			Hint:     "Valid keys: " + strings.Join(config.Keys(), ", "),
		}
	}

	_, err = fmt.Fprintln(fp.Out, value)
	return err
}

// ConfigSetCmd implements config set command
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Config key to set"`
	Value string `arg:"" help:"Value to set"`
}

// Run executes the set command
func (cmd *ConfigSetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitUsage,
			Hint:     "Valid keys: " + strings.Join(config.Keys(), ", "),
		}
	}

	if cmd.Key == "store" {
		if _, err := config.GetBackend(cmd.Value); err != nil {
			return &output.CLIError{
				Message:  fmt.Sprintf("Invalid store: %s. Valid stores: %s", cmd.Value, strings.Join(config.ValidBackends(), ", ")),
				ExitCode: output.ExitUsage,
			}
		}
	}

	if err := cfg.Set(cmd.Key, cmd.Value); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to set config: %v", err),
			ExitCode: output.ExitConfigError,
		}
	}

	return fp.Formatter.PrintResult(fmt.Sprintf("Set %s = %s", cmd.Key, cmd.Value), map[string]string{cmd.Key: cmd.Value})
}

// ConfigUnsetCmd implements config unset command
type ConfigUnsetCmd struct {
	Key string `arg:"" help:"Config key to remove"`
}

// Run executes the unset command
func (cmd *ConfigUnsetCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	if _, err := cfg.Get(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Unknown config key: %s", cmd.Key),
			ExitCode: output.ExitUsage,
		}
	}

	if err := cfg.Unset(cmd.Key); err != nil {
		return &output.CLIError{
			Message:  fmt.Sprintf("Failed to unset config: %v", err),
			ExitCode: output.ExitConfigError,
		}
	}

	return fp.Formatter.PrintResult(fmt.Sprintf("Unset %s", cmd.Key), nil)
}

// ConfigListConfigCmd implements config list command
type ConfigListConfigCmd struct{}

type configItem struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Effective string `json:"effective"`
}

// Run executes the list command
func (cmd *ConfigListConfigCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	items := []configItem{
		{Key: "default_output", Value: cfg.DefaultOutput, Effective: orDefault(cfg.DefaultOutput, "auto")},
		{Key: "store", Value: cfg.Store, Effective: cfg.ResolvedStore()},
		{Key: "vault_path", Value: cfg.VaultPath, Effective: cfg.ResolvedVaultPath()},
	}

	cols := []output.Column{
		{Name: "KEY", Key: "Key"},
		{Name: "VALUE", Key: "Value"},
		{Name: "EFFECTIVE", Key: "Effective"},
	}

	return fp.Formatter.PrintList(items, cols)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ConfigPathCmd implements config path command
type ConfigPathCmd struct{}

// Run executes the path command
func (cmd *ConfigPathCmd) Run(cfg *config.Config, fp *FormatterProvider) error {
	path := cfg.Path()

	fmt.Fprintln(fp.Out, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fp.Formatter.PrintHint("file does not exist yet - will be created on first write")
	}

	return nil
}
