package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"
	"go.uber.org/zap"

	"github.com/semmy-space/otpv/internal/config"
	"github.com/semmy-space/otpv/internal/logger"
	"github.com/semmy-space/otpv/internal/output"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
	Out       io.Writer
}

func (fp *FormatterProvider) actions(sp *ServiceProvider) *actions {
	return &actions{sp: sp, f: fp.Formatter}
}

// CLI is the root command structure
type CLI struct {
	Globals

	Shell       ShellCmd                     `cmd:"" default:"1" help:"Interactive shell (default)"`
	List        ListCmd                      `cmd:"" aliases:"ls" help:"List credentials with current passcodes"`
	Add         AddCmd                       `cmd:"" help:"Add a TOTP credential by Base32 secret"`
	Import      ImportCmd                    `cmd:"" help:"Add a credential from an otpauth:// URI"`
	Show        ShowCmd                      `cmd:"" help:"Show a credential and its QR code"`
	Delete      DeleteCmd                    `cmd:"" aliases:"rm" help:"Delete a credential by index"`
	Code        CodeCmd                      `cmd:"" help:"Print the current passcode of a credential"`
	Config      ConfigCmd                    `cmd:"" help:"Configuration commands"`
	Completions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
	Version     VersionCmd                   `cmd:"" help:"Show version information"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`

	formatter *FormatterProvider
	services  *ServiceProvider
	log       *logger.Logger
}

// AfterApply hook runs once flags are parsed, before any command executes.
// It loads config, creates the logger and formatter, and binds dependencies.
func (c *CLI) AfterApply(ctx *kong.Context) error {
	stdout, stderr := c.Stdout, c.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	c.log = logger.New(stderr)
	if err := c.log.Init(logger.Level(c.Verbose)); err != nil {
		return err
	}

	var cfg *config.Config
	var err error
	path := c.ConfigFile
	if path == "" {
		path = config.ConfigPath()
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(path)
	}
	if err != nil {
		return &output.CLIError{
			ExitCode: output.ExitConfigError,
			Message:  err.Error(),
			Hint:     "Fix or remove " + path,
		}
	}

	c.formatter = &FormatterProvider{
		Formatter: output.NewWithWriters(c.ResolvedOutput(cfg.DefaultOutput), stdout, stderr),
		Out:       stdout,
	}
	c.services = NewServiceProvider(cfg, &c.Globals, c.log.Log)

	c.log.Log.Debug("config loaded",
		zap.String("path", path),
		zap.String("store", c.services.opts.Backend),
		zap.String("vault", c.services.opts.Path),
	)

	ctx.Bind(cfg)
	ctx.Bind(c.formatter)
	ctx.Bind(c.services)
	ctx.Bind(c.log.Log)
	ctx.Bind(&c.Globals)

	return nil
}

// Formatter returns the formatter built for this run, or a plain one when
// parsing failed before it existed.
func (c *CLI) Formatter() output.Formatter {
	if c.formatter != nil {
		return c.formatter.Formatter
	}
	return output.New("plain")
}

// Close releases the store and flushes the logger.
func (c *CLI) Close() error {
	if c.log != nil {
		_ = c.log.Log.Sync()
	}
	if c.services != nil {
		return c.services.Close()
	}
	return nil
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context, fp *FormatterProvider) error {
	version := ctx.Model.Vars()["version"]
	_, err := fmt.Fprintln(fp.Out, "otpv version "+version)
	return err
}
