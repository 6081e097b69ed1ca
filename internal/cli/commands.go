package cli

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ShellCmd starts the interactive shell
type ShellCmd struct{}

// Run executes the shell command
func (cmd *ShellCmd) Run(ctx context.Context, sp *ServiceProvider, fp *FormatterProvider, log *zap.Logger) error {
	return NewShell(os.Stdin, fp.Out, sp, fp.Formatter, log).Run(ctx)
}

// ListCmd lists credentials with their current passcodes
type ListCmd struct{}

// Run executes the list command
func (cmd *ListCmd) Run(sp *ServiceProvider, fp *FormatterProvider) error {
	return fp.actions(sp).list()
}

// AddCmd adds a TOTP credential from a Base32 secret
type AddCmd struct {
	Secret      string   `arg:"" help:"Base32 secret"`
	Description []string `arg:"" help:"Description (the rest of the line)"`
}

// Run executes the add command
func (cmd *AddCmd) Run(sp *ServiceProvider, fp *FormatterProvider) error {
	return fp.actions(sp).addSecret(cmd.Secret, strings.Join(cmd.Description, " "))
}

// ImportCmd adds a credential from an otpauth:// URI
type ImportCmd struct {
	URI string `arg:"" name:"uri" help:"otpauth://totp/... or otpauth://hotp/... URI"`
}

// Run executes the import command
func (cmd *ImportCmd) Run(sp *ServiceProvider, fp *FormatterProvider) error {
	return fp.actions(sp).addURI(cmd.URI)
}

// ShowCmd shows one credential
type ShowCmd struct {
	Index string `arg:"" help:"Credential index from the listing"`
	NoQR  bool   `help:"Do not draw the QR code" name:"no-qr"`
}

// Run executes the show command
func (cmd *ShowCmd) Run(sp *ServiceProvider, fp *FormatterProvider) error {
	return fp.actions(sp).show(cmd.Index, !cmd.NoQR)
}

// DeleteCmd removes one credential
type DeleteCmd struct {
	Index string `arg:"" help:"Credential index from the listing"`
}

// Run executes the delete command
func (cmd *DeleteCmd) Run(sp *ServiceProvider, fp *FormatterProvider) error {
	return fp.actions(sp).delete(cmd.Index)
}

// CodeCmd prints only the current passcode, for scripts
type CodeCmd struct {
	Index string `arg:"" help:"Credential index from the listing"`
}

// Run executes the code command
func (cmd *CodeCmd) Run(sp *ServiceProvider, fp *FormatterProvider) error {
	return fp.actions(sp).code(cmd.Index)
}
