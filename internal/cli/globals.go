package cli

import (
	"os"

	"golang.org/x/term"
)

// Globals holds global flags available to all commands
type Globals struct {
	ConfigFile    string `help:"Config file path" name:"config-file" type:"path" env:"OTPV_CONFIG" predictor:"file"`
	Vault         string `help:"Vault file path" type:"path" env:"OTPV_VAULT" predictor:"file"`
	Store         string `help:"Credential store backend" default:"" enum:"file,keyring," env:"OTPV_STORE"`
	Output        string `help:"Output format" default:"" enum:"json,plain,rich,auto," short:"o" env:"OTPV_OUTPUT"`
	Verbose       bool   `help:"Verbose output" short:"v" env:"OTPV_VERBOSE"`
	AskPassphrase bool   `help:"Prompt for the vault passphrase" short:"p" name:"ask-passphrase"`
	Passphrase    string `help:"Vault passphrase" env:"OTPV_PASSPHRASE" hidden:""`
}

// ResolvedOutput returns the effective output mode: flag/env, then the
// config default, then "auto". "auto" is rich on a TTY and plain otherwise.
func (g *Globals) ResolvedOutput(configured string) string {
	mode := g.Output
	if mode == "" {
		mode = configured
	}
	if mode != "" && mode != "auto" {
		return mode
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "rich"
	}

	return "plain"
}
