package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/otpv/internal/cli"
	"github.com/semmy-space/otpv/internal/output"
)

var (
	version = "dev"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cliInstance := &cli.CLI{}
	parser := kong.Must(cliInstance,
		kong.Name("otpv"),
		kong.Description("Terminal vault for TOTP/HOTP credentials"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	// Answers shell completion requests and exits when COMP_LINE is set
	kongplete.Complete(parser,
		kongplete.WithPredictor("file", complete.PredictFiles("*")),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Config errors from the AfterApply hook carry their own exit code
		var cliErr *output.CLIError
		if !errors.As(err, &cliErr) {
			parser.FatalIfErrorf(err)
		}
		return output.Report(cliInstance.Formatter(), cliErr)
	}
	defer cliInstance.Close()

	if err := kctx.Run(); err != nil {
		return output.Report(cliInstance.Formatter(), err)
	}
	return output.ExitOK
}
