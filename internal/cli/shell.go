package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/semmy-space/otpv/internal/output"
)

// CommandKind identifies a shell command.
type CommandKind int

const (
	CmdList CommandKind = iota
	CmdHelp
	CmdAddSecret
	CmdAddURI
	CmdDelete
	CmdShow
)

// Command is one parsed shell line.
type Command struct {
	Kind        CommandKind
	Secret      string
	Description string
	URI         string
	Index       string
}

// ParseCommand parses a shell line. A command letter only counts when it
// is followed by an argument; everything else, including an empty line,
// lists credentials. The description of "a" is the rest of the line.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	switch line {
	case "?", "h", "help":
		return Command{Kind: CmdHelp}
	}

	verb, rest, ok := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	if !ok || rest == "" {
		return Command{Kind: CmdList}
	}

	switch verb {
	case "a":
		secret, desc, _ := strings.Cut(rest, " ")
		return Command{Kind: CmdAddSecret, Secret: secret, Description: strings.TrimSpace(desc)}
	case "u":
		return Command{Kind: CmdAddURI, URI: firstField(rest)}
	case "d":
		return Command{Kind: CmdDelete, Index: firstField(rest)}
	case "s":
		return Command{Kind: CmdShow, Index: firstField(rest)}
	}
	return Command{Kind: CmdList}
}

func firstField(s string) string {
	f, _, _ := strings.Cut(s, " ")
	return f
}

type helpRow struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

var helpRows = []helpRow{
	{"? | h | help", "display this help"},
	{"a <secret> <description>", "add a TOTP credential by Base32 secret and description"},
	{"u <otpauth-uri>", "add a credential from an otpauth:// URI"},
	{"d <index>", "delete the credential at index"},
	{"s <index>", "show a credential with its URI as a QR code"},
	{"<anything else>", "list credentials with their current passcodes"},
}

var helpColumns = []output.Column{
	{Name: "COMMAND", Key: "Command"},
	{Name: "DESCRIPTION", Key: "Description"},
}

// Shell is the interactive read, parse, handle, report loop.
type Shell struct {
	in     io.Reader
	out    io.Writer
	act    *actions
	log    *zap.Logger
	prompt string
}

// NewShell creates a shell reading lines from in. The prompt is written
// to out; results and errors go through the formatter.
func NewShell(in io.Reader, out io.Writer, sp *ServiceProvider, f output.Formatter, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{
		in:     in,
		out:    out,
		act:    &actions{sp: sp, f: f},
		log:    log,
		prompt: "> ",
	}
}

// Run processes lines until end of input or ctx is cancelled. Command
// errors are reported and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(s.out, s.prompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			s.log.Debug("shell interrupted")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			s.Handle(ParseCommand(line))
		}
	}
}

// Handle executes one command and reports any error.
func (s *Shell) Handle(cmd Command) {
	if err := s.dispatch(cmd); err != nil {
		s.log.Debug("command failed", zap.Int("kind", int(cmd.Kind)), zap.Error(err))
		output.Report(s.act.f, cliError(err))
	}
}

func (s *Shell) dispatch(cmd Command) error {
	switch cmd.Kind {
	case CmdHelp:
		return s.act.f.PrintList(helpRows, helpColumns)
	case CmdAddSecret:
		if cmd.Description == "" {
			return output.NewCLIError(output.ExitUsage, "missing description").
				WithHint("Usage: a <secret> <description>")
		}
		return s.act.addSecret(cmd.Secret, cmd.Description)
	case CmdAddURI:
		return s.act.addURI(cmd.URI)
	case CmdDelete:
		return s.act.delete(cmd.Index)
	case CmdShow:
		return s.act.show(cmd.Index, true)
	default:
		return s.act.list()
	}
}
