package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPassphrase prompts on stderr and reads a passphrase from the
// terminal without echo.
func readPassphrase() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Vault passphrase: ")
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(pass) == 0 {
		return "", errors.New("empty passphrase")
	}
	return string(pass), nil
}
