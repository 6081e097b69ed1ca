package cli

import (
	"errors"

	"github.com/semmy-space/otpv/internal/otp"
	"github.com/semmy-space/otpv/internal/output"
	"github.com/semmy-space/otpv/internal/secrets"
	"github.com/semmy-space/otpv/internal/vault"
)

// cliError maps domain errors to a CLIError with an exit code and hint.
func cliError(err error) error {
	if err == nil {
		return nil
	}

	var ce *output.CLIError
	if errors.As(err, &ce) {
		return err
	}

	switch {
	case errors.Is(err, otp.ErrInvalidEncoding):
		return output.Wrap(output.ExitUsage, err).
			WithHint("Secrets are Base32: letters A-Z and digits 2-7")
	case errors.Is(err, otp.ErrMalformedURI),
		errors.Is(err, otp.ErrUnsupportedAlgorithm),
		errors.Is(err, otp.ErrInvalidDigitCount),
		errors.Is(err, otp.ErrInvalidPeriod),
		errors.Is(err, otp.ErrInvalidCounter):
		return output.Wrap(output.ExitUsage, err).
			WithHint("Expected otpauth://totp/LABEL?secret=BASE32[&issuer=..&algorithm=SHA1|SHA256|SHA512&digits=6..8&period=N]")
	case errors.Is(err, otp.ErrUnsupportedMode):
		return output.Wrap(output.ExitUsage, err).
			WithHint("Counter-based (HOTP) credentials have no time-based passcode")
	case errors.Is(err, vault.ErrInvalidIndex):
		return output.Wrap(output.ExitUsage, err).
			WithHint("Indexes are the numbers in the first column of the listing")
	case errors.Is(err, secrets.ErrNotFound):
		return output.Wrap(output.ExitNotFound, err).
			WithHint("Run: otpv list")
	case errors.Is(err, secrets.ErrPassphraseRequired), errors.Is(err, secrets.ErrDecrypt):
		return output.Wrap(output.ExitAuth, err).
			WithHint("Set OTPV_PASSPHRASE or pass --ask-passphrase")
	case errors.Is(err, secrets.ErrLocked):
		return output.Wrap(output.ExitTempFail, err).
			WithHint("Another otpv process is writing the vault; try again")
	}

	return output.Wrap(output.ExitGeneral, err)
}
