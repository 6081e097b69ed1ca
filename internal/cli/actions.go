package cli

import (
	"fmt"
	"strconv"

	"github.com/semmy-space/otpv/internal/otp"
	"github.com/semmy-space/otpv/internal/output"
	"github.com/semmy-space/otpv/internal/vault"
)

// entryView is one listing row
type entryView struct {
	Index       int    `json:"index"`
	Passcode    string `json:"passcode,omitempty"`
	Remaining   int    `json:"remaining_seconds,omitempty"`
	Expires     string `json:"-"`
	Mode        string `json:"type"`
	Description string `json:"description"`
}

var entryColumns = []output.Column{
	{Name: "IDX", Key: "Index"},
	{Name: "PASSCODE", Key: "Passcode"},
	{Name: "EXPIRES", Key: "Expires"},
	{Name: "DESCRIPTION", Key: "Description", Width: 60},
}

func newEntryView(e vault.Entry) entryView {
	v := entryView{
		Index:       e.Index,
		Passcode:    e.Passcode,
		Remaining:   e.Remaining,
		Mode:        string(e.Mode),
		Description: e.Description,
	}
	if e.Passcode != "" {
		v.Expires = strconv.Itoa(e.Remaining) + "s"
	} else {
		v.Passcode = "-"
		v.Expires = string(e.Mode)
	}
	return v
}

// detailView is everything shown for one credential
type detailView struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Secret      string `json:"secret"`
	Type        string `json:"type"`
	Issuer      string `json:"issuer,omitempty"`
	Label       string `json:"label"`
	Algorithm   string `json:"algorithm"`
	Digits      int    `json:"digits"`
	Period      int    `json:"period,omitempty"`
	Counter     uint64 `json:"counter,omitempty"`
	OTPURI      string `json:"otp_uri"`
}

func newDetailView(d vault.Detail) detailView {
	v := detailView{
		Index:       d.Index,
		Description: d.Description,
		Secret:      d.Secret,
		Type:        string(d.Credential.Mode),
		Issuer:      d.Credential.Issuer,
		Label:       d.Credential.Label,
		Algorithm:   string(d.Credential.Algorithm),
		Digits:      d.Credential.Digits,
		OTPURI:      d.OTPURI,
	}
	if d.Credential.Mode == otp.ModeHOTP {
		v.Counter = d.Credential.Counter
	} else {
		v.Period = d.Credential.Period
	}
	return v
}

type addedView struct {
	Description string `json:"description"`
	OTPURI      string `json:"otp_uri"`
	Replaced    bool   `json:"replaced"`
}

type deletedView struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
}

// actions runs vault operations and reports results through a formatter.
// The shell and the one-shot commands share it.
type actions struct {
	sp *ServiceProvider
	f  output.Formatter
}

func (a *actions) vault() (*vault.Service, error) {
	return a.sp.Vault()
}

func (a *actions) list() error {
	svc, err := a.vault()
	if err != nil {
		return err
	}

	entries, err := svc.ListWithCodes()
	if err != nil {
		return cliError(err)
	}

	views := make([]entryView, len(entries))
	for i, e := range entries {
		views[i] = newEntryView(e)
	}
	if len(views) == 0 {
		a.f.PrintHint("No credentials yet. Add one with: a <secret> <description>")
	}
	return a.f.PrintList(views, entryColumns)
}

func (a *actions) addSecret(secret, description string) error {
	svc, err := a.vault()
	if err != nil {
		return err
	}

	added, err := svc.AddBySecret(secret, description)
	if err != nil {
		return cliError(err)
	}
	return a.reportAdded(added)
}

func (a *actions) addURI(uri string) error {
	svc, err := a.vault()
	if err != nil {
		return err
	}

	added, err := svc.AddByURI(uri)
	if err != nil {
		return cliError(err)
	}
	return a.reportAdded(added)
}

func (a *actions) reportAdded(added vault.Added) error {
	verb := "Added"
	if added.Replaced {
		verb = "Replaced"
	}
	return a.f.PrintResult(fmt.Sprintf("%s: %s", verb, added.Description), addedView{
		Description: added.Description,
		OTPURI:      added.OTPURI,
		Replaced:    added.Replaced,
	})
}

func (a *actions) delete(index string) error {
	n, err := vault.ParseIndex(index)
	if err != nil {
		return cliError(err)
	}

	svc, err := a.vault()
	if err != nil {
		return err
	}

	deleted, ok, err := svc.DeleteByIndex(n)
	if err != nil {
		return cliError(err)
	}
	if !ok {
		a.f.PrintHint(fmt.Sprintf("Nothing at index %d; run 'otpv list' to see indexes", n))
		return nil
	}

	return a.f.PrintResult(fmt.Sprintf("Deleted: %s (%s)", deleted.Description, maskSecret(deleted.Secret)), deletedView{
		Index:       deleted.Index,
		Description: deleted.Description,
	})
}

func (a *actions) show(index string, qr bool) error {
	n, err := vault.ParseIndex(index)
	if err != nil {
		return cliError(err)
	}

	svc, err := a.vault()
	if err != nil {
		return err
	}

	detail, err := svc.ShowByIndex(n)
	if err != nil {
		return cliError(err)
	}

	if qr {
		if err := a.f.PrintQR(detail.OTPURI); err != nil {
			return cliError(err)
		}
	}
	return a.f.Print(newDetailView(detail))
}

func (a *actions) code(index string) error {
	n, err := vault.ParseIndex(index)
	if err != nil {
		return cliError(err)
	}

	svc, err := a.vault()
	if err != nil {
		return err
	}

	e, err := svc.CodeByIndex(n)
	if err != nil {
		return cliError(err)
	}
	return a.f.Print(e.Passcode)
}

// maskSecret masks sensitive values, showing only last 4 characters
func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
