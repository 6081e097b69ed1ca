package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Passcode    string `json:"passcode,omitempty"`
	hidden      string
}

var rowColumns = []Column{
	{Name: "#", Key: "Index"},
	{Name: "DESCRIPTION", Key: "Description"},
	{Name: "CODE", Key: "Passcode"},
}

func TestPlainFormatterPrintList(t *testing.T) {
	var out, errOut bytes.Buffer
	f := NewWithWriters("plain", &out, &errOut)

	err := f.PrintList([]row{{1, "github", "123456", ""}, {2, "mail", "", ""}}, rowColumns)
	require.NoError(t, err)
	assert.Equal(t, "#\tDESCRIPTION\tCODE\n1\tgithub\t123456\n2\tmail\t\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestPlainFormatterPrintListRejectsNonSlice(t *testing.T) {
	f := NewWithWriters("plain", &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, f.PrintList(row{}, rowColumns))
}

func TestPlainFormatterPrintUsesJSONNames(t *testing.T) {
	var out bytes.Buffer
	f := NewWithWriters("plain", &out, &bytes.Buffer{})

	require.NoError(t, f.Print(row{Index: 3, Description: "x", hidden: "secret"}))
	assert.Equal(t, "index\t3\ndescription\tx\npasscode\t\n", out.String())
}

func TestJSONFormatterPrintList(t *testing.T) {
	var out bytes.Buffer
	f := NewWithWriters("json", &out, &bytes.Buffer{})

	require.NoError(t, f.PrintList([]row{{Index: 1, Description: "github", Passcode: "123456"}}, rowColumns))

	var got struct {
		Data  []row `json:"data"`
		Count int   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "123456", got.Data[0].Passcode)
}

func TestJSONFormatterIsQuietExceptForResults(t *testing.T) {
	var out, errOut bytes.Buffer
	f := NewWithWriters("json", &out, &errOut)

	f.PrintHint("try this")
	require.NoError(t, f.PrintQR("otpauth://totp/x?secret=AAAA"))
	require.NoError(t, f.PrintResult("Added: x", nil))
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())

	require.NoError(t, f.PrintResult("Added: x", map[string]string{"description": "x"}))
	assert.JSONEq(t, `{"description":"x"}`, out.String())

	f.PrintError(errors.New("boom"))
	assert.JSONEq(t, `{"error":"boom"}`, errOut.String())
}

func TestRichFormatterNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var out, errOut bytes.Buffer
	f := NewWithWriters("rich", &out, &errOut)

	require.NoError(t, f.PrintResult("Added 1 credential", struct{ N int }{1}))
	f.PrintError(errors.New("boom"))
	require.NoError(t, f.Print(row{Index: 1, Description: "github"}))

	assert.Equal(t, "Added 1 credential\nindex: 1\ndescription: github\npasscode: \n", out.String())
	assert.Equal(t, "error: boom\n", errOut.String())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestUnknownModeFallsBackToPlain(t *testing.T) {
	var out bytes.Buffer
	f := NewWithWriters("yaml", &out, &bytes.Buffer{})
	require.NoError(t, f.PrintResult("ok", nil))
	assert.Equal(t, "ok\n", out.String())
}
