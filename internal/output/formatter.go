package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"
)

// Formatter is the interface for output formatting
type Formatter interface {
	Print(data any) error
	PrintList(items any, columns []Column) error
	PrintResult(msg string, data any) error
	PrintQR(content string) error
	PrintError(err error)
	PrintHint(msg string)
}

// Column defines a column for table/list output
type Column struct {
	Name  string // Display name
	Key   string // Struct field name or map key
	Width int    // Width for rich mode (0 = auto)
}

// New creates a formatter for the specified mode writing to stdout/stderr
func New(mode string) Formatter {
	return NewWithWriters(mode, os.Stdout, os.Stderr)
}

// NewWithWriters creates a formatter that writes results to out and
// errors and hints to errOut.
func NewWithWriters(mode string, out, errOut io.Writer) Formatter {
	switch mode {
	case "json":
		return &jsonFormatter{out: out, errOut: errOut}
	case "rich":
		return &richFormatter{
			plainFormatter: plainFormatter{out: out, errOut: errOut},
			profile:        termenv.EnvColorProfile(),
		}
	default:
		return &plainFormatter{out: out, errOut: errOut}
	}
}

// jsonFormatter outputs JSON
type jsonFormatter struct {
	out, errOut io.Writer
}

func (f *jsonFormatter) Print(data any) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *jsonFormatter) PrintList(items any, columns []Column) error {
	v := reflect.ValueOf(items)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	count := 0
	if v.Kind() == reflect.Slice {
		count = v.Len()
	}

	return f.Print(map[string]any{
		"data":  items,
		"count": count,
	})
}

// PrintResult encodes data; the human-readable message is dropped
func (f *jsonFormatter) PrintResult(_ string, data any) error {
	if data == nil {
		return nil
	}
	return f.Print(data)
}

// PrintQR is silent: the URI is part of the printed object
func (f *jsonFormatter) PrintQR(string) error { return nil }

func (f *jsonFormatter) PrintError(err error) {
	enc := json.NewEncoder(f.errOut)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]string{"error": err.Error()})
}

func (f *jsonFormatter) PrintHint(string) {}

// plainFormatter outputs tab-separated values
type plainFormatter struct {
	out, errOut io.Writer
}

func (f *plainFormatter) Print(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() == reflect.Struct {
		for _, kv := range structFields(v) {
			fmt.Fprintf(f.out, "%s\t%s\n", kv[0], kv[1])
		}
		return nil
	}

	fmt.Fprintf(f.out, "%v\n", data)
	return nil
}

func (f *plainFormatter) PrintList(items any, columns []Column) error {
	rows, err := listRows(items, columns)
	if err != nil {
		return err
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}
	fmt.Fprintln(f.out, strings.Join(headers, "\t"))

	for _, row := range rows {
		values := make([]string, len(columns))
		for j, col := range columns {
			values[j] = row[col.Key]
		}
		fmt.Fprintln(f.out, strings.Join(values, "\t"))
	}
	return nil
}

func (f *plainFormatter) PrintResult(msg string, _ any) error {
	_, err := fmt.Fprintln(f.out, msg)
	return err
}

func (f *plainFormatter) PrintQR(content string) error {
	return RenderQR(f.out, content)
}

func (f *plainFormatter) PrintError(err error) {
	fmt.Fprintf(f.errOut, "error: %v\n", err)
}

func (f *plainFormatter) PrintHint(msg string) {
	fmt.Fprintf(f.errOut, "hint: %v\n", msg)
}

// richFormatter outputs styled content for terminal
type richFormatter struct {
	plainFormatter
	profile termenv.Profile
}

// style drops all styling when the terminal or NO_COLOR asks for none
func (f *richFormatter) style(s lipgloss.Style) lipgloss.Style {
	if f.profile == termenv.Ascii {
		return lipgloss.NewStyle()
	}
	return s
}

func (f *richFormatter) Print(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() == reflect.Struct {
		keyStyle := f.style(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")))
		valueStyle := f.style(lipgloss.NewStyle().Foreground(lipgloss.Color("15")))

		for _, kv := range structFields(v) {
			fmt.Fprintf(f.out, "%s: %s\n", keyStyle.Render(kv[0]), valueStyle.Render(kv[1]))
		}
		return nil
	}

	fmt.Fprintf(f.out, "%v\n", data)
	return nil
}

func (f *richFormatter) PrintList(items any, columns []Column) error {
	rows, err := listRows(items, columns)
	if err != nil {
		return err
	}

	headerStyle := f.style(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")))
	RenderTable(f.out, columns, rows, headerStyle)
	return nil
}

func (f *richFormatter) PrintResult(msg string, _ any) error {
	okStyle := f.style(lipgloss.NewStyle().Foreground(lipgloss.Color("10")))
	_, err := fmt.Fprintln(f.out, okStyle.Render(msg))
	return err
}

func (f *richFormatter) PrintError(err error) {
	errorStyle := f.style(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")))
	fmt.Fprintln(f.errOut, errorStyle.Render("error: "+err.Error()))
}

func (f *richFormatter) PrintHint(msg string) {
	hintStyle := f.style(lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("8")))
	fmt.Fprintln(f.errOut, hintStyle.Render("hint: "+msg))
}

// structFields returns display name and value pairs for exported fields.
// The display name is the json tag when present; fields tagged "-" are
// skipped.
func structFields(v reflect.Value) [][2]string {
	t := v.Type()
	pairs := make([][2]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		}
		pairs = append(pairs, [2]string{name, fmt.Sprintf("%v", v.Field(i).Interface())})
	}
	return pairs
}

// listRows flattens a slice of structs or maps into rows keyed by column key
func listRows(items any, columns []Column) ([]map[string]string, error) {
	v := reflect.ValueOf(items)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("PrintList requires a slice")
	}

	rows := make([]map[string]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		if item.Kind() == reflect.Ptr {
			item = item.Elem()
		}

		row := make(map[string]string, len(columns))
		for _, col := range columns {
			var field reflect.Value
			switch item.Kind() {
			case reflect.Map:
				field = item.MapIndex(reflect.ValueOf(col.Key))
			case reflect.Struct:
				field = item.FieldByName(col.Key)
			}
			if field.IsValid() {
				row[col.Key] = fmt.Sprintf("%v", field.Interface())
			}
		}
		rows[i] = row
	}
	return rows, nil
}
