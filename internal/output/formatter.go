package output

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"
)

// Formatter renders command output. Data goes to stdout, diagnostics to
// stderr.
type Formatter interface {
	Print(data any) error
	PrintList(items any, columns []Column) error
	PrintError(err error)
	PrintHint(msg string)
}

// Column describes one column of a list rendering.
type Column struct {
	Name  string // display name
	Key   string // struct field name
	Width int    // rich-mode truncation width (0 = no limit)
}

// New creates a formatter for the given mode.
func New(mode string) Formatter {
	switch mode {
	case "json":
		return &jsonFormatter{}
	case "rich":
		return &richFormatter{profile: termenv.ColorProfile()}
	default:
		return &plainFormatter{}
	}
}

// jsonFormatter emits machine-readable JSON.
type jsonFormatter struct{}

func (f *jsonFormatter) Print(data any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *jsonFormatter) PrintList(items any, columns []Column) error {
	count := 0
	if v := reflect.ValueOf(items); v.Kind() == reflect.Slice {
		count = v.Len()
	}

	return f.Print(map[string]any{
		"data":  items,
		"count": count,
	})
}

func (f *jsonFormatter) PrintError(err error) {
	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	enc.Encode(map[string]string{"error": err.Error()})
}

func (f *jsonFormatter) PrintHint(msg string) {}

// plainFormatter emits tab-separated values for piping.
type plainFormatter struct{}

func (f *plainFormatter) Print(data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() == reflect.Struct {
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			fmt.Fprintf(os.Stdout, "%s\t%v\n", t.Field(i).Name, v.Field(i).Interface())
		}
		return nil
	}

	fmt.Fprintf(os.Stdout, "%v\n", data)
	return nil
}

func (f *plainFormatter) PrintList(items any, columns []Column) error {
	for _, row := range rowsOf(items, columns) {
		for i, col := range columns {
			if i > 0 {
				fmt.Fprint(os.Stdout, "\t")
			}
			fmt.Fprint(os.Stdout, row[col.Key])
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func (f *plainFormatter) PrintError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func (f *plainFormatter) PrintHint(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// richFormatter emits styled tables for interactive terminals.
type richFormatter struct {
	profile termenv.Profile
}

var (
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	hintStyle = lipgloss.NewStyle().Faint(true)
)

func (f *richFormatter) Print(data any) error {
	return (&plainFormatter{}).Print(data)
}

func (f *richFormatter) PrintList(items any, columns []Column) error {
	RenderTable(os.Stdout, columns, rowsOf(items, columns))
	return nil
}

func (f *richFormatter) PrintError(err error) {
	fmt.Fprintln(os.Stderr, errStyle.Render("error: ")+err.Error())
}

func (f *richFormatter) PrintHint(msg string) {
	fmt.Fprintln(os.Stderr, hintStyle.Render(msg))
}

// rowsOf flattens a slice of structs into string maps keyed by field name.
func rowsOf(items any, columns []Column) []map[string]string {
	v := reflect.ValueOf(items)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return nil
	}

	rows := make([]map[string]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		if item.Kind() == reflect.Ptr {
			item = item.Elem()
		}

		row := make(map[string]string, len(columns))
		for _, col := range columns {
			field := item.FieldByName(col.Key)
			if field.IsValid() {
				row[col.Key] = fmt.Sprintf("%v", field.Interface())
			}
		}
		rows = append(rows, row)
	}
	return rows
}
