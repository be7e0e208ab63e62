package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxLen   int
		expected string
	}{
		{name: "shorter than max", s: "gmail", maxLen: 10, expected: "gmail"},
		{name: "equal to max", s: "gmail", maxLen: 5, expected: "gmail"},
		{name: "longer than max", s: "personal email", maxLen: 8, expected: "perso..."},
		{name: "maxLen under 3", s: "gmail", maxLen: 2, expected: "gm"},
		{name: "empty string", s: "", maxLen: 5, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateString(tt.s, tt.maxLen))
		})
	}
}

func TestPadString(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		width    int
		expected string
	}{
		{name: "shorter than width", s: "id", width: 5, expected: "id   "},
		{name: "equal to width", s: "notes", width: 5, expected: "notes"},
		{name: "longer than width", s: "username", width: 5, expected: "username"},
		{name: "width zero", s: "id", width: 0, expected: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PadString(tt.s, tt.width))
		})
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	cols := []Column{
		{Name: "ID", Key: "ID"},
		{Name: "Service", Key: "Service", Width: 8},
	}
	rows := []map[string]string{
		{"ID": "1", "Service": "Gmail"},
		{"ID": "2", "Service": "a very long service name"},
	}

	RenderTable(&buf, cols, rows)

	out := buf.String()
	assert.Contains(t, out, "Gmail")
	assert.Contains(t, out, "a ver...")
	assert.NotContains(t, out, "a very long service name")
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, []Column{{Name: "ID", Key: "ID"}}, nil)
	assert.Empty(t, buf.String())
}

func TestRowsOf(t *testing.T) {
	type item struct {
		ID   int64
		Name string
	}
	cols := []Column{{Name: "ID", Key: "ID"}, {Name: "Name", Key: "Name"}}

	rows := rowsOf([]item{{ID: 7, Name: "Gmail"}}, cols)
	assert.Equal(t, []map[string]string{{"ID": "7", "Name": "Gmail"}}, rows)

	assert.Nil(t, rowsOf("not a slice", cols))
}
