package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Revenues float64   `json:"revenues"`
	Name     string    `json:"name"`
	History  []float64 `json:"history"`
}

func TestSmartParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"standard json", `{"revenues": 100.5, "name": "acme", "history": [1, 2]}`, FormatJSON},
		{"hjson with comments", "{\n  # trailing twelve months\n  revenues: 100.5\n  name: acme\n  history: [1, 2]\n}", FormatHJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			format, err := SmartParse([]byte(tt.input), &got)
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, sample{Revenues: 100.5, Name: "acme", History: []float64{1, 2}}, got)
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	var s sample
	require.NoError(t, DecodeStrict(strings.NewReader(`{"revenues": 3}`), &s))
	assert.Equal(t, 3.0, s.Revenues)

	assert.Error(t, DecodeStrict(strings.NewReader(`{"revenue": 3}`), &s), "unknown field")
	assert.Error(t, DecodeStrict(strings.NewReader(`{"revenues": 3} {}`), &s), "trailing value")
	assert.Error(t, DecodeStrict(strings.NewReader(`{"revenues": `), &s), "truncated")
}

func TestTable(t *testing.T) {
	got := NewTable("Item", "Value").
		Align(1, AlignRight).
		Row("Revenue", "$1.00").
		Row("a|b").
		String()

	want := "| Item | Value |\n" +
		"| --- | ---: |\n" +
		"| Revenue | $1.00 |\n" +
		"| a\\|b |  |\n"
	assert.Equal(t, want, got)
}

func TestCleanMarkdown(t *testing.T) {
	assert.Equal(t, "# Title", CleanMarkdown("```markdown\n# Title\n```"))
	assert.Equal(t, "# Title", CleanMarkdown("```\n# Title\n```"))
	assert.Equal(t, "plain", CleanMarkdown("  plain  "))
}
