package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown for a terminal. style is a glamour standard style
// ("dark", "light", "notty", ...); empty detects from the terminal.
func Terminal(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render terminal report: %w", err)
	}
	return out, nil
}
