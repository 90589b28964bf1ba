package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rshade/nutriboard/internal/tui"
)

// Output formats accepted by --output.
const (
	OutputTable  = "table"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
)

// validateOutputFormat checks the --output value.
func validateOutputFormat(format string) error {
	switch format {
	case OutputTable, OutputJSON, OutputNDJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (valid: %s, %s, %s)",
			format, OutputTable, OutputJSON, OutputNDJSON)
	}
}

// structured reports whether output bypasses the TUI entirely.
func (a *app) structured() bool {
	return a.flags.output == OutputJSON || a.flags.output == OutputNDJSON
}

// outputMode picks how table output is rendered for this terminal. Plain mode
// also switches lipgloss to the ASCII profile so no escape codes are written.
func (a *app) outputMode() tui.OutputMode {
	mode := tui.DetectOutputMode(false, a.flags.noColor, a.flags.plain)
	if mode == tui.OutputModePlain {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return mode
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

// writeNDJSON writes one compact JSON document per item.
func writeNDJSON[T any](w io.Writer, items []T) error {
	encoder := json.NewEncoder(w)
	for i, item := range items {
		if err := encoder.Encode(item); err != nil {
			return fmt.Errorf("encoding NDJSON item %d: %w", i, err)
		}
	}
	return nil
}

// writeStructured writes doc as JSON, or items as NDJSON.
func writeStructured[T any](w io.Writer, format string, doc any, items []T) error {
	if format == OutputNDJSON {
		return writeNDJSON(w, items)
	}
	return writeJSON(w, doc)
}

// runProgram runs an interactive Bubble Tea program until it quits.
func runProgram(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return final, fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return final, nil
}
