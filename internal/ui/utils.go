package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// IsInteractive reports whether stdout is a terminal. Summaries are
// rendered plain when output is piped or redirected.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Field is one labelled line of a summary block.
type Field struct {
	Label string
	Value string
}

// Summary is the block every converter prints before it starts writing.
type Summary struct {
	Title  string
	Fields []Field
}

// NewSummary creates a summary titled "Summary".
func NewSummary() *Summary {
	return &Summary{Title: "Summary"}
}

// Add appends a field. Empty values render as "-".
func (s *Summary) Add(label string, value any) *Summary {
	v := fmt.Sprint(value)
	if v == "" {
		v = "-"
	}
	s.Fields = append(s.Fields, Field{Label: label, Value: v})
	return s
}

// Render returns the block with right-aligned labels. The plain form is
//
//	Summary:
//	|              UIN: 111
//	|  Input Directory: /src
func (s *Summary) Render(plain bool) string {
	width := 0
	for _, f := range s.Fields {
		if w := lipgloss.Width(f.Label); w > width {
			width = w
		}
	}

	if plain {
		var sb strings.Builder
		sb.WriteString(s.Title + ":\n")
		for _, f := range s.Fields {
			sb.WriteString(fmt.Sprintf("| %s: %s\n", padLeft(f.Label, width), f.Value))
		}
		return sb.String()
	}

	lines := []string{StyleHeader.Render(s.Title)}
	for _, f := range s.Fields {
		lines = append(lines, StyleSubtle.Render(padLeft(f.Label, width)+":")+" "+StyleText.Render(f.Value))
	}
	return StyleSummaryBox.Render(strings.Join(lines, "\n")) + "\n"
}

// Print writes the summary to w, styled when stdout is a terminal.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprint(w, s.Render(!IsInteractive()))
}

// padLeft right-aligns s in the given display width.
func padLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

// Done formats a completion line such as "✓ 12 contacts written".
func Done(plain bool, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if plain {
		return "done: " + msg
	}
	return Icon("✓", StyleSuccess) + " " + msg
}

// Warn formats a warning line.
func Warn(plain bool, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if plain {
		return "warning: " + msg
	}
	return Icon("!", StyleWarning) + " " + StyleWarning.Render(msg)
}
