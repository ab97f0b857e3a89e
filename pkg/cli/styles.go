package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for transcript rendering.
type Theme struct {
	Primary lipgloss.Color // Final transcripts
	Dim     lipgloss.Color // Partials, offsets and help text
	Warn    lipgloss.Color // Errors
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Warn:    lipgloss.Color("#ff6e6e"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Final   lipgloss.Style
	Partial lipgloss.Style
	Offset  lipgloss.Style
	Label   lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Final:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Partial: lipgloss.NewStyle().Italic(true).Foreground(t.Dim),
		Offset:  lipgloss.NewStyle().Foreground(t.Dim),
		Label:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Warn),
	}
}

// FinalLine renders a finalized utterance as "[m:ss.mmm] text".
func (s Styles) FinalLine(offset string, text string) string {
	if text == "" {
		text = "(silence)"
	}
	return s.Offset.Render("["+offset+"]") + " " + s.Final.Render(text)
}

// PartialLine renders an in-progress hypothesis.
func (s Styles) PartialLine(offset string, text string) string {
	return s.Offset.Render("["+offset+"]") + " " + s.Partial.Render(text+"…")
}

// KeyValues renders aligned "key: value" rows, keys in the Label style.
func (s Styles) KeyValues(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		pad := strings.Repeat(" ", width-lipgloss.Width(r[0]))
		lines[i] = fmt.Sprintf("%s%s  %s", s.Label.Render(r[0]+":"), pad, r[1])
	}
	return strings.Join(lines, "\n")
}
