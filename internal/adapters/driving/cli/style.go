package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// palette styles report output when it goes to a terminal and leaves it
// plain otherwise, so piped output and tests see no escape codes.
type palette struct {
	enabled bool
	title   lipgloss.Style
	label   lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
}

func paletteFor(w io.Writer) palette {
	f, ok := w.(*os.File)
	return palette{
		enabled: ok && term.IsTerminal(int(f.Fd())),
		title:   lipgloss.NewStyle().Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		good:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
}

func (p palette) render(style lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return style.Render(text)
}

func (p palette) Title(text string) string { return p.render(p.title, text) }
func (p palette) Label(text string) string { return p.render(p.label, text) }
func (p palette) Good(text string) string  { return p.render(p.good, text) }
func (p palette) Bad(text string) string   { return p.render(p.bad, text) }
