// Package output colours command output when it goes to a terminal.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Palette mirrors the classic git colours: green for staged, red for
// unstaged, brown for ids.
var (
	green = lipgloss.Color("2")
	red   = lipgloss.Color("1")
	brown = lipgloss.Color("3")
)

// Styles renders text for one writer.
type Styles struct {
	renderer *lipgloss.Renderer
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewStyles returns styles for w. Colour is disabled unless w is a terminal
// and NO_COLOR is unset.
func NewStyles(w io.Writer) *Styles {
	renderer := lipgloss.NewRenderer(w)
	if IsTerminal(w) && os.Getenv("NO_COLOR") == "" {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return &Styles{renderer: renderer}
}

func (s *Styles) render(c lipgloss.Color, text string) string {
	return s.renderer.NewStyle().Foreground(c).Render(text)
}

func (s *Styles) Staged(text string) string {
	return s.render(green, text)
}

func (s *Styles) Unstaged(text string) string {
	return s.render(red, text)
}

func (s *Styles) ID(text string) string {
	return s.render(brown, text)
}

func (s *Styles) Added(text string) string {
	return s.render(green, text)
}

func (s *Styles) Deleted(text string) string {
	return s.render(red, text)
}

func (s *Styles) Bold(text string) string {
	return s.renderer.NewStyle().Bold(true).Render(text)
}
