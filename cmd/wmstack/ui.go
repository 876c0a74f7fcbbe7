package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleID     = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleOK     = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarn   = lipgloss.NewStyle().Foreground(colorYellow)
	styleLabel  = lipgloss.NewStyle().Foreground(colorGray)
	styleLayers = map[string]lipgloss.Style{
		"desktop":    lipgloss.NewStyle().Foreground(colorDim),
		"below":      lipgloss.NewStyle().Foreground(colorGray),
		"normal":     lipgloss.NewStyle(),
		"above":      lipgloss.NewStyle().Foreground(colorGreen),
		"fullscreen": lipgloss.NewStyle().Foreground(colorYellow),
		"ontop":      lipgloss.NewStyle().Bold(true).Foreground(colorYellow),
	}
)

// printer writes to w, styling only when w is a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &printer{w: w, color: color}
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *printer) layer(name string) string {
	s, ok := styleLayers[name]
	if !ok {
		s = styleDim
	}
	return p.style(s, fmt.Sprintf("%-13s", name))
}

func (p *printer) title(text string) {
	fmt.Fprintln(p.w, p.style(styleTitle, text))
}

func (p *printer) field(label string, value any) {
	fmt.Fprintf(p.w, "%s %v\n", p.style(styleLabel, fmt.Sprintf("%-15s", label+":")), value)
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}
