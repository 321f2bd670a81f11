package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	Accent   = lipgloss.Color("#E5A00D")
	DimGray  = lipgloss.Color("#6B7280")
	Green    = lipgloss.Color("#10B981")
	Red      = lipgloss.Color("#EF4444")
	LightRed = lipgloss.Color("#F87171")
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// style returns s when w is a terminal and a no-op style otherwise, so
// redirected output stays plain.
func style(w io.Writer, s lipgloss.Style) lipgloss.Style {
	if !isTerminal(w) {
		return lipgloss.NewStyle()
	}
	return s
}

func titleStyle(w io.Writer) lipgloss.Style {
	return style(w, lipgloss.NewStyle().Foreground(Accent).Bold(true))
}

func dimStyle(w io.Writer) lipgloss.Style {
	return style(w, lipgloss.NewStyle().Foreground(DimGray))
}

func successStyle(w io.Writer) lipgloss.Style {
	return style(w, lipgloss.NewStyle().Foreground(Green))
}

func errorStyle(w io.Writer) lipgloss.Style {
	return style(w, lipgloss.NewStyle().Foreground(Red))
}

func favoriteMark(w io.Writer, on bool) string {
	if !on {
		return ""
	}
	return style(w, lipgloss.NewStyle().Foreground(LightRed)).Render("♥")
}
