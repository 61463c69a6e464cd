// Package ui provides the terminal widgets for maskfield: masked inputs, the
// form page, tables and the light/dark palette they share.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// labelWidth aligns field inputs in a column.
const labelWidth = 16

// Theme is a named palette. Colors are roles, not hues.
type Theme struct {
	Name   string
	IsDark bool

	Text    lipgloss.Color
	Heading lipgloss.Color
	Focus   lipgloss.Color
	Faint   lipgloss.Color
	Frame   lipgloss.Color

	Good    lipgloss.Color
	Bad     lipgloss.Color
	Caution lipgloss.Color
}

var (
	lightTheme = Theme{
		Name:    "light",
		Text:    "#1d2433",
		Heading: "#1d4ed8",
		Focus:   "#0f766e",
		Faint:   "#7b8494",
		Frame:   "#cfd5de",
		Good:    "#15803d",
		Bad:     "#b91c1c",
		Caution: "#b45309",
	}
	darkTheme = Theme{
		Name:    "dark",
		IsDark:  true,
		Text:    "#e6e9ef",
		Heading: "#7aa2f7",
		Focus:   "#2ac3de",
		Faint:   "#737aa2",
		Frame:   "#3b4261",
		Good:    "#9ece6a",
		Bad:     "#f7768e",
		Caution: "#e0af68",
	}
)

func LightTheme() Theme { return lightTheme }
func DarkTheme() Theme  { return darkTheme }

// ThemeFor picks a theme by name. Anything other than "light" or "dark"
// falls back to terminal detection.
func ThemeFor(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return darkTheme
	case "light":
		return lightTheme
	default:
		return DetectTheme()
	}
}

// DetectTheme reads the background index from COLORFGBG ("fg;bg" or
// "fg;default;bg") and defaults to light.
func DetectTheme() Theme {
	fields := strings.Split(os.Getenv("COLORFGBG"), ";")
	bg, err := strconv.Atoi(fields[len(fields)-1])
	if err == nil && (bg < 7 || bg == 8) {
		return darkTheme
	}
	return lightTheme
}

// Styles are the rendered roles of a Theme.
type Styles struct {
	Theme Theme

	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Input        lipgloss.Style
	FocusedInput lipgloss.Style
	Hint         lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	Border lipgloss.Style
}

// NewStyles renders t.
func NewStyles(t Theme) Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	box := fg(t.Text).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	label := fg(t.Text).Width(labelWidth)

	return Styles{
		Theme: t,

		Title: fg(t.Heading).Bold(true).MarginBottom(1),
		Body:  fg(t.Text),
		Muted: fg(t.Faint),
		Bold:  fg(t.Text).Bold(true),

		Label:        label,
		FocusedLabel: label.Foreground(t.Focus).Bold(true),
		Input:        box.BorderForeground(t.Frame),
		FocusedInput: box.BorderForeground(t.Focus),
		Hint:         fg(t.Faint).Italic(true),

		Success: fg(t.Good).Bold(true),
		Error:   fg(t.Bad),
		Warning: fg(t.Caution),

		Border: fg(t.Frame),
	}
}

// DefaultStyles renders the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
