package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vanderheijden86/manyways/pkg/config"
)

const asciiProfile = termenv.Ascii

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme carries the palette and the pre-computed styles used by View.
type Theme struct {
	Renderer *lipgloss.Renderer
	Dark     bool

	// Colors
	Primary lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor
	Text    lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Danger  lipgloss.AdaptiveColor

	// Styles
	Base       lipgloss.Style
	Caption    lipgloss.Style
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Prompt     lipgloss.Style
	Hint       lipgloss.Style
	Cursor     lipgloss.Style
	Checked    lipgloss.Style
	Unchecked  lipgloss.Style
	Card       lipgloss.Style
	CardTitle  lipgloss.Style
	Bullet     lipgloss.Style
	Quote      lipgloss.Style
	Voice      lipgloss.Style
	Heading    lipgloss.Style
	Button     lipgloss.Style
	ButtonOff  lipgloss.Style
	KeyHint    lipgloss.Style
	Footer     lipgloss.Style
	Status     lipgloss.Style
	StatusErr  lipgloss.Style
	ProgressOn lipgloss.Style
	ProgressOf lipgloss.Style
}

// DefaultTheme returns the violet theme (adaptive to the terminal background).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,
		Dark:     r.HasDarkBackground(),

		Primary: lipgloss.AdaptiveColor{Light: "#57068C", Dark: "#BD93F9"}, // Violet
		Accent:  lipgloss.AdaptiveColor{Light: "#8900E1", Dark: "#FF79C6"},
		Text:    lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"},
		Subtext: lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BFBFBF"},
		Muted:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Border:  lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Success: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Danger:  lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(t.Text)
	t.Caption = r.NewStyle().Foreground(t.Muted)
	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Subtitle = r.NewStyle().Foreground(t.Subtext).Italic(true)
	t.Prompt = r.NewStyle().Foreground(t.Text)
	t.Hint = r.NewStyle().Foreground(t.Muted).Italic(true)

	t.Cursor = r.NewStyle().Foreground(ThemeFg("#FF79C6")).Bold(true)
	t.Checked = r.NewStyle().Foreground(t.Success).Bold(true)
	t.Unchecked = r.NewStyle().Foreground(t.Muted)

	t.Card = r.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		MarginBottom(1)
	t.CardTitle = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Bullet = r.NewStyle().Foreground(t.Text)
	t.Quote = r.NewStyle().Foreground(t.Subtext).Italic(true)

	t.Voice = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Subtext).
		Italic(true).
		Padding(0, 1)
	t.Heading = r.NewStyle().Foreground(t.Accent).Bold(true)

	t.Button = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)
	t.ButtonOff = r.NewStyle().
		Foreground(t.Muted).
		Strikethrough(true).
		Padding(0, 1)
	t.KeyHint = r.NewStyle().Foreground(t.Muted)

	t.Footer = r.NewStyle().Foreground(t.Muted).Italic(true)
	t.Status = r.NewStyle().Foreground(t.Subtext)
	t.StatusErr = r.NewStyle().Foreground(t.Danger)

	t.ProgressOn = r.NewStyle().Foreground(t.Primary)
	t.ProgressOf = r.NewStyle().Foreground(t.Border)

	return t
}

// ThemeFor builds the theme named by ui.theme. "dark" and "light" pin the
// renderer's background so adaptive colors stop depending on detection.
func ThemeFor(r *lipgloss.Renderer, name string) Theme {
	switch name {
	case config.ThemeDark:
		r.SetHasDarkBackground(true)
	case config.ThemeLight:
		r.SetHasDarkBackground(false)
	}
	return DefaultTheme(r)
}

// TestTheme returns a theme on a renderer with no color output, so View
// strings in tests contain only text.
func TestTheme() Theme {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(asciiProfile)
	r.SetHasDarkBackground(true)
	return DefaultTheme(r)
}
