package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"railbook-cli/model"
)

// theme turns the accessibility settings into terminal styles. A terminal
// cannot change its font, so font size widens seat cells, high contrast
// swaps the palette and the dyslexia setting spaces out headings and drops
// faint text.
type theme struct {
	settings model.Settings

	title     lipgloss.Style
	faint     lipgloss.Style
	errText   lipgloss.Style
	notice    lipgloss.Style
	available lipgloss.Style
	selected  lipgloss.Style
	occupied  lipgloss.Style
	blocked   lipgloss.Style
	cursor    lipgloss.Style
	accent    lipgloss.Color
}

func newTheme(s model.Settings) theme {
	t := theme{settings: s}
	if s.HighContrast {
		t.accent = lipgloss.Color("11")
		t.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("0"))
		t.faint = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
		t.errText = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
		t.notice = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
		t.available = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
		t.selected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
		t.occupied = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Strikethrough(true)
		t.blocked = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		t.cursor = lipgloss.NewStyle().Bold(true).Underline(true).Reverse(true)
	} else {
		t.accent = lipgloss.Color("63")
		t.title = lipgloss.NewStyle().Bold(true)
		t.faint = lipgloss.NewStyle().Faint(true)
		t.errText = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		t.notice = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		t.available = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		t.selected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63"))
		t.occupied = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		t.blocked = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		t.cursor = lipgloss.NewStyle().Underline(true).Reverse(true)
	}
	if s.DyslexiaFont {
		t.faint = lipgloss.NewStyle()
	}
	return t
}

// cellPad is the extra width given to every seat cell.
func (t theme) cellPad() int {
	size := t.settings.FontSize
	if size < model.MinFontSize || size > model.MaxFontSize {
		size = model.DefaultFontSize
	}
	return size - 1
}

func (t theme) heading(text string) string {
	if t.settings.DyslexiaFont {
		text = letterSpaced(text)
	}
	return t.title.Render(text)
}

func (t theme) hint(text string) string {
	return t.faint.Render(text)
}

func letterSpaced(text string) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
