// Package ui holds the shared terminal look: color tokens, icons, and
// the bubbletea models for the interactive flows. Everything that
// prints for humans goes through here; machine output (--json) never
// touches this package.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.Color("#7C6AEF") // violet accent
	ColorGreen   = lipgloss.Color("#4BC66D")
	ColorWarning = lipgloss.Color("#E5A83B")
	ColorError   = lipgloss.Color("#E05252")
	ColorText    = lipgloss.Color("#D8D8D8")
	ColorTextDim = lipgloss.Color("#9A9A9A")
	ColorMuted   = lipgloss.Color("#5C5C5C")
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconBroom   = "🧹"
	IconBullet  = "·"
	IconBlock   = "▌"
	IconPipe    = "│"
	IconChevron = "›"
	IconWarning = "⚠"
	IconSelect  = "●"
	IconEmpty   = "○"
)

// ─── Style helpers ───────────────────────────────────────────────────────────

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
}

func HintBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

func TagCautionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1A1A1A")).
		Background(ColorWarning).
		Bold(true)
}

func SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorPrimary)
}

// Bar renders a proportional usage bar of the given width for a
// percentage in 0..100.
func Bar(pct float64, width int) string {
	if width < 1 {
		width = 1
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct/100*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	color := ColorGreen
	switch {
	case pct >= 75:
		color = ColorError
	case pct >= 40:
		color = ColorWarning
	}

	full := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return full + rest
}
