package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so everything uses lipgloss.AdaptiveColor.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// hasDarkBackground honors an explicit LOSTAF_TUI_THEME override before
// falling back to terminal detection. Detection can block on some
// terminals, so the override is also the escape hatch for odd setups.
func hasDarkBackground() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOSTAF_TUI_THEME"))) {
	case "light":
		return false
	case "dark":
		return true
	}
	return termenv.HasDarkBackground()
}

var (
	colorMuted   = ac("240", "243")
	colorAccent  = ac("27", "62") // blue
	colorDanger  = ac("124", "203")
	colorSuccess = ac("28", "78")

	colorLostBadge  = ac("124", "203") // red: a lost report
	colorFoundBadge = ac("28", "78")   // green: a found report

	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)

	breadcrumbStyle = lipgloss.NewStyle().Foreground(colorMuted)

	footerStyle = lipgloss.NewStyle().Foreground(colorMuted)

	badgeLostStyle = lipgloss.NewStyle().
			Foreground(colorLostBadge).
			Bold(true)

	badgeFoundStyle = lipgloss.NewStyle().
			Foreground(colorFoundBadge).
			Bold(true)

	resolvedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	noticeInfoStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	noticeErrorStyle = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)

	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)

	focusedFieldStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

func typeBadge(lost bool) string {
	if lost {
		return badgeLostStyle.Render("LOST")
	}
	return badgeFoundStyle.Render("FOUND")
}
