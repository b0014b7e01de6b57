package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sharpen/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ScoreStyle colors a 0-100 score: green from 80, yellow from 60, red below.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return StyleGreen
	case score >= 60:
		return StyleYellow
	default:
		return StyleRed
	}
}

// Score renders a colored score.
func Score(score int) string {
	return ScoreStyle(score).Render(fmt.Sprintf("%d", score))
}

// StateBadge returns a colored indicator for a session state.
func StateBadge(state domain.SessionState) string {
	switch state {
	case domain.StateActive:
		return StyleGreen.Render("● ACTIVE")
	case domain.StatePaused:
		return StyleYellow.Render("○ PAUSED")
	case domain.StateCompleted:
		return StyleDim.Render("✔ DONE")
	default:
		return StyleDim.Render("· READY")
	}
}

// KindLabel is the human label of a session kind.
func KindLabel(kind domain.SessionKind) string {
	switch kind {
	case domain.KindWorkout:
		return StyleBlue.Render("Workout")
	case domain.KindClarityReset:
		return StylePurple.Render("Clarity reset")
	case domain.KindPromptDrill:
		return StyleYellow.Render("Prompt drill")
	}
	return StyleDim.Render(string(kind))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
