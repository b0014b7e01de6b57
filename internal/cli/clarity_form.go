package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sharpen/internal/cli/formatter"
	"github.com/alexanderramin/sharpen/internal/domain"
)

// sharpenHuhTheme returns a huh theme using the formatter palette.
func sharpenHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// clarityAnswers backs the check-in form shown after a clarity reset.
type clarityAnswers struct {
	Intent string
	Fog    int
}

// Data converts the answers; a zero fog level means the question was skipped.
func (a clarityAnswers) Data() domain.CompletionData {
	data := domain.CompletionData{Intent: strings.TrimSpace(a.Intent)}
	if a.Fog >= 1 && a.Fog <= 5 {
		fog := a.Fog
		data.FogLevel = &fog
	}
	return data
}

func fogOptions() []huh.Option[int] {
	labels := []string{"skip", "1 · crystal clear", "2 · mostly clear", "3 · a bit hazy", "4 · foggy", "5 · can't think straight"}
	opts := make([]huh.Option[int], 0, len(labels))
	for i, l := range labels {
		opts = append(opts, huh.NewOption(l, i))
	}
	return opts
}

func newClarityForm(a *clarityAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What will you focus on next?").
				Description("A few specific words earn more thinking impact.").
				CharLimit(200).
				Value(&a.Intent),
			huh.NewSelect[int]().
				Title("How foggy do you feel right now?").
				Options(fogOptions()...).
				Value(&a.Fog),
		),
	).WithTheme(sharpenHuhTheme()).WithShowHelp(false)
}

func runClarityForm(ctx context.Context) (domain.CompletionData, error) {
	var a clarityAnswers
	if err := newClarityForm(&a).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return domain.CompletionData{}, nil
		}
		return domain.CompletionData{}, fmt.Errorf("clarity check-in: %w", err)
	}
	return a.Data(), nil
}
