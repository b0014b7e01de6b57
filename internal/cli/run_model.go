package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/sharpen/internal/cli/formatter"
	"github.com/alexanderramin/sharpen/internal/domain"
)

const (
	refreshInterval = time.Second
	barWidth        = 40
)

type (
	tickMsg      time.Time
	refreshedMsg struct {
		session domain.Session
		err     error
	}
	scoredMsg struct {
		result domain.ScoreResult
		err    error
	}
	toggledMsg struct {
		session domain.Session
		err     error
	}
	abandonedMsg struct{ err error }
)

// runModel is the full-screen view of one foreground session. It polls the
// session manager once a second; the manager owns the timer.
type runModel struct {
	ctx      context.Context
	app      *App
	activity domain.Activity
	session  domain.Session

	input textinput.Model
	bar   progress.Model

	last    *domain.ScoreResult
	err     error
	outcome runOutcome
}

func newRunModel(ctx context.Context, app *App, activity domain.Activity, s domain.Session) *runModel {
	ti := textinput.New()
	ti.Prompt = formatter.StyleHeader.Render("❯ ")
	ti.CharLimit = 2000
	ti.Width = barWidth + 20
	switch s.Kind {
	case domain.KindPromptDrill:
		ti.Placeholder = "write your prompt and press Enter"
		ti.Focus()
	case domain.KindWorkout:
		ti.Placeholder = "points scored"
		ti.CharLimit = 9
		ti.Focus()
	}

	bar := progress.New(
		progress.WithGradient(string(formatter.ColorHeader), string(formatter.ColorGreen)),
		progress.WithoutPercentage(),
	)
	bar.Width = barWidth

	return &runModel{ctx: ctx, app: app, activity: activity, session: s, input: ti, bar: bar}
}

func (m *runModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())

	case refreshedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		if m.session.State == domain.StateCompleted {
			m.outcome = outcomeTimedOut
			return m, tea.Quit
		}
		return m, nil

	case scoredMsg:
		switch {
		case errors.Is(msg.err, domain.ErrInvalidState):
			return m, m.refresh()
		case msg.err != nil:
			m.err = msg.err
		default:
			m.err = nil
			res := msg.result
			m.last = &res
		}
		return m, m.refresh()

	case toggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.session = msg.session
		return m, nil

	case abandonedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.outcome = outcomeAbandoned
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *runModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.outcome = outcomeDetached
		return m, tea.Quit
	case tea.KeyEsc:
		return m, m.abandon()
	case tea.KeyCtrlP:
		return m, m.toggle()
	case tea.KeyCtrlD:
		m.outcome = outcomeComplete
		return m, tea.Quit
	case tea.KeyEnter:
		if m.session.Kind == domain.KindClarityReset {
			m.outcome = outcomeComplete
			return m, tea.Quit
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		artifact, err := artifactFor(m.session.Kind, text)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.input.Reset()
		return m, m.submit(artifact)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *runModel) refresh() tea.Cmd {
	id := m.session.ID
	return func() tea.Msg {
		s, err := m.app.Sessions.Get(m.ctx, id)
		return refreshedMsg{session: s, err: err}
	}
}

func (m *runModel) submit(a domain.Artifact) tea.Cmd {
	id := m.session.ID
	return func() tea.Msg {
		res, err := m.app.Sessions.Submit(m.ctx, id, a)
		return scoredMsg{result: res, err: err}
	}
}

func (m *runModel) toggle() tea.Cmd {
	id, state := m.session.ID, m.session.State
	return func() tea.Msg {
		var (
			s   domain.Session
			err error
		)
		if state == domain.StatePaused {
			s, err = m.app.Sessions.Resume(m.ctx, id)
		} else {
			s, err = m.app.Sessions.Pause(m.ctx, id)
		}
		return toggledMsg{session: s, err: err}
	}
}

func (m *runModel) abandon() tea.Cmd {
	id := m.session.ID
	return func() tea.Msg {
		return abandonedMsg{err: m.app.Sessions.Abandon(m.ctx, id)}
	}
}

func (m *runModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n", formatter.KindLabel(m.activity.Kind), formatter.Bold(m.activity.Name), formatter.StateBadge(m.session.State))
	if m.activity.Description != "" {
		fmt.Fprintln(&b, formatter.Dim(m.activity.Description))
	}
	b.WriteString("\n")

	elapsed := 0.0
	if m.session.TotalDurationMs > 0 {
		elapsed = float64(m.session.ElapsedMs) / float64(m.session.TotalDurationMs)
	}
	fmt.Fprintf(&b, "%s  %s left\n\n", m.bar.ViewAs(elapsed), formatter.Bold(formatter.Clock(m.session.RemainingMs())))

	for _, step := range m.activity.Instructions {
		fmt.Fprintf(&b, "  • %s\n", step)
	}
	if m.activity.SuggestedPrompt != "" {
		fmt.Fprintf(&b, "%s %s\n", formatter.StyleBlue.Render("Task:"), m.activity.SuggestedPrompt)
	}

	if m.session.Kind != domain.KindClarityReset {
		fmt.Fprintf(&b, "\n%s\n", m.input.View())
	}
	if m.last != nil {
		fmt.Fprintf(&b, "\n%s", formatter.FormatScore(*m.last))
		if n := len(m.session.Submissions); n > 1 {
			fmt.Fprintln(&b, formatter.Dim(formatter.Plural(n, "submission", "submissions")+" so far"))
		}
	}
	if m.err != nil {
		fmt.Fprintf(&b, "\n%s\n", formatter.StyleRed.Render(m.err.Error()))
	}

	fmt.Fprintf(&b, "\n%s\n", formatter.Dim(m.help()))
	return b.String()
}

func (m *runModel) help() string {
	pause := "ctrl+p pause"
	if m.session.State == domain.StatePaused {
		pause = "ctrl+p resume"
	}
	first := "enter submit · ctrl+d finish"
	if m.session.Kind == domain.KindClarityReset {
		first = "enter finish"
	}
	return strings.Join([]string{first, pause, "esc abandon", "ctrl+c leave open"}, " · ")
}

func runInteractive(ctx context.Context, app *App, out io.Writer, activity domain.Activity, s domain.Session) error {
	m := newRunModel(ctx, app, activity, s)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(out), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("running session view: %w", err)
	}
	rm := final.(*runModel)
	return finishRun(ctx, app, out, rm.session, rm.outcome, func() (domain.CompletionData, error) {
		return runClarityForm(ctx)
	})
}
