// Package tui implements the Bubble Tea ride dashboard.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/veloratio/internal/drivetrain"
	"github.com/sprite-ai/veloratio/internal/logging"
	"github.com/sprite-ai/veloratio/internal/model"
	"github.com/sprite-ai/veloratio/internal/ride"
)

// field is a slider the rider can adjust.
type field int

const (
	fieldCadence field = iota
	fieldGradient
	fieldWeight
	fieldWind
	numFields
)

func (f field) String() string {
	switch f {
	case fieldCadence:
		return "Cadence"
	case fieldGradient:
		return "Gradient"
	case fieldWeight:
		return "Weight"
	case fieldWind:
		return "Wind"
	default:
		return "?"
	}
}

// adviceMsg carries a finished advice request back into Update.
type adviceMsg struct {
	result model.AdviceResult
	stored bool
}

// Model is the top-level Bubble Tea model.
type Model struct {
	ctx     context.Context
	session *ride.Session

	width  int
	height int

	focus     field
	showHelp  bool
	showCurve bool

	loading bool
	spinner spinner.Model
}

// New creates a dashboard over session. ctx bounds advice requests.
func New(ctx context.Context, session *ride.Session) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPurple)
	return Model{
		ctx:       ctx,
		session:   session,
		showCurve: true,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case adviceMsg:
		m.loading = m.session.Pending()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, keys.Help) || key.Matches(msg, keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.NextField):
			m.focus = (m.focus + 1) % numFields

		case key.Matches(msg, keys.PrevField):
			m.focus = (m.focus + numFields - 1) % numFields

		case key.Matches(msg, keys.Increase):
			m.adjust(1)

		case key.Matches(msg, keys.Decrease):
			m.adjust(-1)

		case key.Matches(msg, keys.ShiftHarder):
			m.session.ShiftRear(drivetrain.Harder)

		case key.Matches(msg, keys.ShiftEasier):
			m.session.ShiftRear(drivetrain.Easier)

		case key.Matches(msg, keys.SelectGear):
			m.selectGear(gearForKey(msg.String()))

		case key.Matches(msg, keys.ToggleFront):
			m.session.ToggleFront()

		case key.Matches(msg, keys.Curve):
			m.showCurve = !m.showCurve

		case key.Matches(msg, keys.Advice):
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, requestAdvice(m.ctx, m.session))

		case key.Matches(msg, keys.Help):
			m.showHelp = true
		}
	}

	return m, nil
}

// adjust moves the focused slider by one step in dir.
func (m *Model) adjust(dir float64) {
	snap := m.session.Snapshot()
	r := snap.Rider
	switch m.focus {
	case fieldCadence:
		m.session.SetCadence(r.CadenceRPM + int(dir*stepOf(snap.Ranges.Cadence)))
	case fieldGradient:
		m.session.SetGradient(r.GradientPercent + dir*stepOf(snap.Ranges.Gradient))
	case fieldWeight:
		m.session.SetRiderMass(r.RiderMassKg + dir*stepOf(snap.Ranges.RiderMass))
	case fieldWind:
		m.session.SetWind(r.WindKmh + dir*stepOf(snap.Ranges.Wind))
	}
}

// selectGear picks a cog by its gear number, 1 being the smallest cog.
func (m *Model) selectGear(n int) {
	cassette := m.session.Snapshot().Config.Cassette
	if n < 1 || n > len(cassette) {
		return
	}
	m.session.SelectRear(len(cassette) - n)
}

// gearForKey maps a digit key to a gear number: 1-9 as shown, 0 for gear 10
// and - for gear 11.
func gearForKey(k string) int {
	switch k {
	case "0":
		return 10
	case "-":
		return 11
	}
	if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
		return int(k[0] - '0')
	}
	return 0
}

func stepOf(r model.Range) float64 {
	if r.Step <= 0 {
		return 1
	}
	return r.Step
}

func requestAdvice(ctx context.Context, s *ride.Session) tea.Cmd {
	return func() tea.Msg {
		r, stored := s.RequestAdvice(ctx)
		return adviceMsg{result: r, stored: stored}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderGearPanel(), " ", m.renderTelemetryPanel())

	sections := []string{m.renderHeader(), top, m.renderSliders()}
	if m.showCurve {
		sections = append(sections, m.renderCurve())
	}
	sections = append(sections, m.renderAdvice(), m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run starts the dashboard. Log output is discarded while the alternate
// screen is active.
func Run(ctx context.Context, session *ride.Session) error {
	prev := slog.Default()
	slog.SetDefault(logging.Discard())
	defer slog.SetDefault(prev)

	p := tea.NewProgram(New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
