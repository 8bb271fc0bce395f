package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/veloratio/internal/model"
)

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	// Gear panel
	gearNumberStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Bold(true)

	gearOKStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	gearWarnStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	sprocketStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	sprocketActiveStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	// Telemetry
	metricLabelStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Width(10)

	metricValueStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)

	// Sliders
	sliderLabelStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Width(10)

	sliderFocusStyle = lipgloss.NewStyle().
				Foreground(colorPurple).
				Bold(true).
				Width(10)

	sliderFillStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	sliderTrackStyle = lipgloss.NewStyle().
				Foreground(colorBorder)

	// Curve
	curveBarStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	curveBarActiveStyle = lipgloss.NewStyle().
				Foreground(colorOrange).
				Bold(true)

	// Advice
	adviceTextStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	adviceHintStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help
	helpHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// categoryStyle colours an advice badge by category.
func categoryStyle(c model.AdviceCategory) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch c {
	case model.CategoryClimbing:
		return s.Foreground(colorOrange)
	case model.CategorySprinting:
		return s.Foreground(colorPurple)
	case model.CategoryCruising:
		return s.Foreground(colorGreen)
	case model.CategoryCrossChain:
		return s.Foreground(colorRed)
	default:
		return s.Foreground(colorBlue)
	}
}
