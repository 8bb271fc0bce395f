package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/veloratio/internal/advice"
	"github.com/sprite-ai/veloratio/internal/drivetrain"
	"github.com/sprite-ai/veloratio/internal/model"
)

const (
	sliderWidth = 24
	curveWidth  = 30
)

func (m Model) halfWidth() int {
	w := (m.width - 1) / 2
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) renderHeader() string {
	snap := m.session.Snapshot()
	return titleStyle.Render("veloratio") + "  " + sprocketStyle.Render(snap.Config.Describe())
}

func (m Model) renderGearPanel() string {
	snap := m.session.Snapshot()
	tel := m.session.Telemetry()
	class := m.session.Class()

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Gear"))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s  %dT x %dT\n",
		gearNumberStyle.Render(fmt.Sprintf("Gear %d", drivetrain.GearNumber(snap.Selection, snap.Config))),
		tel.FrontTeeth, tel.RearTeeth)

	label := gearOKStyle
	if class.Warning() {
		label = gearWarnStyle
	}
	b.WriteString(label.Render(class.Label()))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "ratio %.2f  %.1f in\n\n", tel.GearRatio, tel.GearInches)

	b.WriteString(sprocketStyle.Render("front "))
	b.WriteString(renderSprockets(snap.Config.Chainrings, snap.Selection.Front))
	b.WriteByte('\n')
	b.WriteString(sprocketStyle.Render("rear  "))
	b.WriteString(renderSprockets(snap.Config.Cassette, snap.Selection.Rear))

	return panelStyle.Width(m.halfWidth()).Render(b.String())
}

// renderSprockets draws each tooth count with the selected one highlighted.
func renderSprockets(teeth []int, selected int) string {
	parts := make([]string, len(teeth))
	for i, t := range teeth {
		s := fmt.Sprintf("%d", t)
		if i == selected {
			parts[i] = sprocketActiveStyle.Render(s)
		} else {
			parts[i] = sprocketStyle.Render(s)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderTelemetryPanel() string {
	tel := m.session.Telemetry()
	bd := m.session.Breakdown()

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Telemetry"))
	b.WriteByte('\n')
	metric := func(label, value string) {
		b.WriteString(metricLabelStyle.Render(label))
		b.WriteString(metricValueStyle.Render(value))
		b.WriteByte('\n')
	}
	metric("Speed", fmt.Sprintf("%.1f km/h", tel.SpeedKmh))
	metric("", fmt.Sprintf("%.1f mph", tel.SpeedMph))
	metric("Power", fmt.Sprintf("%d W", int(math.Round(tel.PowerWatts))))
	metric("W/kg", fmt.Sprintf("%.2f", tel.WattsPerKg))
	metric("Mass", fmt.Sprintf("%g kg", tel.TotalMassKg))
	b.WriteString(sprocketStyle.Render(fmt.Sprintf("roll %d  grav %d  aero %d W",
		int(math.Round(bd.Rolling)), int(math.Round(bd.Gravity)), int(math.Round(bd.Aero)))))

	return panelStyle.Width(m.halfWidth()).Render(b.String())
}

func (m Model) renderSliders() string {
	snap := m.session.Snapshot()
	r := snap.Rider

	rows := []struct {
		f     field
		value float64
		rng   model.Range
		text  string
	}{
		{fieldCadence, float64(r.CadenceRPM), snap.Ranges.Cadence, fmt.Sprintf("%d RPM", r.CadenceRPM)},
		{fieldGradient, r.GradientPercent, snap.Ranges.Gradient, fmt.Sprintf("%g%%", r.GradientPercent)},
		{fieldWeight, r.RiderMassKg, snap.Ranges.RiderMass, fmt.Sprintf("%g kg", r.RiderMassKg)},
		{fieldWind, r.WindKmh, snap.Ranges.Wind, advice.WindDescription(r.WindKmh)},
	}

	var b strings.Builder
	for i, row := range rows {
		cursor := "  "
		label := sliderLabelStyle
		if row.f == m.focus {
			cursor = "> "
			label = sliderFocusStyle
		}
		b.WriteString(cursor)
		b.WriteString(label.Render(row.f.String()))
		b.WriteString(renderSlider(row.value, row.rng))
		b.WriteString("  ")
		b.WriteString(row.text)
		if i < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return panelStyle.Width(m.width - 2).Render(b.String())
}

func renderSlider(v float64, r model.Range) string {
	filled := 0
	if r.Max > r.Min {
		filled = int(math.Round((v - r.Min) / (r.Max - r.Min) * sliderWidth))
	}
	filled = max(0, min(filled, sliderWidth))
	return sliderFillStyle.Render(strings.Repeat("█", filled)) +
		sliderTrackStyle.Render(strings.Repeat("░", sliderWidth-filled))
}

func (m Model) renderCurve() string {
	snap := m.session.Snapshot()
	points := m.session.Curve()
	tel := m.session.Telemetry()

	top := 0.0
	for _, p := range points {
		top = math.Max(top, p.SpeedKmh)
	}

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(fmt.Sprintf("Speed curve  %d RPM on %dT", snap.Rider.CadenceRPM, tel.FrontTeeth)))
	for _, p := range points {
		n := 0
		if top > 0 {
			n = int(math.Round(p.SpeedKmh / top * curveWidth))
		}
		style := curveBarStyle
		if p.Teeth == tel.RearTeeth {
			style = curveBarActiveStyle
		}
		fmt.Fprintf(&b, "\n%4s %s %.1f", p.Label, style.Render(strings.Repeat("▇", n)), p.SpeedKmh)
	}
	return panelStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) renderAdvice() string {
	var body string
	switch a, ok := m.session.Advice(); {
	case m.loading:
		body = m.spinner.View() + " Asking the coach..."
	case ok:
		body = categoryStyle(a.Category).Render(strings.ToUpper(a.Category.String())) + "  " +
			adviceTextStyle.Render(a.Advice)
	default:
		body = adviceHintStyle.Render("Press a for coaching advice on this gear.")
	}
	return panelStyle.Width(m.width - 2).Render(panelTitleStyle.Render("Coach") + "\n" + body)
}

func (m Model) renderStatusBar() string {
	snap := m.session.Snapshot()
	left := fmt.Sprintf(" %s  ring %d/%d  cog %d/%d",
		m.focus, snap.Selection.Front+1, len(snap.Config.Chainrings),
		snap.Selection.Rear+1, len(snap.Config.Cassette))
	right := "tab slider  ←/→ adjust  [/] shift  f front  a advice  ? help "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(helpHeaderStyle.Render("veloratio: Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, binding := range []key.Binding{
		keys.NextField, keys.PrevField, keys.Increase, keys.Decrease,
		keys.ShiftHarder, keys.ShiftEasier, keys.SelectGear, keys.ToggleFront,
		keys.Advice, keys.Curve, keys.Help, keys.Quit,
	} {
		h := binding.Help()
		fmt.Fprintf(&b, "  %s  %s\n", helpKeyStyle.Width(12).Render(h.Key), h.Desc)
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))
	return b.String()
}
