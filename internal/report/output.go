package report

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/sprite-ai/veloratio/internal/advice"
)

// Options tweak rendering.
type Options struct {
	// Color enables ANSI highlighting of JSON output.
	Color bool
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r Report, opts Options) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, r, opts.Color)
	case FormatMarkdown:
		return writeMarkdown(w, r)
	case FormatHTML:
		return writeHTML(w, r)
	default:
		return writeText(w, r)
	}
}

func writeText(w io.Writer, r Report) error {
	t := r.Telemetry
	fmt.Fprintf(w, "%s\n", r.Setup)
	fmt.Fprintf(w, "Gear %d: %dT x %dT (ratio %.2f, %.1f gear inches)\n",
		r.Gear, t.FrontTeeth, t.RearTeeth, t.GearRatio, t.GearInches)
	fmt.Fprintf(w, "%s %s\n\n", statusIcon(r.Warning), r.Assessment)

	fmt.Fprintf(w, "  Cadence   %d RPM\n", r.Rider.CadenceRPM)
	fmt.Fprintf(w, "  Gradient  %g%%\n", r.Rider.GradientPercent)
	fmt.Fprintf(w, "  Wind      %s\n", advice.WindDescription(r.Rider.WindKmh))
	fmt.Fprintf(w, "  Weight    %g kg rider, %g kg total\n\n", r.Rider.RiderMassKg, t.TotalMassKg)

	fmt.Fprintf(w, "  Speed     %.1f km/h (%.1f mph)\n", t.SpeedKmh, t.SpeedMph)
	fmt.Fprintf(w, "  Power     %d W (%.2f W/kg)\n", roundWatts(t.PowerWatts), t.WattsPerKg)
	fmt.Fprintf(w, "            rolling %d W, gravity %d W, aero %d W\n",
		roundWatts(r.Power.Rolling), roundWatts(r.Power.Gravity), roundWatts(r.Power.Aero))

	if len(r.Curve) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Speed curve at %d RPM on %dT:\n", r.Rider.CadenceRPM, t.FrontTeeth)
		top := maxCurveSpeed(r)
		for _, p := range r.Curve {
			marker := " "
			if p.Teeth == t.RearTeeth {
				marker = ">"
			}
			bar := 0
			if top > 0 {
				bar = int(math.Round(p.SpeedKmh / top * 30))
			}
			fmt.Fprintf(w, "  %s %4s %5.1f km/h %s\n", marker, p.Label, p.SpeedKmh, strings.Repeat("#", bar))
		}
	}

	if r.Advice != nil {
		fmt.Fprintf(w, "\nAdvice [%s]: %s\n", r.Advice.Category, r.Advice.Advice)
	}
	return nil
}

func writeJSON(w io.Writer, r Report, color bool) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if color {
		_, err = io.WriteString(w, HighlightJSON(string(data))+"\n")
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeMarkdown(w io.Writer, r Report) error {
	t := r.Telemetry
	fmt.Fprintf(w, "## Drivetrain Report\n\n")
	fmt.Fprintf(w, "**Setup:** %s | **Gear %d:** %dT x %dT\n\n", r.Setup, r.Gear, t.FrontTeeth, t.RearTeeth)
	fmt.Fprintf(w, "**Assessment:** %s\n\n", r.Assessment)

	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	fmt.Fprintf(w, "| Cadence | %d RPM |\n", r.Rider.CadenceRPM)
	fmt.Fprintf(w, "| Gradient | %g%% |\n", r.Rider.GradientPercent)
	fmt.Fprintf(w, "| Wind | %s |\n", advice.WindDescription(r.Rider.WindKmh))
	fmt.Fprintf(w, "| Gear ratio | %.2f |\n", t.GearRatio)
	fmt.Fprintf(w, "| Gear inches | %.1f |\n", t.GearInches)
	fmt.Fprintf(w, "| Speed | %.1f km/h (%.1f mph) |\n", t.SpeedKmh, t.SpeedMph)
	fmt.Fprintf(w, "| Power | %d W (%.2f W/kg) |\n", roundWatts(t.PowerWatts), t.WattsPerKg)
	fmt.Fprintf(w, "| Total mass | %g kg |\n", t.TotalMassKg)

	if len(r.Curve) > 0 {
		fmt.Fprintf(w, "\n### Speed curve (%d RPM, %dT)\n\n", r.Rider.CadenceRPM, t.FrontTeeth)
		fmt.Fprintln(w, "| Cog | Speed |")
		fmt.Fprintln(w, "|-----|-------|")
		for _, p := range r.Curve {
			label := p.Label
			if p.Teeth == t.RearTeeth {
				label = "**" + label + "**"
			}
			fmt.Fprintf(w, "| %s | %.1f km/h |\n", label, p.SpeedKmh)
		}
	}

	if r.Advice != nil {
		fmt.Fprintf(w, "\n> **%s:** %s\n", r.Advice.Category, r.Advice.Advice)
	}
	return nil
}

func writeHTML(w io.Writer, r Report) error {
	t := r.Telemetry
	fmt.Fprint(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>veloratio Drivetrain Report</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; background: #282a36; color: #f8f8f2; }
  h1 { color: #bd93f9; }
  .summary { background: #343746; padding: 16px; border-radius: 8px; margin-bottom: 24px; }
  .summary span { margin-right: 24px; }
  .warn { color: #ff5555; font-weight: bold; }
  .ok { color: #50fa7b; }
  table { width: 100%; border-collapse: collapse; }
  th { text-align: left; padding: 8px 12px; background: #44475a; color: #f8f8f2; }
  td { padding: 8px 12px; border-bottom: 1px solid #44475a; }
  tr.current { background: #343746; }
  .bar { background: #8be9fd; height: 10px; border-radius: 2px; }
  blockquote { border-left: 4px solid #bd93f9; margin: 24px 0; padding: 8px 16px; background: #343746; }
  footer { margin-top: 32px; color: #6272a4; font-size: 0.85em; }
</style>
</head>
<body>
<h1>Drivetrain Report</h1>
`)

	status := "ok"
	if r.Warning {
		status = "warn"
	}
	fmt.Fprintf(w, `<div class="summary">
  <span><strong>%s</strong></span>
  <span>Gear %d: %dT x %dT</span>
  <span class="%s">%s</span>
</div>
`, html.EscapeString(r.Setup), r.Gear, t.FrontTeeth, t.RearTeeth, status, html.EscapeString(r.Assessment))

	fmt.Fprintln(w, `<table>
<thead><tr><th>Metric</th><th>Value</th></tr></thead>
<tbody>`)
	rows := [][2]string{
		{"Cadence", fmt.Sprintf("%d RPM", r.Rider.CadenceRPM)},
		{"Gradient", fmt.Sprintf("%g%%", r.Rider.GradientPercent)},
		{"Wind", advice.WindDescription(r.Rider.WindKmh)},
		{"Speed", fmt.Sprintf("%.1f km/h (%.1f mph)", t.SpeedKmh, t.SpeedMph)},
		{"Power", fmt.Sprintf("%d W (%.2f W/kg)", roundWatts(t.PowerWatts), t.WattsPerKg)},
		{"Gear inches", fmt.Sprintf("%.1f", t.GearInches)},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td></tr>\n", row[0], html.EscapeString(row[1]))
	}
	fmt.Fprintln(w, `</tbody></table>`)

	if len(r.Curve) > 0 {
		top := maxCurveSpeed(r)
		fmt.Fprintln(w, `<h2>Speed curve</h2>
<table>
<thead><tr><th>Cog</th><th>Speed</th><th></th></tr></thead>
<tbody>`)
		for _, p := range r.Curve {
			class := ""
			if p.Teeth == t.RearTeeth {
				class = ` class="current"`
			}
			width := 0.0
			if top > 0 {
				width = p.SpeedKmh / top * 100
			}
			fmt.Fprintf(w, `<tr%s><td>%s</td><td>%.1f km/h</td><td><div class="bar" style="width:%.0f%%"></div></td></tr>
`, class, p.Label, p.SpeedKmh, width)
		}
		fmt.Fprintln(w, `</tbody></table>`)
	}

	if r.Advice != nil {
		fmt.Fprintf(w, "<blockquote><strong>%s:</strong> %s</blockquote>\n",
			r.Advice.Category, html.EscapeString(r.Advice.Advice))
	}

	fmt.Fprintln(w, `<footer>Generated by <strong>veloratio</strong></footer>
</body>
</html>`)
	return nil
}

func statusIcon(warning bool) string {
	if warning {
		return "!!"
	}
	return "ok"
}

func roundWatts(w float64) int {
	return int(math.Round(w))
}

func maxCurveSpeed(r Report) float64 {
	top := 0.0
	for _, p := range r.Curve {
		top = math.Max(top, p.SpeedKmh)
	}
	return top
}
