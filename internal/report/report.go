// Package report renders a one-shot drivetrain calculation as text, JSON,
// markdown or HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/veloratio/internal/analysis"
	"github.com/sprite-ai/veloratio/internal/drivetrain"
	"github.com/sprite-ai/veloratio/internal/model"
	"github.com/sprite-ai/veloratio/internal/power"
	"github.com/sprite-ai/veloratio/internal/ride"
)

// Format selects an output renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts the names above, plus "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json, markdown or html)", s)
}

// Report is everything known about one gear and rider state.
type Report struct {
	Setup      string                  `json:"setup"`
	Gear       int                     `json:"gear"`
	Selection  model.GearSelection     `json:"selection"`
	Rider      model.RiderState        `json:"rider"`
	Telemetry  model.Telemetry         `json:"telemetry"`
	Class      analysis.GearClass      `json:"gear_class"`
	Assessment string                  `json:"assessment"`
	Warning    bool                    `json:"warning"`
	Power      power.Breakdown         `json:"power_breakdown"`
	Curve      []drivetrain.CurvePoint `json:"curve,omitempty"`
	Advice     *model.AdviceResult     `json:"advice,omitempty"`
}

// FromSession captures the session's current state. The curve is included
// when withCurve is set; advice is included if the session holds some.
func FromSession(s *ride.Session, withCurve bool) Report {
	snap := s.Snapshot()
	class := s.Class()
	r := Report{
		Setup:      snap.Config.Describe(),
		Gear:       drivetrain.GearNumber(snap.Selection, snap.Config),
		Selection:  snap.Selection,
		Rider:      snap.Rider,
		Telemetry:  s.Telemetry(),
		Class:      class,
		Assessment: class.Label(),
		Warning:    class.Warning(),
		Power:      s.Breakdown(),
	}
	if withCurve {
		r.Curve = s.Curve()
	}
	if a, ok := s.Advice(); ok {
		r.Advice = &a
	}
	return r
}
