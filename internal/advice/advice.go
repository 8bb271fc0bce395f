// Package advice asks an external text model for a short coaching tip about
// the current gear and riding conditions.
package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/sprite-ai/veloratio/internal/analysis"
)

//go:generate go tool mockgen -source=advice.go -destination=mock_generator_test.go -package=advice

// Generator is the advisory collaborator. Implementations return the raw
// JSON reply for prompt; input is the structured request for generators that
// can use it.
type Generator interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// Request holds the scalar inputs sent to the advisory service.
type Request struct {
	Setup           string             `json:"setup"`
	FrontTeeth      int                `json:"front_teeth"`
	RearTeeth       int                `json:"rear_teeth"`
	CadenceRPM      int                `json:"cadence_rpm"`
	SpeedKmh        float64            `json:"speed_kmh"`
	GradientPercent float64            `json:"gradient_percent"`
	WindKmh         float64            `json:"wind_kmh"`
	PowerWatts      float64            `json:"power_watts"`
	TotalMassKg     float64            `json:"total_mass_kg"`
	GearClass       analysis.GearClass `json:"gear_class"`

	Chainrings           []int   `json:"chainrings"`
	Cassette             []int   `json:"cassette"`
	WheelCircumferenceMm float64 `json:"wheel_circumference_mm"`
}

// Key identifies the exact input tuple a reply was produced for, including
// the full drivetrain. Speed and power are derived from the other fields and
// are left out.
func (r Request) Key() string {
	return fmt.Sprintf("%v|%v|%g|%d|%d|%d|%g|%g|%g",
		r.Chainrings, r.Cassette, r.WheelCircumferenceMm,
		r.FrontTeeth, r.RearTeeth, r.CadenceRPM, r.GradientPercent, r.WindKmh, r.TotalMassKg)
}

// WindDescription renders wind as headwind, tailwind or calm.
func WindDescription(windKmh float64) string {
	switch {
	case windKmh > 0:
		return fmt.Sprintf("%g km/h Headwind", windKmh)
	case windKmh < 0:
		return fmt.Sprintf("%g km/h Tailwind", math.Abs(windKmh))
	default:
		return "Calm"
	}
}

// Prompt renders the natural-language description of the ride.
func (r Request) Prompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "I am riding a road bike with a %s setup.\n", r.Setup)
	b.WriteString("Current Status:\n")
	fmt.Fprintf(&b, "- Front Chainring: %dT\n", r.FrontTeeth)
	fmt.Fprintf(&b, "- Rear Cog: %dT\n", r.RearTeeth)
	fmt.Fprintf(&b, "- Cadence: %d RPM\n", r.CadenceRPM)
	fmt.Fprintf(&b, "- Speed: %.1f km/h\n", r.SpeedKmh)
	fmt.Fprintf(&b, "- Gradient (Slope): %g%%\n", r.GradientPercent)
	fmt.Fprintf(&b, "- Wind: %s\n", WindDescription(r.WindKmh))
	fmt.Fprintf(&b, "- Est. Power Output: %d Watts\n", int(math.Round(r.PowerWatts)))
	fmt.Fprintf(&b, "- Total System Weight: %g kg\n", r.TotalMassKg)
	fmt.Fprintf(&b, "- Gear Assessment: %s\n", r.GearClass.Label())
	b.WriteString(`
Analyze this specific gear combination and riding scenario.
1. Is this efficiently geared for the current gradient, wind, and power?
2. Am I likely cross-chaining?
3. Provide a specific cycling tip based on the power-to-weight effort and environmental resistance.

Return JSON matching this schema:
{
  "advice": "string (max 2 sentences)",
  "category": "climbing" | "sprinting" | "cruising" | "cross-chain" | "neutral"
}
`)
	return b.String()
}
