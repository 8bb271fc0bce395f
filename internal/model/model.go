// Package model defines the core data types shared across veloratio.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// DrivetrainConfig describes the bike: chainrings smallest first, cassette
// largest (easiest) cog first, and the rolling circumference of the wheel.
type DrivetrainConfig struct {
	Chainrings           []int   `json:"chainrings" yaml:"chainrings,omitempty"`
	Cassette             []int   `json:"cassette" yaml:"cassette,omitempty"`
	WheelCircumferenceMm float64 `json:"wheel_circumference_mm" yaml:"wheel_circumference_mm,omitempty"`
}

// Validate checks the ordering and positivity invariants of the drivetrain.
func (c DrivetrainConfig) Validate() error {
	if len(c.Chainrings) == 0 {
		return errors.New("drivetrain: no chainrings")
	}
	if len(c.Cassette) == 0 {
		return errors.New("drivetrain: no cassette cogs")
	}
	for i, t := range c.Chainrings {
		if t <= 0 {
			return fmt.Errorf("drivetrain: chainring %d has %d teeth", i, t)
		}
		if i > 0 && t <= c.Chainrings[i-1] {
			return fmt.Errorf("drivetrain: chainrings must be ascending, got %v", c.Chainrings)
		}
	}
	for i, t := range c.Cassette {
		if t <= 0 {
			return fmt.Errorf("drivetrain: cog %d has %d teeth", i, t)
		}
		if i > 0 && t >= c.Cassette[i-1] {
			return fmt.Errorf("drivetrain: cassette must be descending, got %v", c.Cassette)
		}
	}
	if c.WheelCircumferenceMm <= 0 {
		return fmt.Errorf("drivetrain: wheel circumference %.1fmm must be positive", c.WheelCircumferenceMm)
	}
	return nil
}

// SmallestRing returns the teeth of the smallest chainring.
func (c DrivetrainConfig) SmallestRing() int { return c.Chainrings[0] }

// LargestRing returns the teeth of the largest chainring.
func (c DrivetrainConfig) LargestRing() int { return c.Chainrings[len(c.Chainrings)-1] }

// LargestCog returns the teeth of the easiest cog.
func (c DrivetrainConfig) LargestCog() int { return c.Cassette[0] }

// SmallestCog returns the teeth of the hardest cog.
func (c DrivetrainConfig) SmallestCog() int { return c.Cassette[len(c.Cassette)-1] }

// Describe returns a short setup label such as "32/48T x 11-32T (11-speed)".
func (c DrivetrainConfig) Describe() string {
	rings := make([]string, len(c.Chainrings))
	for i, t := range c.Chainrings {
		rings[i] = fmt.Sprint(t)
	}
	return fmt.Sprintf("%sT x %d-%dT (%d-speed)",
		strings.Join(rings, "/"), c.SmallestCog(), c.LargestCog(), len(c.Cassette))
}

// GearSelection holds indices into DrivetrainConfig.Chainrings and Cassette.
type GearSelection struct {
	Front int `json:"front" yaml:"front"`
	Rear  int `json:"rear" yaml:"rear"`
}

// Clamp forces both indices into the bounds of cfg.
func (s GearSelection) Clamp(cfg DrivetrainConfig) GearSelection {
	s.Front = clampIndex(s.Front, len(cfg.Chainrings))
	s.Rear = clampIndex(s.Rear, len(cfg.Cassette))
	return s
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// RiderState holds the independent scalar inputs set by the rider.
type RiderState struct {
	CadenceRPM      int     `json:"cadence_rpm" yaml:"cadence_rpm"`
	RiderMassKg     float64 `json:"rider_mass_kg" yaml:"rider_mass_kg"`
	GradientPercent float64 `json:"gradient_percent" yaml:"gradient_percent"`
	WindKmh         float64 `json:"wind_kmh" yaml:"wind_kmh"` // positive headwind, negative tailwind
}

// Range bounds a single input.
type Range struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step,omitempty"`
}

// Clamp returns v limited to [Min, Max].
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Ranges holds the configured bounds for every RiderState field.
type Ranges struct {
	Cadence   Range `json:"cadence" yaml:"cadence"`
	RiderMass Range `json:"rider_mass" yaml:"rider_mass"`
	Gradient  Range `json:"gradient" yaml:"gradient"`
	Wind      Range `json:"wind" yaml:"wind"`
}

// Clamp applies every range to s.
func (r Ranges) Clamp(s RiderState) RiderState {
	s.CadenceRPM = int(r.Cadence.Clamp(float64(s.CadenceRPM)))
	s.RiderMassKg = r.RiderMass.Clamp(s.RiderMassKg)
	s.GradientPercent = r.Gradient.Clamp(s.GradientPercent)
	s.WindKmh = r.Wind.Clamp(s.WindKmh)
	return s
}

// Telemetry is derived from the current inputs on every read and never stored.
type Telemetry struct {
	FrontTeeth  int     `json:"front_teeth"`
	RearTeeth   int     `json:"rear_teeth"`
	GearRatio   float64 `json:"gear_ratio"`
	GearInches  float64 `json:"gear_inches"`
	SpeedKmh    float64 `json:"speed_kmh"`
	SpeedMph    float64 `json:"speed_mph"`
	PowerWatts  float64 `json:"power_watts"`
	WattsPerKg  float64 `json:"watts_per_kg"`
	TotalMassKg float64 `json:"total_mass_kg"`
}

// DefaultBikeMassKg is the bike weight added to the rider for power estimates.
const DefaultBikeMassKg = 7.0

// DefaultDrivetrain is a 32/48 sub-compact crankset with an 11-32 11-speed cassette
// on a 700x28c wheel.
func DefaultDrivetrain() DrivetrainConfig {
	return DrivetrainConfig{
		Chainrings:           []int{32, 48},
		Cassette:             []int{32, 28, 25, 23, 21, 19, 17, 15, 13, 12, 11},
		WheelCircumferenceMm: 2105,
	}
}

// DefaultSelection starts on the big ring, mid-cassette.
func DefaultSelection(cfg DrivetrainConfig) GearSelection {
	return GearSelection{Front: len(cfg.Chainrings) - 1, Rear: 5}.Clamp(cfg)
}

// DefaultRanges returns the slider bounds.
func DefaultRanges() Ranges {
	return Ranges{
		Cadence:   Range{Min: 40, Max: 130, Step: 1},
		RiderMass: Range{Min: 40, Max: 120, Step: 1},
		Gradient:  Range{Min: -5, Max: 20, Step: 0.5},
		Wind:      Range{Min: -30, Max: 30, Step: 1},
	}
}

// DefaultRider is a 70 kg rider at 90 RPM on flat, still air.
func DefaultRider() RiderState {
	return RiderState{CadenceRPM: 90, RiderMassKg: 70}
}
