// Package power estimates the rider power needed to hold a speed against
// rolling resistance, gravity and aerodynamic drag.
package power

import "math"

// Physical constants for road cycling.
const (
	Gravity    = 9.81
	AirDensity = 1.225 // kg/m^3 at sea level
	CdA        = 0.32  // drag area, rider on the hoods
	Crr        = 0.004 // rolling resistance, good road tyres
	Efficiency = 0.96  // drivetrain, ~4% loss
)

// Params are the model constants. The zero value is not useful; start from
// DefaultParams.
type Params struct {
	Gravity    float64 `json:"gravity" yaml:"gravity,omitempty"`
	AirDensity float64 `json:"air_density" yaml:"air_density,omitempty"`
	CdA        float64 `json:"cda" yaml:"cda,omitempty"`
	Crr        float64 `json:"crr" yaml:"crr,omitempty"`
	Efficiency float64 `json:"efficiency" yaml:"efficiency,omitempty"`
}

// DefaultParams returns the sea-level road bike constants.
func DefaultParams() Params {
	return Params{
		Gravity:    Gravity,
		AirDensity: AirDensity,
		CdA:        CdA,
		Crr:        Crr,
		Efficiency: Efficiency,
	}
}

// Breakdown splits the required power into its components. Component values
// are wheel power and may be negative; Rider is what the rider must produce.
type Breakdown struct {
	Rolling float64 `json:"rolling_watts"`
	Gravity float64 `json:"gravity_watts"`
	Aero    float64 `json:"aero_watts"`
	Wheel   float64 `json:"wheel_watts"`
	Rider   float64 `json:"rider_watts"`
}

// ComputePowerWatts uses DefaultParams.
func ComputePowerWatts(speedKmh, slopePercent, riderMassKg, bikeMassKg, windKmh float64) float64 {
	return DefaultParams().Compute(speedKmh, slopePercent, riderMassKg, bikeMassKg, windKmh)
}

// Compute returns the rider power in watts, never negative.
func (p Params) Compute(speedKmh, slopePercent, riderMassKg, bikeMassKg, windKmh float64) float64 {
	return p.Breakdown(speedKmh, slopePercent, riderMassKg, bikeMassKg, windKmh).Rider
}

// Breakdown evaluates each force at the given ground speed. A standstill
// short-circuits to a zero breakdown before any trigonometry.
func (p Params) Breakdown(speedKmh, slopePercent, riderMassKg, bikeMassKg, windKmh float64) Breakdown {
	if speedKmh == 0 {
		return Breakdown{}
	}

	speedMs := speedKmh / 3.6
	totalMass := riderMassKg + bikeMassKg

	var b Breakdown
	b.Rolling = totalMass * p.Gravity * p.Crr * speedMs

	// Grade is rise over run, so the incline angle is atan, not the slope itself.
	b.Gravity = totalMass * p.Gravity * math.Sin(math.Atan(slopePercent/100)) * speedMs

	// Headwind adds to airflow; a tailwind faster than the bike pushes it.
	vAir := speedMs + windKmh/3.6
	drag := 0.5 * p.AirDensity * p.CdA * vAir * vAir * sign(vAir)
	b.Aero = drag * speedMs

	b.Wheel = b.Rolling + b.Gravity + b.Aero
	if b.Wheel < 0 {
		return b
	}
	b.Rider = b.Wheel / p.Efficiency
	return b
}

// WattsPerKg divides power by rider mass, 0 for a non-positive mass.
func WattsPerKg(watts, riderMassKg float64) float64 {
	if riderMassKg <= 0 {
		return 0
	}
	return watts / riderMassKg
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
