// Package drivetrain converts crank cadence and gear selection into ground speed.
package drivetrain

import (
	"fmt"
	"math"

	"github.com/sprite-ai/veloratio/internal/model"
)

const (
	mmPerKm   = 1_000_000
	mmPerInch = 25.4
	kmPerMile = 1.609344
)

// Ratio returns front teeth over rear teeth.
func Ratio(frontTeeth, rearTeeth int) float64 {
	return float64(frontTeeth) / float64(rearTeeth)
}

// ComputeSpeedKmh returns ground speed for a cadence and gear. Inputs are
// expected to be pre-clamped; no validation is performed.
func ComputeSpeedKmh(cadenceRPM float64, frontTeeth, rearTeeth int, wheelCircumferenceMm float64) float64 {
	wheelRPM := cadenceRPM * Ratio(frontTeeth, rearTeeth)
	return wheelRPM * 60 * wheelCircumferenceMm / mmPerKm
}

// GearInches is the classic ratio x wheel diameter development figure.
func GearInches(frontTeeth, rearTeeth int, wheelCircumferenceMm float64) float64 {
	diameterIn := wheelCircumferenceMm / math.Pi / mmPerInch
	return Ratio(frontTeeth, rearTeeth) * diameterIn
}

// KmhToMph converts km/h to mph.
func KmhToMph(kmh float64) float64 {
	return kmh / kmPerMile
}

// CurvePoint is the speed reached on one cog at a fixed cadence and chainring.
type CurvePoint struct {
	Label    string  `json:"label"`
	Teeth    int     `json:"teeth"`
	SpeedKmh float64 `json:"speed_kmh"`
}

// SpeedCurve returns one point per cog, in cassette order.
func SpeedCurve(cfg model.DrivetrainConfig, frontTeeth int, cadenceRPM float64) []CurvePoint {
	points := make([]CurvePoint, 0, len(cfg.Cassette))
	for _, teeth := range cfg.Cassette {
		points = append(points, CurvePoint{
			Label:    fmt.Sprintf("%dT", teeth),
			Teeth:    teeth,
			SpeedKmh: ComputeSpeedKmh(cadenceRPM, frontTeeth, teeth, cfg.WheelCircumferenceMm),
		})
	}
	return points
}
