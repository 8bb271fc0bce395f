package ride

import (
	"github.com/sprite-ai/veloratio/internal/config"
	"github.com/sprite-ai/veloratio/internal/drivetrain"
	"github.com/sprite-ai/veloratio/internal/model"
)

// FromConfig starts a session with the configured bike, rider and physics.
func FromConfig(cfg *config.Config, advisor Advisor) *Session {
	return New(cfg.Bike.Drivetrain, advisor,
		WithRanges(cfg.Ranges),
		WithSelection(cfg.Selection()),
		WithRider(cfg.RiderState()),
		WithBikeMass(cfg.Bike.MassKg),
		WithParams(cfg.Physics),
	)
}

// Overrides are optional input changes, as sent by API clients or given on
// the command line. Tooth counts win over indices when both are set.
type Overrides struct {
	FrontIndex      *int     `json:"front_index,omitempty"`
	RearIndex       *int     `json:"rear_index,omitempty"`
	FrontTeeth      int      `json:"front_teeth,omitempty"`
	RearTeeth       int      `json:"rear_teeth,omitempty"`
	CadenceRPM      *int     `json:"cadence_rpm,omitempty"`
	RiderMassKg     *float64 `json:"rider_mass_kg,omitempty"`
	GradientPercent *float64 `json:"gradient_percent,omitempty"`
	WindKmh         *float64 `json:"wind_kmh,omitempty"`
}

// Apply sets every field present in o. Out-of-range values are clamped; an
// error is returned only for tooth counts the drivetrain does not have.
func (s *Session) Apply(o Overrides) error {
	snap := s.Snapshot()
	sel := snap.Selection
	if o.FrontIndex != nil {
		sel.Front = *o.FrontIndex
	}
	if o.RearIndex != nil {
		sel.Rear = *o.RearIndex
	}
	sel, err := drivetrain.SelectByTeeth(sel, snap.Config, o.FrontTeeth, o.RearTeeth)
	if err != nil {
		return err
	}
	s.SetSelection(sel)

	rider := snap.Rider
	if o.CadenceRPM != nil {
		rider.CadenceRPM = *o.CadenceRPM
	}
	if o.RiderMassKg != nil {
		rider.RiderMassKg = *o.RiderMassKg
	}
	if o.GradientPercent != nil {
		rider.GradientPercent = *o.GradientPercent
	}
	if o.WindKmh != nil {
		rider.WindKmh = *o.WindKmh
	}
	s.SetRider(rider)
	return nil
}

// SetSelection jumps to sel, clamped to the drivetrain.
func (s *Session) SetSelection(sel model.GearSelection) model.GearSelection {
	return s.updateSelection(func(model.GearSelection) model.GearSelection {
		return sel.Clamp(s.cfg)
	})
}
