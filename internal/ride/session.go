// Package ride holds the live input snapshot for one rider and derives
// telemetry from it on every read.
package ride

import (
	"context"
	"slices"
	"sync"

	"github.com/sprite-ai/veloratio/internal/advice"
	"github.com/sprite-ai/veloratio/internal/analysis"
	"github.com/sprite-ai/veloratio/internal/drivetrain"
	"github.com/sprite-ai/veloratio/internal/model"
	"github.com/sprite-ai/veloratio/internal/power"
)

// Advisor produces a coaching tip. *advice.Adapter satisfies it.
type Advisor interface {
	Advise(ctx context.Context, req advice.Request) model.AdviceResult
}

// Compute derives telemetry from a single set of inputs.
func Compute(cfg model.DrivetrainConfig, sel model.GearSelection, state model.RiderState, bikeMassKg float64, params power.Params) model.Telemetry {
	front, rear := drivetrain.Teeth(sel.Clamp(cfg), cfg)
	speed := drivetrain.ComputeSpeedKmh(float64(state.CadenceRPM), front, rear, cfg.WheelCircumferenceMm)
	watts := params.Compute(speed, state.GradientPercent, state.RiderMassKg, bikeMassKg, state.WindKmh)
	return model.Telemetry{
		FrontTeeth:  front,
		RearTeeth:   rear,
		GearRatio:   drivetrain.Ratio(front, rear),
		GearInches:  drivetrain.GearInches(front, rear, cfg.WheelCircumferenceMm),
		SpeedKmh:    speed,
		SpeedMph:    drivetrain.KmhToMph(speed),
		PowerWatts:  watts,
		WattsPerKg:  power.WattsPerKg(watts, state.RiderMassKg),
		TotalMassKg: state.RiderMassKg + bikeMassKg,
	}
}

// BuildRequest assembles the advice request for the given inputs.
func BuildRequest(cfg model.DrivetrainConfig, sel model.GearSelection, state model.RiderState, bikeMassKg float64, params power.Params) advice.Request {
	t := Compute(cfg, sel, state, bikeMassKg, params)
	return advice.Request{
		Setup:           cfg.Describe(),
		FrontTeeth:      t.FrontTeeth,
		RearTeeth:       t.RearTeeth,
		CadenceRPM:      state.CadenceRPM,
		SpeedKmh:        t.SpeedKmh,
		GradientPercent: state.GradientPercent,
		WindKmh:         state.WindKmh,
		PowerWatts:      t.PowerWatts,
		TotalMassKg:     t.TotalMassKg,
		GearClass:       analysis.Classify(cfg, t.FrontTeeth, t.RearTeeth, state.GradientPercent),

		Chainrings:           slices.Clone(cfg.Chainrings),
		Cassette:             slices.Clone(cfg.Cassette),
		WheelCircumferenceMm: cfg.WheelCircumferenceMm,
	}
}

// Snapshot is a copy of the session inputs.
type Snapshot struct {
	Config     model.DrivetrainConfig `json:"config"`
	Ranges     model.Ranges           `json:"ranges"`
	Selection  model.GearSelection    `json:"selection"`
	Rider      model.RiderState       `json:"rider"`
	BikeMassKg float64                `json:"bike_mass_kg"`
}

// Session is safe for concurrent use. The lock is never held while the
// advisor runs.
type Session struct {
	mu       sync.Mutex
	cfg      model.DrivetrainConfig
	ranges   model.Ranges
	sel      model.GearSelection
	state    model.RiderState
	bikeMass float64
	params   power.Params

	advisor Advisor
	advice  *model.AdviceResult
	token   uint64
	pending bool
}

// Option configures a Session.
type Option func(*Session)

// WithRanges sets the bounds rider inputs are clamped to.
func WithRanges(r model.Ranges) Option { return func(s *Session) { s.ranges = r } }

// WithRider sets the starting rider inputs.
func WithRider(r model.RiderState) Option { return func(s *Session) { s.state = r } }

// WithSelection sets the starting gear.
func WithSelection(g model.GearSelection) Option { return func(s *Session) { s.sel = g } }

// WithBikeMass sets the bike mass added to the rider for power.
func WithBikeMass(kg float64) Option { return func(s *Session) { s.bikeMass = kg } }

// WithParams overrides the physics constants.
func WithParams(p power.Params) Option { return func(s *Session) { s.params = p } }

// New starts a session on cfg with default rider inputs. cfg must be valid.
func New(cfg model.DrivetrainConfig, advisor Advisor, opts ...Option) *Session {
	s := &Session{
		cfg:      cfg,
		ranges:   model.DefaultRanges(),
		sel:      model.DefaultSelection(cfg),
		state:    model.DefaultRider(),
		bikeMass: model.DefaultBikeMassKg,
		params:   power.DefaultParams(),
		advisor:  advisor,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sel = s.sel.Clamp(cfg)
	s.state = s.ranges.Clamp(s.state)
	return s
}

// Snapshot returns a copy of the current inputs.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Config:     s.cfg,
		Ranges:     s.ranges,
		Selection:  s.sel,
		Rider:      s.state,
		BikeMassKg: s.bikeMass,
	}
}

// Telemetry recomputes speed and power from the current inputs.
func (s *Session) Telemetry() model.Telemetry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Compute(s.cfg, s.sel, s.state, s.bikeMass, s.params)
}

// Class classifies the current gear at the current gradient.
func (s *Session) Class() analysis.GearClass {
	s.mu.Lock()
	defer s.mu.Unlock()
	front, rear := drivetrain.Teeth(s.sel, s.cfg)
	return analysis.Classify(s.cfg, front, rear, s.state.GradientPercent)
}

// Breakdown splits the current power estimate into its components.
func (s *Session) Breakdown() power.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Compute(s.cfg, s.sel, s.state, s.bikeMass, s.params)
	return s.params.Breakdown(t.SpeedKmh, s.state.GradientPercent, s.state.RiderMassKg, s.bikeMass, s.state.WindKmh)
}

// Curve returns the speed at the current cadence for every cog on the
// selected chainring.
func (s *Session) Curve() []drivetrain.CurvePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	front, _ := drivetrain.Teeth(s.sel, s.cfg)
	return drivetrain.SpeedCurve(s.cfg, front, float64(s.state.CadenceRPM))
}

// SetCadence sets the cadence, clamped to the session ranges. Like every
// setter, a change clears the current advice.
func (s *Session) SetCadence(rpm int) {
	s.updateRider(func(st *model.RiderState) { st.CadenceRPM = rpm })
}

// SetRiderMass sets the rider mass, clamped.
func (s *Session) SetRiderMass(kg float64) {
	s.updateRider(func(st *model.RiderState) { st.RiderMassKg = kg })
}

// SetGradient sets the road gradient in percent, clamped.
func (s *Session) SetGradient(pct float64) {
	s.updateRider(func(st *model.RiderState) { st.GradientPercent = pct })
}

// SetWind sets the wind speed, positive for a headwind, clamped.
func (s *Session) SetWind(kmh float64) {
	s.updateRider(func(st *model.RiderState) { st.WindKmh = kmh })
}

// SetRider replaces every rider input at once.
func (s *Session) SetRider(r model.RiderState) {
	s.updateRider(func(st *model.RiderState) { *st = r })
}

func (s *Session) updateRider(fn func(*model.RiderState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	fn(&next)
	next = s.ranges.Clamp(next)
	if next != s.state {
		s.state = next
		s.advice = nil
	}
}

// ShiftRear moves one cog in dir, stopping at either end of the cassette.
func (s *Session) ShiftRear(dir drivetrain.Direction) model.GearSelection {
	return s.updateSelection(func(sel model.GearSelection) model.GearSelection {
		return drivetrain.ShiftRear(sel, s.cfg, dir)
	})
}

// SelectRear jumps to cassette index idx, clamped.
func (s *Session) SelectRear(idx int) model.GearSelection {
	return s.updateSelection(func(sel model.GearSelection) model.GearSelection {
		return drivetrain.SelectRear(sel, s.cfg, idx)
	})
}

// ToggleFront moves to the next chainring, wrapping around.
func (s *Session) ToggleFront() model.GearSelection {
	return s.updateSelection(func(sel model.GearSelection) model.GearSelection {
		return drivetrain.ToggleFront(sel, s.cfg)
	})
}

func (s *Session) updateSelection(fn func(model.GearSelection) model.GearSelection) model.GearSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.sel)
	if next != s.sel {
		s.sel = next
		s.advice = nil
	}
	return s.sel
}

// Advice returns the tip for the current inputs, if one has arrived.
func (s *Session) Advice() (model.AdviceResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.advice == nil {
		return model.AdviceResult{}, false
	}
	return *s.advice, true
}

// Pending reports whether the latest advice request is still outstanding.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// AdviceRequest returns the request that RequestAdvice would send now.
func (s *Session) AdviceRequest() advice.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildRequest(s.cfg, s.sel, s.state, s.bikeMass, s.params)
}

// RequestAdvice asks the advisor about the current inputs. The result is
// stored only if no newer request was made and the inputs did not change
// while it was in flight; stored reports whether that happened.
func (s *Session) RequestAdvice(ctx context.Context) (result model.AdviceResult, stored bool) {
	s.mu.Lock()
	s.token++
	token := s.token
	req := BuildRequest(s.cfg, s.sel, s.state, s.bikeMass, s.params)
	advisor := s.advisor
	s.pending = true
	s.mu.Unlock()

	if advisor == nil {
		result = model.FallbackAdvice()
	} else {
		result = advisor.Advise(ctx, req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		return result, false
	}
	s.pending = false
	if BuildRequest(s.cfg, s.sel, s.state, s.bikeMass, s.params).Key() != req.Key() {
		return result, false
	}
	s.advice = &result
	return result, true
}
