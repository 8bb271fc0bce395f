// Package analysis labels a gear combination with ordered rules.
package analysis

import "github.com/sprite-ai/veloratio/internal/model"

// GearClass is the rider-facing label for a chainring/cog pairing.
type GearClass int

const (
	ClassCruising GearClass = iota
	ClassGrinding
	ClassClimbing
	ClassSprint
	ClassCrossChain
)

func (c GearClass) String() string {
	switch c {
	case ClassCruising:
		return "cruising"
	case ClassGrinding:
		return "grinding"
	case ClassClimbing:
		return "climbing"
	case ClassSprint:
		return "sprint"
	case ClassCrossChain:
		return "cross-chain"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c GearClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Label is the display text shown next to the gear.
func (c GearClass) Label() string {
	switch c {
	case ClassGrinding:
		return "Grinding (Shift Down!)"
	case ClassClimbing:
		return "Climbing Gear"
	case ClassSprint:
		return "Speed/Sprint Gear"
	case ClassCrossChain:
		return "Cross-chain (Avoid)"
	default:
		return "Cruising Gear"
	}
}

// Warning reports whether the label should be shown as a problem.
func (c GearClass) Warning() bool {
	return c == ClassGrinding || c == ClassCrossChain
}

// Tuning constants. Tooth thresholds are derived from the cassette in use;
// these only say how wide each window is.
const (
	GrindGradientPercent = 5.0
	ClimbWindowTeeth     = 4
	SprintWindowTeeth    = 3
	CrossChainCogs       = 3
)

// Thresholds are the tooth counts the rules compare against.
type Thresholds struct {
	SmallRing         int     `json:"small_ring"`
	BigRing           int     `json:"big_ring"`
	GrindGradient     float64 `json:"grind_gradient"`
	ClimbMinRear      int     `json:"climb_min_rear"`
	SprintMaxRear     int     `json:"sprint_max_rear"`
	BigRingCrossMin   int     `json:"big_ring_cross_min"`
	SmallRingCrossMax int     `json:"small_ring_cross_max"`
}

// DeriveThresholds computes thresholds for cfg. With the default 11-32
// cassette the cross-chain limits are the 25T and 13T cogs.
func DeriveThresholds(cfg model.DrivetrainConfig) Thresholds {
	n := len(cfg.Cassette)
	cross := CrossChainCogs
	if cross > n {
		cross = n
	}
	return Thresholds{
		SmallRing:         cfg.SmallestRing(),
		BigRing:           cfg.LargestRing(),
		GrindGradient:     GrindGradientPercent,
		ClimbMinRear:      cfg.LargestCog() - ClimbWindowTeeth,
		SprintMaxRear:     cfg.SmallestCog() + SprintWindowTeeth,
		BigRingCrossMin:   cfg.Cassette[cross-1],
		SmallRingCrossMax: cfg.Cassette[n-cross],
	}
}

// Input is the gear state a rule sees.
type Input struct {
	FrontTeeth      int
	RearTeeth       int
	GradientPercent float64
}

// Rule matches an input and yields a class.
type Rule struct {
	Name  string
	Class GearClass
	Match func(in Input, th Thresholds) bool
}

// Rules returns the ordered rule list; the first match wins.
func Rules() []Rule {
	return []Rule{
		{
			Name:  "grinding",
			Class: ClassGrinding,
			Match: func(in Input, th Thresholds) bool {
				return in.GradientPercent > th.GrindGradient && in.FrontTeeth == th.BigRing
			},
		},
		{
			Name:  "climbing",
			Class: ClassClimbing,
			Match: func(in Input, th Thresholds) bool {
				return in.FrontTeeth == th.SmallRing && in.RearTeeth >= th.ClimbMinRear
			},
		},
		{
			Name:  "sprint",
			Class: ClassSprint,
			Match: func(in Input, th Thresholds) bool {
				return in.FrontTeeth == th.BigRing && in.RearTeeth <= th.SprintMaxRear
			},
		},
		{
			Name:  "big_ring_cross_chain",
			Class: ClassCrossChain,
			Match: func(in Input, th Thresholds) bool {
				return in.FrontTeeth == th.BigRing && in.RearTeeth >= th.BigRingCrossMin
			},
		},
		{
			Name:  "small_ring_cross_chain",
			Class: ClassCrossChain,
			Match: func(in Input, th Thresholds) bool {
				return in.FrontTeeth == th.SmallRing && in.RearTeeth <= th.SmallRingCrossMax
			},
		},
	}
}

// Classify runs Rules against the gear and gradient.
func Classify(cfg model.DrivetrainConfig, frontTeeth, rearTeeth int, gradientPercent float64) GearClass {
	class, _ := ClassifyWith(DeriveThresholds(cfg), Input{
		FrontTeeth:      frontTeeth,
		RearTeeth:       rearTeeth,
		GradientPercent: gradientPercent,
	})
	return class
}

// ClassifyWith returns the class and the name of the matching rule, or
// "default" when nothing matched.
func ClassifyWith(th Thresholds, in Input) (GearClass, string) {
	for _, r := range Rules() {
		if r.Match(in, th) {
			return r.Class, r.Name
		}
	}
	return ClassCruising, "default"
}
