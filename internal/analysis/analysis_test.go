package analysis

import (
	"testing"

	"github.com/sprite-ai/veloratio/internal/model"
)

func defaultConfig() model.DrivetrainConfig {
	return model.DrivetrainConfig{
		Chainrings:           []int{32, 48},
		Cassette:             []int{32, 28, 25, 23, 21, 19, 17, 15, 13, 12, 11},
		WheelCircumferenceMm: 2105,
	}
}

func TestDeriveThresholdsDefault(t *testing.T) {
	th := DeriveThresholds(defaultConfig())
	want := Thresholds{
		SmallRing:         32,
		BigRing:           48,
		GrindGradient:     5,
		ClimbMinRear:      28,
		SprintMaxRear:     14,
		BigRingCrossMin:   25,
		SmallRingCrossMax: 13,
	}
	if th != want {
		t.Errorf("DeriveThresholds = %+v, want %+v", th, want)
	}
}

func TestDeriveThresholdsOtherDrivetrain(t *testing.T) {
	cfg := model.DrivetrainConfig{
		Chainrings:           []int{34, 50},
		Cassette:             []int{28, 25, 23, 21, 19, 17, 16, 15, 14, 13, 12},
		WheelCircumferenceMm: 2096,
	}
	th := DeriveThresholds(cfg)
	if th.SmallRing != 34 || th.BigRing != 50 {
		t.Errorf("rings = %d/%d", th.SmallRing, th.BigRing)
	}
	if th.ClimbMinRear != 24 || th.SprintMaxRear != 15 {
		t.Errorf("windows = %d/%d", th.ClimbMinRear, th.SprintMaxRear)
	}
	if th.BigRingCrossMin != 23 || th.SmallRingCrossMax != 14 {
		t.Errorf("cross-chain = %d/%d", th.BigRingCrossMin, th.SmallRingCrossMax)
	}
	if got := Classify(cfg, 34, 28, 0); got != ClassClimbing {
		t.Errorf("34x28 = %v, want climbing", got)
	}
	if got := Classify(cfg, 50, 12, 0); got != ClassSprint {
		t.Errorf("50x12 = %v, want sprint", got)
	}
}

func TestDeriveThresholdsShortCassette(t *testing.T) {
	cfg := model.DrivetrainConfig{Chainrings: []int{42}, Cassette: []int{20, 16}, WheelCircumferenceMm: 2000}
	th := DeriveThresholds(cfg)
	if th.BigRingCrossMin != 16 || th.SmallRingCrossMax != 20 {
		t.Errorf("short cassette thresholds = %+v", th)
	}
}

func TestClassify(t *testing.T) {
	cfg := defaultConfig()
	tests := []struct {
		name     string
		front    int
		rear     int
		gradient float64
		want     GearClass
	}{
		{"easiest gear", 32, 32, 0, ClassClimbing},
		{"small ring 28", 32, 28, 8, ClassClimbing},
		{"hardest gear", 48, 11, 0, ClassSprint},
		{"big ring 13", 48, 13, 0, ClassSprint},
		{"big ring steep", 48, 11, 6, ClassGrinding},
		{"grinding beats cross-chain", 48, 32, 10, ClassGrinding},
		{"exactly 5 percent is not grinding", 48, 19, 5, ClassCruising},
		{"big ring large cog", 48, 25, 0, ClassCrossChain},
		{"big ring largest cog", 48, 32, 0, ClassCrossChain},
		{"small ring small cog", 32, 13, 0, ClassCrossChain},
		{"small ring smallest cog", 32, 11, 0, ClassCrossChain},
		{"big ring middle", 48, 19, 0, ClassCruising},
		{"small ring middle", 32, 21, 3, ClassCruising},
		{"small ring 15", 32, 15, 0, ClassCruising},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(cfg, tt.front, tt.rear, tt.gradient); got != tt.want {
				t.Errorf("Classify(%d, %d, %.1f) = %v, want %v", tt.front, tt.rear, tt.gradient, got, tt.want)
			}
		})
	}
}

func TestClassifyWithRuleName(t *testing.T) {
	th := DeriveThresholds(defaultConfig())
	_, name := ClassifyWith(th, Input{FrontTeeth: 32, RearTeeth: 12})
	if name != "small_ring_cross_chain" {
		t.Errorf("rule = %q", name)
	}
	_, name = ClassifyWith(th, Input{FrontTeeth: 48, RearTeeth: 19})
	if name != "default" {
		t.Errorf("rule = %q", name)
	}
}

func TestLabelsAndWarnings(t *testing.T) {
	tests := []struct {
		class   GearClass
		label   string
		warning bool
	}{
		{ClassCruising, "Cruising Gear", false},
		{ClassGrinding, "Grinding (Shift Down!)", true},
		{ClassClimbing, "Climbing Gear", false},
		{ClassSprint, "Speed/Sprint Gear", false},
		{ClassCrossChain, "Cross-chain (Avoid)", true},
	}
	for _, tt := range tests {
		if tt.class.Label() != tt.label {
			t.Errorf("%v.Label() = %q", tt.class, tt.class.Label())
		}
		if tt.class.Warning() != tt.warning {
			t.Errorf("%v.Warning() = %v", tt.class, tt.class.Warning())
		}
	}
}
