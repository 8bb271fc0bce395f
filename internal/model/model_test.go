package model

import (
	"encoding/json"
	"testing"
)

func defaultDrivetrain() DrivetrainConfig {
	return DrivetrainConfig{
		Chainrings:           []int{32, 48},
		Cassette:             []int{32, 28, 25, 23, 21, 19, 17, 15, 13, 12, 11},
		WheelCircumferenceMm: 2105,
	}
}

func TestAdviceCategoryString(t *testing.T) {
	tests := []struct {
		category AdviceCategory
		want     string
	}{
		{CategoryNeutral, "neutral"},
		{CategoryClimbing, "climbing"},
		{CategorySprinting, "sprinting"},
		{CategoryCruising, "cruising"},
		{CategoryCrossChain, "cross-chain"},
		{AdviceCategory(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.category.String(); got != tt.want {
			t.Errorf("AdviceCategory(%d).String() = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestParseAdviceCategory(t *testing.T) {
	for _, c := range AllCategories {
		got, err := ParseAdviceCategory(c.String())
		if err != nil {
			t.Fatalf("ParseAdviceCategory(%q): %v", c, err)
		}
		if got != c {
			t.Errorf("ParseAdviceCategory(%q) = %v", c, got)
		}
	}
	if _, err := ParseAdviceCategory("downhill"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestAdviceResultJSON(t *testing.T) {
	raw, err := json.Marshal(AdviceResult{Advice: "Spin it", Category: CategoryCrossChain})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"advice":"Spin it","category":"cross-chain"}` {
		t.Errorf("unexpected JSON %s", raw)
	}

	var back AdviceResult
	if err := json.Unmarshal([]byte(`{"advice":"x","category":"bogus"}`), &back); err == nil {
		t.Error("expected unknown category to fail decoding")
	}
}

func TestFallbackAdvice(t *testing.T) {
	fb := FallbackAdvice()
	if fb.Category != CategoryNeutral || fb.Advice != FallbackText {
		t.Errorf("unexpected fallback %+v", fb)
	}
}

func TestDrivetrainValidate(t *testing.T) {
	if err := defaultDrivetrain().Validate(); err != nil {
		t.Fatalf("default drivetrain invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*DrivetrainConfig)
	}{
		{"no chainrings", func(c *DrivetrainConfig) { c.Chainrings = nil }},
		{"no cassette", func(c *DrivetrainConfig) { c.Cassette = nil }},
		{"descending rings", func(c *DrivetrainConfig) { c.Chainrings = []int{48, 32} }},
		{"ascending cassette", func(c *DrivetrainConfig) { c.Cassette = []int{11, 12, 13} }},
		{"zero teeth", func(c *DrivetrainConfig) { c.Cassette = []int{28, 0} }},
		{"zero wheel", func(c *DrivetrainConfig) { c.WheelCircumferenceMm = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultDrivetrain()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDrivetrainDescribe(t *testing.T) {
	if got := defaultDrivetrain().Describe(); got != "32/48T x 11-32T (11-speed)" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestGearSelectionClamp(t *testing.T) {
	cfg := defaultDrivetrain()
	got := GearSelection{Front: 5, Rear: -2}.Clamp(cfg)
	if got.Front != 1 || got.Rear != 0 {
		t.Errorf("Clamp = %+v", got)
	}
	got = GearSelection{Front: -1, Rear: 40}.Clamp(cfg)
	if got.Front != 0 || got.Rear != 10 {
		t.Errorf("Clamp = %+v", got)
	}
}

func TestRangesClamp(t *testing.T) {
	r := Ranges{
		Cadence:   Range{Min: 40, Max: 130},
		RiderMass: Range{Min: 40, Max: 120},
		Gradient:  Range{Min: -5, Max: 20},
		Wind:      Range{Min: -30, Max: 30},
	}
	got := r.Clamp(RiderState{CadenceRPM: 200, RiderMassKg: 10, GradientPercent: -12, WindKmh: 31})
	want := RiderState{CadenceRPM: 130, RiderMassKg: 40, GradientPercent: -5, WindKmh: 30}
	if got != want {
		t.Errorf("Clamp = %+v, want %+v", got, want)
	}
}

func TestDefaults(t *testing.T) {
	cfg := DefaultDrivetrain()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default drivetrain invalid: %v", err)
	}
	if got := DefaultSelection(cfg); got != (GearSelection{Front: 1, Rear: 5}) {
		t.Errorf("DefaultSelection = %+v", got)
	}
	short := DrivetrainConfig{Chainrings: []int{40}, Cassette: []int{21, 18, 15}, WheelCircumferenceMm: 2000}
	if got := DefaultSelection(short); got != (GearSelection{Front: 0, Rear: 2}) {
		t.Errorf("DefaultSelection(short) = %+v", got)
	}
	rider := DefaultRider()
	if DefaultRanges().Clamp(rider) != rider {
		t.Errorf("default rider %+v outside default ranges", rider)
	}
}
