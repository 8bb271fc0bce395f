package drivetrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/veloratio/internal/model"
)

func testConfig() model.DrivetrainConfig {
	return model.DrivetrainConfig{
		Chainrings:           []int{32, 48},
		Cassette:             []int{32, 28, 25, 23, 21, 19, 17, 15, 13, 12, 11},
		WheelCircumferenceMm: 2105,
	}
}

func TestComputeSpeedKmhReference(t *testing.T) {
	got := ComputeSpeedKmh(90, 48, 32, 2105)
	want := 90 * 60 * (48.0 / 32.0) * 2105 / 1_000_000
	assert.InDelta(t, want, got, 1e-12)
	assert.InDelta(t, 17.05, got, 0.01)
}

func TestComputeSpeedKmhZeroCadence(t *testing.T) {
	for _, rear := range testConfig().Cassette {
		assert.Equal(t, 0.0, ComputeSpeedKmh(0, 48, rear, 2105))
	}
}

func TestComputeSpeedKmhMonotonic(t *testing.T) {
	prev := 0.0
	for cadence := 1.0; cadence <= 130; cadence++ {
		v := ComputeSpeedKmh(cadence, 32, 21, 2105)
		require.Greater(t, v, prev, "speed must increase with cadence (cadence %v)", cadence)
		prev = v
	}

	// Walking the cassette from largest to smallest cog raises the ratio.
	prev = 0
	for _, rear := range testConfig().Cassette {
		v := ComputeSpeedKmh(90, 48, rear, 2105)
		require.Greater(t, v, prev, "speed must increase with ratio (rear %d)", rear)
		prev = v
	}
}

func TestGearInches(t *testing.T) {
	// 2105mm is roughly a 26.4" wheel; 48/16 gives ~79 gear inches.
	assert.InDelta(t, 79.1, GearInches(48, 16, 2105), 0.1)
}

func TestKmhToMph(t *testing.T) {
	assert.InDelta(t, 62.137, KmhToMph(100), 0.001)
}

func TestSpeedCurve(t *testing.T) {
	cfg := testConfig()
	curve := SpeedCurve(cfg, 48, 90)
	require.Len(t, curve, len(cfg.Cassette))
	assert.Equal(t, "32T", curve[0].Label)
	assert.Equal(t, 11, curve[len(curve)-1].Teeth)
	assert.InDelta(t, ComputeSpeedKmh(90, 48, 32, 2105), curve[0].SpeedKmh, 1e-12)
	for i := 1; i < len(curve); i++ {
		assert.Greater(t, curve[i].SpeedKmh, curve[i-1].SpeedKmh)
	}
}

func TestShiftRear(t *testing.T) {
	cfg := testConfig()
	sel := model.GearSelection{Front: 1, Rear: 0}

	sel = ShiftRear(sel, cfg, Easier)
	assert.Equal(t, 0, sel.Rear, "cannot go easier than the largest cog")

	sel = ShiftRear(sel, cfg, Harder)
	assert.Equal(t, 1, sel.Rear)

	sel = SelectRear(sel, cfg, 10)
	sel = ShiftRear(sel, cfg, Harder)
	assert.Equal(t, 10, sel.Rear, "cannot go harder than the smallest cog")

	assert.Equal(t, 0, SelectRear(sel, cfg, -4).Rear)
}

func TestToggleFront(t *testing.T) {
	cfg := testConfig()
	sel := model.GearSelection{Front: 1, Rear: 5}
	sel = ToggleFront(sel, cfg)
	assert.Equal(t, 0, sel.Front)
	sel = ToggleFront(sel, cfg)
	assert.Equal(t, 1, sel.Front)

	triple := cfg
	triple.Chainrings = []int{30, 39, 50}
	sel = model.GearSelection{Front: 2}
	sel = ToggleFront(sel, triple)
	assert.Equal(t, 0, sel.Front, "triple wraps around")
}

func TestTeethAndGearNumber(t *testing.T) {
	cfg := testConfig()
	front, rear := Teeth(model.GearSelection{Front: 1, Rear: 5}, cfg)
	assert.Equal(t, 48, front)
	assert.Equal(t, 19, rear)
	assert.Equal(t, 11, GearNumber(model.GearSelection{Rear: 0}, cfg))
	assert.Equal(t, 1, GearNumber(model.GearSelection{Rear: 10}, cfg))
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("up")
	assert.True(t, ok)
	assert.Equal(t, Harder, d)
	d, ok = ParseDirection("easier")
	assert.True(t, ok)
	assert.Equal(t, Easier, d)
	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}

func TestSelectByTeeth(t *testing.T) {
	cfg := testConfig()
	sel, err := SelectByTeeth(model.GearSelection{Front: 1, Rear: 5}, cfg, 32, 13)
	require.NoError(t, err)
	assert.Equal(t, model.GearSelection{Front: 0, Rear: 8}, sel)

	sel, err = SelectByTeeth(sel, cfg, 0, 28)
	require.NoError(t, err)
	assert.Equal(t, model.GearSelection{Front: 0, Rear: 1}, sel)

	_, err = SelectByTeeth(sel, cfg, 50, 0)
	assert.Error(t, err)
	_, err = SelectByTeeth(sel, cfg, 0, 14)
	assert.Error(t, err)
}
