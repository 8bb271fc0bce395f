package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/veloratio/internal/model"
	"github.com/sprite-ai/veloratio/internal/power"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, model.DefaultDrivetrain(), cfg.Bike.Drivetrain)
	assert.Equal(t, 7.0, cfg.Bike.MassKg)
	assert.Equal(t, model.GearSelection{Front: 1, Rear: 5}, cfg.Selection())
	assert.Equal(t, model.DefaultRider(), cfg.RiderState())
	assert.Equal(t, power.DefaultParams(), cfg.Physics)
	assert.Equal(t, ProviderGemini, cfg.Advice.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Advice.Model)
	assert.Equal(t, time.Duration(0), cfg.AdviceTimeout())
	assert.Equal(t, DefaultCacheSize, cfg.AdviceCacheSize())
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr())
	assert.Empty(t, cfg.Path)
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`
bike:
  drivetrain:
    chainrings: [34, 50]
    cassette: [28, 25, 23, 21, 19, 17, 16, 15, 14, 13, 12]
  mass_kg: 8.2
rider:
  cadence_rpm: 85
  gradient_percent: 0
physics:
  cda: 0.28
advice:
  provider: offline
  timeout_sec: 5
  cache_size: 0
server:
  port: 9090
log:
  level: debug
`), 0o644))

	cfg, err := Load(nested)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, filepath.Join(root, FileName), cfg.Path)
	assert.Equal(t, []int{34, 50}, cfg.Bike.Drivetrain.Chainrings)
	assert.Equal(t, 2105.0, cfg.Bike.Drivetrain.WheelCircumferenceMm)
	assert.Equal(t, 8.2, cfg.Bike.MassKg)
	assert.Equal(t, 85, cfg.RiderState().CadenceRPM)
	assert.Equal(t, 70.0, cfg.RiderState().RiderMassKg)
	assert.Equal(t, 0.28, cfg.Physics.CdA)
	assert.Equal(t, power.Crr, cfg.Physics.Crr)
	assert.Equal(t, ProviderOffline, cfg.Advice.Provider)
	assert.Equal(t, 5*time.Second, cfg.AdviceTimeout())
	assert.Equal(t, 0, cfg.AdviceCacheSize())
	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFileSelectionAndRanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bike.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bike:
  drivetrain:
    chainrings: [30, 39, 53]
  rear: 40
ranges:
  gradient: {min: -10, max: 25}
rider:
  gradient_percent: 22
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	// New crankset starts on its big ring; the rear index is clamped.
	assert.Equal(t, model.GearSelection{Front: 2, Rear: 10}, cfg.Selection())
	assert.Equal(t, model.Range{Min: -10, Max: 25, Step: 0.5}, cfg.Ranges.Gradient)
	assert.Equal(t, 22.0, cfg.RiderState().GradientPercent)
}

func TestLoadFilePartialRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bike.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ranges:
  gradient:
    max: 25
  rider_mass:
    max: 150
  wind:
    min: 0
  cadence:
    step: 5
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, model.Range{Min: -5, Max: 25, Step: 0.5}, cfg.Ranges.Gradient)
	assert.Equal(t, model.Range{Min: 40, Max: 150, Step: 1}, cfg.Ranges.RiderMass)
	// An explicit zero bound is kept.
	assert.Equal(t, model.Range{Min: 0, Max: 30, Step: 1}, cfg.Ranges.Wind)
	assert.Equal(t, model.Range{Min: 40, Max: 130, Step: 5}, cfg.Ranges.Cadence)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bike: [not, a, map"), 0o644))
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "parsing")
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		"API_KEY":             "fallback-key",
		"GEMINI_API_KEY":      "primary-key",
		"VELORATIO_MODEL":     "gemini-2.5-pro",
		"VELORATIO_LOG_LEVEL": "warn",
		"VELORATIO_PROVIDER":  "offline",
		"NO_COLOR":            "1",
		"PORT":                "3000",
	})))
	assert.Equal(t, "primary-key", cfg.Advice.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Advice.Model)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ProviderOffline, cfg.Advice.Provider)
	assert.True(t, *cfg.Log.NoColor)
	assert.Equal(t, 3000, cfg.Server.Port)

	cfg = New()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"API_KEY": "fallback-key"})))
	assert.Equal(t, "fallback-key", cfg.Advice.APIKey)

	assert.Error(t, New().ApplyEnv(envMap(map[string]string{"PORT": "eighty"})))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty cassette", func(c *Config) { c.Bike.Drivetrain.Cassette = nil }},
		{"ascending cassette", func(c *Config) { c.Bike.Drivetrain.Cassette = []int{11, 12, 13} }},
		{"zero wheel", func(c *Config) { c.Bike.Drivetrain.WheelCircumferenceMm = 0 }},
		{"bike mass", func(c *Config) { c.Bike.MassKg = -1 }},
		{"inverted range", func(c *Config) { c.Ranges.Wind = model.Range{Min: 10, Max: -10} }},
		{"efficiency", func(c *Config) { c.Physics.Efficiency = 1.2 }},
		{"air density", func(c *Config) { c.Physics.AirDensity = 0 }},
		{"provider", func(c *Config) { c.Advice.Provider = "openai" }},
		{"timeout", func(c *Config) { c.Advice.TimeoutSec = -1 }},
		{"cache", func(c *Config) { c.Advice.CacheSize = intPtr(-4) }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
