// Package config loads .veloratio.yaml and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/veloratio/internal/model"
	"github.com/sprite-ai/veloratio/internal/power"
)

// FileName is the project config file searched for by Load.
const FileName = ".veloratio.yaml"

const (
	ProviderGemini  = "gemini"
	ProviderOffline = "offline"
	ProviderNone    = "none"

	DefaultProvider   = ProviderGemini
	DefaultModel      = "gemini-2.5-flash"
	DefaultCacheSize  = 64
	DefaultServerAddr = "127.0.0.1"
	DefaultServerPort = 8080
	DefaultLogLevel   = "info"

	maxSearchDepth = 10
)

// BikeConfig describes the bike and the gear it starts in.
type BikeConfig struct {
	Drivetrain model.DrivetrainConfig `yaml:"drivetrain,omitempty"`
	MassKg     float64                `yaml:"mass_kg,omitempty"`
	Front      *int                   `yaml:"front,omitempty"`
	Rear       *int                   `yaml:"rear,omitempty"`
}

// RiderConfig holds starting rider inputs. Unset fields keep their defaults.
type RiderConfig struct {
	CadenceRPM      *int     `yaml:"cadence_rpm,omitempty"`
	MassKg          *float64 `yaml:"mass_kg,omitempty"`
	GradientPercent *float64 `yaml:"gradient_percent,omitempty"`
	WindKmh         *float64 `yaml:"wind_kmh,omitempty"`
}

// AdviceConfig selects and tunes the coaching tip generator.
type AdviceConfig struct {
	Provider   string `yaml:"provider,omitempty"`
	Model      string `yaml:"model,omitempty"`
	APIKey     string `yaml:"-"`
	TimeoutSec int    `yaml:"timeout_sec,omitempty"`
	CacheSize  *int   `yaml:"cache_size,omitempty"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level   string `yaml:"level,omitempty"`
	NoColor *bool  `yaml:"no_color,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Bike    BikeConfig   `yaml:"bike,omitempty"`
	Rider   RiderConfig  `yaml:"rider,omitempty"`
	Ranges  model.Ranges `yaml:"-"` // read through fileConfig
	Physics power.Params `yaml:"physics,omitempty"`
	Advice  AdviceConfig `yaml:"advice,omitempty"`
	Server  ServerConfig `yaml:"server,omitempty"`
	Log     LogConfig    `yaml:"log,omitempty"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// New returns a Config with every default populated.
func New() *Config {
	rider := model.DefaultRider()
	drivetrain := model.DefaultDrivetrain()
	sel := model.DefaultSelection(drivetrain)
	return &Config{
		Bike: BikeConfig{
			Drivetrain: drivetrain,
			MassKg:     model.DefaultBikeMassKg,
			Front:      intPtr(sel.Front),
			Rear:       intPtr(sel.Rear),
		},
		Rider: RiderConfig{
			CadenceRPM:      intPtr(rider.CadenceRPM),
			MassKg:          floatPtr(rider.RiderMassKg),
			GradientPercent: floatPtr(rider.GradientPercent),
			WindKmh:         floatPtr(rider.WindKmh),
		},
		Ranges:  model.DefaultRanges(),
		Physics: power.DefaultParams(),
		Advice: AdviceConfig{
			Provider:  DefaultProvider,
			Model:     DefaultModel,
			CacheSize: intPtr(DefaultCacheSize),
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
			Port: DefaultServerPort,
		},
		Log: LogConfig{
			Level:   DefaultLogLevel,
			NoColor: boolPtr(false),
		},
	}
}

// LoadDotEnv reads .env from the working directory if present. Variables
// already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load finds .veloratio.yaml by walking up from startDir and merges it over
// the defaults. A missing file is not an error.
func Load(startDir string) (*Config, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	if err := cfg.merge(path, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the config at path, which must exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := New()
	if err := cfg.merge(path, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileConfig is the on-disk shape. Range bounds are pointers so a file can
// override one bound and keep the default for the other.
type fileConfig struct {
	Config `yaml:",inline"`
	Ranges struct {
		Cadence   rangeOverride `yaml:"cadence,omitempty"`
		RiderMass rangeOverride `yaml:"rider_mass,omitempty"`
		Gradient  rangeOverride `yaml:"gradient,omitempty"`
		Wind      rangeOverride `yaml:"wind,omitempty"`
	} `yaml:"ranges,omitempty"`
}

type rangeOverride struct {
	Min  *float64 `yaml:"min,omitempty"`
	Max  *float64 `yaml:"max,omitempty"`
	Step *float64 `yaml:"step,omitempty"`
}

func (c *Config) merge(path string, data []byte) error {
	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	mergeConfig(c, &fileCfg.Config)
	mergeRange(&c.Ranges.Cadence, fileCfg.Ranges.Cadence)
	mergeRange(&c.Ranges.RiderMass, fileCfg.Ranges.RiderMass)
	mergeRange(&c.Ranges.Gradient, fileCfg.Ranges.Gradient)
	mergeRange(&c.Ranges.Wind, fileCfg.Ranges.Wind)
	c.Path = path
	return nil
}

func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxSearchDepth; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *Config) {
	// Bike
	if len(src.Bike.Drivetrain.Chainrings) > 0 {
		dst.Bike.Drivetrain.Chainrings = src.Bike.Drivetrain.Chainrings
		// A new crankset invalidates the default big-ring index.
		if src.Bike.Front == nil {
			dst.Bike.Front = intPtr(len(src.Bike.Drivetrain.Chainrings) - 1)
		}
	}
	if len(src.Bike.Drivetrain.Cassette) > 0 {
		dst.Bike.Drivetrain.Cassette = src.Bike.Drivetrain.Cassette
	}
	if src.Bike.Drivetrain.WheelCircumferenceMm != 0 {
		dst.Bike.Drivetrain.WheelCircumferenceMm = src.Bike.Drivetrain.WheelCircumferenceMm
	}
	if src.Bike.MassKg != 0 {
		dst.Bike.MassKg = src.Bike.MassKg
	}
	if src.Bike.Front != nil {
		dst.Bike.Front = src.Bike.Front
	}
	if src.Bike.Rear != nil {
		dst.Bike.Rear = src.Bike.Rear
	}

	// Rider
	if src.Rider.CadenceRPM != nil {
		dst.Rider.CadenceRPM = src.Rider.CadenceRPM
	}
	if src.Rider.MassKg != nil {
		dst.Rider.MassKg = src.Rider.MassKg
	}
	if src.Rider.GradientPercent != nil {
		dst.Rider.GradientPercent = src.Rider.GradientPercent
	}
	if src.Rider.WindKmh != nil {
		dst.Rider.WindKmh = src.Rider.WindKmh
	}

	// Physics
	if src.Physics.Gravity != 0 {
		dst.Physics.Gravity = src.Physics.Gravity
	}
	if src.Physics.AirDensity != 0 {
		dst.Physics.AirDensity = src.Physics.AirDensity
	}
	if src.Physics.CdA != 0 {
		dst.Physics.CdA = src.Physics.CdA
	}
	if src.Physics.Crr != 0 {
		dst.Physics.Crr = src.Physics.Crr
	}
	if src.Physics.Efficiency != 0 {
		dst.Physics.Efficiency = src.Physics.Efficiency
	}

	// Advice
	if src.Advice.Provider != "" {
		dst.Advice.Provider = src.Advice.Provider
	}
	if src.Advice.Model != "" {
		dst.Advice.Model = src.Advice.Model
	}
	if src.Advice.TimeoutSec != 0 {
		dst.Advice.TimeoutSec = src.Advice.TimeoutSec
	}
	if src.Advice.CacheSize != nil {
		dst.Advice.CacheSize = src.Advice.CacheSize
	}

	// Server
	if src.Server.Addr != "" {
		dst.Server.Addr = src.Server.Addr
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}

	// Log
	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
	}
	if src.Log.NoColor != nil {
		dst.Log.NoColor = src.Log.NoColor
	}
}

// mergeRange overlays each bound the file sets, leaving the rest alone.
func mergeRange(dst *model.Range, src rangeOverride) {
	if src.Min != nil {
		dst.Min = *src.Min
	}
	if src.Max != nil {
		dst.Max = *src.Max
	}
	if src.Step != nil {
		dst.Step = *src.Step
	}
}

// ApplyEnv overrides settings from environment variables read through
// getenv. GEMINI_API_KEY takes precedence over API_KEY.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("GEMINI_API_KEY")); v != "" {
		c.Advice.APIKey = v
	} else if v := strings.TrimSpace(getenv("API_KEY")); v != "" {
		c.Advice.APIKey = v
	}
	if v := strings.TrimSpace(getenv("VELORATIO_PROVIDER")); v != "" {
		c.Advice.Provider = v
	}
	if v := strings.TrimSpace(getenv("VELORATIO_MODEL")); v != "" {
		c.Advice.Model = v
	}
	if v := strings.TrimSpace(getenv("VELORATIO_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if getenv("NO_COLOR") != "" {
		c.Log.NoColor = boolPtr(true)
	}
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.Bike.Drivetrain.Validate(); err != nil {
		return fmt.Errorf("bike: %w", err)
	}
	if c.Bike.MassKg <= 0 {
		return fmt.Errorf("bike: mass_kg must be positive, got %g", c.Bike.MassKg)
	}
	for name, r := range map[string]model.Range{
		"cadence":    c.Ranges.Cadence,
		"rider_mass": c.Ranges.RiderMass,
		"gradient":   c.Ranges.Gradient,
		"wind":       c.Ranges.Wind,
	} {
		if r.Min > r.Max {
			return fmt.Errorf("ranges.%s: min %g exceeds max %g", name, r.Min, r.Max)
		}
		if r.Step < 0 {
			return fmt.Errorf("ranges.%s: negative step %g", name, r.Step)
		}
	}
	if c.Ranges.Cadence.Min < 0 || c.Ranges.RiderMass.Min <= 0 {
		return errors.New("ranges: cadence must be non-negative and rider mass positive")
	}
	if p := c.Physics; p.Gravity <= 0 || p.AirDensity <= 0 || p.CdA < 0 || p.Crr < 0 {
		return fmt.Errorf("physics: constants out of range: %+v", p)
	}
	if c.Physics.Efficiency <= 0 || c.Physics.Efficiency > 1 {
		return fmt.Errorf("physics: efficiency must be in (0, 1], got %g", c.Physics.Efficiency)
	}
	switch c.Advice.Provider {
	case ProviderGemini, ProviderOffline, ProviderNone:
	default:
		return fmt.Errorf("advice: unknown provider %q", c.Advice.Provider)
	}
	if c.Advice.TimeoutSec < 0 {
		return fmt.Errorf("advice: negative timeout_sec %d", c.Advice.TimeoutSec)
	}
	if c.Advice.CacheSize != nil && *c.Advice.CacheSize < 0 {
		return fmt.Errorf("advice: negative cache_size %d", *c.Advice.CacheSize)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port %d out of range", c.Server.Port)
	}
	return nil
}

// Selection returns the starting gear clamped to the drivetrain.
func (c *Config) Selection() model.GearSelection {
	sel := model.DefaultSelection(c.Bike.Drivetrain)
	if c.Bike.Front != nil {
		sel.Front = *c.Bike.Front
	}
	if c.Bike.Rear != nil {
		sel.Rear = *c.Bike.Rear
	}
	return sel.Clamp(c.Bike.Drivetrain)
}

// RiderState returns the starting rider inputs clamped to Ranges.
func (c *Config) RiderState() model.RiderState {
	s := model.DefaultRider()
	if c.Rider.CadenceRPM != nil {
		s.CadenceRPM = *c.Rider.CadenceRPM
	}
	if c.Rider.MassKg != nil {
		s.RiderMassKg = *c.Rider.MassKg
	}
	if c.Rider.GradientPercent != nil {
		s.GradientPercent = *c.Rider.GradientPercent
	}
	if c.Rider.WindKmh != nil {
		s.WindKmh = *c.Rider.WindKmh
	}
	return c.Ranges.Clamp(s)
}

// AdviceTimeout is zero when no per-call timeout is configured.
func (c *Config) AdviceTimeout() time.Duration {
	return time.Duration(c.Advice.TimeoutSec) * time.Second
}

// AdviceCacheSize returns the configured cache size, or the default.
func (c *Config) AdviceCacheSize() int {
	if c.Advice.CacheSize == nil {
		return DefaultCacheSize
	}
	return *c.Advice.CacheSize
}

// ListenAddr joins the server address and port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(b bool) *bool        { return &b }
