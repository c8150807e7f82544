package vinemotion

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned (wrapped) by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of the engine. The defaults are chosen for
// visual feel; none of them is required for correctness.
type Config struct {
	Scroll     ScrollConfig     `yaml:"scroll"`
	Spring     SpringDefaults   `yaml:"spring"`
	Transition TransitionConfig `yaml:"transition"`
	Debug      bool             `yaml:"debug"`
}

// ScrollConfig tunes the Virtualizer.
type ScrollConfig struct {
	// SmoothTime is the decay constant of the smoothing kernel. Roughly 63%
	// of the remaining distance is covered every SmoothTime.
	SmoothTime time.Duration `yaml:"smooth_time"`
	// ScrollToDuration is used by Engine.ScrollTo when no duration is given.
	ScrollToDuration time.Duration `yaml:"scroll_to_duration"`
	// WheelMultiplier scales raw wheel deltas before they reach ScrollBy.
	WheelMultiplier float64 `yaml:"wheel_multiplier"`
	// SnapEpsilon is the distance in pixels below which the smoothed offset
	// snaps onto the raw offset.
	SnapEpsilon float64 `yaml:"snap_epsilon"`
}

// SpringDefaults tunes the pointer springs.
type SpringDefaults struct {
	Stiffness    float64       `yaml:"stiffness"`
	Damping      float64       `yaml:"damping"`
	Scale        float64       `yaml:"scale"`
	MinStiffness float64       `yaml:"min_stiffness"`
	MinDamping   float64       `yaml:"min_damping"`
	MaxStep      time.Duration `yaml:"max_step"`
}

// TransitionConfig tunes the page-transition lifecycle.
type TransitionConfig struct {
	ExitTimeout  time.Duration `yaml:"exit_timeout"`
	EntryTimeout time.Duration `yaml:"entry_timeout"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Scroll: ScrollConfig{
			SmoothTime:       120 * time.Millisecond,
			ScrollToDuration: 1200 * time.Millisecond,
			WheelMultiplier:  1,
			SnapEpsilon:      0.05,
		},
		Spring: SpringDefaults{
			Stiffness:    150,
			Damping:      20,
			Scale:        12,
			MinStiffness: 1,
			MinDamping:   1,
			MaxStep:      4 * time.Millisecond,
		},
		Transition: TransitionConfig{
			ExitTimeout:  1500 * time.Millisecond,
			EntryTimeout: 3 * time.Second,
		},
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	check(c.Scroll.SmoothTime >= 0, "scroll.smooth_time must not be negative (got %v)", c.Scroll.SmoothTime)
	check(c.Scroll.ScrollToDuration >= 0, "scroll.scroll_to_duration must not be negative (got %v)", c.Scroll.ScrollToDuration)
	check(finite(c.Scroll.WheelMultiplier), "scroll.wheel_multiplier must be finite")
	check(finite(c.Scroll.SnapEpsilon) && c.Scroll.SnapEpsilon >= 0, "scroll.snap_epsilon must be >= 0 (got %v)", c.Scroll.SnapEpsilon)

	check(finite(c.Spring.MinStiffness) && c.Spring.MinStiffness > 0, "spring.min_stiffness must be > 0 (got %v)", c.Spring.MinStiffness)
	check(finite(c.Spring.MinDamping) && c.Spring.MinDamping > 0, "spring.min_damping must be > 0 (got %v)", c.Spring.MinDamping)
	check(finite(c.Spring.Stiffness) && c.Spring.Stiffness >= c.Spring.MinStiffness, "spring.stiffness must be >= min_stiffness (got %v)", c.Spring.Stiffness)
	check(finite(c.Spring.Damping) && c.Spring.Damping >= c.Spring.MinDamping, "spring.damping must be >= min_damping (got %v)", c.Spring.Damping)
	check(finite(c.Spring.Scale), "spring.scale must be finite")
	check(c.Spring.MaxStep > 0, "spring.max_step must be > 0 (got %v)", c.Spring.MaxStep)

	check(c.Transition.ExitTimeout > 0, "transition.exit_timeout must be > 0 (got %v)", c.Transition.ExitTimeout)
	check(c.Transition.EntryTimeout > 0, "transition.entry_timeout must be > 0 (got %v)", c.Transition.EntryTimeout)

	return errors.Join(errs...)
}
