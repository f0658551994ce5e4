package xrpanel

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Default picker timings, in seconds.
const (
	DefaultHoverDwell         = 0.1
	DefaultMinPressInterval   = 0.05
	DefaultMinReleaseInterval = 0.1
	DefaultClickCooldown      = 0.2
	DefaultActiveClearDelay   = 0.1

	DefaultLeftPointerID  = 1
	DefaultRightPointerID = 2
)

// PickerConfig holds the ElementPicker's debounce windows and pointer ids.
// All durations are in seconds of picker time.
type PickerConfig struct {
	// HoverDwell is how long a new element must stay the top hit before
	// hover moves to it.
	HoverDwell float64 `yaml:"hover_dwell"`
	// MinPressInterval rejects presses closer together than this.
	MinPressInterval float64 `yaml:"min_press_interval"`
	// MinReleaseInterval rejects releases closer together than this.
	MinReleaseInterval float64 `yaml:"min_release_interval"`
	// ClickCooldown is the window after a release during which hover
	// changes are applied silently.
	ClickCooldown float64 `yaml:"click_cooldown"`
	// ActiveClearDelay is how long after a release the pressed element
	// keeps its active state.
	ActiveClearDelay float64 `yaml:"active_clear_delay"`

	LeftPointerID  int `yaml:"left_pointer_id"`
	RightPointerID int `yaml:"right_pointer_id"`
}

// DefaultPickerConfig returns the stock timings and pointer ids.
func DefaultPickerConfig() PickerConfig {
	return PickerConfig{
		HoverDwell:         DefaultHoverDwell,
		MinPressInterval:   DefaultMinPressInterval,
		MinReleaseInterval: DefaultMinReleaseInterval,
		ClickCooldown:      DefaultClickCooldown,
		ActiveClearDelay:   DefaultActiveClearDelay,
		LeftPointerID:      DefaultLeftPointerID,
		RightPointerID:     DefaultRightPointerID,
	}
}

// ParsePickerConfig reads a YAML document over the defaults. Keys that are
// absent keep their default value.
func ParsePickerConfig(data []byte) (PickerConfig, error) {
	cfg := DefaultPickerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse picker config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("parse picker config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every duration is finite and non-negative and that
// the two pointer ids differ.
func (c PickerConfig) Validate() error {
	durations := []struct {
		name string
		v    float64
	}{
		{"hover_dwell", c.HoverDwell},
		{"min_press_interval", c.MinPressInterval},
		{"min_release_interval", c.MinReleaseInterval},
		{"click_cooldown", c.ClickCooldown},
		{"active_clear_delay", c.ActiveClearDelay},
	}
	for _, d := range durations {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) || d.v < 0 {
			return fmt.Errorf("%s must be a non-negative number of seconds, got %v", d.name, d.v)
		}
	}
	if c.LeftPointerID == c.RightPointerID {
		return fmt.Errorf("left_pointer_id and right_pointer_id must differ (both %d)", c.LeftPointerID)
	}
	return nil
}

// Default panel movement settings. Lengths are in metres, angles in degrees.
const (
	DefaultMinPanelY         = 0.5
	DefaultMaxPanelY         = 2.0
	DefaultMinPitch          = -30.0
	DefaultMaxPitch          = 20.0
	DefaultFollowDistance    = 0.8
	DefaultFollowSpeed       = 3.0
	DefaultRelativeYFactor   = 1.0
	DefaultRotationLerpSpeed = 5.0
)

// PanelMovementConfig tunes a PanelMovement.
type PanelMovementConfig struct {
	Mode MovementMode `yaml:"mode"`

	// LockVertical clamps the follow position's height to [MinY, MaxY].
	LockVertical bool    `yaml:"lock_vertical"`
	MinY         float64 `yaml:"min_y"`
	MaxY         float64 `yaml:"max_y"`
	// The follow target only moves while the camera pitch is within
	// [MinPitch, MaxPitch]; outside it the last allowed placement holds.
	MinPitch float64 `yaml:"min_pitch"`
	MaxPitch float64 `yaml:"max_pitch"`
	// LocalOffset is the follow position in the camera's local frame.
	LocalOffset Vec3    `yaml:"local_offset"`
	FollowSpeed float64 `yaml:"follow_speed"`

	// RelativeYFactor scales how much of the camera's height change the
	// billboard panel copies.
	RelativeYFactor   float64 `yaml:"relative_y_factor"`
	RotationLerpSpeed float64 `yaml:"rotation_lerp_speed"`
}

// DefaultPanelMovementConfig returns a billboard configuration with the
// stock limits and speeds.
func DefaultPanelMovementConfig() PanelMovementConfig {
	return PanelMovementConfig{
		Mode:              MovementBillboard,
		LockVertical:      true,
		MinY:              DefaultMinPanelY,
		MaxY:              DefaultMaxPanelY,
		MinPitch:          DefaultMinPitch,
		MaxPitch:          DefaultMaxPitch,
		LocalOffset:       Vec3{0, 0, DefaultFollowDistance},
		FollowSpeed:       DefaultFollowSpeed,
		RelativeYFactor:   DefaultRelativeYFactor,
		RotationLerpSpeed: DefaultRotationLerpSpeed,
	}
}

// ParsePanelMovementConfig reads a YAML document over the defaults.
func ParsePanelMovementConfig(data []byte) (PanelMovementConfig, error) {
	cfg := DefaultPanelMovementConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse panel movement config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("parse panel movement config: %w", err)
	}
	return cfg, nil
}

// Validate checks the ranges and speeds.
func (c PanelMovementConfig) Validate() error {
	if c.Mode > MovementFollow {
		return fmt.Errorf("unknown movement mode %d", c.Mode)
	}
	if c.MinY > c.MaxY {
		return fmt.Errorf("min_y %v exceeds max_y %v", c.MinY, c.MaxY)
	}
	if c.MinPitch > c.MaxPitch {
		return fmt.Errorf("min_pitch %v exceeds max_pitch %v", c.MinPitch, c.MaxPitch)
	}
	speeds := []struct {
		name string
		v    float64
	}{
		{"follow_speed", c.FollowSpeed},
		{"rotation_lerp_speed", c.RotationLerpSpeed},
	}
	for _, s := range speeds {
		if math.IsNaN(s.v) || math.IsInf(s.v, 0) || s.v <= 0 {
			return fmt.Errorf("%s must be a positive number, got %v", s.name, s.v)
		}
	}
	return nil
}
