package player

import (
	"fmt"
	"math"
)

// JumpMode decides what happens while a jump request stays held.
type JumpMode int

const (
	// JumpHold re-asserts the launch speed on every grounded sub-step
	// where the request is held.
	JumpHold JumpMode = iota
	// JumpEdge launches once per press; the request must be released
	// before it can fire again.
	JumpEdge
)

func (m JumpMode) String() string {
	switch m {
	case JumpHold:
		return "hold"
	case JumpEdge:
		return "edge"
	default:
		return fmt.Sprintf("JumpMode(%d)", int(m))
	}
}

func ParseJumpMode(s string) (JumpMode, error) {
	switch s {
	case "", "hold":
		return JumpHold, nil
	case "edge":
		return JumpEdge, nil
	}
	return 0, fmt.Errorf("unknown jump mode %q", s)
}

// Config holds the movement constants for one player.
type Config struct {
	Gravity         float64 // units/s², applied while airborne
	Radius          float64
	Height          float64 // length of the capsule segment
	JumpSpeed       float64
	GroundAccel     float64 // input acceleration while on the floor
	AirAccel        float64 // input acceleration while airborne
	DampingRate     float64 // exponential velocity decay per second
	AirDampingScale float64 // damping multiplier while airborne
	DepthEpsilon    float64 // penetrations below this are left alone
	JumpMode        JumpMode
}

func DefaultConfig() Config {
	return Config{
		Gravity:         30,
		Radius:          0.35,
		Height:          0.65,
		JumpSpeed:       15,
		GroundAccel:     25,
		AirAccel:        8,
		DampingRate:     4,
		AirDampingScale: 0.1,
		DepthEpsilon:    1e-10,
		JumpMode:        JumpHold,
	}
}

func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"gravity", c.Gravity},
		{"radius", c.Radius},
		{"height", c.Height},
		{"jump speed", c.JumpSpeed},
		{"ground accel", c.GroundAccel},
		{"air accel", c.AirAccel},
		{"damping rate", c.DampingRate},
		{"air damping scale", c.AirDampingScale},
		{"depth epsilon", c.DepthEpsilon},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be finite, got %g", f.name, f.value)
		}
	}

	if c.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %g", c.Radius)
	}
	if c.Height < 0 {
		return fmt.Errorf("height must not be negative, got %g", c.Height)
	}
	if c.Gravity < 0 {
		return fmt.Errorf("gravity must not be negative, got %g", c.Gravity)
	}
	if c.DampingRate < 0 || c.AirDampingScale < 0 {
		return fmt.Errorf("damping must not be negative")
	}
	if c.DepthEpsilon < 0 {
		return fmt.Errorf("depth epsilon must not be negative, got %g", c.DepthEpsilon)
	}
	return nil
}
