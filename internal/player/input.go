package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"walkcore/internal/physics"
)

// Input is what the simulator accepts from the input mapper each sub-step.
type Input struct {
	Acceleration mgl64.Vec3 // desired acceleration, units/s²
	Jump         bool
}

// Axes is device independent movement intent: keyboard, gamepad sticks and
// VR controllers all reduce to this.
type Axes struct {
	Forward float64 // +1 forward, -1 back
	Strafe  float64 // +1 right, -1 left
	Jump    bool
}

// Mapper converts look yaw and movement axes into an Input.
type Mapper struct {
	GroundAccel float64
	AirAccel    float64
}

func NewMapper(cfg Config) Mapper {
	return Mapper{GroundAccel: cfg.GroundAccel, AirAccel: cfg.AirAccel}
}

// ForwardVector returns the horizontal look direction for yaw in radians.
func ForwardVector(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(yaw), 0, math.Sin(yaw)}
}

// SideVector returns the horizontal right direction for yaw in radians.
func SideVector(yaw float64) mgl64.Vec3 {
	return ForwardVector(yaw).Cross(physics.Up)
}

// Map builds the input for one sub-step. Grounded players accelerate
// faster than airborne ones.
func (m Mapper) Map(yaw float64, axes Axes, onFloor bool) Input {
	dir := ForwardVector(yaw).Mul(axes.Forward).Add(SideVector(yaw).Mul(axes.Strafe))

	// Normalize diagonal movement, keep partial stick deflection.
	if l := dir.Len(); l > 1 {
		dir = dir.Mul(1 / l)
	}

	accel := m.AirAccel
	if onFloor {
		accel = m.GroundAccel
	}
	return Input{Acceleration: dir.Mul(accel), Jump: axes.Jump}
}
