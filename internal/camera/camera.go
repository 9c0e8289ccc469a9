package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FPSCamera owns the look orientation. Its position comes from the player
// capsule every frame.
type FPSCamera struct {
	Yaw       float64 // degrees, 0 looks down +X
	Pitch     float64 // degrees, clamped to ±89
	LookSpeed float64 // degrees per pixel of mouse motion
	Fovy      float64

	// Offset shifts the eye relative to the capsule head. A VR session
	// moves its reference frame here instead of moving the player.
	Offset mgl64.Vec3
}

func New() *FPSCamera {
	return &FPSCamera{
		Yaw:       -90.0,
		Pitch:     0,
		LookSpeed: 0.1,
		Fovy:      70,
	}
}

// Look applies a mouse delta in pixels.
func (c *FPSCamera) Look(dx, dy float64) {
	c.Yaw += dx * c.LookSpeed
	c.Pitch -= dy * c.LookSpeed

	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}
	c.Yaw = math.Mod(c.Yaw, 360)
}

// YawRadians is the heading handed to the input mapper.
func (c *FPSCamera) YawRadians() float64 {
	return mgl64.DegToRad(c.Yaw)
}

// Forward is the unit look direction including pitch.
func (c *FPSCamera) Forward() mgl64.Vec3 {
	yaw := mgl64.DegToRad(c.Yaw)
	pitch := mgl64.DegToRad(c.Pitch)
	return mgl64.Vec3{
		math.Cos(yaw) * math.Cos(pitch),
		math.Sin(pitch),
		math.Sin(yaw) * math.Cos(pitch),
	}
}

// Eye returns the camera position for a capsule head position.
func (c *FPSCamera) Eye(head mgl64.Vec3) mgl64.Vec3 {
	return head.Add(c.Offset)
}

// Target returns the point one unit ahead of the eye.
func (c *FPSCamera) Target(head mgl64.Vec3) mgl64.Vec3 {
	return c.Eye(head).Add(c.Forward())
}
