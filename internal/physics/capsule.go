package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Capsule is a swept sphere: every point within Radius of the segment
// Start-End. For the player, Start is the lower sphere centre and End the
// upper one (eye position).
type Capsule struct {
	Start  mgl64.Vec3
	End    mgl64.Vec3
	Radius float64
}

// NewCapsule builds an upright capsule whose lower sphere centre is start
// and whose segment is height long.
func NewCapsule(start mgl64.Vec3, height, radius float64) Capsule {
	return Capsule{
		Start:  start,
		End:    start.Add(Up.Mul(height)),
		Radius: radius,
	}
}

// Translate returns the capsule moved by delta.
func (c Capsule) Translate(delta mgl64.Vec3) Capsule {
	c.Start = c.Start.Add(delta)
	c.End = c.End.Add(delta)
	return c
}

func (c Capsule) Center() mgl64.Vec3 {
	return c.Start.Add(c.End).Mul(0.5)
}

func (c Capsule) Bounds() AABB {
	r := mgl64.Vec3{c.Radius, c.Radius, c.Radius}
	return AABB{
		Min: vecMin(c.Start, c.End).Sub(r),
		Max: vecMax(c.Start, c.End).Add(r),
	}
}

func (c Capsule) Finite() bool {
	return Finite(c.Start) && Finite(c.End) && finite(c.Radius)
}

func (c Capsule) String() string {
	return fmt.Sprintf("capsule{start=%v end=%v r=%g}", c.Start, c.End, c.Radius)
}

// mustBeFinite panics on a capsule that would otherwise propagate NaN into
// every query result.
func (c Capsule) mustBeFinite() {
	if !c.Finite() || c.Radius < 0 {
		panic(fmt.Sprintf("physics: invalid %v", c))
	}
}
