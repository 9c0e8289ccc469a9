package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact describes how to push a capsule out of the world.
type Contact struct {
	Normal mgl64.Vec3 // unit, from the surface toward the capsule axis
	Depth  float64    // non-negative penetration
	Point  mgl64.Vec3 // nearest point on the surface
}

// triangleCapsuleContact tests one triangle against the capsule.
func triangleCapsuleContact(tri Triangle, c Capsule) (Contact, bool) {
	s, tp, crossing := tri.closestToSegment(c.Start, c.End)

	if crossing {
		// The axis passes through the face: push out along the face normal
		// on the side of the capsule centre, far enough to clear the deeper end.
		n := tri.Normal()
		if n.Dot(c.Center().Sub(tp)) < 0 {
			n = n.Mul(-1)
		}
		ds := n.Dot(c.Start.Sub(tp))
		de := n.Dot(c.End.Sub(tp))
		return Contact{Normal: n, Depth: c.Radius - math.Min(ds, de), Point: tp}, true
	}

	d := s.Sub(tp)
	dist2 := d.Dot(d)
	if dist2 >= c.Radius*c.Radius {
		return Contact{}, false
	}

	dist := math.Sqrt(dist2)
	var n mgl64.Vec3
	if dist < 1e-12 {
		// Axis touches the surface: fall back to the face normal.
		n = tri.Normal()
		if n.Dot(c.Center().Sub(tp)) < 0 {
			n = n.Mul(-1)
		}
	} else {
		n = d.Mul(1 / dist)
	}
	return Contact{Normal: n, Depth: c.Radius - dist, Point: tp}, true
}
