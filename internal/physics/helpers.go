package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis. Floors are surfaces whose contact normal has a
// positive component along it.
var Up = mgl64.Vec3{0, 1, 0}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Finite reports whether every component of v is a real number.
func Finite(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func vecMin(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func vecMax(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

// closestPtSegmentSegment returns the closest points c1 on p1q1 and c2 on
// p2q2. Degenerate (zero length) segments are treated as points.
func closestPtSegmentSegment(p1, q1, p2, q2 mgl64.Vec3) (c1, c2 mgl64.Vec3) {
	const eps = 1e-12

	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= eps {
			s = clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			// Parallel segments: pick s = 0 and let t follow.
			if denom > eps {
				s = clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clamp((b-c)/a, 0, 1)
			}
		}
	}

	c1 = p1.Add(d1.Mul(s))
	c2 = p2.Add(d2.Mul(t))
	return c1, c2
}
