package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size mgl64.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// Contains reports whether b lies entirely inside a.
func (a AABB) Contains(b AABB) bool {
	return a.Min[0] <= b.Min[0] && a.Max[0] >= b.Max[0] &&
		a.Min[1] <= b.Min[1] && a.Max[1] >= b.Max[1] &&
		a.Min[2] <= b.Min[2] && a.Max[2] >= b.Max[2]
}

func (a AABB) Extend(p mgl64.Vec3) AABB {
	return AABB{Min: vecMin(a.Min, p), Max: vecMax(a.Max, p)}
}

func (a AABB) Union(b AABB) AABB {
	return AABB{Min: vecMin(a.Min, b.Min), Max: vecMax(a.Max, b.Max)}
}

func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// LongestAxis returns 0, 1 or 2 for X, Y or Z.
func (a AABB) LongestAxis() int {
	size := a.Size()
	axis := 0
	if size[1] > size[axis] {
		axis = 1
	}
	if size[2] > size[axis] {
		axis = 2
	}
	return axis
}

func (a AABB) IsEmpty() bool {
	return a.Min[0] > a.Max[0] || a.Min[1] > a.Max[1] || a.Min[2] > a.Max[2]
}
