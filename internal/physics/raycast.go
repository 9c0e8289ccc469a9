package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RayHit is the closest triangle crossed by a ray.
type RayHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Triangle int
	Tag      uint8
}

// Raycast returns the nearest indexed triangle along the ray within
// maxDistance. The direction need not be normalized. Hits on either face
// count; the normal is flipped to face the ray origin.
func (idx *Index) Raycast(origin, direction mgl64.Vec3, maxDistance float64) (RayHit, bool) {
	if idx.root == nil || direction.Len() == 0 || !Finite(origin) || !Finite(direction) {
		return RayHit{}, false
	}
	direction = direction.Normalize()

	best := RayHit{Distance: maxDistance}
	hit := false

	stack := []*bvhNode{idx.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := rayBox(origin, direction, node.bounds, best.Distance); !ok {
			continue
		}
		if node.leaf() {
			for _, i := range node.triangles {
				t, ok := rayTriangle(origin, direction, idx.triangles[i])
				if !ok || t > best.Distance {
					continue
				}
				normal := idx.triangles[i].Normal()
				if normal.Dot(direction) > 0 {
					normal = normal.Mul(-1)
				}
				best = RayHit{
					Point:    origin.Add(direction.Mul(t)),
					Normal:   normal,
					Distance: t,
					Triangle: i,
					Tag:      idx.triangles[i].Tag,
				}
				hit = true
			}
			continue
		}
		stack = append(stack, node.right, node.left)
	}
	return best, hit
}

// rayBox is the slab test. It returns the entry distance, clamped to 0 when
// the origin is inside the box.
func rayBox(origin, direction mgl64.Vec3, box AABB, maxDistance float64) (float64, bool) {
	tmin, tmax := 0.0, maxDistance
	for axis := 0; axis < 3; axis++ {
		if direction[axis] == 0 {
			if origin[axis] < box.Min[axis] || origin[axis] > box.Max[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / direction[axis]
		t1 := (box.Min[axis] - origin[axis]) * inv
		t2 := (box.Max[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// rayTriangle is the Moller-Trumbore test. Direction must be unit length.
func rayTriangle(origin, direction mgl64.Vec3, t Triangle) (float64, bool) {
	const eps = 1e-12

	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	p := direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det

	s := origin.Sub(t.A)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := e2.Dot(q) * inv
	if dist < 0 {
		return 0, false
	}
	return dist, true
}
