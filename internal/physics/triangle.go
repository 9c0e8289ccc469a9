package physics

import "github.com/go-gl/mathgl/mgl64"

// minTriangleArea2 is the squared doubled area below which a triangle is
// treated as degenerate and never indexed.
const minTriangleArea2 = 1e-20

// Triangle is a static world surface. Tag is an opaque surface label set by
// the geometry provider; ray hits report it.
type Triangle struct {
	A, B, C mgl64.Vec3
	Tag     uint8
}

func NewTriangle(a, b, c mgl64.Vec3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// Normal returns the unit face normal following counter-clockwise winding.
// Degenerate triangles return the zero vector.
func (t Triangle) Normal() mgl64.Vec3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	l := n.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return n.Mul(1 / l)
}

func (t Triangle) Centroid() mgl64.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

func (t Triangle) Bounds() AABB {
	return EmptyAABB().Extend(t.A).Extend(t.B).Extend(t.C)
}

// Degenerate reports a triangle with non-finite vertices or (near) zero area.
func (t Triangle) Degenerate() bool {
	if !Finite(t.A) || !Finite(t.B) || !Finite(t.C) {
		return true
	}
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	return n.Dot(n) < minTriangleArea2
}

// ClosestPoint finds the closest point on the triangle to p.
func (t Triangle) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	a, b, c := t.A, t.B, t.C

	// Check if P in vertex region outside A
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a // barycentric coordinates (1,0,0)
	}

	// Check if P in vertex region outside B
	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b // barycentric coordinates (0,1,0)
	}

	// Check if P in edge region of AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v)) // barycentric coordinates (1-v,v,0)
	}

	// Check if P in vertex region outside C
	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c // barycentric coordinates (0,0,1)
	}

	// Check if P in edge region of AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w)) // barycentric coordinates (1-w,0,w)
	}

	// Check if P in edge region of BC
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w)) // barycentric coordinates (0,1-w,w)
	}

	// P inside face region
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// segmentCrossing returns the point where segment pq passes through the
// triangle's interior, if it does.
func (t Triangle) segmentCrossing(p, q mgl64.Vec3) (mgl64.Vec3, bool) {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	dp := n.Dot(p.Sub(t.A))
	dq := n.Dot(q.Sub(t.A))
	if (dp > 0 && dq > 0) || (dp < 0 && dq < 0) || dp == dq {
		return mgl64.Vec3{}, false
	}
	x := p.Add(q.Sub(p).Mul(dp / (dp - dq)))

	// Inside test: x must be on the inner side of all three edges.
	if n.Dot(t.B.Sub(t.A).Cross(x.Sub(t.A))) < 0 ||
		n.Dot(t.C.Sub(t.B).Cross(x.Sub(t.B))) < 0 ||
		n.Dot(t.A.Sub(t.C).Cross(x.Sub(t.C))) < 0 {
		return mgl64.Vec3{}, false
	}
	return x, true
}

// closestToSegment returns the closest points between segment pq and the
// triangle: s on the segment and tp on the triangle. crossing is set when the
// segment passes through the triangle, in which case s == tp.
func (t Triangle) closestToSegment(p, q mgl64.Vec3) (s, tp mgl64.Vec3, crossing bool) {
	if x, ok := t.segmentCrossing(p, q); ok {
		return x, x, true
	}

	best := -1.0
	consider := func(a, b mgl64.Vec3) {
		d := a.Sub(b)
		dist := d.Dot(d)
		if best < 0 || dist < best {
			best = dist
			s, tp = a, b
		}
	}

	consider(p, t.ClosestPoint(p))
	consider(q, t.ClosestPoint(q))
	edges := [3][2]mgl64.Vec3{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
	for _, e := range edges {
		c1, c2 := closestPtSegmentSegment(p, q, e[0], e[1])
		consider(c1, c2)
	}
	return s, tp, false
}
