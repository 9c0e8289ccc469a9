package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	nearPlane = 0.05
	farPlane  = 1000.0
)

// Frustum represents the 6 planes of a view frustum for culling
type Frustum struct {
	planes [6]plane // left, right, bottom, top, near, far
}

// plane is n·p + d = 0 with n pointing into the frustum.
type plane struct {
	normal mgl64.Vec3
	d      float64
}

// Frustum returns the view volume seen from head at the given aspect ratio.
func (c *FPSCamera) Frustum(head mgl64.Vec3, aspect float64) Frustum {
	view := mgl64.LookAtV(c.Eye(head), c.Target(head), mgl64.Vec3{0, 1, 0})
	proj := mgl64.Perspective(mgl64.DegToRad(c.Fovy), aspect, nearPlane, farPlane)
	return ExtractFrustum(proj.Mul4(view))
}

// ExtractFrustum extracts frustum planes from a view-projection matrix
// using the Gribb/Hartmann method.
func ExtractFrustum(vp mgl64.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.planes[0] = newPlane(r3.Add(r0))
	f.planes[1] = newPlane(r3.Sub(r0))
	f.planes[2] = newPlane(r3.Add(r1))
	f.planes[3] = newPlane(r3.Sub(r1))
	f.planes[4] = newPlane(r3.Add(r2))
	f.planes[5] = newPlane(r3.Sub(r2))
	return f
}

func newPlane(v mgl64.Vec4) plane {
	p := plane{normal: v.Vec3(), d: v[3]}
	length := p.normal.Len()
	if length == 0 {
		return p
	}
	return plane{normal: p.normal.Mul(1 / length), d: p.d / length}
}

// ContainsSphere tests if a sphere is inside or intersects the frustum.
func (f Frustum) ContainsSphere(center mgl64.Vec3, radius float64) bool {
	for _, p := range f.planes {
		if p.normal.Dot(center)+p.d < -radius {
			return false
		}
	}
	return true
}

func (f Frustum) ContainsPoint(point mgl64.Vec3) bool {
	return f.ContainsSphere(point, 0)
}
