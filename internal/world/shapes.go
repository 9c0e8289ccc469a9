package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"walkcore/internal/physics"
)

// Shape is one procedural primitive in a level. Rotation is in degrees,
// applied Z, X then Y.
type Shape struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Kind     Kind       `yaml:"kind"`
	Position [3]float64 `yaml:"position"`
	Rotation [3]float64 `yaml:"rotation,omitempty"`
	Size     [3]float64 `yaml:"size"`
	Steps    int        `yaml:"steps,omitempty"`
	Color    string     `yaml:"color,omitempty"`
}

const (
	ShapeBox    = "box"
	ShapePlane  = "plane"
	ShapeRamp   = "ramp"
	ShapeStairs = "stairs"
)

func (s Shape) Validate() error {
	for _, vec := range [][3]float64{s.Position, s.Rotation, s.Size} {
		if !physics.Finite(vec) {
			return fmt.Errorf("shape %q: non-finite value", s.Name)
		}
	}
	for _, v := range s.Size {
		if v < 0 {
			return fmt.Errorf("shape %q: negative size %v", s.Name, s.Size)
		}
	}

	switch s.Type {
	case ShapeBox, ShapePlane, ShapeRamp:
	case ShapeStairs:
		if s.Steps < 1 {
			return fmt.Errorf("shape %q: stairs need at least one step", s.Name)
		}
	default:
		return fmt.Errorf("shape %q: unknown type %q", s.Name, s.Type)
	}
	return nil
}

// Transform is the local-to-world matrix of the shape.
func (s Shape) Transform() mgl64.Mat4 {
	pos := mgl64.Vec3(s.Position)
	return mgl64.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(s.Rotation[1]))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(s.Rotation[0]))).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(s.Rotation[2])))
}

// Triangles returns the shape surface in world space.
func (s Shape) Triangles() []physics.Triangle {
	var local []physics.Triangle
	w, h, d := s.Size[0], s.Size[1], s.Size[2]

	switch s.Type {
	case ShapeBox:
		local = BoxTriangles(mgl64.Vec3(s.Size))
	case ShapePlane:
		local = PlaneTriangles(w, d)
	case ShapeRamp:
		local = RampTriangles(w, h, d)
	case ShapeStairs:
		local = StairTriangles(w, h, d, s.Steps)
	}

	m := s.Transform()
	out := make([]physics.Triangle, len(local))
	for i, t := range local {
		out[i] = physics.NewTriangle(
			mgl64.TransformCoordinate(t.A, m),
			mgl64.TransformCoordinate(t.B, m),
			mgl64.TransformCoordinate(t.C, m),
		)
	}
	return s.Kind.Tag(out)
}

func quad(a, b, c, d mgl64.Vec3) []physics.Triangle {
	return []physics.Triangle{
		physics.NewTriangle(a, b, c),
		physics.NewTriangle(a, c, d),
	}
}

// boxTriangles returns the 12 outward facing triangles of an axis aligned box.
func boxTriangles(min, max mgl64.Vec3) []physics.Triangle {
	x0, y0, z0 := min[0], min[1], min[2]
	x1, y1, z1 := max[0], max[1], max[2]

	p000 := mgl64.Vec3{x0, y0, z0}
	p100 := mgl64.Vec3{x1, y0, z0}
	p010 := mgl64.Vec3{x0, y1, z0}
	p110 := mgl64.Vec3{x1, y1, z0}
	p001 := mgl64.Vec3{x0, y0, z1}
	p101 := mgl64.Vec3{x1, y0, z1}
	p011 := mgl64.Vec3{x0, y1, z1}
	p111 := mgl64.Vec3{x1, y1, z1}

	tris := make([]physics.Triangle, 0, 12)
	tris = append(tris, quad(p000, p100, p101, p001)...) // bottom
	tris = append(tris, quad(p010, p011, p111, p110)...) // top
	tris = append(tris, quad(p001, p101, p111, p011)...) // +z
	tris = append(tris, quad(p000, p010, p110, p100)...) // -z
	tris = append(tris, quad(p000, p001, p011, p010)...) // -x
	tris = append(tris, quad(p100, p110, p111, p101)...) // +x
	return tris
}

// BoxTriangles returns a box of the given size centred on the origin.
func BoxTriangles(size mgl64.Vec3) []physics.Triangle {
	half := size.Mul(0.5)
	return boxTriangles(half.Mul(-1), half)
}

// PlaneTriangles returns an upward facing w×d quad at y = 0.
func PlaneTriangles(w, d float64) []physics.Triangle {
	return quad(
		mgl64.Vec3{-w / 2, 0, -d / 2},
		mgl64.Vec3{-w / 2, 0, d / 2},
		mgl64.Vec3{w / 2, 0, d / 2},
		mgl64.Vec3{w / 2, 0, -d / 2},
	)
}

// RampTriangles returns a closed wedge on a w×d footprint that rises from
// y = 0 at -z to y = h at +z.
func RampTriangles(w, h, d float64) []physics.Triangle {
	a := mgl64.Vec3{-w / 2, 0, -d / 2}
	b := mgl64.Vec3{w / 2, 0, -d / 2}
	c := mgl64.Vec3{w / 2, h, d / 2}
	e := mgl64.Vec3{-w / 2, h, d / 2}
	f := mgl64.Vec3{-w / 2, 0, d / 2}
	g := mgl64.Vec3{w / 2, 0, d / 2}

	tris := make([]physics.Triangle, 0, 8)
	tris = append(tris, quad(a, e, c, b)...) // slope
	tris = append(tris, quad(f, g, c, e)...) // back
	tris = append(tris, quad(a, b, g, f)...) // bottom
	tris = append(tris,
		physics.NewTriangle(a, f, e),
		physics.NewTriangle(b, c, g),
	)
	return tris
}

// StairTriangles returns n solid steps on a w×d footprint climbing to h
// toward +z.
func StairTriangles(w, h, d float64, n int) []physics.Triangle {
	tris := make([]physics.Triangle, 0, 12*n)
	depth := d / float64(n)
	for i := 0; i < n; i++ {
		z0 := -d/2 + float64(i)*depth
		top := h * float64(i+1) / float64(n)
		tris = append(tris, boxTriangles(
			mgl64.Vec3{-w / 2, 0, z0},
			mgl64.Vec3{w / 2, top, z0 + depth},
		)...)
	}
	return tris
}
