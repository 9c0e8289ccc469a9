package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	rl "github.com/gen2brain/raylib-go/raylib"

	"walkcore/internal/camera"
	"walkcore/internal/physics"
	"walkcore/internal/world"
)

var skyColor = rl.NewColor(0x88, 0xcc, 0xee, 255)

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Pink":      rl.Pink,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"Maroon":    rl.Maroon,
	"Gold":      rl.Gold,
}

func lookupColor(name string, kind world.Kind) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	if kind == world.KindPickup {
		return rl.Gold
	}
	return rl.LightGray
}

var lightDir = mgl64.Vec3{0.35, 1, 0.35}.Normalize()

// shade darkens a color by how far the face turns away from the light.
func shade(c rl.Color, normal mgl64.Vec3) rl.Color {
	f := 0.55 + 0.45*math.Abs(normal.Dot(lightDir))
	return rl.NewColor(uint8(float64(c.R)*f), uint8(float64(c.G)*f), uint8(float64(c.B)*f), c.A)
}

func toRaylib(v mgl64.Vec3) rl.Vector3 {
	return rl.Vector3{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}
}

func fromRaylib(v rl.Vector3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}

// raylibCamera places the camera at the capsule head, or behind it when
// thirdPerson is set.
func raylibCamera(c *camera.FPSCamera, head mgl64.Vec3, thirdPerson bool) rl.Camera3D {
	eye := c.Eye(head)
	target := c.Target(head)
	if thirdPerson {
		eye = eye.Sub(c.Forward().Mul(4)).Add(physics.Up)
		target = head
	}
	return rl.Camera3D{
		Position:   toRaylib(eye),
		Target:     toRaylib(target),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       float32(c.Fovy),
		Projection: rl.CameraPerspective,
	}
}

type faceMesh struct {
	corners [][3]rl.Vector3
	colors  []rl.Color

	// bounding sphere for frustum culling
	center mgl64.Vec3
	radius float64
}

func newFaceMesh(tris []physics.Triangle, base rl.Color) faceMesh {
	m := faceMesh{
		corners: make([][3]rl.Vector3, len(tris)),
		colors:  make([]rl.Color, len(tris)),
	}
	bounds := physics.EmptyAABB()
	for i, t := range tris {
		m.corners[i] = [3]rl.Vector3{toRaylib(t.A), toRaylib(t.B), toRaylib(t.C)}
		m.colors[i] = shade(base, t.Normal())
		bounds = bounds.Union(t.Bounds())
	}
	if len(tris) > 0 {
		m.center = bounds.Center()
		m.radius = bounds.Size().Len() / 2
	}
	return m
}

func (m faceMesh) visible(f camera.Frustum) bool {
	return f.ContainsSphere(m.center, m.radius)
}

func (m faceMesh) draw() {
	for i, c := range m.corners {
		rl.DrawTriangle3D(c[0], c[1], c[2], m.colors[i])
	}
}

func (m faceMesh) drawWires(color rl.Color) {
	for _, c := range m.corners {
		rl.DrawLine3D(c[0], c[1], color)
		rl.DrawLine3D(c[1], c[2], color)
		rl.DrawLine3D(c[2], c[0], color)
	}
}

// levelMeshes prepares every shape of the level for drawing, pickups
// included.
func levelMeshes(level *world.Level) []faceMesh {
	meshes := make([]faceMesh, 0, len(level.Shapes))
	for _, s := range level.Shapes {
		meshes = append(meshes, newFaceMesh(s.Triangles(), lookupColor(s.Color, s.Kind)))
	}
	return meshes
}
