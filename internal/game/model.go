package game

import (
	"context"
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"walkcore/internal/physics"
	"walkcore/internal/world"
)

// ModelProvider extracts world triangles from a loaded raylib model. The
// model must stay loaded until the build has finished. Every triangle is
// tagged with Kind.
type ModelProvider struct {
	Model rl.Model
	Scale float32
	Kind  world.Kind
}

func (p *ModelProvider) Triangles(ctx context.Context) ([]physics.Triangle, error) {
	if p.Model.MeshCount == 0 {
		return nil, fmt.Errorf("model has no meshes")
	}

	transform := rl.MatrixMultiply(p.Model.Transform, rl.MatrixScale(p.Scale, p.Scale, p.Scale))
	var tris []physics.Triangle

	meshes := unsafe.Slice(p.Model.Meshes, p.Model.MeshCount)
	for _, mesh := range meshes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if mesh.Vertices == nil {
			continue
		}

		vertices := unsafe.Slice(mesh.Vertices, mesh.VertexCount*3)
		vertex := func(i int) rl.Vector3 {
			v := rl.Vector3{X: vertices[i*3+0], Y: vertices[i*3+1], Z: vertices[i*3+2]}
			return rl.Vector3Transform(v, transform)
		}
		add := func(i0, i1, i2 int) {
			tris = append(tris, physics.NewTriangle(
				fromRaylib(vertex(i0)),
				fromRaylib(vertex(i1)),
				fromRaylib(vertex(i2)),
			))
		}

		if mesh.Indices != nil {
			// Indexed mesh
			indices := unsafe.Slice(mesh.Indices, mesh.TriangleCount*3)
			for i := 0; i < int(mesh.TriangleCount); i++ {
				add(int(indices[i*3+0]), int(indices[i*3+1]), int(indices[i*3+2]))
			}
		} else {
			// Non-indexed: every three vertices form a triangle
			for i := 0; i+2 < int(mesh.VertexCount); i += 3 {
				add(i, i+1, i+2)
			}
		}
	}
	return p.Kind.Tag(tris), nil
}
