package world

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkcore/internal/physics"
)

func bounds(tris []physics.Triangle) physics.AABB {
	b := physics.EmptyAABB()
	for _, t := range tris {
		b = b.Union(t.Bounds())
	}
	return b
}

func TestShapeTriangleCounts(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{Type: ShapeBox, Size: [3]float64{1, 2, 3}}, 12},
		{Shape{Type: ShapePlane, Size: [3]float64{4, 0, 4}}, 2},
		{Shape{Type: ShapeRamp, Size: [3]float64{2, 1, 4}}, 8},
		{Shape{Type: ShapeStairs, Size: [3]float64{2, 1, 4}, Steps: 4}, 48},
	}
	for _, tt := range tests {
		t.Run(tt.shape.Type, func(t *testing.T) {
			require.NoError(t, tt.shape.Validate())
			tris := tt.shape.Triangles()
			assert.Len(t, tris, tt.want)
			for _, tri := range tris {
				assert.False(t, tri.Degenerate())
			}
		})
	}
}

func TestShapeTransform(t *testing.T) {
	box := Shape{Type: ShapeBox, Position: [3]float64{5, 1, -2}, Size: [3]float64{2, 2, 4}}
	b := bounds(box.Triangles())
	assert.InDelta(t, 0, b.Min.Sub(mgl64.Vec3{4, 0, -4}).Len(), 1e-9)
	assert.InDelta(t, 0, b.Max.Sub(mgl64.Vec3{6, 2, 0}).Len(), 1e-9)

	// A quarter turn about Y swaps the x and z extents.
	box.Rotation = [3]float64{0, 90, 0}
	b = bounds(box.Triangles())
	assert.InDelta(t, 0, b.Min.Sub(mgl64.Vec3{3, 0, -3}).Len(), 1e-9, "%v", b.Min)
	assert.InDelta(t, 0, b.Max.Sub(mgl64.Vec3{7, 2, -1}).Len(), 1e-9, "%v", b.Max)
}

func TestRampSlope(t *testing.T) {
	tris := RampTriangles(2, 1, 4)
	slope := tris[0].Normal()
	assert.Greater(t, slope.Y(), 0.0)
	assert.Less(t, slope.Z(), 0.0)

	b := bounds(tris)
	assert.InDelta(t, 0, b.Max.Sub(mgl64.Vec3{1, 1, 2}).Len(), 1e-9)
}

func TestStairsClimb(t *testing.T) {
	tris := StairTriangles(2, 1, 4, 4)
	// Tops of the first and last step.
	assert.InDelta(t, 0.25, bounds(tris[:12]).Max.Y(), 1e-12)
	assert.InDelta(t, 1, bounds(tris[36:]).Max.Y(), 1e-12)
}

func TestShapeValidate(t *testing.T) {
	bad := []Shape{
		{Name: "a", Type: "sphere", Size: [3]float64{1, 1, 1}},
		{Name: "b", Type: ShapeBox, Size: [3]float64{1, -1, 1}},
		{Name: "c", Type: ShapeStairs, Size: [3]float64{1, 1, 1}},
	}
	for _, s := range bad {
		assert.Error(t, s.Validate(), s.Name)
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel([]byte(`
name: test
spawn: [1, 0, 2]
shapes:
  - name: floor
    type: plane
    kind: walkable
    size: [10, 0, 10]
  - name: wall
    type: box
    position: [0, 1, -5]
    size: [10, 2, 1]
  - name: gem
    type: box
    kind: pickup
    position: [2, 1, 2]
    size: [0.5, 0.5, 0.5]
`))
	require.NoError(t, err)
	assert.Equal(t, "test", lvl.Name)
	assert.Equal(t, mgl64.Vec3{1, 0, 2}, lvl.SpawnPoint())
	require.Len(t, lvl.Shapes, 3)
	assert.Equal(t, KindWalkable, lvl.Shapes[0].Kind)
	assert.Equal(t, KindSolid, lvl.Shapes[1].Kind)
	assert.Equal(t, KindPickup, lvl.Shapes[2].Kind)

	tris, err := lvl.Triangles(context.Background())
	require.NoError(t, err)
	require.Len(t, tris, 2+12, "pickups are not collidable")
	for i, tri := range tris {
		want := KindSolid
		if i < 2 {
			want = KindWalkable
		}
		assert.Equal(t, want, KindOf(tri.Tag), "triangle %d", i)
	}
}

func TestParseLevelErrors(t *testing.T) {
	tests := map[string]string{
		"empty":        ``,
		"syntax":       "name: [",
		"unknown kind": "shapes:\n  - {type: box, kind: lava, size: [1, 1, 1]}\n",
		"unknown key":  "name: x\ngravity: 3\n",
		"bad shape":    "shapes:\n  - {type: cone, size: [1, 1, 1]}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLevel([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: tiny\nshapes:\n  - {type: plane, size: [2, 0, 2]}\n"), 0644))

	lvl, err := LoadLevel(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", lvl.Name)

	_, err = LoadLevel(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultLevel(t *testing.T) {
	lvl := DefaultLevel()
	require.NoError(t, lvl.Validate())

	tris, err := lvl.Triangles(context.Background())
	require.NoError(t, err)
	idx := physics.NewIndex(tris)
	assert.Zero(t, idx.Dropped())

	// The player spawns standing on the floor, not inside anything.
	spawn := physics.NewCapsule(lvl.SpawnPoint().Add(mgl64.Vec3{0, 0.35, 0}), 0.65, 0.35)
	if contact, hit := idx.CapsuleIntersect(spawn); hit {
		assert.Less(t, contact.Depth, 1e-9)
	}
}

func TestLevelTrianglesHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DefaultLevel().Triangles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild(t *testing.T) {
	tris := PlaneTriangles(10, 10)
	pending := Build(context.Background(), Static(tris))

	idx, err := pending.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, pending.Ready())
	assert.Equal(t, 2, idx.TriangleCount())

	again, err := pending.Result()
	require.NoError(t, err)
	assert.Same(t, idx, again)
}

func TestBuildNotReady(t *testing.T) {
	release := make(chan struct{})
	pending := Build(context.Background(), ProviderFunc(func(ctx context.Context) ([]physics.Triangle, error) {
		<-release
		return PlaneTriangles(1, 1), nil
	}))

	assert.False(t, pending.Ready())
	_, err := pending.Result()
	assert.ErrorIs(t, err, ErrNotReady)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = pending.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	idx, err := pending.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, idx.Empty())
}

func TestBuildFailure(t *testing.T) {
	boom := errors.New("file not found")
	pending := Build(context.Background(), ProviderFunc(func(context.Context) ([]physics.Triangle, error) {
		return nil, boom
	}))

	idx, err := pending.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, idx)
}

func TestKindYAML(t *testing.T) {
	k, err := ParseKind("walkable")
	require.NoError(t, err)
	assert.Equal(t, KindWalkable, k)
	assert.True(t, k.Collidable())
	assert.False(t, KindPickup.Collidable())

	out, err := KindPickup.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "pickup", out)
}
