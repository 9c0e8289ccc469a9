package loop

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkcore/internal/physics"
	"walkcore/internal/player"
	"walkcore/internal/world"
)

type fakeGeometry struct {
	ready bool
	index *physics.Index
	err   error
}

func (g *fakeGeometry) Ready() bool { return g.ready }

func (g *fakeGeometry) Result() (*physics.Index, error) {
	if !g.ready {
		return nil, world.ErrNotReady
	}
	return g.index, g.err
}

var idle = InputFunc(func(bool, float64) player.Input { return player.Input{} })

func floorIndex() *physics.Index {
	return physics.NewIndex(world.PlaneTriangles(100, 100))
}

func TestFrameClampsAndSubsteps(t *testing.T) {
	var dts []float64
	input := InputFunc(func(onFloor bool, dt float64) player.Input {
		dts = append(dts, dt)
		return player.Input{}
	})
	opts := DefaultOptions()
	opts.Unready = UnreadyFreefall
	d := NewDriver(player.New(player.DefaultConfig(), mgl64.Vec3{}), nil, input, opts)

	frame := d.Frame(1.0)
	assert.Equal(t, 5, frame.Steps)
	require.Len(t, dts, 5)
	for _, dt := range dts {
		assert.InDelta(t, 0.01, dt, 1e-15)
	}

	dts = nil
	d.Frame(0.02)
	require.Len(t, dts, 5)
	assert.InDelta(t, 0.004, dts[0], 1e-15)

	dts = nil
	for _, elapsed := range []float64{0, -1, math.NaN()} {
		frame = d.Frame(elapsed)
		assert.Zero(t, frame.Steps)
	}
	assert.Empty(t, dts)
}

func TestFrameSkipsRejectedSubsteps(t *testing.T) {
	calls := 0
	input := InputFunc(func(bool, float64) player.Input {
		calls++
		if calls == 2 {
			return player.Input{Acceleration: mgl64.Vec3{math.NaN(), 0, 0}}
		}
		return player.Input{}
	})
	opts := DefaultOptions()
	opts.Unready = UnreadyFreefall
	d := NewDriver(player.New(player.DefaultConfig(), mgl64.Vec3{}), nil, input, opts)

	frame := d.Frame(1.0 / 60)
	assert.Equal(t, 4, frame.Steps)
	assert.Equal(t, 1, frame.Skipped)
	assert.True(t, physics.Finite(d.Simulator().Velocity()))
}

func TestFrameDefersUntilReady(t *testing.T) {
	geometry := &fakeGeometry{}
	sim := player.New(player.DefaultConfig(), mgl64.Vec3{})
	d := NewDriver(sim, geometry, idle, DefaultOptions())

	for i := 0; i < 10; i++ {
		frame := d.Frame(1.0 / 60)
		assert.False(t, frame.Ready)
		assert.Zero(t, frame.Steps)
		assert.InDelta(t, 0, frame.Camera.Sub(mgl64.Vec3{0, 1, 0}).Len(), 1e-9)
	}
	assert.Nil(t, d.Index())

	geometry.ready = true
	geometry.index = floorIndex()
	frame := d.Frame(1.0 / 60)
	assert.True(t, frame.Ready)
	assert.Equal(t, 5, frame.Steps)
	assert.Same(t, geometry.index, d.Index())
	assert.True(t, sim.HasCollider())
}

func TestFrameFreefallWhileLoading(t *testing.T) {
	opts := DefaultOptions()
	opts.Unready = UnreadyFreefall
	sim := player.New(player.DefaultConfig(), mgl64.Vec3{0, 5, 0})
	d := NewDriver(sim, &fakeGeometry{}, idle, opts)

	frame := d.Frame(1.0 / 60)
	assert.False(t, frame.Ready)
	assert.Equal(t, 5, frame.Steps)
	assert.Less(t, sim.Feet().Y(), 5.0)
	assert.False(t, sim.HasCollider())
}

func TestFrameFailedLoadInstallsEmptyWorld(t *testing.T) {
	geometry := &fakeGeometry{ready: true, err: errors.New("no such model")}
	sim := player.New(player.DefaultConfig(), mgl64.Vec3{})
	d := NewDriver(sim, geometry, idle, DefaultOptions())

	frame := d.Frame(1.0 / 60)
	assert.True(t, frame.Ready)
	require.NotNil(t, d.Index())
	assert.True(t, d.Index().Empty())
	assert.False(t, frame.OnFloor)
	assert.Less(t, sim.Feet().Y(), 0.0)
}

func TestFrameDropLandsOnFloor(t *testing.T) {
	for _, mode := range []ContactMode{ContactDeepest, ContactAccumulate} {
		t.Run(mode.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Contact = mode
			sim := player.New(player.DefaultConfig(), mgl64.Vec3{0, 5, 0})
			d := NewDriver(sim, world.Done(floorIndex(), nil), idle, opts)

			var frame Frame
			for i := 0; i < 300; i++ {
				frame = d.Frame(1.0 / 60)
				require.Greater(t, sim.Feet().Y(), -1e-9)
			}
			assert.True(t, frame.OnFloor)
			assert.InDelta(t, 0, sim.Feet().Y(), 1e-9)
			assert.InDelta(t, 1, frame.Camera.Y(), 1e-9)
		})
	}
}

func TestFrameRespawnsBelowThreshold(t *testing.T) {
	opts := DefaultOptions()
	opts.Unready = UnreadyFreefall
	opts.RespawnBelow = -1
	opts.Spawn = mgl64.Vec3{2, 0, 3}
	sim := player.New(player.DefaultConfig(), mgl64.Vec3{2, 0, 3})
	d := NewDriver(sim, nil, idle, opts)

	respawned := false
	for i := 0; i < 100 && !respawned; i++ {
		respawned = d.Frame(0.05).Respawned
	}
	require.True(t, respawned)
	assert.InDelta(t, 0, sim.Feet().Sub(opts.Spawn).Len(), 1e-9)
	assert.Equal(t, mgl64.Vec3{}, sim.Velocity())
}

func TestOptionsParsing(t *testing.T) {
	p, err := ParseUnreadyPolicy("freefall")
	require.NoError(t, err)
	assert.Equal(t, UnreadyFreefall, p)
	_, err = ParseUnreadyPolicy("wait")
	assert.Error(t, err)

	m, err := ParseContactMode("accumulate")
	require.NoError(t, err)
	assert.Equal(t, ContactAccumulate, m)
	_, err = ParseContactMode("closest")
	assert.Error(t, err)

	assert.NoError(t, DefaultOptions().Validate())
	bad := DefaultOptions()
	bad.StepsPerFrame = 0
	assert.Error(t, bad.Validate())
	bad = DefaultOptions()
	bad.MaxFrameTime = math.Inf(1)
	assert.Error(t, bad.Validate())
}

func TestTeleportAlong(t *testing.T) {
	tris := world.KindWalkable.Tag(world.PlaneTriangles(100, 100))
	tris = append(tris,
		physics.NewTriangle(mgl64.Vec3{5, 0, -5}, mgl64.Vec3{5, 5, -5}, mgl64.Vec3{5, 5, 5}),
		physics.NewTriangle(mgl64.Vec3{5, 0, -5}, mgl64.Vec3{5, 5, 5}, mgl64.Vec3{5, 0, 5}),
	)
	tris = append(tris, world.Shape{
		Type:     world.ShapeBox,
		Kind:     world.KindSolid,
		Position: [3]float64{-4, 0, 0},
		Size:     [3]float64{2, 2, 2},
	}.Triangles()...)
	sim := player.New(player.DefaultConfig(), mgl64.Vec3{})
	geometry := &fakeGeometry{}
	d := NewDriver(sim, geometry, idle, DefaultOptions())

	assert.False(t, d.TeleportAlong(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, -1, 0}, 10), "no world yet")

	geometry.ready, geometry.index = true, physics.NewIndex(tris)
	d.Frame(1.0 / 60)

	require.True(t, d.TeleportAlong(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, -1, 0}, 10))
	assert.InDelta(t, 0, sim.Feet().Sub(mgl64.Vec3{2, 0, 0}).Len(), 1e-9)
	assert.False(t, sim.OnFloor())

	before := sim.Feet()
	assert.False(t, d.TeleportAlong(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, 10), "wall is not walkable")
	assert.False(t, d.TeleportAlong(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 10), "nothing above")
	assert.False(t, d.TeleportAlong(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, -1, 0}, 1), "out of reach")
	assert.False(t, d.TeleportAlong(mgl64.Vec3{-4, 5, 0}, mgl64.Vec3{0, -1, 0}, 10), "top of a solid box")
	assert.Equal(t, before, sim.Feet())

	require.True(t, d.TeleportAlong(mgl64.Vec3{-7, 5, 0}, mgl64.Vec3{0, -1, 0}, 10), "walkable floor beside the box")
	assert.InDelta(t, 0, sim.Feet().Sub(mgl64.Vec3{-7, 0, 0}).Len(), 1e-9)
}
