package loop

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"

	"walkcore/internal/physics"
	"walkcore/internal/player"
	"walkcore/internal/world"
)

// Geometry is a world index that may still be loading. *world.Pending
// satisfies it.
type Geometry interface {
	Ready() bool
	Result() (*physics.Index, error)
}

// InputSource is sampled once per sub-step.
type InputSource interface {
	Sample(onFloor bool, dt float64) player.Input
}

type InputFunc func(onFloor bool, dt float64) player.Input

func (f InputFunc) Sample(onFloor bool, dt float64) player.Input {
	return f(onFloor, dt)
}

// Frame is what one rendered frame produced.
type Frame struct {
	Camera    mgl64.Vec3 // capsule end, the eye position
	OnFloor   bool
	Steps     int // sub-steps that ran
	Skipped   int // sub-steps rejected by the simulator
	Ready     bool
	Respawned bool
}

// Driver runs the fixed sub-step loop for one player.
type Driver struct {
	opts     Options
	sim      *player.Simulator
	geometry Geometry
	input    InputSource
	index    *physics.Index
}

func NewDriver(sim *player.Simulator, geometry Geometry, input InputSource, opts Options) *Driver {
	return &Driver{
		opts:     opts,
		sim:      sim,
		geometry: geometry,
		input:    input,
	}
}

// Frame advances the player by the wall clock time since the last frame.
func (d *Driver) Frame(elapsed float64) Frame {
	d.poll()

	frame := Frame{Ready: d.index != nil}
	if d.index == nil && d.opts.Unready == UnreadyDefer {
		return d.finish(frame)
	}
	if !(elapsed > 0) || math.IsInf(elapsed, 0) {
		return d.finish(frame)
	}

	dt := math.Min(d.opts.MaxFrameTime, elapsed) / float64(d.opts.StepsPerFrame)
	for i := 0; i < d.opts.StepsPerFrame; i++ {
		in := d.input.Sample(d.sim.OnFloor(), dt)
		if err := d.sim.Step(dt, in); err != nil {
			log.Warn().Err(err).Int("substep", i).Msg("skipping sub-step")
			frame.Skipped++
			continue
		}
		frame.Steps++
	}

	if d.sim.Feet().Y() < d.opts.RespawnBelow {
		log.Info().
			Float64("y", d.sim.Feet().Y()).
			Msg("player fell out of the world, respawning")
		d.sim.Teleport(d.opts.Spawn)
		frame.Respawned = true
	}

	return d.finish(frame)
}

func (d *Driver) finish(frame Frame) Frame {
	frame.Camera = d.sim.Head()
	frame.OnFloor = d.sim.OnFloor()
	return frame
}

// poll installs the index once the build has completed. A failed build
// leaves the player in an empty world.
func (d *Driver) poll() {
	if d.index != nil || d.geometry == nil || !d.geometry.Ready() {
		return
	}

	index, err := d.geometry.Result()
	if err != nil {
		log.Error().Err(err).Msg("world failed to load, continuing without geometry")
		index = nil
	}
	if index == nil {
		index = physics.NewIndex(nil)
	}

	d.index = index
	switch d.opts.Contact {
	case ContactAccumulate:
		d.sim.SetCollider(player.ColliderFunc(index.CapsuleResolve))
	default:
		d.sim.SetCollider(index)
	}
}

// Teleport moves the player's feet to p, for respawns and VR teleports.
func (d *Driver) Teleport(p mgl64.Vec3) {
	d.sim.Teleport(p)
}

// walkableNormalY is the lowest normal.y a teleport target may have.
const walkableNormalY = 0.7

// TeleportAlong casts a ray into the installed world and moves the player
// onto the first surface it crosses within reach, if that surface belongs to
// a walkable shape. Walls, ceilings, solid shapes and misses leave the
// player where it is.
func (d *Driver) TeleportAlong(origin, direction mgl64.Vec3, reach float64) bool {
	if d.index == nil {
		return false
	}
	hit, ok := d.index.Raycast(origin, direction, reach)
	if !ok || hit.Normal.Y() < walkableNormalY || !world.KindOf(hit.Tag).Teleportable() {
		return false
	}
	d.sim.Teleport(hit.Point)
	log.Debug().
		Float64("x", hit.Point.X()).
		Float64("y", hit.Point.Y()).
		Float64("z", hit.Point.Z()).
		Msg("teleported")
	return true
}

func (d *Driver) Simulator() *player.Simulator {
	return d.sim
}

// Index is the installed world index, or nil while loading.
func (d *Driver) Index() *physics.Index {
	return d.index
}

func (d *Driver) Options() Options {
	return d.opts
}
