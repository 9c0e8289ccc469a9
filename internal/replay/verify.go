package replay

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"walkcore/internal/loop"
	"walkcore/internal/physics"
	"walkcore/internal/player"
)

// Divergence is returned by Verify when a re-simulated frame does not match
// the recording.
type Divergence struct {
	Frame int
	Want  Sample
	Got   Sample
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("replay diverged at frame %d: head %v, want %v", d.Frame, d.Got.Head, d.Want.Head)
}

// gate hides a ready index until the recording says it became ready, so
// the unready policy sees the same frames it saw live.
type gate struct {
	index *physics.Index
	open  bool
}

func (g *gate) Ready() bool {
	return g.open
}

func (g *gate) Result() (*physics.Index, error) {
	return g.index, nil
}

// within reports whether every component of a and b differs by at most
// tolerance.
func within(a, b mgl64.Vec3, tolerance float64) bool {
	for i := range a {
		if !(math.Abs(a[i]-b[i]) <= tolerance) {
			return false
		}
	}
	return true
}

// Verify re-simulates rec against index and compares every frame's head
// position, velocity and on-floor flag within tolerance. Recorded teleports
// are replayed before their frame.
func Verify(rec *Recording, index *physics.Index, cfg player.Config, opts loop.Options, tolerance float64) error {
	if rec.Model != "" {
		return fmt.Errorf("%w: %s", ErrModelSession, rec.Model)
	}

	sim := player.New(cfg, mgl64.Vec3(rec.Spawn))
	input := loop.NewHeldInput(player.NewMapper(cfg))
	geometry := &gate{index: index}
	driver := loop.NewDriver(sim, geometry, input, opts)

	for i, want := range rec.Frames {
		geometry.open = geometry.open || want.Ready
		input.Set(want.Yaw, want.Axes())
		if want.Teleport != nil {
			driver.Teleport(mgl64.Vec3(*want.Teleport))
		}

		frame := driver.Frame(want.Elapsed)
		got := want
		got.Ready = frame.Ready
		got.Head = frame.Camera
		got.Velocity = sim.Velocity()
		got.OnFloor = frame.OnFloor

		if !within(got.Head, want.Head, tolerance) ||
			!within(got.Velocity, want.Velocity, tolerance) ||
			got.OnFloor != want.OnFloor || got.Ready != want.Ready {
			return &Divergence{Frame: i, Want: want, Got: got}
		}
	}
	return nil
}
