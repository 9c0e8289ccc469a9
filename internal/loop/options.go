package loop

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// UnreadyPolicy decides what the driver does while the world index is
// still being built.
type UnreadyPolicy int

const (
	// UnreadyDefer runs no sub-steps until the index is installed.
	UnreadyDefer UnreadyPolicy = iota
	// UnreadyFreefall steps the player without a collider.
	UnreadyFreefall
)

func (p UnreadyPolicy) String() string {
	switch p {
	case UnreadyDefer:
		return "defer"
	case UnreadyFreefall:
		return "freefall"
	default:
		return fmt.Sprintf("UnreadyPolicy(%d)", int(p))
	}
}

func ParseUnreadyPolicy(s string) (UnreadyPolicy, error) {
	switch s {
	case "", "defer":
		return UnreadyDefer, nil
	case "freefall":
		return UnreadyFreefall, nil
	}
	return 0, fmt.Errorf("unknown unready policy %q", s)
}

// ContactMode selects how a capsule query turns overlaps into a contact.
type ContactMode int

const (
	// ContactDeepest reports the single deepest triangle contact.
	ContactDeepest ContactMode = iota
	// ContactAccumulate pushes out of every triangle in turn and reports
	// the net displacement.
	ContactAccumulate
)

func (m ContactMode) String() string {
	switch m {
	case ContactDeepest:
		return "deepest"
	case ContactAccumulate:
		return "accumulate"
	default:
		return fmt.Sprintf("ContactMode(%d)", int(m))
	}
}

func ParseContactMode(s string) (ContactMode, error) {
	switch s {
	case "", "deepest":
		return ContactDeepest, nil
	case "accumulate":
		return ContactAccumulate, nil
	}
	return 0, fmt.Errorf("unknown contact mode %q", s)
}

type Options struct {
	StepsPerFrame int
	MaxFrameTime  float64 // seconds; longer frames are clamped
	Unready       UnreadyPolicy
	Contact       ContactMode

	// The player is teleported to Spawn when its feet fall below
	// RespawnBelow. Use math.Inf(-1) to disable.
	RespawnBelow float64
	Spawn        mgl64.Vec3
}

func DefaultOptions() Options {
	return Options{
		StepsPerFrame: 5,
		MaxFrameTime:  0.05,
		Unready:       UnreadyDefer,
		Contact:       ContactDeepest,
		RespawnBelow:  -25,
	}
}

func (o Options) Validate() error {
	if o.StepsPerFrame < 1 {
		return fmt.Errorf("steps per frame must be at least 1, got %d", o.StepsPerFrame)
	}
	if !(o.MaxFrameTime > 0) || math.IsInf(o.MaxFrameTime, 0) {
		return fmt.Errorf("max frame time must be finite and positive, got %g", o.MaxFrameTime)
	}
	if math.IsNaN(o.RespawnBelow) {
		return fmt.Errorf("respawn threshold is NaN")
	}
	return nil
}
