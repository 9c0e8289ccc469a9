package player

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"walkcore/internal/physics"
)

var (
	ErrInvalidDelta = errors.New("player: delta time must be finite and positive")
	ErrNonFinite    = errors.New("player: non-finite state")
)

// Collider answers capsule-vs-world queries. *physics.Index satisfies it.
type Collider interface {
	CapsuleIntersect(c physics.Capsule) (physics.Contact, bool)
}

// ColliderFunc adapts a function to the Collider interface.
type ColliderFunc func(c physics.Capsule) (physics.Contact, bool)

func (f ColliderFunc) CapsuleIntersect(c physics.Capsule) (physics.Contact, bool) {
	return f(c)
}

// Simulator owns the player capsule, its velocity and the on-floor flag.
// It is not safe for concurrent use.
type Simulator struct {
	cfg      Config
	capsule  physics.Capsule
	velocity mgl64.Vec3
	onFloor  bool
	collider Collider

	// jumpArmed is cleared by a launch in JumpEdge mode and set again once
	// the request is released.
	jumpArmed bool
}

// New places a player with its feet at feet. Without a collider the player
// falls freely.
func New(cfg Config, feet mgl64.Vec3) *Simulator {
	s := &Simulator{cfg: cfg, jumpArmed: true}
	s.Teleport(feet)
	return s
}

func (s *Simulator) SetCollider(c Collider) {
	s.collider = c
}

func (s *Simulator) HasCollider() bool {
	return s.collider != nil
}

// Teleport moves the capsule so its lowest point rests at feet and stops
// the player.
func (s *Simulator) Teleport(feet mgl64.Vec3) {
	start := feet.Add(physics.Up.Mul(s.cfg.Radius))
	s.capsule = physics.NewCapsule(start, s.cfg.Height, s.cfg.Radius)
	s.velocity = mgl64.Vec3{}
	s.onFloor = false
}

func (s *Simulator) SetVelocity(v mgl64.Vec3) error {
	if !physics.Finite(v) {
		return fmt.Errorf("set velocity %v: %w", v, ErrNonFinite)
	}
	s.velocity = v
	return nil
}

// Step advances the player by dt seconds. On error the state is unchanged.
func (s *Simulator) Step(dt float64, in Input) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("step dt=%v: %w", dt, ErrInvalidDelta)
	}
	if !physics.Finite(in.Acceleration) {
		return fmt.Errorf("step acceleration %v: %w", in.Acceleration, ErrNonFinite)
	}

	velocity := s.velocity
	damping := math.Exp(-s.cfg.DampingRate*dt) - 1

	if !s.onFloor {
		velocity[1] -= s.cfg.Gravity * dt
		damping *= s.cfg.AirDampingScale
	}

	velocity = velocity.Add(in.Acceleration.Mul(dt))
	velocity = velocity.Add(velocity.Mul(damping))

	capsule := s.capsule.Translate(velocity.Mul(dt))
	if !physics.Finite(velocity) || !capsule.Finite() {
		return fmt.Errorf("step integrated to velocity %v: %w", velocity, ErrNonFinite)
	}

	onFloor := false
	if s.collider != nil {
		if contact, ok := s.collider.CapsuleIntersect(capsule); ok {
			onFloor = contact.Normal.Y() > 0

			if !onFloor {
				velocity = velocity.Sub(contact.Normal.Mul(contact.Normal.Dot(velocity)))
			}
			if contact.Depth >= s.cfg.DepthEpsilon {
				capsule = capsule.Translate(contact.Normal.Mul(contact.Depth))
			}
		}
	}

	if in.Jump {
		if onFloor && (s.cfg.JumpMode == JumpHold || s.jumpArmed) {
			velocity[1] = s.cfg.JumpSpeed
			s.jumpArmed = false
		}
	} else {
		s.jumpArmed = true
	}

	s.velocity = velocity
	s.capsule = capsule
	s.onFloor = onFloor
	return nil
}

// Head is the upper sphere centre, used as the camera position.
func (s *Simulator) Head() mgl64.Vec3 {
	return s.capsule.End
}

// Feet is the lowest point of the capsule.
func (s *Simulator) Feet() mgl64.Vec3 {
	return s.capsule.Start.Sub(physics.Up.Mul(s.capsule.Radius))
}

func (s *Simulator) Capsule() physics.Capsule {
	return s.capsule
}

func (s *Simulator) Velocity() mgl64.Vec3 {
	return s.velocity
}

func (s *Simulator) OnFloor() bool {
	return s.onFloor
}

func (s *Simulator) Config() Config {
	return s.cfg
}
