// pkg/entity/ball.go
package entity

import (
	"github.com/opd-ai/go-pegshot/pkg/physics"
)

// BallPhase is the ball's position in its aim/flight cycle
type BallPhase int

const (
	// BallAiming means the ball is parked at spawn and can be launched.
	BallAiming BallPhase = iota
	// BallInFlight means the ball is moving under gravity.
	BallInFlight
	// BallLocked means the game ended; the ball stays at spawn and cannot be launched.
	BallLocked
)

// String returns a lowercase name for the phase
func (p BallPhase) String() string {
	switch p {
	case BallAiming:
		return "aiming"
	case BallInFlight:
		return "in_flight"
	case BallLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Ball is the player's projectile. It is created once per game and parked back
// at Spawn every time it drops out of the field.
type Ball struct {
	ID    ID
	Body  physics.Kinematic
	Spawn physics.Vector2D
	Phase BallPhase
}

// NewBall creates a ball parked at spawn
func NewBall(id ID, spawn physics.Vector2D, radius float64) *Ball {
	return &Ball{
		ID: id,
		Body: physics.Kinematic{
			Position: spawn,
			Radius:   radius,
		},
		Spawn: spawn,
		Phase: BallAiming,
	}
}

// Shootable reports whether the ball is waiting for a launch.
func (b *Ball) Shootable() bool {
	return b.Phase == BallAiming
}

// Launch puts the ball in flight with velocity v. It returns false, leaving
// the ball untouched, unless the ball is shootable and v is finite.
func (b *Ball) Launch(v physics.Vector2D) bool {
	if !b.Shootable() || !v.IsFinite() {
		return false
	}
	b.Body.Position = b.Spawn
	b.Body.Velocity = v
	b.Phase = BallInFlight
	return true
}

// Update advances the ball by one tick. It returns true on the tick the ball
// leaves the field and is parked at spawn again.
func (b *Ball) Update(env physics.Environment, field physics.Field) (returned bool) {
	if b.Phase != BallInFlight {
		b.park()
		return false
	}

	if !physics.StepBall(&b.Body, env, field) {
		return false
	}

	b.park()
	b.Phase = BallAiming
	return true
}

// Lock parks the ball for good. Launch is refused from then on.
func (b *Ball) Lock() {
	b.park()
	b.Phase = BallLocked
}

func (b *Ball) park() {
	b.Body.Position = b.Spawn
	b.Body.Velocity = physics.Vector2D{}
}

// GetID returns the ball's identifier
func (b *Ball) GetID() ID {
	return b.ID
}

// GetPosition returns the ball's center
func (b *Ball) GetPosition() physics.Vector2D {
	return b.Body.Position
}

// GetCollider returns the ball's current footprint
func (b *Ball) GetCollider() physics.Circle {
	return b.Body.Circle()
}

// Render draws the ball
func (b *Ball) Render(r Renderer) {
	r.RenderBall(b)
}
