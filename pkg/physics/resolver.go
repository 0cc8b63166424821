// pkg/physics/resolver.go
package physics

import (
	"fmt"
	"math"
)

// Resolver kinds accepted by NewResolver.
const (
	ResolverImpulse  = "impulse"
	ResolverRotation = "rotation"
)

// Contact describes what happened when a moving body was tested against an obstacle.
type Contact struct {
	// Overlapping is true when the circles interpenetrate, including degenerate
	// and separating contacts that were not resolved.
	Overlapping bool
	// Bounced is true only when the body was approaching and got reflected.
	Bounced bool
}

// Resolver resolves a moving body against a stationary circular obstacle.
type Resolver interface {
	Resolve(body *Kinematic, obstacle Body) Contact
}

// NewResolver returns the resolver registered under kind. An empty kind selects
// the impulse resolver.
func NewResolver(kind string, restitution float64) (Resolver, error) {
	switch kind {
	case "", ResolverImpulse:
		return ImpulseResolver{Restitution: restitution}, nil
	case ResolverRotation:
		return RotationResolver{Restitution: restitution}, nil
	default:
		return nil, fmt.Errorf("unknown resolver %q", kind)
	}
}

// ImpulseResolver reflects the body's normal velocity with j = -(1+e)·(v·n).
type ImpulseResolver struct {
	Restitution float64
}

// Resolve implements Resolver
func (r ImpulseResolver) Resolve(body *Kinematic, obstacle Body) Contact {
	result := CheckCollision(body, obstacle)
	if !result.Collided {
		return Contact{}
	}
	if result.Degenerate {
		return Contact{Overlapping: true}
	}

	n := result.Normal
	velocityAlongNormal := body.Velocity.Dot(n)
	if velocityAlongNormal >= 0 {
		// Already separating; leave it alone so it does not bounce twice.
		return Contact{Overlapping: true}
	}

	j := -(1 + r.Restitution) * velocityAlongNormal
	body.Velocity = body.Velocity.Add(n.Scale(j))
	body.Position = body.Position.Add(n.Scale(result.Penetration))

	return Contact{Overlapping: true, Bounced: true}
}

// RotationResolver rotates the contact into a frame where the collision normal
// is the +X axis, reflects the X component and rotates back. For the same
// restitution it yields the same velocities as ImpulseResolver.
type RotationResolver struct {
	Restitution float64
}

// Resolve implements Resolver
func (r RotationResolver) Resolve(body *Kinematic, obstacle Body) Contact {
	result := CheckCollision(body, obstacle)
	if !result.Collided {
		return Contact{}
	}
	if result.Degenerate {
		return Contact{Overlapping: true}
	}

	center := obstacle.GetPosition()
	angle := math.Atan2(body.Position.Y-center.Y, body.Position.X-center.X)

	pos := body.Position.Rotate(angle, true)
	other := center.Rotate(angle, true)
	vel := body.Velocity.Rotate(angle, true)

	if vel.X >= 0 {
		return Contact{Overlapping: true}
	}

	if pos.X > other.X {
		pos.X += result.Penetration
	} else {
		pos.X -= result.Penetration
	}
	vel.X = -vel.X * r.Restitution

	body.Position = pos.Rotate(angle, false)
	body.Velocity = vel.Rotate(angle, false)

	return Contact{Overlapping: true, Bounced: true}
}

// Separate pushes two overlapping circles apart along their normal, each by half
// the overlap, leaving them exactly touching. It reports whether anything moved.
// Velocities are not involved; this is purely geometric.
func Separate(a, b *Circle) bool {
	result := CheckCollision(*a, *b)
	if !result.Collided || result.Degenerate {
		return false
	}

	half := result.Normal.Scale(result.Penetration / 2)
	a.Center = a.Center.Add(half)
	b.Center = b.Center.Sub(half)
	return true
}
