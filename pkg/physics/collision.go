// pkg/physics/collision.go
package physics

// Body is anything with a circular footprint that the resolver can test against.
type Body interface {
	GetPosition() Vector2D
	GetRadius() float64
}

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// GetPosition implements Body
func (c Circle) GetPosition() Vector2D {
	return c.Center
}

// GetRadius implements Body
func (c Circle) GetRadius() float64 {
	return c.Radius
}

// Collides checks if two circles are overlapping
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Kinematic is a movable circle with a velocity.
type Kinematic struct {
	Position Vector2D
	Velocity Vector2D
	Radius   float64
}

// GetPosition implements Body
func (k *Kinematic) GetPosition() Vector2D {
	return k.Position
}

// GetRadius implements Body
func (k *Kinematic) GetRadius() float64 {
	return k.Radius
}

// Circle returns the kinematic's current footprint.
func (k *Kinematic) Circle() Circle {
	return Circle{Center: k.Position, Radius: k.Radius}
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided    bool
	Normal      Vector2D // unit vector pointing from b toward a
	Penetration float64
	Distance    float64
	// Degenerate is set when the centers coincide and no normal exists.
	Degenerate bool
}

// CheckCollision performs detailed collision detection between two bodies.
// Touching circles (distance == ra+rb) do not collide.
func CheckCollision(a, b Body) CollisionResult {
	offset := a.GetPosition().Sub(b.GetPosition())
	distance := offset.Length()
	sum := a.GetRadius() + b.GetRadius()

	if distance >= sum {
		return CollisionResult{Collided: false, Distance: distance}
	}

	result := CollisionResult{
		Collided:    true,
		Penetration: sum - distance,
		Distance:    distance,
	}
	if distance == 0 {
		result.Degenerate = true
		return result
	}
	result.Normal = offset.Scale(1 / distance)
	return result
}
