// pkg/entity/obstacle.go
package entity

import (
	"image/color"
	"math/rand/v2"

	"github.com/opd-ai/go-pegshot/pkg/physics"
)

// DefaultHitPoints is the number of hits a fresh obstacle absorbs
const DefaultHitPoints = 10

// Color is an opaque RGB color
type Color struct {
	R, G, B uint8
}

// RGBA converts the color for image/color consumers.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// RandomColor draws each channel from [55, 254] so obstacles stay visible on a
// dark background.
func RandomColor(rng *rand.Rand) Color {
	channel := func() uint8 { return uint8(rng.IntN(200) + 55) }
	return Color{R: channel(), G: channel(), B: channel()}
}

// Obstacle is a stationary circle that wears down as the ball hits it
type Obstacle struct {
	ID            ID
	Collider      physics.Circle
	Color         Color
	HitsRemaining int
}

// NewObstacle creates an obstacle with DefaultHitPoints
func NewObstacle(id ID, collider physics.Circle, c Color) *Obstacle {
	return &Obstacle{
		ID:            id,
		Collider:      collider,
		Color:         c,
		HitsRemaining: DefaultHitPoints,
	}
}

// Active reports whether the obstacle is still drawn and collidable.
func (o *Obstacle) Active() bool {
	return o.HitsRemaining > 0
}

// Hit removes one hit point. It is a no-op on an inactive obstacle and reports
// whether this hit cleared the obstacle.
func (o *Obstacle) Hit() (cleared bool) {
	if o.HitsRemaining <= 0 {
		o.HitsRemaining = 0
		return false
	}
	o.HitsRemaining--
	return o.HitsRemaining == 0
}

// GetID returns the obstacle's identifier
func (o *Obstacle) GetID() ID {
	return o.ID
}

// GetPosition returns the obstacle's center
func (o *Obstacle) GetPosition() physics.Vector2D {
	return o.Collider.Center
}

// GetRadius returns the obstacle's radius
func (o *Obstacle) GetRadius() float64 {
	return o.Collider.Radius
}

// GetCollider returns the obstacle's collision shape
func (o *Obstacle) GetCollider() physics.Circle {
	return o.Collider
}

// Render draws the obstacle if it is still active
func (o *Obstacle) Render(r Renderer) {
	if !o.Active() {
		return
	}
	r.RenderObstacle(o)
}
