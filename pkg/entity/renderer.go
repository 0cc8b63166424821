// pkg/entity/renderer.go
package entity

import "github.com/opd-ai/go-pegshot/pkg/physics"

// Renderer handles rendering game entities. A frame is Clear, any number of
// Render calls, then Present.
type Renderer interface {
	Clear()
	RenderObstacle(obstacle *Obstacle)
	RenderBall(ball *Ball)
	// RenderAim draws the aim guide from the spawn point toward the pointer.
	RenderAim(spawn, pointer physics.Vector2D)
	Present()
}
