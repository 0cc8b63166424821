// pkg/entity/entity.go
package entity

import (
	"sync/atomic"

	"github.com/opd-ai/go-pegshot/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

// Entity is the base interface for all game objects
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector2D
	GetCollider() physics.Circle
	Render(r Renderer)
}

var nextID atomic.Uint64

// GenerateID returns a process-wide unique entity ID, starting at 1.
func GenerateID() ID {
	return ID(nextID.Add(1))
}
