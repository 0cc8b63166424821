// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Game event types
const (
	GameStarted        Type = "game_started"
	GameCompleted      Type = "game_completed"
	BallLaunched       Type = "ball_launched"
	BallReturned       Type = "ball_returned"
	TriesChanged       Type = "tries_changed"
	ObstacleHit        Type = "obstacle_hit"
	ObstacleCleared    Type = "obstacle_cleared"
	PlacementExhausted Type = "placement_exhausted"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it from the bus
// and is safe to call more than once.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Type:   eventType,
		Cancel: func() { b.Unsubscribe(eventType, id) },
	}
}

// Unsubscribe removes the handler registered under id
func (b *Bus) Unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		remaining := make([]subscriber, 0, len(subs)-1)
		remaining = append(remaining, subs[:i]...)
		remaining = append(remaining, subs[i+1:]...)
		if len(remaining) == 0 {
			delete(b.handlers, eventType)
		} else {
			b.handlers[eventType] = remaining
		}
		return
	}
}

// Publish sends an event to all subscribed handlers. Handlers run on the
// caller's goroutine, outside the bus lock, so they may subscribe or publish.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// GameEvent is published when a game starts or completes
type GameEvent struct {
	BaseEvent
	Obstacles int
	Tries     int
}

// NewGameEvent creates a new game event
func NewGameEvent(eventType Type, source interface{}, obstacles, tries int) *GameEvent {
	return &GameEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Obstacles: obstacles,
		Tries:     tries,
	}
}

// TriesEvent carries the new launch count
type TriesEvent struct {
	BaseEvent
	Tries int
}

// NewTriesEvent creates a new tries_changed event
func NewTriesEvent(source interface{}, tries int) *TriesEvent {
	return &TriesEvent{
		BaseEvent: BaseEvent{
			EventType: TriesChanged,
			Source:    source,
		},
		Tries: tries,
	}
}

// LaunchEvent describes an accepted launch
type LaunchEvent struct {
	BaseEvent
	BallID    uint64
	VelocityX float64
	VelocityY float64
}

// NewLaunchEvent creates a new ball_launched event
func NewLaunchEvent(source interface{}, ballID uint64, vx, vy float64) *LaunchEvent {
	return &LaunchEvent{
		BaseEvent: BaseEvent{
			EventType: BallLaunched,
			Source:    source,
		},
		BallID:    ballID,
		VelocityX: vx,
		VelocityY: vy,
	}
}

// ObstacleEvent contains information about obstacle hits
type ObstacleEvent struct {
	BaseEvent
	ObstacleID    uint64
	HitsRemaining int
}

// NewObstacleEvent creates a new obstacle event
func NewObstacleEvent(eventType Type, source interface{}, obstacleID uint64, hitsRemaining int) *ObstacleEvent {
	return &ObstacleEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ObstacleID:    obstacleID,
		HitsRemaining: hitsRemaining,
	}
}

// PlacementEvent reports a layout that ran out of attempts
type PlacementEvent struct {
	BaseEvent
	Requested int
	Placed    int
	Attempts  int
}

// NewPlacementEvent creates a new placement_exhausted event
func NewPlacementEvent(source interface{}, requested, placed, attempts int) *PlacementEvent {
	return &PlacementEvent{
		BaseEvent: BaseEvent{
			EventType: PlacementExhausted,
			Source:    source,
		},
		Requested: requested,
		Placed:    placed,
		Attempts:  attempts,
	}
}
