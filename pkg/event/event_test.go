// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
	"time"
)

// TestNewEventBus tests the creation of a new event bus
func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}

	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}

	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

// TestBaseEvent tests the BaseEvent functionality
func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{
			name:      "BallLaunched event",
			eventType: BallLaunched,
			source:    "test_source",
		},
		{
			name:      "ObstacleHit event",
			eventType: ObstacleHit,
			source:    123,
		},
		{
			name:      "Empty source",
			eventType: GameStarted,
			source:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &BaseEvent{
				EventType: tt.eventType,
				Source:    tt.source,
			}

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}

			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}
		})
	}
}

// TestBusSubscribe tests event subscription functionality
func TestBusSubscribe_SingleHandler_ReturnsValidSubscription(t *testing.T) {
	bus := NewEventBus()

	handler := func(e Event) {
		// Handler for testing subscription
	}

	sub := bus.Subscribe(BallLaunched, handler)

	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}

	if sub.ID == 0 {
		t.Error("subscription ID should not be 0")
	}

	if sub.Cancel == nil {
		t.Error("subscription Cancel function should not be nil")
	}

	// Verify handler was registered
	bus.mu.RLock()
	handlers := bus.handlers[BallLaunched]
	bus.mu.RUnlock()

	if len(handlers) != 1 {
		t.Errorf("expected 1 handler, got %d", len(handlers))
	}
}

// TestBusSubscribe_MultipleHandlers tests multiple subscriptions
func TestBusSubscribe_MultipleHandlers_AllRegistered(t *testing.T) {
	bus := NewEventBus()
	var callCount int

	handler1 := func(e Event) { callCount++ }
	handler2 := func(e Event) { callCount++ }
	handler3 := func(e Event) { callCount++ }

	sub1 := bus.Subscribe(BallLaunched, handler1)
	sub2 := bus.Subscribe(BallLaunched, handler2)
	_ = bus.Subscribe(ObstacleHit, handler3)

	// Check unique IDs
	if sub1.ID == sub2.ID {
		t.Error("subscriptions should have unique IDs")
	}

	// Check handlers count
	bus.mu.RLock()
	launchHandlers := bus.handlers[BallLaunched]
	hitHandlers := bus.handlers[ObstacleHit]
	bus.mu.RUnlock()

	if len(launchHandlers) != 2 {
		t.Errorf("expected 2 handlers for BallLaunched, got %d", len(launchHandlers))
	}

	if len(hitHandlers) != 1 {
		t.Errorf("expected 1 handler for ObstacleHit, got %d", len(hitHandlers))
	}
}

// TestBusPublish tests event publishing functionality
func TestBusPublish_WithSubscribers_CallsAllHandlers(t *testing.T) {
	bus := NewEventBus()
	var callCount int
	var receivedEvents []Event

	handler1 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	handler2 := func(e Event) {
		callCount++
		receivedEvents = append(receivedEvents, e)
	}

	bus.Subscribe(BallLaunched, handler1)
	bus.Subscribe(BallLaunched, handler2)

	event := &BaseEvent{
		EventType: BallLaunched,
		Source:    "test",
	}

	bus.Publish(event)

	if callCount != 2 {
		t.Errorf("expected 2 handler calls, got %d", callCount)
	}

	if len(receivedEvents) != 2 {
		t.Errorf("expected 2 received events, got %d", len(receivedEvents))
	}

	for _, e := range receivedEvents {
		if e.GetType() != BallLaunched {
			t.Errorf("expected event type %v, got %v", BallLaunched, e.GetType())
		}
	}
}

// TestBusPublish_NoSubscribers tests publishing without subscribers
func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	bus := NewEventBus()

	event := &BaseEvent{
		EventType: BallLaunched,
		Source:    "test",
	}

	// Should not panic or error
	bus.Publish(event)
}

// TestBusPublish_WrongEventType tests publishing to non-subscribed event type
func TestBusPublish_WrongEventType_HandlersNotCalled(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	bus.Subscribe(BallLaunched, handler)

	event := &BaseEvent{
		EventType: ObstacleHit,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not have been called for different event type")
	}
}

// TestSubscriptionCancel tests canceling subscriptions
func TestSubscriptionCancel_ValidSubscription_RemovesHandler(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	handler := func(e Event) {
		handlerCalled = true
	}

	sub := bus.Subscribe(BallLaunched, handler)

	// Verify handler is registered
	bus.mu.RLock()
	handlersBefore := len(bus.handlers[BallLaunched])
	bus.mu.RUnlock()

	if handlersBefore != 1 {
		t.Errorf("expected 1 handler before cancel, got %d", handlersBefore)
	}

	// Cancel subscription
	sub.Cancel()

	// Verify handler is removed
	bus.mu.RLock()
	handlersAfter := len(bus.handlers[BallLaunched])
	bus.mu.RUnlock()

	if handlersAfter != 0 {
		t.Errorf("expected 0 handlers after cancel, got %d", handlersAfter)
	}

	// Verify handler is not called after cancellation
	event := &BaseEvent{
		EventType: BallLaunched,
		Source:    "test",
	}

	bus.Publish(event)

	if handlerCalled {
		t.Error("handler should not be called after cancellation")
	}
}

// TestConcurrentAccess tests thread safety
func TestBusSubscribe_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	handlerCount := 0
	var mu sync.Mutex

	handler := func(e Event) {
		mu.Lock()
		handlerCount++
		mu.Unlock()
	}

	// Start multiple goroutines to subscribe concurrently
	numGoroutines := 10
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			bus.Subscribe(BallLaunched, handler)
		}()
	}

	wg.Wait()

	// Verify all subscriptions were registered
	bus.mu.RLock()
	handlers := bus.handlers[BallLaunched]
	bus.mu.RUnlock()

	if len(handlers) != numGoroutines {
		t.Errorf("expected %d handlers, got %d", numGoroutines, len(handlers))
	}

	// Test concurrent publishing
	event := &BaseEvent{
		EventType: BallLaunched,
		Source:    "test",
	}

	// Publish concurrently
	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			bus.Publish(event)
		}()
	}

	wg.Wait()

	// Give handlers time to execute
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	expectedCalls := numGoroutines * 3
	if handlerCount != expectedCalls {
		t.Errorf("expected %d handler calls, got %d", expectedCalls, handlerCount)
	}
	mu.Unlock()
}

func TestNewTriesEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	e := NewTriesEvent("game", 3)

	if e.GetType() != TriesChanged {
		t.Errorf("GetType() = %v, want %v", e.GetType(), TriesChanged)
	}
	if e.GetSource() != "game" {
		t.Errorf("GetSource() = %v, want game", e.GetSource())
	}
	if e.Tries != 3 {
		t.Errorf("Tries = %d, want 3", e.Tries)
	}
}

func TestNewObstacleEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	tests := []struct {
		name          string
		eventType     Type
		obstacleID    uint64
		hitsRemaining int
	}{
		{"hit", ObstacleHit, 4, 9},
		{"cleared", ObstacleCleared, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewObstacleEvent(tt.eventType, nil, tt.obstacleID, tt.hitsRemaining)
			if e.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", e.GetType(), tt.eventType)
			}
			if e.ObstacleID != tt.obstacleID || e.HitsRemaining != tt.hitsRemaining {
				t.Errorf("got id=%d hits=%d", e.ObstacleID, e.HitsRemaining)
			}
		})
	}
}

func TestNewPlacementEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	e := NewPlacementEvent("planner", 15, 11, 1200)

	if e.GetType() != PlacementExhausted {
		t.Errorf("GetType() = %v, want %v", e.GetType(), PlacementExhausted)
	}
	if e.Requested != 15 || e.Placed != 11 || e.Attempts != 1200 {
		t.Errorf("unexpected fields: %+v", e)
	}
}

func TestNewLaunchEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	e := NewLaunchEvent(nil, 2, 1.5, -3)

	if e.GetType() != BallLaunched {
		t.Errorf("GetType() = %v, want %v", e.GetType(), BallLaunched)
	}
	if e.BallID != 2 || e.VelocityX != 1.5 || e.VelocityY != -3 {
		t.Errorf("unexpected fields: %+v", e)
	}
}

func TestNewGameEvent_ValidParameters_ReturnsCorrectEvent(t *testing.T) {
	e := NewGameEvent(GameCompleted, nil, 15, 7)

	if e.GetType() != GameCompleted || e.Obstacles != 15 || e.Tries != 7 {
		t.Errorf("unexpected event: %+v", e)
	}
}

func TestEventTypes_Constants_AllDefined(t *testing.T) {
	expectedTypes := []Type{
		GameStarted,
		GameCompleted,
		BallLaunched,
		BallReturned,
		TriesChanged,
		ObstacleHit,
		ObstacleCleared,
		PlacementExhausted,
	}

	seen := make(map[Type]bool)
	for _, eventType := range expectedTypes {
		if string(eventType) == "" {
			t.Errorf("event type %v is empty", eventType)
		}
		if seen[eventType] {
			t.Errorf("event type %v is defined twice", eventType)
		}
		seen[eventType] = true
	}
}

func TestSubscriptionCancel_Twice_IsHarmless(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	sub := bus.Subscribe(TriesChanged, func(e Event) { calls++ })
	keep := bus.Subscribe(TriesChanged, func(e Event) { calls += 10 })

	sub.Cancel()
	sub.Cancel()
	bus.Publish(NewTriesEvent(nil, 1))

	if calls != 10 {
		t.Errorf("calls = %d, want only the remaining handler (10)", calls)
	}
	keep.Cancel()
}

func TestBusPublish_HandlerMaySubscribe_NoDeadlock(t *testing.T) {
	bus := NewEventBus()
	nested := false

	bus.Subscribe(GameStarted, func(e Event) {
		bus.Subscribe(GameCompleted, func(e Event) { nested = true })
		bus.Publish(&BaseEvent{EventType: GameCompleted})
	})
	bus.Publish(&BaseEvent{EventType: GameStarted})

	if !nested {
		t.Error("nested handler was not called")
	}
}

func TestCancelMultipleSubscriptions_DifferentTypes_OnlyTargetRemoved(t *testing.T) {
	bus := NewEventBus()

	handler1Called := false
	handler2Called := false
	handler3Called := false

	handler1 := func(e Event) { handler1Called = true }
	handler2 := func(e Event) { handler2Called = true }
	handler3 := func(e Event) { handler3Called = true }

	sub1 := bus.Subscribe(BallLaunched, handler1)
	_ = bus.Subscribe(BallLaunched, handler2)
	_ = bus.Subscribe(ObstacleHit, handler3)

	// Cancel only the first subscription
	sub1.Cancel()

	// Publish BallLaunched event
	launchEvent := &BaseEvent{EventType: BallLaunched, Source: "test"}
	bus.Publish(launchEvent)

	// Publish ObstacleHit event
	hitEvent := &BaseEvent{EventType: ObstacleHit, Source: "test"}
	bus.Publish(hitEvent)

	if handler1Called {
		t.Error("handler1 should not be called after cancellation")
	}

	if !handler2Called {
		t.Error("handler2 should be called")
	}

	if !handler3Called {
		t.Error("handler3 should be called")
	}
}
