// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"sync"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-pegshot/pkg/engine"
	"github.com/opd-ai/go-pegshot/pkg/event"
)

// HUDSystem shows the game status in the window title. Events may arrive
// from any goroutine; the title is only touched from Update.
type HUDSystem struct {
	mu        sync.Mutex
	tries     int
	remaining int
	over      bool
	dirty     bool

	title    string
	setTitle func(string)
	subs     []*event.Subscription
}

// NewHUDSystem creates a HUD fed by bus
func NewHUDSystem(bus *event.Bus) *HUDSystem {
	hud := &HUDSystem{
		dirty:    true,
		setTitle: engo.SetTitle,
	}
	hud.subs = []*event.Subscription{
		bus.Subscribe(event.GameStarted, hud.onGameStarted),
		bus.Subscribe(event.TriesChanged, hud.onTriesChanged),
		bus.Subscribe(event.ObstacleCleared, hud.onObstacleCleared),
		bus.Subscribe(event.GameCompleted, hud.onGameCompleted),
	}
	return hud
}

func (hud *HUDSystem) onGameStarted(e event.Event) {
	ge, ok := e.(*event.GameEvent)
	if !ok {
		return
	}
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.tries, hud.remaining, hud.over = 0, ge.Obstacles, false
	hud.dirty = true
}

func (hud *HUDSystem) onTriesChanged(e event.Event) {
	te, ok := e.(*event.TriesEvent)
	if !ok {
		return
	}
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.tries = te.Tries
	hud.dirty = true
}

func (hud *HUDSystem) onObstacleCleared(event.Event) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	if hud.remaining > 0 {
		hud.remaining--
	}
	hud.dirty = true
}

func (hud *HUDSystem) onGameCompleted(event.Event) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.over = true
	hud.dirty = true
}

// Sync loads the status from a snapshot, for a game that started before the
// HUD subscribed.
func (hud *HUDSystem) Sync(state *engine.GameState) {
	remaining := 0
	for _, o := range state.Obstacles {
		if o.HitsRemaining > 0 {
			remaining++
		}
	}
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.tries, hud.remaining, hud.over = state.Tries, remaining, state.Over
	hud.dirty = true
}

// Text returns the current status text
func (hud *HUDSystem) Text() string {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	return hud.text()
}

func (hud *HUDSystem) text() string {
	if hud.over {
		return fmt.Sprintf("Pegshot - cleared in %d tries (R to restart)", hud.tries)
	}
	return fmt.Sprintf("Pegshot - tries: %d, obstacles left: %d", hud.tries, hud.remaining)
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the title when the status changed
func (hud *HUDSystem) Update(dt float32) {
	hud.mu.Lock()
	if !hud.dirty {
		hud.mu.Unlock()
		return
	}
	hud.dirty = false
	hud.title = hud.text()
	title := hud.title
	hud.mu.Unlock()

	hud.setTitle(title)
}

// Close unsubscribes from the event bus
func (hud *HUDSystem) Close() {
	for _, s := range hud.subs {
		s.Cancel()
	}
	hud.subs = nil
}
