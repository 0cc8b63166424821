// pkg/render/engo/scene.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-pegshot/pkg/engine"
	"github.com/opd-ai/go-pegshot/pkg/event"
	"github.com/opd-ai/go-pegshot/pkg/logging"
)

// Ticker advances the game by one frame. engine.Session implements it.
type Ticker interface {
	Tick() bool
}

// TickSystem drives the session from engo's frame loop, one tick per frame.
type TickSystem struct {
	ticker Ticker
}

// Remove satisfies the ecs.System interface
func (ts *TickSystem) Remove(basic ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (ts *TickSystem) Update(dt float32) {
	ts.ticker.Tick()
}

// GameScene represents the main game scene in Engo
type GameScene struct {
	world *ecs.World

	ctx      context.Context
	session  *engine.Session
	eventBus *event.Bus
	logger   *logging.Logger

	renderer *EngoRenderer
	input    *InputSystem
	hud      *HUDSystem
}

// NewGameScene creates a new game scene. renderer must be the renderer the
// session was built with.
func NewGameScene(ctx context.Context, session *engine.Session, renderer *EngoRenderer, eventBus *event.Bus, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GameScene{
		ctx:      ctx,
		session:  session,
		renderer: renderer,
		eventBus: eventBus,
		logger:   logger,
		world:    &ecs.World{},
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo). Every shape
// is drawn procedurally, so there is nothing to load.
func (scene *GameScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		world = &ecs.World{}
	}
	scene.world = world

	common.SetBackground(Background)
	SetupInputBindings()

	renderSystem := &common.RenderSystem{}
	scene.world.AddSystem(renderSystem)
	scene.renderer.Attach(renderSystem)

	scene.input = NewInputSystem(scene.ctx, scene.session, scene.logger)
	scene.world.AddSystem(scene.input)

	scene.hud = NewHUDSystem(scene.eventBus)
	scene.hud.Sync(scene.session.Game().GetGameState())
	scene.world.AddSystem(scene.hud)

	scene.world.AddSystem(&TickSystem{ticker: scene.session})

	scene.logger.Info(scene.ctx, "engo scene ready",
		"width", engo.GameWidth(),
		"height", engo.GameHeight(),
	)
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	if scene.hud != nil {
		scene.hud.Close()
	}
	scene.logger.Info(scene.ctx, "engo scene closed")
}

// RunOptions returns engo options for a window exactly the size of the field,
// with frames capped at the tick rate so one frame is one tick.
func RunOptions(width, height float64, tickRate int) engo.RunOptions {
	return engo.RunOptions{
		Title:          "Pegshot",
		Width:          int(width),
		Height:         int(height),
		VSync:          true,
		StandardInputs: true,
		FPSLimit:       tickRate,
	}
}

// Run opens the window and blocks until it is closed.
func Run(opts engo.RunOptions, scene *GameScene) {
	engo.Run(opts, scene)
}
