// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/opd-ai/go-pegshot/pkg/config"
	"github.com/opd-ai/go-pegshot/pkg/entity"
	"github.com/opd-ai/go-pegshot/pkg/event"
	"github.com/opd-ai/go-pegshot/pkg/layout"
	"github.com/opd-ai/go-pegshot/pkg/logging"
	"github.com/opd-ai/go-pegshot/pkg/physics"
	"github.com/opd-ai/go-pegshot/pkg/validation"
)

// GameStatus is the lifecycle state of a game
type GameStatus int

const (
	GameStatusWaiting GameStatus = iota
	GameStatusActive
	GameStatusEnded
)

// String returns a lowercase name for the status
func (s GameStatus) String() string {
	switch s {
	case GameStatusWaiting:
		return "waiting"
	case GameStatusActive:
		return "active"
	case GameStatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Game represents the core game state and logic. Once Status reaches
// GameStatusEnded it never changes again; play again with a new Game.
type Game struct {
	Config      *config.GameConfig
	Obstacles   []*entity.Obstacle
	Ball        *entity.Ball
	Tries       int
	Status      GameStatus
	CurrentTick uint64
	Layout      layout.Result
	EventBus    *event.Bus
	StartTime   time.Time
	EndTime     time.Time
	EntityLock  sync.RWMutex

	env      physics.Environment
	field    physics.Field
	resolver physics.Resolver
	logger   *logging.Logger
	ctx      context.Context
	rng      *rand.Rand

	fixture    []*entity.Obstacle
	hasFixture bool
}

// Option configures a Game
type Option func(*Game)

// WithRand sets the random source used for obstacle placement
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithEventBus publishes game events on bus. Sharing one bus across restarts
// keeps subscribers attached.
func WithEventBus(bus *event.Bus) Option {
	return func(g *Game) { g.EventBus = bus }
}

// WithLogger sets the game's logger
func WithLogger(logger *logging.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithObstacles skips the planner and uses obstacles as given
func WithObstacles(obstacles ...*entity.Obstacle) Option {
	return func(g *Game) {
		g.fixture = obstacles
		g.hasFixture = true
	}
}

// NewGame creates a new game with the specified configuration. The
// configuration is copied, so later edits do not reach a running game.
func NewGame(cfg *config.GameConfig, opts ...Option) (*Game, error) {
	if cfg == nil {
		return nil, errors.New("game config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid game config")
	}

	resolver, err := physics.NewResolver(cfg.Physics.Resolver, cfg.Physics.Bounce)
	if err != nil {
		return nil, fmt.Errorf("creating resolver: %w", err)
	}

	frozen := *cfg
	game := &Game{
		Config:   &frozen,
		env:      frozen.Environment(),
		field:    frozen.PlayField(),
		resolver: resolver,
		ctx:      logging.WithCorrelationID(context.Background(), ""),
	}
	for _, opt := range opts {
		opt(game)
	}
	if game.EventBus == nil {
		game.EventBus = event.NewEventBus()
	}
	if game.logger == nil {
		game.logger = logging.NewNopLogger()
	}
	game.logger = game.logger.Component("engine")
	if game.rng == nil {
		game.rng = layout.NewRand(frozen.Obstacles.Seed)
	}

	game.initObstacles()
	game.Ball = entity.NewBall(entity.GenerateID(), frozen.SpawnPoint(), frozen.Ball.Radius)
	game.start()

	return game, nil
}

// initObstacles places obstacles with the planner unless a fixture was given.
func (g *Game) initObstacles() {
	if g.hasFixture {
		g.Obstacles = g.fixture
		g.Layout = layout.Result{
			Requested: len(g.fixture),
			Placed:    len(g.fixture),
		}
		return
	}

	planner := layout.NewPlanner(g.Config.LayoutOptions(), g.rng,
		layout.WithLogger(g.logger),
		layout.WithEventBus(g.EventBus),
	)
	g.Layout = planner.Plan(g.ctx)

	g.Obstacles = make([]*entity.Obstacle, 0, len(g.Layout.Obstacles))
	for _, p := range g.Layout.Obstacles {
		g.Obstacles = append(g.Obstacles, entity.NewObstacle(entity.GenerateID(), p.Circle, p.Color))
	}
}

func (g *Game) start() {
	g.Status = GameStatusActive
	g.StartTime = time.Now()

	g.logger.Info(g.ctx, "game started",
		"obstacles", len(g.Obstacles),
		"requested", g.Layout.Requested,
		"resolver", g.Config.Physics.Resolver,
		"gravity", g.env.Gravity,
		"bounce", g.env.Restitution,
	)
	g.EventBus.Publish(event.NewGameEvent(event.GameStarted, g, len(g.Obstacles), 0))
}

// Context returns a context carrying this game's correlation ID
func (g *Game) Context() context.Context {
	return g.ctx
}

// Update advances the game state by one tick: the ball moves, then every live
// obstacle is tested against it. When the ball drops out of the field the
// completion check runs instead. Update does nothing once the game has ended.
func (g *Game) Update() {
	g.publish(g.update())
}

func (g *Game) update() []event.Event {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	if g.Status != GameStatusActive {
		return nil
	}
	g.CurrentTick++

	if g.Ball.Update(g.env, g.field) {
		events := []event.Event{&event.BaseEvent{EventType: event.BallReturned, Source: g}}
		return append(events, g.checkCompletionLocked()...)
	}

	if g.Ball.Phase != entity.BallInFlight {
		return nil
	}
	return g.resolveObstacleCollisions()
}

// resolveObstacleCollisions must be called with EntityLock held
func (g *Game) resolveObstacleCollisions() []event.Event {
	var events []event.Event
	for _, o := range g.Obstacles {
		if !o.Active() {
			continue
		}

		contact := g.resolver.Resolve(&g.Ball.Body, o)
		if !contact.Bounced {
			continue
		}

		cleared := o.Hit()
		events = append(events, event.NewObstacleEvent(event.ObstacleHit, g, uint64(o.ID), o.HitsRemaining))
		if cleared {
			g.logger.Debug(g.ctx, "obstacle cleared", "obstacle_id", uint64(o.ID), "tick", g.CurrentTick)
			events = append(events, event.NewObstacleEvent(event.ObstacleCleared, g, uint64(o.ID), 0))
		}
	}
	return events
}

// CheckCompletion ends the game if every obstacle is cleared and reports
// whether the game is over. A game without obstacles completes on its first
// check.
func (g *Game) CheckCompletion() bool {
	g.EntityLock.Lock()
	events := g.checkCompletionLocked()
	over := g.Status == GameStatusEnded
	g.EntityLock.Unlock()

	g.publish(events)
	return over
}

// checkCompletionLocked must be called with EntityLock held
func (g *Game) checkCompletionLocked() []event.Event {
	if g.Status != GameStatusActive {
		return nil
	}
	for _, o := range g.Obstacles {
		if o.Active() {
			return nil
		}
	}

	g.Status = GameStatusEnded
	g.EndTime = time.Now()
	g.Ball.Lock()

	g.logger.Info(g.ctx, "game completed",
		"tries", g.Tries,
		"ticks", g.CurrentTick,
		"duration", g.EndTime.Sub(g.StartTime).String(),
	)
	return []event.Event{event.NewGameEvent(event.GameCompleted, g, len(g.Obstacles), g.Tries)}
}

// Launch fires the ball toward target. The launch velocity is
// (target - spawn) / ShootSpeedDivisor. Launches while the ball is in flight,
// after the game ended, or toward a non-finite target are ignored and return
// false.
func (g *Game) Launch(target physics.Vector2D) bool {
	accepted, events := g.launch(target)
	g.publish(events)
	return accepted
}

func (g *Game) launch(target physics.Vector2D) (bool, []event.Event) {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	if g.Status != GameStatusActive {
		g.logger.Debug(g.ctx, "launch ignored", "reason", "game over")
		return false, nil
	}
	if err := validation.ValidatePoint("target", target.X, target.Y); err != nil {
		g.logger.Debug(g.ctx, "launch ignored", "reason", err.Error())
		return false, nil
	}

	velocity := target.Sub(g.Ball.Spawn).Scale(1 / g.Config.Ball.ShootSpeedDivisor)
	if !g.Ball.Launch(velocity) {
		g.logger.Debug(g.ctx, "launch ignored", "reason", "ball not shootable", "phase", g.Ball.Phase.String())
		return false, nil
	}
	g.Tries++

	return true, []event.Event{
		event.NewLaunchEvent(g, uint64(g.Ball.ID), velocity.X, velocity.Y),
		event.NewTriesEvent(g, g.Tries),
	}
}

// IsOver reports whether every obstacle has been cleared
func (g *Game) IsOver() bool {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	return g.Status == GameStatusEnded
}

// Render draws one frame. The aim guide toward pointer is shown only while the
// ball can be launched.
func (g *Game) Render(r entity.Renderer, pointer physics.Vector2D) {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	r.Clear()
	for _, o := range g.Obstacles {
		o.Render(r)
	}
	g.Ball.Render(r)
	if g.Status == GameStatusActive && g.Ball.Shootable() {
		r.RenderAim(g.Ball.Spawn, pointer)
	}
	r.Present()
}

func (g *Game) publish(events []event.Event) {
	for _, e := range events {
		g.EventBus.Publish(e)
	}
}

// GetGameState returns a snapshot of the current game state
func (g *Game) GetGameState() *GameState {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	return g.createGameStateSnapshot()
}

// createGameStateSnapshot builds and returns the complete game state.
func (g *Game) createGameStateSnapshot() *GameState {
	return &GameState{
		Tick:      g.CurrentTick,
		Tries:     g.Tries,
		Status:    g.Status,
		Over:      g.Status == GameStatusEnded,
		Spawn:     g.Ball.Spawn,
		Ball:      g.getBallState(),
		Obstacles: g.getObstacleStates(),
		Placement: PlacementState{
			Requested: g.Layout.Requested,
			Placed:    g.Layout.Placed,
			Exhausted: g.Layout.Exhausted,
		},
	}
}

func (g *Game) getBallState() BallState {
	return BallState{
		ID:        g.Ball.ID,
		Position:  g.Ball.Body.Position,
		Velocity:  g.Ball.Body.Velocity,
		Radius:    g.Ball.Body.Radius,
		Phase:     g.Ball.Phase,
		Shootable: g.Ball.Shootable(),
	}
}

// getObstacleStates lists every obstacle, cleared ones included, in layout order.
func (g *Game) getObstacleStates() []ObstacleState {
	states := make([]ObstacleState, 0, len(g.Obstacles))
	for _, o := range g.Obstacles {
		states = append(states, ObstacleState{
			ID:            o.ID,
			Position:      o.Collider.Center,
			Radius:        o.Collider.Radius,
			Color:         o.Color,
			HitsRemaining: o.HitsRemaining,
		})
	}
	return states
}

// GameState represents a snapshot of the game state
type GameState struct {
	Tick      uint64
	Tries     int
	Status    GameStatus
	Over      bool
	Spawn     physics.Vector2D
	Ball      BallState
	Obstacles []ObstacleState
	Placement PlacementState
}

// BallState represents a snapshot of the ball
type BallState struct {
	ID        entity.ID
	Position  physics.Vector2D
	Velocity  physics.Vector2D
	Radius    float64
	Phase     entity.BallPhase
	Shootable bool
}

// ObstacleState represents a snapshot of an obstacle
type ObstacleState struct {
	ID            entity.ID
	Position      physics.Vector2D
	Radius        float64
	Color         entity.Color
	HitsRemaining int
}

// PlacementState summarizes how the layout went
type PlacementState struct {
	Requested int
	Placed    int
	Exhausted bool
}
