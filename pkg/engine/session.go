// pkg/engine/session.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/opd-ai/go-pegshot/pkg/entity"
	"github.com/opd-ai/go-pegshot/pkg/logging"
	"github.com/opd-ai/go-pegshot/pkg/physics"
	"github.com/opd-ai/go-pegshot/pkg/validation"
)

// ErrRestartThrottled is returned by Restart when restarts come faster than
// the configured cooldown allows. It wraps validation.ErrRateLimited.
var ErrRestartThrottled = fmt.Errorf("restart throttled: %w", validation.ErrRateLimited)

const restartCommand = "restart"

// Factory builds a fresh game for a session
type Factory func() (*Game, error)

// Session holds at most one live game and drives it. Ticks and input commands
// are serialised by a mutex, so front ends may call them from any goroutine.
type Session struct {
	mu       sync.Mutex
	factory  Factory
	game     *Game
	renderer entity.Renderer
	pointer  physics.Vector2D
	logger   *logging.Logger
	limiter  *validation.RateLimiter
	autoplay bool

	cancel context.CancelFunc
	done   chan struct{}
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithSessionLogger sets the session's logger
func WithSessionLogger(logger *logging.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithRestartCooldown allows one restart per cooldown. Zero disables throttling.
func WithRestartCooldown(cooldown time.Duration) SessionOption {
	return func(s *Session) {
		if cooldown > 0 {
			s.limiter = validation.NewRateLimiter(1, cooldown)
		}
	}
}

// WithAutoplay makes every tick launch the ball at ChooseTarget when it is shootable.
func WithAutoplay(enabled bool) SessionOption {
	return func(s *Session) { s.autoplay = enabled }
}

// NewSession builds the first game with factory. renderer receives one frame
// per tick.
func NewSession(factory Factory, renderer entity.Renderer, opts ...SessionOption) (*Session, error) {
	if factory == nil {
		return nil, errors.New("session factory is nil")
	}
	if renderer == nil {
		return nil, errors.New("session renderer is nil")
	}

	s := &Session{
		factory:  factory,
		renderer: renderer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	s.logger = s.logger.Component("session")

	game, err := factory()
	if err != nil {
		return nil, logging.WrapError(err, "creating game")
	}
	s.game = game
	s.pointer = game.Ball.Spawn
	return s, nil
}

// Game returns the live game
func (s *Session) Game() *Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// Tick advances the live game one step and renders a frame. It reports whether
// the game is still in progress.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.autoplay {
		if target, ok := ChooseTarget(*s.game.GetGameState()); ok {
			s.game.Launch(target)
		}
	}
	s.game.Update()
	s.game.Render(s.renderer, s.pointer)
	return !s.game.IsOver()
}

// Launch fires the ball toward target
func (s *Session) Launch(target physics.Vector2D) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Launch(target)
}

// Aim moves the pointer the aim guide is drawn toward
func (s *Session) Aim(pointer physics.Vector2D) {
	if !pointer.IsFinite() {
		return
	}
	s.mu.Lock()
	s.pointer = pointer
	s.mu.Unlock()
}

// Pointer returns the last aimed position
func (s *Session) Pointer() physics.Vector2D {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// Start runs the tick loop at the game's tick rate on its own goroutine. The
// loop ends when the game is over, ctx is cancelled or Stop is called. Start
// is a no-op while a loop is running.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	interval := time.Second / time.Duration(s.game.Config.Loop.TickRate)
	s.logger.Debug(s.game.Context(), "tick loop started", "interval", interval.String())
	go s.run(loopCtx, done, interval)
}

func (s *Session) run(ctx context.Context, done chan struct{}, interval time.Duration) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.Tick() {
				return
			}
		}
	}
}

// Done returns a channel closed when the current tick loop exits. It is nil
// when no loop was started.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Running reports whether a tick loop was started and not yet stopped
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Stop cancels the tick loop and waits for it to exit
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Restart replaces the live game with a fresh one. A running tick loop is
// stopped and fully drained first, then started again for the new game.
func (s *Session) Restart(ctx context.Context) error {
	if s.limiter != nil && !s.limiter.Allow(restartCommand) {
		return ErrRestartThrottled
	}

	wasRunning := s.Running()
	s.Stop()

	game, err := s.factory()
	if err != nil {
		return logging.WrapError(err, "restarting game")
	}

	s.mu.Lock()
	old := s.game
	s.game = game
	s.mu.Unlock()

	s.logger.Info(game.Context(), "game restarted",
		"previous_correlation_id", logging.GetCorrelationID(old.Context()),
		"previous_tries", old.GetGameState().Tries,
	)

	if wasRunning {
		s.Start(ctx)
	}
	return nil
}
