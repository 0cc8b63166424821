// cmd/pegshot/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-pegshot/pkg/audio"
	"github.com/opd-ai/go-pegshot/pkg/config"
	"github.com/opd-ai/go-pegshot/pkg/engine"
	"github.com/opd-ai/go-pegshot/pkg/entity"
	"github.com/opd-ai/go-pegshot/pkg/event"
	"github.com/opd-ai/go-pegshot/pkg/logging"
	"github.com/opd-ai/go-pegshot/pkg/render"
	engorender "github.com/opd-ai/go-pegshot/pkg/render/engo"
)

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.CreateDefault {
		if err := config.SaveConfig(opts.Game, opts.ConfigPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create default configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created default configuration file %s\n", opts.ConfigPath)
		return
	}

	logger, closeLog, err := newLogger(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error(ctx, "pegshot exited with error", err, "renderer", opts.Renderer)
		closeLog()
		os.Exit(1)
	}
}

// newLogger picks the log sink. The terminal front end owns the screen, so
// without a log file it stays silent.
func newLogger(opts *options) (*logging.Logger, func(), error) {
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return logging.NewLoggerWithWriter(f), func() { f.Close() }, nil
	}
	if opts.Renderer == config.RendererTerminal {
		return logging.NewNopLogger(), func() {}, nil
	}
	return logging.NewLogger(), func() {}, nil
}

func run(ctx context.Context, opts *options, logger *logging.Logger) error {
	eventBus := event.NewEventBus()

	sound := audio.NewSoundManager(logger)
	if opts.Mute {
		sound.SetMuted(true)
	} else {
		sound.InitializeOrMute(ctx)
		detach := sound.Attach(eventBus)
		defer detach()
	}
	defer sound.Cleanup()

	factory := func() (*engine.Game, error) {
		return engine.NewGame(opts.Game,
			engine.WithEventBus(eventBus),
			engine.WithLogger(logger),
		)
	}

	switch opts.Renderer {
	case config.RendererEngo:
		return startEngoRenderer(ctx, opts, factory, eventBus, logger)
	case config.RendererNull:
		return startNullRenderer(ctx, opts, factory, logger)
	default:
		return startTerminalRenderer(ctx, opts, factory, eventBus, logger)
	}
}

func newSession(opts *options, factory engine.Factory, renderer entity.Renderer, logger *logging.Logger) (*engine.Session, error) {
	return engine.NewSession(factory, renderer,
		engine.WithSessionLogger(logger),
		engine.WithRestartCooldown(opts.RestartCooldown),
		engine.WithAutoplay(opts.Autoplay),
	)
}

// startEngoRenderer opens a window sized to the field. engo drives the ticks
// from its frame loop, so no session loop is started.
func startEngoRenderer(ctx context.Context, opts *options, factory engine.Factory, eventBus *event.Bus, logger *logging.Logger) error {
	renderer := engorender.NewEngoRenderer()
	session, err := newSession(opts, factory, renderer, logger)
	if err != nil {
		return err
	}

	scene := engorender.NewGameScene(ctx, session, renderer, eventBus, logger)
	engorender.Run(engorender.RunOptions(opts.Game.Field.Width, opts.Game.Field.Height, opts.Game.Loop.TickRate), scene)
	return nil
}

// startTerminalRenderer draws into the terminal until the player quits or a
// signal arrives. A finished game stays on screen so it can be restarted.
func startTerminalRenderer(ctx context.Context, opts *options, factory engine.Factory, eventBus *event.Bus, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return logging.WrapError(err, "creating screen")
	}
	if err := screen.Init(); err != nil {
		return logging.WrapError(err, "initializing screen")
	}
	defer screen.Fini()
	screen.EnableMouse()

	renderer := render.NewTerminalRenderer(screen, opts.Game.Field.Width, opts.Game.Field.Height)
	detach := renderer.AttachHUD(eventBus)
	defer detach()

	session, err := newSession(opts, factory, renderer, logger)
	if err != nil {
		return err
	}
	input := render.NewInputHandler(renderer, session, logger)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	session.Start(ctx)
	defer session.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "shutting down", "reason", ctx.Err().Error())
			return nil
		case ev := <-events:
			if input.HandleEvent(ctx, ev) {
				return nil
			}
		}
	}
}

// startNullRenderer runs headless until the game is over, which only happens
// on its own with -autoplay.
func startNullRenderer(ctx context.Context, opts *options, factory engine.Factory, logger *logging.Logger) error {
	renderer := render.NewNullRenderer(logger)
	session, err := newSession(opts, factory, renderer, logger)
	if err != nil {
		return err
	}

	session.Start(ctx)
	defer session.Stop()

	select {
	case <-ctx.Done():
		logger.Info(ctx, "shutting down", "reason", ctx.Err().Error())
	case <-session.Done():
		state := session.Game().GetGameState()
		logger.Info(ctx, "game finished",
			"tries", state.Tries,
			"ticks", state.Tick,
			"frames", renderer.Frames(),
		)
	}
	return nil
}
