// cmd/pegshot/options.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/opd-ai/go-pegshot/pkg/config"
)

// options holds everything main needs after flags, the environment and the
// config file have been merged.
type options struct {
	Game            *config.GameConfig
	Renderer        string
	Mute            bool
	Autoplay        bool
	LogFile         string
	RestartCooldown time.Duration
	ConfigPath      string
	CreateDefault   bool
}

type flagValues struct {
	configPath      string
	envFile         string
	createDefault   bool
	renderer        string
	seed            uint64
	gravity         float64
	bounce          float64
	obstacles       int
	resolver        string
	strategy        string
	mute            bool
	autoplay        bool
	logFile         string
	restartCooldown time.Duration
}

// parseOptions parses args and merges them over the environment, which in
// turn overrides the config file. Only flags that were set take effect.
func parseOptions(args []string, output io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pegshot", flag.ContinueOnError)
	fs.SetOutput(output)

	var fv flagValues
	fs.StringVar(&fv.configPath, "config", "config.json", "Path to configuration file")
	fs.StringVar(&fv.envFile, "env", "", "Path to a .env file (default ./.env when present)")
	fs.BoolVar(&fv.createDefault, "default", false, "Write the default configuration file and exit")
	fs.StringVar(&fv.renderer, "renderer", config.RendererTerminal, "Renderer type: 'terminal', 'engo' or 'null'")
	fs.Uint64Var(&fv.seed, "seed", 0, "Layout seed, 0 picks one from the clock")
	fs.Float64Var(&fv.gravity, "gravity", 20, "Gravity in percent of a unit per tick squared")
	fs.Float64Var(&fv.bounce, "bounce", 80, "Restitution in percent")
	fs.IntVar(&fv.obstacles, "obstacles", 15, "Number of obstacles to place")
	fs.StringVar(&fv.resolver, "resolver", "", "Collision resolver: 'impulse' or 'rotation'")
	fs.StringVar(&fv.strategy, "layout", "", "Layout strategy: 'rejection' or 'scatter'")
	fs.BoolVar(&fv.mute, "mute", false, "Disable sound")
	fs.BoolVar(&fv.autoplay, "autoplay", false, "Let the autopilot shoot")
	fs.StringVar(&fv.logFile, "log-file", "", "Write logs to this file")
	fs.DurationVar(&fv.restartCooldown, "restart-cooldown", 0, "Minimum time between restarts")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fv.envFile != "" {
		if err := config.LoadDotEnv(fv.envFile); err != nil {
			return nil, err
		}
	}

	opts := &options{ConfigPath: fv.configPath, CreateDefault: fv.createDefault}
	if fv.createDefault {
		opts.Game = config.DefaultConfig()
		return opts, nil
	}

	gameConfig, err := loadGameConfig(fv.configPath)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		return nil, fmt.Errorf("failed to apply environment configuration: %w", err)
	}

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	opts.Game = gameConfig
	opts.Renderer = envConfig.Renderer
	opts.Mute = envConfig.Mute
	opts.RestartCooldown = envConfig.RestartCooldown

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "renderer":
			opts.Renderer = fv.renderer
		case "seed":
			gameConfig.Obstacles.Seed = fv.seed
		case "gravity":
			gameConfig.Physics.Gravity = fv.gravity / 100
		case "bounce":
			gameConfig.Physics.Bounce = fv.bounce / 100
		case "obstacles":
			gameConfig.Obstacles.Count = fv.obstacles
		case "resolver":
			gameConfig.Physics.Resolver = fv.resolver
		case "layout":
			gameConfig.Obstacles.Strategy = fv.strategy
		case "mute":
			opts.Mute = fv.mute
		case "restart-cooldown":
			opts.RestartCooldown = fv.restartCooldown
		}
	})
	opts.Autoplay = fv.autoplay
	opts.LogFile = fv.logFile

	switch opts.Renderer {
	case config.RendererTerminal, config.RendererEngo, config.RendererNull:
	default:
		return nil, fmt.Errorf("unknown renderer %q", opts.Renderer)
	}
	if opts.RestartCooldown < 0 {
		return nil, errors.New("restart cooldown must not be negative")
	}
	if err := gameConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return opts, nil
}

// loadGameConfig reads path, falling back to the defaults when it does not exist.
func loadGameConfig(path string) (*config.GameConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	gameConfig, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return gameConfig, nil
}
