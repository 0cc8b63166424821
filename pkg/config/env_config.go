// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/opd-ai/go-pegshot/pkg/validation"
)

// Environment variable names
const (
	EnvGravityPercent  = "PEGSHOT_GRAVITY_PERCENT"
	EnvBouncePercent   = "PEGSHOT_BOUNCE_PERCENT"
	EnvObstacles       = "PEGSHOT_OBSTACLES"
	EnvResolver        = "PEGSHOT_RESOLVER"
	EnvLayoutStrategy  = "PEGSHOT_LAYOUT_STRATEGY"
	EnvSeed            = "PEGSHOT_SEED"
	EnvTickRate        = "PEGSHOT_TICK_RATE"
	EnvRenderer        = "PEGSHOT_RENDERER"
	EnvMute            = "PEGSHOT_MUTE"
	EnvRestartCooldown = "PEGSHOT_RESTART_COOLDOWN"
)

// DefaultRestartCooldown is the minimum time between restarts
const DefaultRestartCooldown = 250 * time.Millisecond

// Front ends selectable through EnvRenderer or the -renderer flag
const (
	RendererTerminal = "terminal"
	RendererEngo     = "engo"
	RendererNull     = "null"
)

// EnvironmentConfig holds the front-end settings read from the process
// environment and an optional .env file. Game settings in the environment
// go through ApplyEnvironmentOverrides instead.
type EnvironmentConfig struct {
	Renderer        string
	Mute            bool
	RestartCooldown time.Duration
}

// LoadDotEnv loads the given .env files, or ./.env when none are given.
// Variables already present in the environment win. A missing default file is
// not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadConfigFromEnv reads EnvironmentConfig, falling back to defaults for
// unset or unparsable variables.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	config := &EnvironmentConfig{
		Renderer:        getEnvOrDefault(EnvRenderer, RendererTerminal),
		Mute:            getEnvAsBoolOrDefault(EnvMute, false),
		RestartCooldown: getEnvAsDurationOrDefault(EnvRestartCooldown, DefaultRestartCooldown),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}

	return config, nil
}

func validateEnvironmentConfig(config *EnvironmentConfig) error {
	if err := validation.ValidateOneOf("Renderer", config.Renderer,
		RendererTerminal, RendererEngo, RendererNull); err != nil {
		return err
	}
	return validation.ValidateRange("RestartCooldown", config.RestartCooldown.Seconds(), 0, 60)
}

// ApplyEnvironmentOverrides overwrites the game settings whose variables are
// set. Unlike LoadConfigFromEnv, a malformed value is an error here, because
// silently keeping the file value would hide a typo.
func ApplyEnvironmentOverrides(gameConfig *GameConfig) error {
	if err := LoadDotEnv(); err != nil {
		return err
	}

	if v, ok, err := lookupFloat(EnvGravityPercent); err != nil {
		return err
	} else if ok {
		gameConfig.Physics.Gravity = v / 100
	}

	if v, ok, err := lookupFloat(EnvBouncePercent); err != nil {
		return err
	} else if ok {
		gameConfig.Physics.Bounce = v / 100
	}

	if v, ok, err := lookupInt(EnvObstacles); err != nil {
		return err
	} else if ok {
		gameConfig.Obstacles.Count = v
	}

	if v, ok := os.LookupEnv(EnvResolver); ok {
		gameConfig.Physics.Resolver = v
	}

	if v, ok := os.LookupEnv(EnvLayoutStrategy); ok {
		gameConfig.Obstacles.Strategy = v
	}

	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		gameConfig.Obstacles.Seed = seed
	}

	if v, ok, err := lookupInt(EnvTickRate); err != nil {
		return err
	} else if ok {
		gameConfig.Loop.TickRate = v
	}

	return gameConfig.Validate()
}

func lookupFloat(key string) (float64, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return f, true, nil
}

func lookupInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return 0, false, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return i, true, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
