// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opd-ai/go-pegshot/pkg/layout"
	"github.com/opd-ai/go-pegshot/pkg/physics"
	"github.com/opd-ai/go-pegshot/pkg/validation"
)

// GameConfig contains configuration for one game. It is read once when a game
// starts; changing it later does not affect a running game.
type GameConfig struct {
	Field     FieldConfig    `json:"field"`
	Ball      BallConfig     `json:"ball"`
	Physics   PhysicsConfig  `json:"physics"`
	Obstacles ObstacleConfig `json:"obstacles"`
	Loop      LoopConfig     `json:"loop"`
}

// FieldConfig describes the playfield. Y grows downward.
type FieldConfig struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	BottomLimit float64 `json:"bottomLimit"`
}

// BallConfig contains ball-related configuration
type BallConfig struct {
	Radius            float64 `json:"radius"`
	ShootSpeedDivisor float64 `json:"shootSpeedDivisor"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Gravity  float64 `json:"gravity"`
	Bounce   float64 `json:"bounce"`
	Resolver string  `json:"resolver"`
}

// ObstacleConfig controls obstacle placement
type ObstacleConfig struct {
	Count       int     `json:"count"`
	MinRadius   float64 `json:"minRadius"`
	MaxRadius   float64 `json:"maxRadius"`
	Padding     float64 `json:"padding"`
	TopMargin   float64 `json:"topMargin"`
	MaxAttempts int     `json:"maxAttempts"`
	Strategy    string  `json:"strategy"`
	Seed        uint64  `json:"seed"`
}

// LoopConfig controls the tick driver
type LoopConfig struct {
	TickRate int `json:"tickRate"`
}

// Limits applied by Validate
const (
	MaxObstacles = 500
	MaxGravity   = 10.0
	MaxTickRate  = 1000
	MaxAttempts  = 1_000_000
)

// LoadConfig loads a configuration from a file. Missing fields keep their
// default values.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Field: FieldConfig{
			Width:       480,
			Height:      640,
			BottomLimit: 620,
		},
		Ball: BallConfig{
			Radius:            20,
			ShootSpeedDivisor: 10,
		},
		Physics: PhysicsConfig{
			Gravity:  0.2,
			Bounce:   0.8,
			Resolver: physics.ResolverImpulse,
		},
		Obstacles: ObstacleConfig{
			Count:       15,
			MinRadius:   20,
			MaxRadius:   70,
			Padding:     2,
			TopMargin:   80,
			MaxAttempts: 100,
			Strategy:    layout.StrategyRejection,
		},
		Loop: LoopConfig{
			TickRate: 50,
		},
	}
}

// Validate checks every field and returns the first *validation.ValidationError
func (c *GameConfig) Validate() error {
	checks := []func() error{
		func() error { return validation.ValidatePositive("field.width", c.Field.Width) },
		func() error { return validation.ValidatePositive("field.height", c.Field.Height) },
		func() error { return validation.ValidatePositive("field.bottomLimit", c.Field.BottomLimit) },
		func() error { return validation.ValidatePositive("ball.radius", c.Ball.Radius) },
		func() error {
			return validation.ValidateRange("ball.radius", c.Ball.Radius, 0, c.Field.Width/2)
		},
		func() error { return validation.ValidatePositive("ball.shootSpeedDivisor", c.Ball.ShootSpeedDivisor) },
		func() error { return validation.ValidateRange("physics.gravity", c.Physics.Gravity, 0, MaxGravity) },
		func() error { return validation.ValidateRange("physics.bounce", c.Physics.Bounce, 0, 1) },
		func() error {
			return validation.ValidateOneOf("physics.resolver", c.Physics.Resolver,
				"", physics.ResolverImpulse, physics.ResolverRotation)
		},
		func() error { return validation.ValidateCount("obstacles.count", c.Obstacles.Count, 0, MaxObstacles) },
		func() error { return validation.ValidatePositive("obstacles.minRadius", c.Obstacles.MinRadius) },
		func() error {
			return validation.ValidateRange("obstacles.maxRadius", c.Obstacles.MaxRadius,
				c.Obstacles.MinRadius, c.Field.Width/2)
		},
		func() error {
			return validation.ValidateRange("obstacles.padding", c.Obstacles.Padding, 0, c.Field.Width)
		},
		func() error {
			return validation.ValidateRange("obstacles.topMargin", c.Obstacles.TopMargin, 0, c.Field.Height)
		},
		func() error {
			return validation.ValidateCount("obstacles.maxAttempts", c.Obstacles.MaxAttempts, 1, MaxAttempts)
		},
		func() error {
			return validation.ValidateOneOf("obstacles.strategy", c.Obstacles.Strategy,
				"", layout.StrategyRejection, layout.StrategyScatter)
		},
		func() error { return validation.ValidateCount("loop.tickRate", c.Loop.TickRate, 1, MaxTickRate) },
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// SpawnPoint returns where the ball rests while aiming: top center of the field.
func (c *GameConfig) SpawnPoint() physics.Vector2D {
	return physics.Vector2D{X: c.Field.Width / 2, Y: c.Ball.Radius}
}

// Environment returns the physical constants for a game
func (c *GameConfig) Environment() physics.Environment {
	return physics.Environment{
		Gravity:     c.Physics.Gravity,
		Restitution: c.Physics.Bounce,
	}
}

// PlayField returns the field bounds used by the integrator
func (c *GameConfig) PlayField() physics.Field {
	return physics.Field{
		Width:       c.Field.Width,
		Height:      c.Field.Height,
		BottomLimit: c.Field.BottomLimit,
	}
}

// LayoutOptions converts the obstacle section for the planner
func (c *GameConfig) LayoutOptions() layout.Options {
	return layout.Options{
		FieldWidth:  c.Field.Width,
		FieldHeight: c.Field.Height,
		Count:       c.Obstacles.Count,
		MinRadius:   c.Obstacles.MinRadius,
		MaxRadius:   c.Obstacles.MaxRadius,
		Padding:     c.Obstacles.Padding,
		TopMargin:   c.Obstacles.TopMargin,
		MaxAttempts: c.Obstacles.MaxAttempts,
		Strategy:    c.Obstacles.Strategy,
		Spawn:       c.SpawnPoint(),
		BallRadius:  c.Ball.Radius,
	}
}
