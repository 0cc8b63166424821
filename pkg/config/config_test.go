// pkg/config/config_test.go
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/go-pegshot/pkg/layout"
	"github.com/opd-ai/go-pegshot/pkg/physics"
	"github.com/opd-ai/go-pegshot/pkg/validation"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if config.Field.Width != 480 || config.Field.Height != 640 {
		t.Errorf("Expected 480x640 field, got %vx%v", config.Field.Width, config.Field.Height)
	}
	if config.Field.BottomLimit != 620 {
		t.Errorf("Expected BottomLimit 620, got %v", config.Field.BottomLimit)
	}
	if config.Ball.Radius != 20 || config.Ball.ShootSpeedDivisor != 10 {
		t.Errorf("Unexpected ball config: %+v", config.Ball)
	}
	if config.Physics.Gravity != 0.2 || config.Physics.Bounce != 0.8 {
		t.Errorf("Unexpected physics config: %+v", config.Physics)
	}
	if config.Physics.Resolver != physics.ResolverImpulse {
		t.Errorf("Expected impulse resolver, got %q", config.Physics.Resolver)
	}
	if config.Obstacles.Count != 15 || config.Obstacles.MaxAttempts != 100 {
		t.Errorf("Unexpected obstacle config: %+v", config.Obstacles)
	}
	if config.Obstacles.Strategy != layout.StrategyRejection {
		t.Errorf("Expected rejection strategy, got %q", config.Obstacles.Strategy)
	}
	if config.Loop.TickRate != 50 {
		t.Errorf("Expected TickRate 50, got %d", config.Loop.TickRate)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGameConfig_Derived(t *testing.T) {
	config := DefaultConfig()

	if spawn := config.SpawnPoint(); spawn != (physics.Vector2D{X: 240, Y: 20}) {
		t.Errorf("SpawnPoint() = %v, expected (240, 20)", spawn)
	}

	env := config.Environment()
	if env.Gravity != 0.2 || env.Restitution != 0.8 {
		t.Errorf("Environment() = %+v", env)
	}

	field := config.PlayField()
	if field.Width != 480 || field.Height != 640 || field.BottomLimit != 620 {
		t.Errorf("PlayField() = %+v", field)
	}

	opts := config.LayoutOptions()
	if opts.Count != 15 || opts.Spawn != config.SpawnPoint() || opts.BallRadius != 20 {
		t.Errorf("LayoutOptions() = %+v", opts)
	}
}

func TestGameConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *GameConfig)
		errorField string
	}{
		{"valid", func(c *GameConfig) {}, ""},
		{"zero_obstacles_allowed", func(c *GameConfig) { c.Obstacles.Count = 0 }, ""},
		{"rotation_resolver", func(c *GameConfig) { c.Physics.Resolver = physics.ResolverRotation }, ""},
		{"scatter_strategy", func(c *GameConfig) { c.Obstacles.Strategy = layout.StrategyScatter }, ""},
		{"zero_width", func(c *GameConfig) { c.Field.Width = 0 }, "field.width"},
		{"negative_radius", func(c *GameConfig) { c.Ball.Radius = -1 }, "ball.radius"},
		{"ball_wider_than_field", func(c *GameConfig) { c.Ball.Radius = 300 }, "ball.radius"},
		{"zero_divisor", func(c *GameConfig) { c.Ball.ShootSpeedDivisor = 0 }, "ball.shootSpeedDivisor"},
		{"bounce_above_one", func(c *GameConfig) { c.Physics.Bounce = 1.2 }, "physics.bounce"},
		{"negative_gravity", func(c *GameConfig) { c.Physics.Gravity = -0.1 }, "physics.gravity"},
		{"unknown_resolver", func(c *GameConfig) { c.Physics.Resolver = "verlet" }, "physics.resolver"},
		{"negative_count", func(c *GameConfig) { c.Obstacles.Count = -3 }, "obstacles.count"},
		{"max_below_min", func(c *GameConfig) { c.Obstacles.MaxRadius = 10 }, "obstacles.maxRadius"},
		{"no_attempts", func(c *GameConfig) { c.Obstacles.MaxAttempts = 0 }, "obstacles.maxAttempts"},
		{"unknown_strategy", func(c *GameConfig) { c.Obstacles.Strategy = "grid" }, "obstacles.strategy"},
		{"zero_tick_rate", func(c *GameConfig) { c.Loop.TickRate = 0 }, "loop.tickRate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()

			if tt.errorField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var ve *validation.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if ve.Field != tt.errorField {
				t.Errorf("error for field %q, expected %q", ve.Field, tt.errorField)
			}
		})
	}
}

func TestLoadConfig_Success(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pegshot.json")

	data := []byte(`{"physics": {"gravity": 0.5, "bounce": 0.3}, "obstacles": {"count": 4, "seed": 99}}`)
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Physics.Gravity != 0.5 || config.Physics.Bounce != 0.3 {
		t.Errorf("physics not loaded: %+v", config.Physics)
	}
	if config.Obstacles.Count != 4 || config.Obstacles.Seed != 99 {
		t.Errorf("obstacles not loaded: %+v", config.Obstacles)
	}
	// Fields missing from the file keep their defaults
	if config.Field.Width != 480 || config.Obstacles.MinRadius != 20 {
		t.Errorf("defaults lost: field=%+v obstacles=%+v", config.Field, config.Obstacles)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("unexpected error: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(configPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.json")
	if err := os.WriteFile(configPath, []byte(`{"physics": {"bounce": 3}}`), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	var ve *validation.ValidationError
	if !errors.As(err, &ve) || ve.Field != "physics.bounce" {
		t.Errorf("expected physics.bounce validation error, got %v", err)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "saved.json")

	original := DefaultConfig()
	original.Physics.Resolver = physics.ResolverRotation
	original.Obstacles.Seed = 12345

	if err := SaveConfig(original, configPath); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("saved file is not JSON: %v", err)
	}
	if _, ok := generic["obstacles"]; !ok {
		t.Error("saved file should use camelCase section keys")
	}

	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *loaded != *original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
}

func TestSaveConfig_InvalidPath(t *testing.T) {
	err := SaveConfig(DefaultConfig(), filepath.Join(t.TempDir(), "missing", "dir", "config.json"))
	if err == nil {
		t.Error("Expected error for invalid path")
	}
}

func TestSaveConfig_NilConfig(t *testing.T) {
	if err := SaveConfig(nil, filepath.Join(t.TempDir(), "nil.json")); err == nil {
		t.Error("Expected error for nil config")
	}
}
