// pkg/validation/validation_test.go
package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name        string
		value       float64
		min, max    float64
		wantErr     bool
		errContains string
	}{
		{name: "inside", value: 0.8, min: 0, max: 1},
		{name: "lower_bound_inclusive", value: 0, min: 0, max: 1},
		{name: "upper_bound_inclusive", value: 1, min: 0, max: 1},
		{name: "below", value: -0.1, min: 0, max: 1, wantErr: true, errContains: "between"},
		{name: "above", value: 1.5, min: 0, max: 1, wantErr: true, errContains: "between"},
		{name: "nan", value: math.NaN(), min: 0, max: 1, wantErr: true, errContains: "finite"},
		{name: "inf", value: math.Inf(1), min: 0, max: 1, wantErr: true, errContains: "finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange("physics.bounce", tt.value, tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err, tt.errContains)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != "physics.bounce" {
				t.Errorf("expected ValidationError for physics.bounce, got %T %v", err, err)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr bool
	}{
		{20, false},
		{0.001, false},
		{0, true},
		{-5, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		if err := ValidatePositive("ball.radius", tt.value); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePositive(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestValidateCount(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"zero_allowed", 0, false},
		{"default", 15, false},
		{"max", 200, false},
		{"negative", -1, true},
		{"too_many", 201, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateCount("obstacles.count", tt.n, 0, 200); (err != nil) != tt.wantErr {
				t.Errorf("ValidateCount(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePoint(t *testing.T) {
	if err := ValidatePoint("target", 10, 20); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidatePoint("target", 10, math.NaN())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "target.y" {
		t.Errorf("Field = %q, expected target.y", ve.Field)
	}
}

func TestValidateOneOf(t *testing.T) {
	if err := ValidateOneOf("physics.resolver", "rotation", "impulse", "rotation"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateOneOf("physics.resolver", "verlet", "impulse", "rotation"); err == nil {
		t.Error("expected error for unknown value")
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !rl.Allow("restart") {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if rl.Allow("restart") {
		t.Error("6th request should be denied")
	}

	if !rl.Allow("launch") {
		t.Error("Different command should be allowed")
	}
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl := NewRateLimiter(2, 100*time.Millisecond)
	clock := time.Unix(1000, 0)
	rl.now = func() time.Time { return clock }

	rl.Allow("restart")
	rl.Allow("restart")

	if rl.Allow("restart") {
		t.Error("Request should be denied after consuming all tokens")
	}

	clock = clock.Add(150 * time.Millisecond)

	if !rl.Allow("restart") {
		t.Error("Request should be allowed after token refill")
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	rl.Allow("restart")
	if rl.Allow("restart") {
		t.Fatal("bucket should be empty")
	}
	rl.Reset()
	if !rl.Allow("restart") {
		t.Error("Reset should refill buckets")
	}
}
