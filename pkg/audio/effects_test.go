// pkg/audio/effects_test.go
package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain streams s to completion and returns every sample produced.
func drain(t *testing.T, s beep.Streamer, limit int) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for len(out) < limit {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatalf("streamer still running after %d samples", limit)
	return nil
}

func TestDecayTone(t *testing.T) {
	rate := beep.SampleRate(8000)
	samples := drain(t, NewDecayTone(rate, 440, 100*time.Millisecond), 10000)

	if len(samples) != 800 {
		t.Fatalf("expected 800 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if math.Abs(s[0]) > 1 || s[0] != s[1] {
			t.Fatalf("sample %d out of range or not mono: %v", i, s)
		}
	}
	peak := func(from, to int) float64 {
		p := 0.0
		for _, s := range samples[from:to] {
			p = math.Max(p, math.Abs(s[0]))
		}
		return p
	}
	if peak(0, 100) <= peak(700, 800) {
		t.Error("tone does not fade out")
	}
}

func TestSweep(t *testing.T) {
	rate := beep.SampleRate(8000)
	samples := drain(t, NewSweep(rate, 660, 220, 50*time.Millisecond), 10000)
	if len(samples) != 400 {
		t.Fatalf("expected 400 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if math.Abs(s[0]) > 0.6+1e-9 {
			t.Fatalf("sample %d louder than the sweep amplitude: %v", i, s[0])
		}
	}
}

func TestHitFreq(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		expected  float64
	}{
		{"first_hit", 9, 440},
		{"second_hit", 8, 440 * math.Pow(2, 1.0/12)},
		{"last_hit", 0, 440 * math.Pow(2, 9.0/12)},
		{"out_of_range", 12, 440},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitFreq(tt.remaining, 10); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("HitFreq(%d) = %v, expected %v", tt.remaining, got, tt.expected)
			}
		})
	}
}

func TestCueSoundsTerminate(t *testing.T) {
	rate := beep.SampleRate(8000)
	cleared, err := ClearedSound(rate, 440)
	if err != nil {
		t.Fatalf("ClearedSound() error = %v", err)
	}

	cues := map[string]beep.Streamer{
		"hit":      HitSound(rate, 440),
		"cleared":  cleared,
		"launch":   LaunchSound(rate),
		"complete": CompleteSound(rate),
	}
	for name, cue := range cues {
		t.Run(name, func(t *testing.T) {
			if samples := drain(t, cue, rate.N(2*time.Second)); len(samples) == 0 {
				t.Error("cue produced no samples")
			}
		})
	}
}

func TestWithVolume_Silent(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, s := range drain(t, withVolume(NewDecayTone(rate, 440, 10*time.Millisecond), 0), 1000) {
		if s[0] != 0 || s[1] != 0 {
			t.Fatalf("silent volume produced %v", s)
		}
	}
}
