// pkg/audio/effects.go
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Cue durations
const (
	hitDuration      = 60 * time.Millisecond
	clearedDuration  = 180 * time.Millisecond
	launchDuration   = 120 * time.Millisecond
	completeNoteTime = 140 * time.Millisecond
)

// hitBaseFreq is the pitch of the first hit on a fresh obstacle.
const hitBaseFreq = 440.0

// decayTone is a sine tone whose amplitude falls linearly to zero.
type decayTone struct {
	rate     beep.SampleRate
	freq     float64
	phase    float64
	position int
	total    int
}

// NewDecayTone returns a sine tone at freq that fades out over duration.
func NewDecayTone(rate beep.SampleRate, freq float64, duration time.Duration) beep.Streamer {
	return &decayTone{rate: rate, freq: freq, total: rate.N(duration)}
}

func (d *decayTone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if d.position >= d.total {
			return i, i > 0
		}
		amp := 1 - float64(d.position)/float64(d.total)
		v := amp * math.Sin(2*math.Pi*d.phase)
		samples[i][0] = v
		samples[i][1] = v

		d.phase += d.freq / float64(d.rate)
		d.phase -= math.Floor(d.phase)
		d.position++
	}
	return len(samples), true
}

func (d *decayTone) Err() error { return nil }

// sweep glides linearly from one frequency to another.
type sweep struct {
	rate     beep.SampleRate
	from, to float64
	phase    float64
	position int
	total    int
}

// NewSweep returns a tone gliding from one frequency to another over duration.
func NewSweep(rate beep.SampleRate, from, to float64, duration time.Duration) beep.Streamer {
	return &sweep{rate: rate, from: from, to: to, total: rate.N(duration)}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, i > 0
		}
		progress := float64(s.position) / float64(s.total)
		freq := s.from + (s.to-s.from)*progress
		v := 0.6 * math.Sin(2*math.Pi*s.phase)
		samples[i][0] = v
		samples[i][1] = v

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// withVolume scales s by vol in [0, 1]; zero is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// HitFreq raises the pitch a semitone per hit already taken, so an obstacle
// audibly nears its end.
func HitFreq(hitsRemaining, hitPoints int) float64 {
	taken := max(hitPoints-hitsRemaining-1, 0)
	return hitBaseFreq * math.Pow(2, float64(taken)/12)
}

// HitSound is a short click-like tone
func HitSound(rate beep.SampleRate, freq float64) beep.Streamer {
	return withVolume(NewDecayTone(rate, freq, hitDuration), 0.5)
}

// ClearedSound is a plain sine burst an octave above the last hit
func ClearedSound(rate beep.SampleRate, freq float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, 2*freq)
	if err != nil {
		return nil, err
	}
	return withVolume(beep.Take(rate.N(clearedDuration), sine), 0.3), nil
}

// LaunchSound is a quick downward swoop
func LaunchSound(rate beep.SampleRate) beep.Streamer {
	return withVolume(NewSweep(rate, 660, 220, launchDuration), 0.4)
}

// CompleteSound is a rising major arpeggio
func CompleteSound(rate beep.SampleRate) beep.Streamer {
	notes := []float64{523.25, 659.25, 783.99, 1046.5}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, f := range notes {
		parts = append(parts, NewDecayTone(rate, f, completeNoteTime))
	}
	return withVolume(beep.Seq(parts...), 0.5)
}
