// pkg/audio/sound_manager.go

// Package audio plays short synthesized cues for game events through the
// system speaker. A missing or broken audio device only disables sound.
package audio

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-pegshot/pkg/entity"
	"github.com/opd-ai/go-pegshot/pkg/event"
	"github.com/opd-ai/go-pegshot/pkg/logging"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager manages all game audio
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	initialized bool
	muted       bool
	logger      *logging.Logger
	lastHitFreq float64
}

// NewSoundManager creates a new sound manager
func NewSoundManager(logger *logging.Logger) *SoundManager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SoundManager{
		mixer:       &beep.Mixer{},
		rate:        sampleRate,
		logger:      logger.Component("audio"),
		lastHitFreq: hitBaseFreq,
	}
}

// Initialize opens the speaker. Call it once; later calls are no-ops.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sm.rate, sm.rate.N(100*time.Millisecond)); err != nil {
		return logging.WrapError(err, "initializing speaker")
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// InitializeOrMute opens the speaker, muting the manager if that fails.
func (sm *SoundManager) InitializeOrMute(ctx context.Context) {
	if err := sm.Initialize(); err != nil {
		sm.logger.Warn(ctx, "audio disabled", "error", err.Error())
		sm.SetMuted(true)
	}
}

// SetMuted turns playback off or back on
func (sm *SoundManager) SetMuted(muted bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = muted
	if muted {
		sm.clearMixer()
	}
}

// Muted reports whether playback is off
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// Cleanup stops all sounds and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.clearMixer()
	speaker.Close()
	sm.initialized = false
}

// Pending returns the number of cues still playing
func (sm *SoundManager) Pending() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return sm.mixer.Len()
}

// clearMixer drops every queued cue. Callers hold sm.mu; the speaker lock
// keeps the playback goroutine out of the mixer meanwhile.
func (sm *SoundManager) clearMixer() {
	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	sm.mixer.Clear()
}

// play queues s unless sound is off. Callers hold sm.mu.
func (sm *SoundManager) play(s beep.Streamer) {
	if !sm.initialized || sm.muted {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// PlayHit plays a tone that rises as the obstacle wears down
func (sm *SoundManager) PlayHit(hitsRemaining int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.lastHitFreq = HitFreq(hitsRemaining, entity.DefaultHitPoints)
	sm.play(HitSound(sm.rate, sm.lastHitFreq))
}

// PlayCleared plays the cue for an obstacle reaching zero
func (sm *SoundManager) PlayCleared() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, err := ClearedSound(sm.rate, sm.lastHitFreq)
	if err != nil {
		sm.logger.Debug(context.Background(), "cleared cue unavailable", "error", err.Error())
		return
	}
	sm.play(s)
}

// PlayLaunch plays the launch swoop
func (sm *SoundManager) PlayLaunch() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.play(LaunchSound(sm.rate))
}

// PlayComplete plays the fanfare for clearing the field
func (sm *SoundManager) PlayComplete() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.play(CompleteSound(sm.rate))
}

// Attach plays cues for events published on bus. The returned function
// detaches it again.
func (sm *SoundManager) Attach(bus *event.Bus) (detach func()) {
	subs := []*event.Subscription{
		bus.Subscribe(event.ObstacleHit, func(e event.Event) {
			if oe, ok := e.(*event.ObstacleEvent); ok {
				sm.PlayHit(oe.HitsRemaining)
			}
		}),
		bus.Subscribe(event.ObstacleCleared, func(event.Event) { sm.PlayCleared() }),
		bus.Subscribe(event.BallLaunched, func(event.Event) { sm.PlayLaunch() }),
		bus.Subscribe(event.GameCompleted, func(event.Event) { sm.PlayComplete() }),
	}
	return func() {
		for _, s := range subs {
			s.Cancel()
		}
	}
}
