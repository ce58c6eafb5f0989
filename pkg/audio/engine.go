package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cbodonnell/tetris/pkg/game/types"
	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	// DefaultSampleRate is the output sample rate
	DefaultSampleRate = beep.SampleRate(44100)
	// DefaultVolume is the initial master volume in percent
	DefaultVolume = 50
	// bufferDuration is the output buffer length passed to the backend
	bufferDuration = 50 * time.Millisecond
)

// Backend is the audio output device.
type Backend interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	// Lock and Unlock guard streamers that are being played
	Lock()
	Unlock()
}

type speakerBackend struct{}

// NewSpeakerBackend returns the backend writing to the system speaker.
func NewSpeakerBackend() Backend {
	return speakerBackend{}
}

func (speakerBackend) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerBackend) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerBackend) Lock()                  { speaker.Lock() }
func (speakerBackend) Unlock()                { speaker.Unlock() }

// Engine synthesizes game sounds into a single mixer behind a master volume.
// Output starts on Init, which must wait for the first user gesture.
type Engine struct {
	mu          sync.Mutex
	backend     Backend
	rate        beep.SampleRate
	mixer       *beep.Mixer
	master      *effects.Volume
	volume      float64
	muted       bool
	initialized bool
	failed      bool
}

// NewEngineOptions contains options for creating a new Engine.
type NewEngineOptions struct {
	// Backend defaults to the system speaker
	Backend Backend
	// SampleRate defaults to DefaultSampleRate
	SampleRate beep.SampleRate
	// Volume is the master volume in percent
	Volume int
	Muted  bool
}

func NewEngine(opts NewEngineOptions) *Engine {
	backend := opts.Backend
	if backend == nil {
		backend = NewSpeakerBackend()
	}
	rate := opts.SampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}

	mixer := &beep.Mixer{}
	e := &Engine{
		backend: backend,
		rate:    rate,
		mixer:   mixer,
		master:  &effects.Volume{Streamer: mixer, Base: 2},
		volume:  clampVolume(opts.Volume),
		muted:   opts.Muted,
	}
	e.applyGain()
	return e
}

// Init opens the output device and starts the master stream. It is safe to
// call on every gesture: only the first call does anything, and after a
// failure the engine stays silent.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized || e.failed {
		return nil
	}
	if err := e.backend.Init(e.rate, e.rate.N(bufferDuration)); err != nil {
		e.failed = true
		log.Error("Failed to initialize audio, continuing without sound: %v", err)
		return fmt.Errorf("failed to initialize audio backend: %v", err)
	}
	e.backend.Play(e.master)
	e.initialized = true
	log.Debug("Audio initialized at %d Hz", e.rate)
	return nil
}

// Ready reports whether sounds are being played.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// Play starts the sound for an event. Events without a sound and events played
// before Init are ignored.
func (e *Engine) Play(event types.Event) {
	tones := SoundFor(event)
	if len(tones) == 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}

	voices := make([]beep.Streamer, len(tones))
	for i, tone := range tones {
		voices[i] = NewVoice(tone, e.rate)
	}
	e.backend.Lock()
	e.mixer.Add(voices...)
	e.backend.Unlock()
}

// Voices returns the number of sounds still playing.
func (e *Engine) Voices() int {
	e.backend.Lock()
	defer e.backend.Unlock()
	return e.mixer.Len()
}

// SetVolume sets the master volume in percent, clamped to 0..100.
func (e *Engine) SetVolume(percent int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = clampVolume(percent)
	e.applyGain()
}

// Volume returns the master volume in percent.
func (e *Engine) Volume() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int(math.Round(e.volume * 100))
}

// ToggleMute silences the master output, or restores it, and returns the new
// muted state. Sounds keep being generated while muted.
func (e *Engine) ToggleMute() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = !e.muted
	e.applyGain()
	return e.muted
}

func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Close stops every playing sound.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backend.Lock()
	e.mixer.Clear()
	e.backend.Unlock()
}

// applyGain must be called with e.mu held.
func (e *Engine) applyGain() {
	e.backend.Lock()
	defer e.backend.Unlock()
	// math.Log2(0) is -Inf, so zero volume is silence
	if e.muted || e.volume <= 0 {
		e.master.Silent = true
		return
	}
	e.master.Silent = false
	e.master.Volume = math.Log2(e.volume)
}

func clampVolume(percent int) float64 {
	return float64(max(0, min(100, percent))) / 100
}
