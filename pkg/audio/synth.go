package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Wave defines an oscillator wave shape
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

// Curve is the interpolation used to reach an automation point from the
// previous one.
type Curve int

const (
	CurveLinear Curve = iota
	CurveExponential
)

// Point is one automation point: the value reached At the given offset from
// the start of the tone.
type Point struct {
	At    time.Duration
	Value float64
	Curve Curve
}

// Envelope is a list of automation points sorted by At. Before the first point
// it holds the first value, after the last point it holds the last value.
type Envelope []Point

// Constant returns an envelope holding v for the whole tone.
func Constant(v float64) Envelope {
	return Envelope{{Value: v}}
}

// ValueAt returns the envelope value at offset t.
func (e Envelope) ValueAt(t time.Duration) float64 {
	if len(e) == 0 {
		return 0
	}
	if t <= e[0].At {
		return e[0].Value
	}
	for i := 1; i < len(e); i++ {
		from, to := e[i-1], e[i]
		if t >= to.At {
			continue
		}
		span := to.At - from.At
		if span <= 0 {
			return to.Value
		}
		progress := float64(t-from.At) / float64(span)
		if to.Curve == CurveExponential && from.Value > 0 && to.Value > 0 {
			return from.Value * math.Pow(to.Value/from.Value, progress)
		}
		return from.Value + (to.Value-from.Value)*progress
	}
	return e[len(e)-1].Value
}

// Tone describes one oscillator with its frequency and gain automation.
type Tone struct {
	Wave Wave
	// Delay is the offset from the start of the sound at which the tone begins
	Delay time.Duration
	// Duration is how long the oscillator runs after Delay
	Duration time.Duration
	// Freq is the frequency in Hz, relative to the start of the tone
	Freq Envelope
	// Gain is the amplitude multiplier, relative to the start of the tone
	Gain Envelope
}

// End returns the offset at which the tone stops.
func (t Tone) End() time.Duration {
	return t.Delay + t.Duration
}

func sample(w Wave, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSawtooth:
		return 2*phase - 1
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	}
	return math.Sin(2 * math.Pi * phase)
}

// voice renders a Tone. It streams silence during the delay and drains once
// the tone has ended, so a mixer drops it on its own.
type voice struct {
	tone     Tone
	rate     beep.SampleRate
	delay    int
	total    int
	position int
	phase    float64
}

// NewVoice creates a streamer playing the tone once.
func NewVoice(tone Tone, rate beep.SampleRate) beep.Streamer {
	return &voice{
		tone:  tone,
		rate:  rate,
		delay: rate.N(tone.Delay),
		total: rate.N(tone.End()),
	}
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if v.position >= v.total {
			return i, i > 0
		}

		var val float64
		if v.position >= v.delay {
			t := v.rate.D(v.position - v.delay)
			val = sample(v.tone.Wave, v.phase) * v.tone.Gain.ValueAt(t)

			v.phase += v.tone.Freq.ValueAt(t) / float64(v.rate)
			v.phase -= math.Floor(v.phase)
		}

		samples[i][0] = val
		samples[i][1] = val
		v.position++
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }
