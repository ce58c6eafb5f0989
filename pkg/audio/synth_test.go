package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
)

func TestEnvelope_ValueAt(t *testing.T) {
	linear := Envelope{{Value: 0}, {At: 10 * ms, Value: 1}, {At: 20 * ms, Value: 0}}
	exponential := Envelope{{Value: 300}, {At: 100 * ms, Value: 100, Curve: CurveExponential}}

	tests := []struct {
		name string
		env  Envelope
		at   time.Duration
		want float64
	}{
		{name: "empty", env: nil, at: 0, want: 0},
		{name: "constant", env: Constant(150), at: time.Second, want: 150},
		{name: "linear start", env: linear, at: 0, want: 0},
		{name: "linear rise", env: linear, at: 5 * ms, want: 0.5},
		{name: "linear peak", env: linear, at: 10 * ms, want: 1},
		{name: "linear fall", env: linear, at: 15 * ms, want: 0.5},
		{name: "linear hold", env: linear, at: time.Second, want: 0},
		{name: "exponential midpoint", env: exponential, at: 50 * ms, want: 300 * math.Sqrt(1.0/3)},
		{name: "exponential end", env: exponential, at: 100 * ms, want: 100},
		{
			name: "exponential to zero falls back to linear",
			env:  Envelope{{Value: 1}, {At: 10 * ms, Value: 0, Curve: CurveExponential}},
			at:   5 * ms,
			want: 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.env.ValueAt(tt.at), 1e-9)
		})
	}
}

func TestVoice_DrainsAfterTone(t *testing.T) {
	rate := beep.SampleRate(1000)
	v := NewVoice(Tone{
		Wave:     WaveSquare,
		Duration: 50 * ms,
		Freq:     Constant(100),
		Gain:     Constant(0.5),
	}, rate)

	samples := make([][2]float64, 64)
	n, ok := v.Stream(samples)
	assert.Equal(t, 50, n)
	assert.True(t, ok)
	for i := 0; i < n; i++ {
		assert.Equal(t, 0.5, math.Abs(samples[i][0]))
		assert.Equal(t, samples[i][0], samples[i][1])
	}

	n, ok = v.Stream(samples)
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.NoError(t, v.Err())
}

func TestVoice_Delay(t *testing.T) {
	rate := beep.SampleRate(1000)
	v := NewVoice(Tone{
		Wave:     WaveSquare,
		Delay:    20 * ms,
		Duration: 10 * ms,
		Freq:     Constant(100),
		Gain:     Constant(1),
	}, rate)

	samples := make([][2]float64, 100)
	n, ok := v.Stream(samples)
	assert.Equal(t, 30, n)
	assert.True(t, ok)
	for i := 0; i < 20; i++ {
		assert.Zero(t, samples[i][0])
	}
	for i := 20; i < 30; i++ {
		assert.Equal(t, 1.0, math.Abs(samples[i][0]))
	}
}

func TestVoice_WavesStayInRange(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, wave := range []Wave{WaveSine, WaveSquare, WaveSawtooth, WaveTriangle} {
		v := NewVoice(Tone{
			Wave:     wave,
			Duration: 100 * ms,
			Freq:     Envelope{{Value: 200}, {At: 100 * ms, Value: 400}},
			Gain:     Constant(1),
		}, rate)
		samples := make([][2]float64, 800)
		n, _ := v.Stream(samples)
		assert.Equal(t, 800, n)
		for i := 0; i < n; i++ {
			assert.LessOrEqual(t, math.Abs(samples[i][0]), 1.0, "wave %d sample %d", wave, i)
		}
	}
}
