package audio

import (
	"time"

	"github.com/cbodonnell/tetris/pkg/game/types"
)

const ms = time.Millisecond

var lineClearFreqs = map[int]float64{1: 400, 2: 500, 3: 600, 4: 800}

var levelUpNotes = [...]float64{400, 500, 600, 800}

// SoundFor returns the tones played for a game event, or nil when the event
// is silent.
func SoundFor(e types.Event) []Tone {
	switch e.Type {
	case types.EventMove:
		return moveSound()
	case types.EventRotate:
		return rotateSound()
	case types.EventSoftDrop:
		return softDropSound()
	case types.EventLock:
		return lockSound()
	case types.EventLineClear:
		return lineClearSound(e.Count)
	case types.EventLevelUp:
		return levelUpSound()
	case types.EventGameOver:
		return gameOverSound()
	}
	return nil
}

// short click
func moveSound() []Tone {
	return []Tone{{
		Wave:     WaveSquare,
		Duration: 50 * ms,
		Freq:     Constant(150),
		Gain:     Envelope{{Value: 0}, {At: 5 * ms, Value: 0.3}, {At: 50 * ms, Value: 0}},
	}}
}

// rising blip
func rotateSound() []Tone {
	return []Tone{{
		Wave:     WaveSquare,
		Duration: 100 * ms,
		Freq:     Envelope{{Value: 200}, {At: 100 * ms, Value: 400}},
		Gain:     Envelope{{Value: 0.3}, {At: 100 * ms, Value: 0}},
	}}
}

// falling whoosh
func softDropSound() []Tone {
	return []Tone{{
		Wave:     WaveSawtooth,
		Duration: 150 * ms,
		Freq:     Envelope{{Value: 300}, {At: 150 * ms, Value: 100, Curve: CurveExponential}},
		Gain:     Envelope{{Value: 0.15}, {At: 150 * ms, Value: 0}},
	}}
}

// low thud
func lockSound() []Tone {
	return []Tone{{
		Wave:     WaveSine,
		Duration: 150 * ms,
		Freq:     Envelope{{Value: 100}, {At: 150 * ms, Value: 50, Curve: CurveExponential}},
		Gain:     Envelope{{Value: 0.4}, {At: 150 * ms, Value: 0.01, Curve: CurveExponential}},
	}}
}

// lineClearSound pitches up with the number of lines. A tetris lasts longer
// and adds a fifth above.
func lineClearSound(count int) []Tone {
	freq, ok := lineClearFreqs[count]
	if !ok {
		freq = lineClearFreqs[1]
	}
	duration := 200 * ms
	if count == 4 {
		duration = 400 * ms
	}

	tones := []Tone{{
		Wave:     WaveTriangle,
		Duration: duration,
		Freq:     Constant(freq),
		Gain:     Envelope{{Value: 0.3}, {At: duration, Value: 0}},
	}}
	if count == 4 {
		tones = append(tones, Tone{
			Wave:     WaveTriangle,
			Delay:    50 * ms,
			Duration: duration - 50*ms,
			Freq:     Constant(freq * 1.5),
			Gain:     Envelope{{Value: 0.2}, {At: duration - 50*ms, Value: 0}},
		})
	}
	return tones
}

// levelUpSound is an arpeggio followed by a chord of the same notes.
func levelUpSound() []Tone {
	const noteLength = 100 * ms

	var tones []Tone
	for i, freq := range levelUpNotes {
		tones = append(tones, Tone{
			Wave:     WaveSquare,
			Delay:    time.Duration(i) * noteLength,
			Duration: noteLength * 3 / 2,
			Freq:     Constant(freq),
			Gain:     Envelope{{Value: 0}, {At: 20 * ms, Value: 0.25}, {At: noteLength * 3 / 2, Value: 0}},
		})
	}

	chordAt := time.Duration(len(levelUpNotes)) * noteLength
	for _, freq := range levelUpNotes {
		tones = append(tones, Tone{
			Wave:     WaveTriangle,
			Delay:    chordAt,
			Duration: 200 * ms,
			Freq:     Constant(freq),
			Gain:     Envelope{{Value: 0.15}, {At: 200 * ms, Value: 0}},
		})
	}
	return tones
}

// long descending buzz
func gameOverSound() []Tone {
	return []Tone{{
		Wave:     WaveSawtooth,
		Duration: time.Second,
		Freq:     Envelope{{Value: 400}, {At: time.Second, Value: 100, Curve: CurveExponential}},
		Gain:     Envelope{{Value: 0.3}, {At: time.Second, Value: 0}},
	}}
}
