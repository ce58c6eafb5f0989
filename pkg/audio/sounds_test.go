package audio

import (
	"testing"
	"time"

	"github.com/cbodonnell/tetris/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

func TestSoundFor(t *testing.T) {
	tests := []struct {
		name      string
		event     types.Event
		wantTones int
		wantEnd   time.Duration
		wantWave  Wave
	}{
		{name: "move", event: types.Event{Type: types.EventMove}, wantTones: 1, wantEnd: 50 * ms, wantWave: WaveSquare},
		{name: "rotate", event: types.Event{Type: types.EventRotate}, wantTones: 1, wantEnd: 100 * ms, wantWave: WaveSquare},
		{name: "soft drop", event: types.Event{Type: types.EventSoftDrop, Count: 12}, wantTones: 1, wantEnd: 150 * ms, wantWave: WaveSawtooth},
		{name: "lock", event: types.Event{Type: types.EventLock}, wantTones: 1, wantEnd: 150 * ms, wantWave: WaveSine},
		{name: "single", event: types.Event{Type: types.EventLineClear, Count: 1}, wantTones: 1, wantEnd: 200 * ms, wantWave: WaveTriangle},
		{name: "triple", event: types.Event{Type: types.EventLineClear, Count: 3}, wantTones: 1, wantEnd: 200 * ms, wantWave: WaveTriangle},
		{name: "tetris", event: types.Event{Type: types.EventLineClear, Count: 4}, wantTones: 2, wantEnd: 400 * ms, wantWave: WaveTriangle},
		{name: "level up", event: types.Event{Type: types.EventLevelUp, Level: 3}, wantTones: 8, wantEnd: 600 * ms, wantWave: WaveSquare},
		{name: "game over", event: types.Event{Type: types.EventGameOver}, wantTones: 1, wantEnd: time.Second, wantWave: WaveSawtooth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tones := SoundFor(tt.event)
			assert.Len(t, tones, tt.wantTones)
			var end time.Duration
			for _, tone := range tones {
				end = max(end, tone.End())
			}
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantWave, tones[0].Wave)
		})
	}
}

func TestSoundFor_Silent(t *testing.T) {
	for _, et := range []types.EventType{types.EventStart, types.EventPause, types.EventResume} {
		assert.Nil(t, SoundFor(types.Event{Type: et}), et.String())
	}
}

func TestSoundFor_LineClearPitch(t *testing.T) {
	for count, want := range map[int]float64{1: 400, 2: 500, 3: 600, 4: 800, 7: 400} {
		tones := SoundFor(types.Event{Type: types.EventLineClear, Count: count})
		assert.Equal(t, want, tones[0].Freq.ValueAt(0), "count %d", count)
	}

	tetris := SoundFor(types.Event{Type: types.EventLineClear, Count: 4})
	assert.Equal(t, 1200.0, tetris[1].Freq.ValueAt(0))
	assert.Equal(t, 50*ms, tetris[1].Delay)
}

func TestSoundFor_LevelUpArpeggio(t *testing.T) {
	tones := SoundFor(types.Event{Type: types.EventLevelUp})
	for i := 0; i < 4; i++ {
		assert.Equal(t, time.Duration(i)*100*ms, tones[i].Delay)
		assert.Equal(t, 150*ms, tones[i].Duration)
		assert.InDelta(t, 0.25, tones[i].Gain.ValueAt(20*ms), 1e-9)
	}
	for i := 4; i < 8; i++ {
		assert.Equal(t, 400*ms, tones[i].Delay)
		assert.Equal(t, WaveTriangle, tones[i].Wave)
	}
}
