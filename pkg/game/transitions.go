package game

import (
	"math/rand/v2"

	"github.com/cbodonnell/tetris/pkg/game/types"
)

// Randomizer chooses the type of each new piece.
type Randomizer interface {
	Next() types.PieceType
}

type uniformRandomizer struct {
	rng *rand.Rand
}

// NewRandomizer returns a Randomizer that picks each of the seven pieces with
// equal probability.
func NewRandomizer(seed1, seed2 uint64) Randomizer {
	return &uniformRandomizer{
		rng: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

func (r *uniformRandomizer) Next() types.PieceType {
	return types.PieceTypes[r.rng.IntN(len(types.PieceTypes))]
}

// The functions below are the game's state transitions. Each takes the current
// state by value and returns the next state with the events it produced; none
// of them keeps a reference to its input.

// Start begins a new session: empty board, fresh active and next pieces and
// zeroed counters.
func Start(rng Randomizer) (types.GameState, []types.Event) {
	s := types.GameState{
		Board:  types.NewBoard(),
		Active: types.NewPiece(rng.Next()),
		Next:   rng.Next(),
		Status: types.StatusPlaying,
	}
	return s, []types.Event{{Type: types.EventStart}}
}

// Move shifts the active piece horizontally by dx columns.
// A blocked move leaves the state unchanged.
func Move(s types.GameState, dx int) (types.GameState, []types.Event) {
	if s.Status != types.StatusPlaying {
		return s, nil
	}
	moved := s.Active.Translated(dx, 0)
	if !CanPlace(moved, &s.Board) {
		return s, nil
	}
	s.Active = moved
	return s, []types.Event{{Type: types.EventMove}}
}

// Rotate turns the active piece to its next rotation state. There are no wall
// kicks: a rotation into an invalid position is ignored.
func Rotate(s types.GameState) (types.GameState, []types.Event) {
	if s.Status != types.StatusPlaying {
		return s, nil
	}
	rotated := s.Active.Rotated()
	if !CanPlace(rotated, &s.Board) {
		return s, nil
	}
	s.Active = rotated
	return s, []types.Event{{Type: types.EventRotate}}
}

// StepDown moves the active piece down one row, locking it when it cannot move.
func StepDown(s types.GameState, rng Randomizer) (types.GameState, []types.Event) {
	if s.Status != types.StatusPlaying {
		return s, nil
	}
	down := s.Active.Translated(0, 1)
	if CanPlace(down, &s.Board) {
		s.Active = down
		return s, nil
	}
	return lockAndSpawn(s, rng)
}

// SoftDrop drops the active piece as far as it can fall, awards one point per
// row descended and locks it.
func SoftDrop(s types.GameState, rng Randomizer) (types.GameState, []types.Event) {
	if s.Status != types.StatusPlaying {
		return s, nil
	}
	var events []types.Event
	rows := DropDistance(s.Active, &s.Board)
	if rows > 0 {
		s.Active = s.Active.Translated(0, rows)
		s.Score += int64(rows)
		events = append(events, types.Event{Type: types.EventSoftDrop, Count: rows})
	}
	s, lockEvents := lockAndSpawn(s, rng)
	return s, append(events, lockEvents...)
}

// TogglePause switches between playing and paused. It does nothing in other
// phases.
func TogglePause(s types.GameState) (types.GameState, []types.Event) {
	switch s.Status {
	case types.StatusPlaying:
		s.Status = types.StatusPaused
		return s, []types.Event{{Type: types.EventPause}}
	case types.StatusPaused:
		s.Status = types.StatusPlaying
		return s, []types.Event{{Type: types.EventResume}}
	}
	return s, nil
}

// lockAndSpawn locks the active piece, scores any cleared lines, promotes the
// next piece and checks whether it fits. The game also ends when a piece locks
// with part of it still above the board: spawned pieces start in the hidden
// rows, so the spawn check alone never fails.
func lockAndSpawn(s types.GameState, rng Randomizer) (types.GameState, []types.Event) {
	var events []types.Event

	lockedOut := false
	for _, c := range s.Active.Cells() {
		if c.Y < 0 {
			lockedOut = true
		}
	}

	board, cleared := LockPiece(s.Active, s.Board)
	if n := len(cleared); n > 0 {
		s.Score += LineScore(n, s.Level)
		s.Lines += n
		level := LevelForLines(s.Lines)
		events = append(events, types.Event{Type: types.EventLineClear, Rows: cleared, Count: n})
		if level > s.Level {
			events = append(events, types.Event{Type: types.EventLevelUp, Level: level})
		}
		s.Level = level
	}
	s.Board = board
	events = append(events, types.Event{Type: types.EventLock})

	spawned := types.NewPiece(s.Next)
	if lockedOut || !CanPlace(spawned, &s.Board) {
		s.Status = types.StatusGameOver
		events = append(events, types.Event{Type: types.EventGameOver, Score: s.Score})
		return s, events
	}
	s.Active = spawned
	s.Next = rng.Next()

	return s, events
}
