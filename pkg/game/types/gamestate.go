package types

// Status is the phase of a game session.
type Status int

const (
	StatusMenu Status = iota
	StatusPlaying
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusMenu:
		return "Menu"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusGameOver:
		return "Game Over"
	}
	return "Unknown"
}

// GameState is the complete state of one game session.
// It holds no pointers, so copying a GameState snapshots it.
type GameState struct {
	// Board holds the locked cells
	Board Board `json:"board"`
	// Active is the falling piece
	Active Piece `json:"active"`
	// Next is the type of the piece that spawns after Active locks
	Next PieceType `json:"next"`
	// Score is the number of points earned this session
	Score int64 `json:"score"`
	// Level is the level index (0..9)
	Level int `json:"level"`
	// Lines is the total number of lines cleared this session
	Lines int `json:"lines"`
	// Status is the phase of the session
	Status Status `json:"status"`
}

// NewGameState returns a state sitting in the menu with an empty board.
func NewGameState() GameState {
	return GameState{
		Board:  NewBoard(),
		Status: StatusMenu,
	}
}
