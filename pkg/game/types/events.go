package types

// EventType identifies something that happened during a game tick.
type EventType int

const (
	EventMove EventType = iota
	EventRotate
	EventSoftDrop
	EventLock
	EventLineClear
	EventLevelUp
	EventGameOver
	EventStart
	EventPause
	EventResume
)

func (t EventType) String() string {
	switch t {
	case EventMove:
		return "move"
	case EventRotate:
		return "rotate"
	case EventSoftDrop:
		return "softDrop"
	case EventLock:
		return "lock"
	case EventLineClear:
		return "lineClear"
	case EventLevelUp:
		return "levelUp"
	case EventGameOver:
		return "gameOver"
	case EventStart:
		return "start"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	}
	return "unknown"
}

// Event is published by the game loop for the effects, audio and UI layers.
// Consumers only read events; they never touch the board.
type Event struct {
	Type EventType
	// Rows holds the cleared row indices for EventLineClear
	Rows []int
	// Count is the number of cleared lines for EventLineClear,
	// the number of rows descended for EventSoftDrop
	Count int
	// Level is the new level for EventLevelUp
	Level int
	// Score is the final score for EventGameOver
	Score int64
}
