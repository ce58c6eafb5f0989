package constants

import "time"

const (
	// BoardWidth is the number of columns in the playfield
	BoardWidth int = 10
	// BoardHeight is the number of rows in the playfield
	BoardHeight int = 20

	// SpawnX is the column of a freshly spawned piece's origin
	SpawnX int = 3
	// SpawnY is the row of a freshly spawned piece's origin.
	// Negative rows are the hidden spawn buffer above the board.
	SpawnY int = -2

	// LinesPerLevel is the number of cleared lines needed to advance a level
	LinesPerLevel int = 10
	// MaxLevel is the highest level index
	MaxLevel int = 9

	// DASDelay is how long a key must be held before it starts repeating
	DASDelay time.Duration = 200 * time.Millisecond
	// DASInterval is the time between repeats once a key is repeating
	DASInterval time.Duration = 50 * time.Millisecond

	// CellSize is the side of a board cell in pixels
	CellSize int = 30

	// MaxParticles is the capacity of the particle pool
	MaxParticles int = 200

	// MaxHighScores is the number of entries kept by the high score store
	MaxHighScores int = 100
	// LeaderboardSize is the number of entries shown and used to qualify a score
	LeaderboardSize int = 10
)

// LineScores is the base score for clearing 0 to 4 lines at once (NES scoring).
// The award is multiplied by level+1.
var LineScores = [5]int64{0, 40, 100, 300, 1200}

// DropIntervals is the gravity interval for each level.
var DropIntervals = [MaxLevel + 1]time.Duration{
	1000 * time.Millisecond,
	900 * time.Millisecond,
	800 * time.Millisecond,
	700 * time.Millisecond,
	600 * time.Millisecond,
	500 * time.Millisecond,
	400 * time.Millisecond,
	300 * time.Millisecond,
	200 * time.Millisecond,
	100 * time.Millisecond,
}
