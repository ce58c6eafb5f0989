package game

import (
	"time"

	"github.com/cbodonnell/tetris/pkg/game/constants"
	"github.com/cbodonnell/tetris/pkg/game/types"
)

// LockPiece stamps the piece into a copy of the board, removes every full row
// and pads the top with empty rows. It returns the new board and the indices
// of the cleared rows, in ascending order, as they were before removal.
func LockPiece(piece types.Piece, board types.Board) (types.Board, []int) {
	color := piece.Type.Color()
	for _, c := range piece.Cells() {
		if c.Y < 0 {
			continue
		}
		board[c.Y][c.X] = types.Cell{Filled: true, Color: color}
	}

	var cleared []int
	for y, row := range board {
		if row.Full() {
			cleared = append(cleared, y)
		}
	}
	if len(cleared) == 0 {
		return board, nil
	}

	// compact the surviving rows towards the floor
	result := types.NewBoard()
	dst := constants.BoardHeight - 1
	for y := constants.BoardHeight - 1; y >= 0; y-- {
		if board[y].Full() {
			continue
		}
		result[dst] = board[y]
		dst--
	}

	return result, cleared
}

// LineScore is the award for clearing count lines at once on a level.
func LineScore(count int, level int) int64 {
	if count < 0 || count >= len(constants.LineScores) {
		return 0
	}
	return constants.LineScores[count] * int64(level+1)
}

// LevelForLines returns the level reached after clearing lines in total.
func LevelForLines(lines int) int {
	level := lines / constants.LinesPerLevel
	if level > constants.MaxLevel {
		return constants.MaxLevel
	}
	return level
}

// DropInterval returns the gravity interval for a level.
func DropInterval(level int) time.Duration {
	if level < 0 {
		level = 0
	}
	if level > constants.MaxLevel {
		level = constants.MaxLevel
	}
	return constants.DropIntervals[level]
}
