package game

import (
	"github.com/cbodonnell/tetris/pkg/game/constants"
	"github.com/cbodonnell/tetris/pkg/game/types"
)

// CanPlace reports whether the piece fits on the board: every cell must be
// inside the side walls and above the floor, and must not overlap a filled
// cell. Cells above the board (y < 0) are always allowed.
func CanPlace(piece types.Piece, board *types.Board) bool {
	for _, c := range piece.Cells() {
		if c.X < 0 || c.X >= constants.BoardWidth || c.Y >= constants.BoardHeight {
			return false
		}
		if c.Y >= 0 && board[c.Y][c.X].Filled {
			return false
		}
	}
	return true
}

// DropDistance returns how many rows the piece can fall before it is blocked.
func DropDistance(piece types.Piece, board *types.Board) int {
	rows := 0
	for CanPlace(piece.Translated(0, rows+1), board) {
		rows++
	}
	return rows
}

// Ghost returns the position the piece would land at if dropped.
func Ghost(piece types.Piece, board *types.Board) types.Piece {
	return piece.Translated(0, DropDistance(piece, board))
}
