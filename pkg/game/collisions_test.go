package game

import (
	"testing"

	"github.com/cbodonnell/tetris/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

func TestCanPlace(t *testing.T) {
	filled := types.NewBoard()
	filled[5][4] = types.Cell{Filled: true, Color: types.ColorRed}
	filled[0][3] = types.Cell{Filled: true, Color: types.ColorRed}

	tests := []struct {
		name  string
		piece types.Piece
		board types.Board
		want  bool
	}{
		{
			name:  "spawn on empty board",
			piece: types.NewPiece(types.PieceI),
			board: types.NewBoard(),
			want:  true,
		},
		{
			name:  "left wall",
			piece: types.Piece{Type: types.PieceI, X: -1, Y: 5},
			board: types.NewBoard(),
			want:  false,
		},
		{
			name:  "against right wall",
			piece: types.Piece{Type: types.PieceI, X: 6, Y: 5},
			board: types.NewBoard(),
			want:  true,
		},
		{
			name:  "right wall",
			piece: types.Piece{Type: types.PieceI, X: 7, Y: 5},
			board: types.NewBoard(),
			want:  false,
		},
		{
			name:  "bottom row",
			piece: types.Piece{Type: types.PieceI, X: 3, Y: 19},
			board: types.NewBoard(),
			want:  true,
		},
		{
			name:  "below floor",
			piece: types.Piece{Type: types.PieceI, X: 3, Y: 20},
			board: types.NewBoard(),
			want:  false,
		},
		{
			name:  "overlaps filled cell",
			piece: types.Piece{Type: types.PieceI, X: 3, Y: 5},
			board: filled,
			want:  false,
		},
		{
			name:  "cells above the board ignore filled cells",
			piece: types.Piece{Type: types.PieceI, X: 3, Y: -1},
			board: filled,
			want:  true,
		},
		{
			name:  "walls apply above the board",
			piece: types.Piece{Type: types.PieceI, X: 8, Y: -2},
			board: types.NewBoard(),
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanPlace(tt.piece, &tt.board)
			assert.Equal(t, tt.want, got)
			// unchanged inputs give the same answer
			assert.Equal(t, got, CanPlace(tt.piece, &tt.board))
		})
	}
}

func TestDropDistance(t *testing.T) {
	board := types.NewBoard()
	board[10][5] = types.Cell{Filled: true, Color: types.ColorBlue}

	tests := []struct {
		name  string
		piece types.Piece
		want  int
	}{
		{
			name:  "I from spawn lands on the obstacle",
			piece: types.NewPiece(types.PieceI),
			want:  11,
		},
		{
			name:  "O from spawn",
			piece: types.NewPiece(types.PieceO),
			want:  20,
		},
		{
			name:  "blocked by stack",
			piece: types.Piece{Type: types.PieceO, X: 4, Y: 0},
			want:  8,
		},
		{
			name:  "already resting",
			piece: types.Piece{Type: types.PieceO, X: 0, Y: 18},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DropDistance(tt.piece, &board))
		})
	}
}

func TestGhost(t *testing.T) {
	board := types.NewBoard()
	ghost := Ghost(types.NewPiece(types.PieceT), &board)
	assert.Equal(t, types.Piece{Type: types.PieceT, X: 3, Y: 18}, ghost)
}
