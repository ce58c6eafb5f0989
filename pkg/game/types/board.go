package types

import "github.com/cbodonnell/tetris/pkg/game/constants"

// Color identifies the color of a filled cell.
type Color uint8

const (
	ColorNone Color = iota
	ColorCyan
	ColorYellow
	ColorPurple
	ColorGreen
	ColorRed
	ColorBlue
	ColorOrange
)

// RGB returns the 8-bit components of the color.
func (c Color) RGB() (r, g, b uint8) {
	switch c {
	case ColorCyan:
		return 0x00, 0xF0, 0xF0
	case ColorYellow:
		return 0xF0, 0xF0, 0x00
	case ColorPurple:
		return 0xA0, 0x00, 0xF0
	case ColorGreen:
		return 0x00, 0xF0, 0x00
	case ColorRed:
		return 0xF0, 0x00, 0x00
	case ColorBlue:
		return 0x00, 0x00, 0xF0
	case ColorOrange:
		return 0xF0, 0xA0, 0x00
	}
	return 0, 0, 0
}

// Cell is one square of the board.
type Cell struct {
	Filled bool  `json:"filled"`
	Color  Color `json:"color"`
}

// Row is one horizontal line of the board.
type Row [constants.BoardWidth]Cell

// Full reports whether every cell of the row is filled.
func (r Row) Full() bool {
	for _, c := range r {
		if !c.Filled {
			return false
		}
	}
	return true
}

// Board is the playfield. It is a value type: assigning it copies every cell.
// Row 0 is the top of the visible board.
type Board [constants.BoardHeight]Row

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// InBounds reports whether the point addresses a cell of the board.
func (b *Board) InBounds(p Point) bool {
	return p.X >= 0 && p.X < constants.BoardWidth && p.Y >= 0 && p.Y < constants.BoardHeight
}

// At returns the cell at p. p must be in bounds.
func (b *Board) At(p Point) Cell {
	return b[p.Y][p.X]
}

// FilledCount returns the number of filled cells.
func (b Board) FilledCount() int {
	n := 0
	for _, row := range b {
		for _, c := range row {
			if c.Filled {
				n++
			}
		}
	}
	return n
}
