package domain

import (
	"fmt"
	"strings"
)

// Board is the game state seen from one bot. It is a value type: copying a
// Board copies its grid, so every search node owns its cells.
type Board struct {
	grid   Grid
	ownID  int
	myTurn bool
}

func NewBoard(ownID int) Board {
	return Board{ownID: ownID}
}

// FromGrid builds a board from rows of raw protocol values. The input must
// be exactly Rows x Columns.
func FromGrid(cells [][]int, ownID int) (Board, error) {
	if ownID <= 0 {
		return Board{}, ErrInvalidID
	}
	if len(cells) != Rows {
		return Board{}, fmt.Errorf("%w: got %d rows", ErrInvalidGrid, len(cells))
	}

	var g Grid
	for r, row := range cells {
		if len(row) != Columns {
			return Board{}, fmt.Errorf("%w: row %d has %d cells", ErrInvalidGrid, r, len(row))
		}
		copy(g[r][:], row)
	}

	b := NewBoard(ownID)
	b.Update(g)
	return b, nil
}

// Update replaces the grid with the latest observed state. Any non-zero
// value other than the own id is taken as an opponent piece.
func (b *Board) Update(g Grid) {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			switch v := g[r][c]; {
			case v == 0:
			case v == b.ownID:
			default:
				g[r][c] = -b.ownID
			}
		}
	}
	b.grid = g
}

func (b Board) Grid() Grid {
	return b.grid
}

func (b Board) OwnID() int {
	return b.ownID
}

// MyTurn reports whether the next placement on this board is mine.
func (b Board) MyTurn() bool {
	return b.myTurn
}

func (b *Board) SetMyTurn(mine bool) {
	b.myTurn = mine
}

// openRow returns the lowest empty row of col, or -1 when the column is full.
func (b Board) openRow(col int) int {
	if col < 0 || col >= Columns {
		panic(fmt.Sprintf("domain: column %d out of range", col))
	}
	for row := Rows - 1; row >= 0; row-- {
		if b.grid[row][col] == 0 {
			return row
		}
	}
	return -1
}

func (b Board) CanPlace(col int) bool {
	return b.openRow(col) != -1
}

// Place drops the mover's piece into col. It reports false and leaves the
// board untouched when the column is full.
func (b *Board) Place(col int) bool {
	row := b.openRow(col)
	if row == -1 {
		return false
	}
	if b.myTurn {
		b.grid[row][col] = b.ownID
	} else {
		b.grid[row][col] = -b.ownID
	}
	return true
}

// Child returns the board after the mover plays col, with the turn passed
// to the other side.
func (b Board) Child(col int) (Board, bool) {
	child := b
	if !child.Place(col) {
		return Board{}, false
	}
	child.myTurn = !b.myTurn
	return child, true
}

// Height is the number of occupied cells in col.
func (b Board) Height(col int) int {
	row := b.openRow(col)
	return Rows - 1 - row
}

func (b Board) LegalColumns() []int {
	cols := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b.grid[0][col] == 0 {
			cols = append(cols, col)
		}
	}
	return cols
}

func (b Board) IsFull() bool {
	for col := 0; col < Columns; col++ {
		if b.grid[0][col] == 0 {
			return false
		}
	}
	return true
}

func (b Board) CellClass(row, col int) CellClass {
	switch v := b.grid[row][col]; {
	case v == 0:
		return Free
	case v == b.ownID:
		return Mine
	default:
		return Opponent
	}
}

func (b Board) classes(w Window) [ToWin]CellClass {
	var out [ToWin]CellClass
	for i, cell := range w {
		out[i] = b.CellClass(cell[0], cell[1])
	}
	return out
}

// Winner returns the owner of the first completed window in scan order, or
// Free when nobody has connected four.
func (b Board) Winner() CellClass {
	for _, w := range windows {
		cells := b.classes(w)
		if cells[0] == Free {
			continue
		}
		if cells[1] == cells[0] && cells[2] == cells[0] && cells[3] == cells[0] {
			return cells[0]
		}
	}
	return Free
}

func (b Board) IsTerminal() bool {
	return b.Winner() != Free
}

// Utility sums the window scores. Positive values favour me.
func (b Board) Utility() int {
	utility := 0
	for _, w := range windows {
		utility += scoreWindow(b.classes(w))
	}
	return utility
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			switch b.CellClass(row, col) {
			case Mine:
				sb.WriteString("X ")
			case Opponent:
				sb.WriteString("O ")
			default:
				sb.WriteString("_ ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
