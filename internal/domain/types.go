package domain

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// Grid holds raw cell values. Row 0 is the top row, Rows-1 the bottom one.
// A cell is 0 (empty), +ownID (mine) or -ownID (opponent).
type Grid [Rows][Columns]int

// CellClass is a cell's ownership relative to the bot's own id.
type CellClass int

const (
	Free CellClass = iota
	Mine
	Opponent
)

func (c CellClass) String() string {
	switch c {
	case Mine:
		return "mine"
	case Opponent:
		return "opponent"
	default:
		return "free"
	}
}

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidGrid Error = "grid must be 6 rows by 7 columns"
	ErrInvalidID   Error = "bot id must be positive"

	// returned by stores for a missing or expired key
	ErrNotFound Error = "not found"
)
