package domain

// Window is a run of ToWin cells along one direction, as (row, col) pairs.
type Window [ToWin][2]int

type direction struct {
	dRow, dCol int
}

// scan order for every start cell: vertical, horizontal, up-right, up-left
var directions = [...]direction{
	{-1, 0},
	{0, 1},
	{-1, 1},
	{-1, -1},
}

var windows = buildWindows()

// buildWindows lists every window that fits on the grid, starting from the
// bottom row upward and the left column rightward.
func buildWindows() []Window {
	var out []Window
	for row := Rows - 1; row >= 0; row-- {
		for col := 0; col < Columns; col++ {
			for _, d := range directions {
				endRow := row + d.dRow*(ToWin-1)
				endCol := col + d.dCol*(ToWin-1)
				if endRow < 0 || endRow >= Rows || endCol < 0 || endCol >= Columns {
					continue
				}

				var w Window
				for i := 0; i < ToWin; i++ {
					w[i] = [2]int{row + d.dRow*i, col + d.dCol*i}
				}
				out = append(out, w)
			}
		}
	}
	return out
}

// Windows returns a copy of the window list in scan order.
func Windows() []Window {
	out := make([]Window, len(windows))
	copy(out, windows)
	return out
}

const (
	WinScore         = 100000
	ThreeOpenScore   = 500
	TwoAdjacentScore = 200
	TwoSplitScore    = 10
	SingleScore      = 1
)

// scoreWindow scores one window from my perspective. A window holding
// pieces of both players can no longer be completed and is worth nothing.
func scoreWindow(cells [ToWin]CellClass) int {
	mine, opponent := 0, 0
	for _, c := range cells {
		switch c {
		case Mine:
			mine++
		case Opponent:
			opponent++
		}
	}

	switch {
	case mine > 0 && opponent > 0:
		return 0
	case mine > 0:
		return runScore(cells, Mine, mine)
	case opponent > 0:
		return -runScore(cells, Opponent, opponent)
	}
	return 0
}

func runScore(cells [ToWin]CellClass, owner CellClass, count int) int {
	switch count {
	case 4:
		return WinScore
	case 3:
		return ThreeOpenScore
	case 2:
		// the two pieces side by side leave the open cells at the ends
		for i := 0; i+1 < ToWin; i++ {
			if cells[i] == owner && cells[i+1] == owner {
				return TwoAdjacentScore
			}
		}
		return TwoSplitScore
	case 1:
		return SingleScore
	}
	return 0
}
