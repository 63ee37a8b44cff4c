package bot

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"testing"

	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// boardFrom builds a board for bot id 1 from top-to-bottom rows where X is
// mine, O is the opponent and anything else is empty.
func boardFrom(t *testing.T, rows ...string) domain.Board {
	t.Helper()
	if len(rows) != domain.Rows {
		t.Fatalf("need %d rows, got %d", domain.Rows, len(rows))
	}
	cells := make([][]int, domain.Rows)
	for r, row := range rows {
		if len(row) != domain.Columns {
			t.Fatalf("row %d has %d cells", r, len(row))
		}
		cells[r] = make([]int, domain.Columns)
		for c, ch := range row {
			switch ch {
			case 'X':
				cells[r][c] = 1
			case 'O':
				cells[r][c] = 2
			}
		}
	}
	b, err := domain.FromGrid(cells, 1)
	if err != nil {
		t.Fatalf("bad board: %v", err)
	}
	return b
}

func nextMove(t *testing.T, e *Engine, b domain.Board) Move {
	t.Helper()
	m, err := e.NextMove(context.Background(), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestNextMoveOpensInCenter(t *testing.T) {
	b := domain.NewBoard(1)

	m := nextMove(t, New(WithSeed(1)), b)
	if m.Column != 3 {
		t.Fatalf("expected center column at the opening depth, got %d (score %d)", m.Column, m.Score)
	}
	if m.Depth != 5 || m.Fallback {
		t.Fatalf("unexpected move details %+v", m)
	}
}

// Columns 2 and 3 tie at some depths and the first maximum wins.
func TestOpeningColumnByDepth(t *testing.T) {
	cases := []struct {
		depth  int
		column int
		score  int
	}{
		{1, 3, 7},
		{2, 1, -3},
		{3, 3, 210},
		{4, 2, -6},
		{5, 3, 405},
		{6, 3, -6},
	}
	for _, tc := range cases {
		m := nextMove(t, New(WithMaxDepth(tc.depth), WithSeed(1)), domain.NewBoard(1))
		if m.Column != tc.column || m.Score != tc.score {
			t.Errorf("depth %d: got column %d score %d, want column %d score %d",
				tc.depth, m.Column, m.Score, tc.column, tc.score)
		}
	}
}

func TestNextMoveTakesImmediateWin(t *testing.T) {
	b := boardFrom(t,
		".......",
		".......",
		".......",
		"X......",
		"XO.....",
		"XOO....",
	)
	for _, depth := range []int{1, 3, 5} {
		m := nextMove(t, New(WithMaxDepth(depth), WithSeed(1)), b)
		if m.Column != 0 {
			t.Fatalf("depth %d: expected winning column 0, got %d", depth, m.Column)
		}
		if m.Nodes != 0 {
			t.Fatalf("depth %d: a first-column win should skip the search, expanded %d nodes", depth, m.Nodes)
		}
	}
}

func TestNextMoveBlocksVerticalThreat(t *testing.T) {
	b := boardFrom(t,
		".......",
		".......",
		".......",
		"....O..",
		"....O..",
		"XX..O..",
	)
	for _, depth := range []int{2, 3, 5} {
		if m := nextMove(t, New(WithMaxDepth(depth), WithSeed(1)), b); m.Column != 4 {
			t.Fatalf("depth %d: expected block in column 4, got %d", depth, m.Column)
		}
	}
}

func TestNextMoveBlocksHorizontalThreat(t *testing.T) {
	b := boardFrom(t,
		".......",
		".......",
		".......",
		".......",
		"..X....",
		".XOOO..",
	)
	for _, depth := range []int{2, 5} {
		if m := nextMove(t, New(WithMaxDepth(depth), WithSeed(1)), b); m.Column != 5 {
			t.Fatalf("depth %d: expected block in column 5, got %d", depth, m.Column)
		}
	}
}

func TestPruningMatchesPlainMinimax(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	checked := 0
	for checked < 40 {
		b := domain.NewBoard(1)
		b.SetMyTurn(rng.Intn(2) == 0)
		for i := rng.Intn(16); i > 0 && !b.IsTerminal(); i-- {
			cols := b.LegalColumns()
			b, _ = b.Child(cols[rng.Intn(len(cols))])
		}
		if b.IsTerminal() {
			continue
		}
		checked++

		for depth := 1; depth <= 4; depth++ {
			pruned := nextMove(t, New(WithMaxDepth(depth), WithSeed(1)), b)
			plain := nextMove(t, New(WithMaxDepth(depth), WithPruning(false), WithSeed(1)), b)
			if pruned.Column != plain.Column || pruned.Score != plain.Score {
				t.Fatalf("depth %d: pruned %d/%d, plain %d/%d\n%s",
					depth, pruned.Column, pruned.Score, plain.Column, plain.Score, b)
			}
			if pruned.Nodes > plain.Nodes {
				t.Fatalf("depth %d: pruning expanded more nodes (%d > %d)", depth, pruned.Nodes, plain.Nodes)
			}
		}
	}
}

func TestRootChildScoresMatchMinimax(t *testing.T) {
	b := boardFrom(t,
		".......",
		".......",
		".......",
		"...O...",
		"..XX...",
		".OXOO..",
	)
	b.SetMyTurn(true)
	for col := 0; col < domain.Columns; col++ {
		child, ok := b.Child(col)
		if !ok || child.IsTerminal() {
			continue
		}
		s := &search{ctx: context.Background(), maxDepth: 4, evaluate: UtilityEvaluator}
		pruned := s.minValue(child, 1, Sentinel, posInf)
		plain := s.minimax(child, 1, false)
		if pruned != plain {
			t.Fatalf("column %d: alpha-beta %d, minimax %d", col, pruned, plain)
		}
	}
}

func TestUpdateRoundFollowsSchedule(t *testing.T) {
	e := New(WithSeed(1))
	if e.MaxDepth() != 5 {
		t.Fatalf("expected initial depth 5, got %d", e.MaxDepth())
	}

	e.UpdateRound(6)
	if e.MaxDepth() != 5 {
		t.Fatalf("round 6: expected depth 5, got %d", e.MaxDepth())
	}
	e.UpdateRound(7)
	if e.MaxDepth() != 7 {
		t.Fatalf("round 7: expected depth 7, got %d", e.MaxDepth())
	}
	e.UpdateRound(30)
	if e.MaxDepth() != 13 || e.Round() != 30 {
		t.Fatalf("round 30: expected depth 13, got %d", e.MaxDepth())
	}
}

func TestFallbackPicksLegalColumns(t *testing.T) {
	b := boardFrom(t,
		"O.O..X.",
		"X.X..O.",
		"O.O..X.",
		"X.X..O.",
		"O.O..X.",
		"X.X..O.",
	)
	legal := map[int]bool{1: true, 3: true, 4: true, 6: true}
	stub := func(domain.Board) int { return Sentinel }
	e := New(WithMaxDepth(2), WithEvaluator(stub), WithSeed(42))

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		m := nextMove(t, e, b)
		if !m.Fallback {
			t.Fatalf("expected fallback move, got %+v", m)
		}
		if !legal[m.Column] {
			t.Fatalf("fallback played illegal column %d", m.Column)
		}
		seen[m.Column] = true
	}
	if len(seen) != len(legal) {
		t.Fatalf("fallback should reach every open column over many draws, saw %v", seen)
	}
}

func TestFallbackIsReproducible(t *testing.T) {
	b := domain.NewBoard(1)
	stub := func(domain.Board) int { return Sentinel }
	a := New(WithMaxDepth(1), WithEvaluator(stub), WithSeed(9))
	c := New(WithMaxDepth(1), WithEvaluator(stub), WithSeed(9))
	for i := 0; i < 50; i++ {
		if x, y := nextMove(t, a, b).Column, nextMove(t, c, b).Column; x != y {
			t.Fatalf("draw %d differs with the same seed: %d vs %d", i, x, y)
		}
	}
}

func TestCancelledSearchFallsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := domain.NewBoard(1)
	m, err := New(WithMaxDepth(9), WithSeed(5)).NextMove(ctx, b)
	if err != nil {
		t.Fatalf("a cancelled search must not fail: %v", err)
	}
	if !m.Fallback || m.Column < 0 || m.Column >= domain.Columns {
		t.Fatalf("expected a random legal fallback, got %+v", m)
	}
}

func TestNextMoveOnFullBoard(t *testing.T) {
	b := boardFrom(t,
		"XOXOXOX",
		"XOXOXOX",
		"OXOXOXO",
		"OXOXOXO",
		"XOXOXOX",
		"XOXOXOX",
	)
	_, err := New(WithSeed(1)).NextMove(context.Background(), b)
	if !errors.Is(err, ErrNoLegalMove) {
		t.Fatalf("expected ErrNoLegalMove, got %v", err)
	}
}

func TestNextMoveDoesNotMutateCallerBoard(t *testing.T) {
	b := boardFrom(t,
		".......",
		".......",
		".......",
		".......",
		".......",
		"...O...",
	)
	before := b.Grid()
	nextMove(t, New(WithMaxDepth(3), WithSeed(1)), b)
	if b.Grid() != before || b.MyTurn() {
		t.Fatal("NextMove changed the caller's board")
	}
}

func TestImmediateWinIgnoresOpponentWinOnBoard(t *testing.T) {
	b := boardFrom(t,
		".......",
		".......",
		"......O",
		"......O",
		"......O",
		"OXXX..O",
	)

	m := nextMove(t, New(WithMaxDepth(3), WithSeed(1)), b)
	if m.Column != 4 || m.Fallback {
		t.Fatalf("expected the winning column 4, got %+v", m)
	}
}

func TestWithScheduleIgnoresInvalidSchedule(t *testing.T) {
	for _, s := range []DepthSchedule{nil, {}, {{Round: 3, Depth: 5}}, {{Round: 0, Depth: 0}}} {
		e := New(WithSchedule(s), WithSeed(1))
		if e.Schedule().String() != DefaultSchedule.String() || e.MaxDepth() != 5 {
			t.Fatalf("schedule %v: expected default to be kept, got %s", s, e.Schedule())
		}
		e.UpdateRound(30)
		if e.MaxDepth() != 13 {
			t.Fatalf("schedule %v: expected depth 13 at round 30, got %d", s, e.MaxDepth())
		}
	}

	custom := DepthSchedule{{Round: 0, Depth: 2}, {Round: 10, Depth: 4}}
	e := New(WithSchedule(custom), WithSeed(1))
	custom[0].Depth = 9
	if e.MaxDepth() != 2 {
		t.Fatalf("expected depth 2 from a copied schedule, got %d", e.MaxDepth())
	}
}
