package bot

import (
	"context"
	"errors"
	"time"

	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrNoLegalMove = errors.New("no legal column on a full board")

// Move is the outcome of one NextMove call.
type Move struct {
	Column   int
	Score    int
	Depth    int
	Nodes    int
	Fallback bool
	Elapsed  time.Duration
}

// Engine picks columns with depth-limited minimax. An Engine is not safe for
// concurrent use; give each game its own.
type Engine struct {
	schedule DepthSchedule
	round    int
	maxDepth int
	pruning  bool
	evaluate Evaluator
	rng      Rand
}

type Option func(*Engine)

// WithSchedule replaces the depth schedule. An invalid schedule is logged
// and the previous one is kept.
func WithSchedule(s DepthSchedule) Option {
	return func(e *Engine) {
		valid, err := NewDepthSchedule(s...)
		if err != nil {
			log.Warn().Err(err).Msg("ignoring depth schedule")
			return
		}
		e.schedule = valid
	}
}

// WithMaxDepth searches to a fixed depth on every round.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth < 1 {
			depth = 1
		}
		e.schedule = DepthSchedule{{Round: 0, Depth: depth}}
	}
}

// WithPruning turns alpha-beta cutoffs on or off. Both modes return the
// same scores.
func WithPruning(on bool) Option {
	return func(e *Engine) { e.pruning = on }
}

func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) { e.evaluate = ev }
}

func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = NewRand(seed) }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		schedule: DefaultSchedule,
		pruning:  true,
		evaluate: UtilityEvaluator,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = newEntropyRand()
	}
	e.maxDepth = e.schedule.Depth(0)
	return e
}

// UpdateRound moves the engine to round and picks the depth for the
// searches that follow.
func (e *Engine) UpdateRound(round int) {
	e.round = round
	e.maxDepth = e.schedule.Depth(round)
}

func (e *Engine) Round() int {
	return e.round
}

func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

func (e *Engine) Schedule() DepthSchedule {
	return e.schedule
}

// NextMove returns the best column for me on board. A move that wins at
// once is taken without searching further. When the search yields nothing
// better than Sentinel, or ctx ends before it completes, a random legal
// column is played instead.
func (e *Engine) NextMove(ctx context.Context, board domain.Board) (Move, error) {
	start := time.Now()
	board.SetMyTurn(true)
	if board.IsFull() {
		return Move{Column: -1}, ErrNoLegalMove
	}

	s := &search{ctx: ctx, maxDepth: e.maxDepth, evaluate: e.evaluate}
	best := Move{Column: -1, Score: Sentinel, Depth: e.maxDepth}

	for col := 0; col < domain.Columns; col++ {
		child, ok := board.Child(col)
		if !ok {
			continue
		}
		if child.Winner() == domain.Mine {
			best.Column = col
			best.Score = e.evaluate(child)
			break
		}

		var score int
		if e.pruning {
			score = s.minValue(child, 1, Sentinel, posInf)
		} else {
			score = s.minimax(child, 1, false)
		}
		if s.aborted {
			break
		}
		if score > best.Score {
			best.Column = col
			best.Score = score
		}
	}

	best.Nodes = s.nodes
	if s.aborted || best.Column == -1 {
		best.Column = e.randomColumn(board)
		best.Fallback = true
		log.Warn().
			Bool("aborted", s.aborted).
			Int("round", e.round).
			Int("depth", e.maxDepth).
			Int("column", best.Column).
			Msg("search-fallback")
	}
	best.Elapsed = time.Since(start)

	log.Debug().
		Int("round", e.round).
		Int("column", best.Column).
		Int("score", best.Score).
		Int("depth", best.Depth).
		Int("nodes", best.Nodes).
		Dur("elapsed", best.Elapsed).
		Msg("move-selected")
	return best, nil
}

// randomColumn draws columns uniformly until it hits an open one. The board
// must have at least one.
func (e *Engine) randomColumn(board domain.Board) int {
	for {
		col := e.rng.Intn(domain.Columns)
		if board.CanPlace(col) {
			return col
		}
	}
}
