package bot

import (
	"context"

	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
)

// how many nodes to expand between context checks
const pollInterval = 1 << 12

// search holds the state of one NextMove call. Every node works on its own
// copy of the board, so nothing is undone on the way back up.
type search struct {
	ctx      context.Context
	maxDepth int
	evaluate Evaluator
	nodes    int
	aborted  bool
}

func (s *search) visit() bool {
	s.nodes++
	if !s.aborted && s.nodes%pollInterval == 0 && s.ctx.Err() != nil {
		s.aborted = true
	}
	return s.aborted
}

// leaf reports whether state ends the recursion: a connected four, the
// depth limit, or a full board.
func (s *search) leaf(state domain.Board, depth int) bool {
	return depth == s.maxDepth || state.IsTerminal() || state.IsFull()
}

// maxValue scores a node where I move next.
func (s *search) maxValue(state domain.Board, depth, alpha, beta int) int {
	if s.visit() {
		return alpha
	}
	if s.leaf(state, depth) {
		return s.evaluate(state)
	}

	for col := 0; col < domain.Columns; col++ {
		child, ok := state.Child(col)
		if !ok {
			continue
		}
		if v := s.minValue(child, depth+1, alpha, beta); v > alpha {
			alpha = v
		}
		if alpha >= beta {
			return alpha
		}
	}
	return alpha
}

// minValue scores a node where the opponent moves next.
func (s *search) minValue(state domain.Board, depth, alpha, beta int) int {
	if s.visit() {
		return beta
	}
	if s.leaf(state, depth) {
		return s.evaluate(state)
	}

	for col := 0; col < domain.Columns; col++ {
		child, ok := state.Child(col)
		if !ok {
			continue
		}
		if v := s.maxValue(child, depth+1, alpha, beta); v < beta {
			beta = v
		}
		if beta <= alpha {
			return beta
		}
	}
	return beta
}

// minimax is the unpruned search with the same leaf rules as maxValue and
// minValue.
func (s *search) minimax(state domain.Board, depth int, maximizing bool) int {
	if s.visit() {
		return 0
	}
	if s.leaf(state, depth) {
		return s.evaluate(state)
	}

	value := posInf
	if maximizing {
		value = Sentinel
	}
	for col := 0; col < domain.Columns; col++ {
		child, ok := state.Child(col)
		if !ok {
			continue
		}
		v := s.minimax(child, depth+1, !maximizing)
		if maximizing && v > value || !maximizing && v < value {
			value = v
		}
	}
	return value
}
