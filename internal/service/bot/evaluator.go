package bot

import (
	"math"

	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
)

const (
	// Sentinel starts the root maximisation; a search that never beats it
	// found no usable move.
	Sentinel = math.MinInt32
	posInf   = math.MaxInt32
)

// Evaluator scores a board from the bot's point of view.
type Evaluator func(b domain.Board) int

// UtilityEvaluator is the window-scan heuristic of the board itself.
var UtilityEvaluator Evaluator = domain.Board.Utility
