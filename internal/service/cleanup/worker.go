package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Pruner drops expired games held in process memory.
type Pruner interface {
	Prune() int
}

// DecisionCleaner deletes decision rows older than daysToKeep days.
type DecisionCleaner interface {
	CleanupOldDecisions(ctx context.Context, daysToKeep int) (int64, error)
}

// Worker periodically prunes expired games and old decisions. Either
// dependency may be nil.
type Worker struct {
	Games      Pruner
	Decisions  DecisionCleaner
	DaysToKeep int
	Interval   time.Duration
}

func NewWorker(games Pruner, decisions DecisionCleaner, daysToKeep int, interval time.Duration) *Worker {
	return &Worker{
		Games:      games,
		Decisions:  decisions,
		DaysToKeep: daysToKeep,
		Interval:   interval,
	}
}

// Run cleans once immediately, then on every tick until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Dur("interval", w.Interval).Msg("[CLEANUP] background worker started")
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[CLEANUP] background worker stopped")
			return nil
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) {
	if w.Games != nil {
		if removed := w.Games.Prune(); removed > 0 {
			log.Info().Int("removed", removed).Msg("[CLEANUP] pruned expired games")
		}
	}

	if w.Decisions == nil || w.DaysToKeep <= 0 {
		return
	}
	deleted, err := w.Decisions.CleanupOldDecisions(ctx, w.DaysToKeep)
	if err != nil {
		log.Error().Err(err).Msg("[CLEANUP] error cleaning up decisions")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Int("days", w.DaysToKeep).Msg("[CLEANUP] removed old decisions")
	}
}
