package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
)

type DecisionRepo struct {
	DB *sql.DB
}

func NewDecisionRepo(db *sql.DB) *DecisionRepo {
	return &DecisionRepo{DB: db}
}

// SaveDecision appends one engine decision to the log.
func (r *DecisionRepo) SaveDecision(ctx context.Context, d domain.Decision) error {
	fieldJSON, err := json.Marshal(d.Field)
	if err != nil {
		return fmt.Errorf("failed to marshal field: %w", err)
	}

	query := `
	INSERT INTO decision (game_id, round, bot_id, column_idx, score, depth, nodes, fallback, elapsed_ms, field)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = r.DB.ExecContext(ctx, query,
		d.GameID, d.Round, d.BotID, d.Column, d.Score, d.Depth, d.Nodes, d.Fallback,
		d.Elapsed.Milliseconds(), fieldJSON)
	if err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	return nil
}

// GetDecisionsByGame returns a game's decisions in round order.
func (r *DecisionRepo) GetDecisionsByGame(ctx context.Context, gameID string, limit int) ([]domain.Decision, error) {
	query := `
	SELECT id, game_id, round, bot_id, column_idx, score, depth, nodes, fallback, elapsed_ms, field, created_at
	FROM decision
	WHERE game_id = $1
	ORDER BY round ASC, id ASC
	LIMIT $2;
	`
	rows, err := r.DB.QueryContext(ctx, query, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	decisions := []domain.Decision{}
	for rows.Next() {
		var d domain.Decision
		var elapsedMS int64
		var fieldJSON []byte
		if err := rows.Scan(&d.ID, &d.GameID, &d.Round, &d.BotID, &d.Column, &d.Score, &d.Depth,
			&d.Nodes, &d.Fallback, &elapsedMS, &fieldJSON, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		d.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if err := json.Unmarshal(fieldJSON, &d.Field); err != nil {
			return nil, fmt.Errorf("failed to unmarshal field: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// CleanupOldDecisions deletes decisions older than daysToKeep days.
func (r *DecisionRepo) CleanupOldDecisions(ctx context.Context, daysToKeep int) (int64, error) {
	query := `DELETE FROM decision WHERE created_at < NOW() - make_interval(days => $1);`
	res, err := r.DB.ExecContext(ctx, query, daysToKeep)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old decisions: %w", err)
	}
	return res.RowsAffected()
}
