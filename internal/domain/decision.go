package domain

import "time"

// Decision is one move chosen by the engine for a hosted game.
type Decision struct {
	ID        int64         `json:"id"`
	GameID    string        `json:"gameId"`
	Round     int           `json:"round"`
	BotID     int           `json:"botId"`
	Column    int           `json:"column"`
	Score     int           `json:"score"`
	Depth     int           `json:"depth"`
	Nodes     int           `json:"nodes"`
	Fallback  bool          `json:"fallback"`
	Elapsed   time.Duration `json:"elapsedNs"`
	Field     [][]int       `json:"field"`
	CreatedAt time.Time     `json:"createdAt"`
}
