package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/game"
)

type HistoryHandler struct {
	Games *game.Service
}

func NewHistoryHandler(gs *game.Service) *HistoryHandler {
	return &HistoryHandler{Games: gs}
}

type decisionItem struct {
	Round     int       `json:"round"`
	Column    int       `json:"column"`
	Score     int       `json:"score"`
	Depth     int       `json:"depth"`
	Fallback  bool      `json:"fallback"`
	ElapsedMS int64     `json:"elapsedMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetDecisions lists the moves the engine chose for a game.
func (h *HistoryHandler) GetDecisions(c *gin.Context) {
	decisions, err := h.Games.Decisions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]decisionItem, 0, len(decisions))
	for _, d := range decisions {
		items = append(items, decisionItem{
			Round:     d.Round,
			Column:    d.Column,
			Score:     d.Score,
			Depth:     d.Depth,
			Fallback:  d.Fallback,
			ElapsedMS: d.Elapsed.Milliseconds(),
			CreatedAt: d.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, items)
}
