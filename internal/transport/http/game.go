package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/four-in-a-row-bot/internal/domain"
	"github.com/iamasit07/four-in-a-row-bot/internal/protocol"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/bot"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/game"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/session"
	"github.com/iamasit07/four-in-a-row-bot/internal/transport/http/middleware"
	"github.com/rs/zerolog/log"
)

type GameHandler struct {
	Games *game.Service
}

func NewGameHandler(gs *game.Service) *GameHandler {
	return &GameHandler{Games: gs}
}

type commandRequest struct {
	Line string `json:"line" binding:"required"`
}

type moveResponse struct {
	Column   int  `json:"column"`
	Score    int  `json:"score"`
	Depth    int  `json:"depth"`
	Fallback bool `json:"fallback"`
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	gameID, err := h.Games.CreateGame(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	log.Info().Str("game", gameID).Str("client", c.GetString(middleware.ClientKey)).Msg("[GAME] created")
	c.JSON(http.StatusCreated, gin.H{"gameId": gameID})
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.Games.DeleteGame(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Command runs one protocol line, e.g. "update game round 3".
func (h *GameHandler) Command(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply, err := h.Games.HandleLine(c.Request.Context(), c.Param("id"), req.Line)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply.Line})
}

func (h *GameHandler) Move(c *gin.Context) {
	var req game.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	move, err := h.Games.Move(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moveResponse{
		Column:   move.Column,
		Score:    move.Score,
		Depth:    move.Depth,
		Fallback: move.Fallback,
	})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, protocol.ErrMalformed),
		errors.Is(err, session.ErrUnsupported),
		errors.Is(err, session.ErrNotReady),
		errors.Is(err, domain.ErrInvalidGrid),
		errors.Is(err, domain.ErrInvalidID):
		status = http.StatusBadRequest
	case errors.Is(err, bot.ErrNoLegalMove):
		status = http.StatusConflict
	case errors.Is(err, game.ErrHistoryDisabled):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("[HTTP] request failed")
		c.JSON(status, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
