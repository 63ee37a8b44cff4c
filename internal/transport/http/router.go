package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/game"
	"github.com/iamasit07/four-in-a-row-bot/internal/transport/http/middleware"
)

type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	// WebSocket is mounted at /ws when set. It authenticates on its own.
	WebSocket gin.HandlerFunc
}

func NewRouter(cfg RouterConfig, games *game.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gameHandler := NewGameHandler(games)
	historyHandler := NewHistoryHandler(games)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.POST("/games", gameHandler.CreateGame)
		api.DELETE("/games/:id", gameHandler.DeleteGame)
		api.POST("/games/:id/commands", gameHandler.Command)
		api.POST("/games/:id/move", gameHandler.Move)
		api.GET("/games/:id/decisions", historyHandler.GetDecisions)
	}

	if cfg.WebSocket != nil {
		router.GET("/ws", cfg.WebSocket)
	}
	return router
}
