package websocket

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/four-in-a-row-bot/internal/service/game"
	"github.com/iamasit07/four-in-a-row-bot/pkg/auth"
	"github.com/iamasit07/four-in-a-row-bot/pkg/httputil"
	"github.com/iamasit07/four-in-a-row-bot/pkg/uid"
	"github.com/rs/zerolog/log"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

// Handler serves the line protocol over a websocket: every text message
// carries one or more protocol lines, every reply goes back as its own
// text message.
type Handler struct {
	ConnManager *ConnectionManager
	Games       *game.Service
	JWTSecret   string
	Upgrader    websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, gs *game.Service, jwtSecret string) *Handler {
	return &Handler{
		ConnManager: cm,
		Games:       gs,
		JWTSecret:   jwtSecret,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket authenticates, then upgrades the connection.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token, err := httputil.GetTokenFromRequest(c.Request)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	claims, err := auth.ValidateToken(h.JWTSecret, token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[WS] upgrade error")
		return
	}

	gameID, err := uid.NewGameID()
	if err != nil {
		log.Error().Err(err).Msg("[WS] could not assign game id")
		conn.Close()
		return
	}
	h.handleConnection(c.Request.Context(), conn, gameID, claims.Client)
}

// handleConnection runs one game until the peer goes away.
func (h *Handler) handleConnection(ctx context.Context, conn *websocket.Conn, gameID, client string) {
	h.ConnManager.AddConnection(gameID, conn)
	defer h.ConnManager.RemoveConnection(gameID)

	logger := log.With().Str("game", gameID).Str("client", client).Logger()
	logger.Info().Msg("[WS] connection opened")
	defer logger.Info().Msg("[WS] connection closed")

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	sess := h.Games.NewSession()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("[WS] disconnected unexpectedly")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		for _, line := range strings.Split(string(data), "\n") {
			reply, err := sess.Handle(ctx, line)
			if err != nil {
				logger.Warn().Err(err).Str("line", line).Msg("[WS] rejected line")
				if werr := h.write(conn, "error "+err.Error()); werr != nil {
					return
				}
				continue
			}
			if reply.Move != nil {
				h.Games.RecordDecision(gameID, sess.State(), *reply.Move)
			}
			if reply.Line == "" {
				continue
			}
			if err := h.write(conn, reply.Line); err != nil {
				logger.Warn().Err(err).Msg("[WS] write failed")
				return
			}
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, line string) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, []byte(line))
}
