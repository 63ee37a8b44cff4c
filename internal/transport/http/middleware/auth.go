package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/four-in-a-row-bot/pkg/auth"
	"github.com/iamasit07/four-in-a-row-bot/pkg/httputil"
	"github.com/rs/zerolog/log"
)

const ClientKey = "client"

// AuthMiddleware rejects requests without a valid API token and stores the
// client name under ClientKey.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := auth.ValidateToken(secret, tokenString)
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("[AUTH] rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ClientKey, claims.Client)
		c.Next()
	}
}
