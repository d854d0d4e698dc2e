package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/calorix-api/internal/store"
)

// bearerToken extracts the API token from the Authorization header. Browsers
// cannot set headers on a websocket handshake, so the access_token query
// parameter is accepted as a fallback.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), true
	}
	if token := c.Query("access_token"); token != "" {
		return token, true
	}
	return "", false
}

// authMiddleware validates the Bearer token and sets user_id on the context.
// Tokens are issued by cmd/create-user and stored under token:{token}.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		uid, err := store.ResolveToken(c, h.store, token)
		if errors.Is(err, store.ErrUnknownToken) {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}
		if err != nil {
			log.Printf("[authMiddleware] token lookup: %v", err)
			apiError(c, http.StatusInternalServerError, "storage unavailable")
			c.Abort()
			return
		}

		c.Set("user_id", uid)
		c.Next()
	}
}
