package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devcatalyst/intake-service/internal/models"
	"github.com/devcatalyst/intake-service/internal/services"
	"github.com/devcatalyst/intake-service/internal/utils"
)

const (
	HeaderRequestID    = "X-Request-ID"
	HeaderSessionToken = "X-Session-Token"
)

// RequestID reuses the caller's X-Request-ID or assigns one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.ContextWithRequestID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// NoStore marks responses as uncacheable.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

// RequireSession loads the bearer session for scope and puts it on the request context.
func RequireSession(sessions services.SessionService, scope models.SessionScope, logger utils.Logger) gin.HandlerFunc {
	base := NewBaseHandler(logger)
	return func(c *gin.Context) {
		token := sessionToken(c.Request)
		if token == "" {
			base.RespondWithError(c, http.StatusUnauthorized, MsgUnauthorized, nil)
			c.Abort()
			return
		}

		session, err := sessions.Validate(c.Request.Context(), token, scope)
		if err != nil {
			base.handleServiceError(c, err)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(services.ContextWithSession(c.Request.Context(), session))
		c.Set("session", session)
		c.Next()
	}
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(HeaderSessionToken))
}
