package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/leave-desk/internal/application/service"
)

const (
	sessionContextKey = "session"
	tokenContextKey   = "session_token"
	tokenHeader       = "X-Session-Token"
)

// loggingMiddleware creates a logging middleware
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// requireSession resolves the bearer token into a session or aborts with 401
func requireSession(sessions *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.Request)
		if token == "" {
			abortWith(c, http.StatusUnauthorized, "missing session token")
			return
		}

		session, ok := sessions.Get(token)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "session expired or invalid")
			return
		}

		c.Set(sessionContextKey, session)
		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// requireAdmin aborts with 403 unless the session is the administrator's.
// Must run after requireSession.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).IsAdmin() {
			abortWith(c, http.StatusForbidden, "administrator only")
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) service.Session {
	if value, ok := c.Get(sessionContextKey); ok {
		if session, ok := value.(service.Session); ok {
			return session
		}
	}
	return service.Session{}
}

func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(tokenHeader))
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error:   message,
	})
}
