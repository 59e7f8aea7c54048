package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mooreweb/internal/models"
	"mooreweb/internal/session"
)

// SessionCookie is the cookie carrying the opaque session id.
const SessionCookie = "mhs_session"

const (
	ctxSessionID = "session_id"
	ctxToken     = "token"
	ctxUser      = "user"
)

// SessionID returns the session id attached to the request, if any.
func SessionID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxSessionID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// Token returns the auth token resolved for the request, if any.
func Token(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxToken)
	if !ok {
		return "", false
	}
	token, ok := v.(string)
	return token, ok
}

// User returns the cached profile resolved for the request, if any.
func User(c *gin.Context) (*models.ApplicationUser, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.ApplicationUser)
	return user, ok
}

// CORS middleware for browser requests
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// Logger middleware for structured request logging
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		sessionID, hasSession := SessionID(c)

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if hasSession {
			logFields = append(logFields, "session_id", sessionID)
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
		}
	}
}

// Recovery middleware with detailed panic logging
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// Session resolves the session cookie into a token and cached profile.
// Visitors without a valid session stay anonymous; there is no third
// state once resolution completes.
func Session(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		c.Set(ctxSessionID, sessionID)

		ctx := c.Request.Context()
		token, err := store.Token(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				slog.Error("Session token lookup failed", "error", err, "session_id", sessionID)
			}
			c.Next()
			return
		}
		c.Set(ctxToken, token)

		if user, err := store.User(ctx, sessionID); err == nil {
			c.Set(ctxUser, user)
		}

		c.Next()
	}
}

// RequireAuth rejects requests without a resolved token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Token(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please login again."})
			return
		}
		c.Next()
	}
}
