package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mooreweb/internal/middleware"
	"mooreweb/internal/models"
	"mooreweb/internal/notify"
	"mooreweb/internal/session"
)

// sessionMaxAge matches the session TTL in seconds.
const sessionMaxAge = 30 * 24 * 60 * 60

// Register - POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	auth, err := h.hotel.Register(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Registration failed", "error", err, "email", req.Email)
		h.renderError(c, err)
		return
	}

	h.openSession(c, auth)
	c.JSON(http.StatusCreated, gin.H{
		"user":   auth.User,
		"notice": notify.Success("Welcome", "Your account has been created."),
	})
}

// Login - POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	auth, err := h.hotel.Login(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Login failed", "error", err, "email", req.Email)
		h.renderError(c, err)
		return
	}

	h.openSession(c, auth)
	c.JSON(http.StatusOK, gin.H{"user": auth.User})
}

// Logout - POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	h.dropSession(c)
	c.Status(http.StatusNoContent)
}

// ForgotPassword - POST /api/auth/forgot-password
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.hotel.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": result.Message,
		"notice":  notify.Info("Reset Requested", result.Message),
	})
}

// VerifyEmail - GET /api/auth/verify-email
func (h *Handlers) VerifyEmail(c *gin.Context) {
	userID := c.Query("userId")
	token := c.Query("token")
	if userID == "" || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and token are required"})
		return
	}

	result, err := h.hotel.VerifyEmail(c.Request.Context(), userID, token)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": result.Message,
		"notice":  notify.Success("Email Verified", result.Message),
	})
}

// openSession stores the fresh token and profile and sets the cookie.
func (h *Handlers) openSession(c *gin.Context, auth *models.AuthResponse) {
	ctx := c.Request.Context()
	sessionID := session.NewSessionID()

	if err := h.sessions.SetToken(ctx, sessionID, auth.Token); err != nil {
		slog.Error("Failed to persist session token", "error", err)
	}
	if err := h.sessions.SetUser(ctx, sessionID, &auth.User); err != nil {
		slog.Error("Failed to cache session user", "error", err)
	}

	c.SetCookie(middleware.SessionCookie, sessionID, sessionMaxAge, "/", "", false, true)
}
