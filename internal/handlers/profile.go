package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mooreweb/internal/middleware"
	"mooreweb/internal/models"
	"mooreweb/internal/notify"
)

// Me - GET /api/profile/me
func (h *Handlers) Me(c *gin.Context) {
	token, _ := middleware.Token(c)

	user, err := h.hotel.GetMe(c.Request.Context(), token)
	if err != nil {
		h.renderError(c, err)
		return
	}

	// Keep the cached profile in step with the upstream record.
	if sessionID, ok := middleware.SessionID(c); ok {
		if err := h.sessions.SetUser(c.Request.Context(), sessionID, user); err != nil {
			slog.Error("Failed to refresh cached user", "error", err)
		}
	}

	c.JSON(http.StatusOK, user)
}

// MyBookings - GET /api/profile/bookings
func (h *Handlers) MyBookings(c *gin.Context) {
	token, _ := middleware.Token(c)

	bookings, err := h.hotel.GetMyBookings(c.Request.Context(), token)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// UpdateMe - PATCH /api/profile/me
func (h *Handlers) UpdateMe(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, _ := middleware.Token(c)
	user, err := h.hotel.UpdateMe(c.Request.Context(), token, &req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if sessionID, ok := middleware.SessionID(c); ok {
		if err := h.sessions.SetUser(c.Request.Context(), sessionID, user); err != nil {
			slog.Error("Failed to refresh cached user", "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"notice": notify.Success("Profile Updated", "Your details have been saved."),
	})
}

// RotateSecurity - POST /api/profile/rotate-security
func (h *Handlers) RotateSecurity(c *gin.Context) {
	var req models.RotateSecurityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.NewPassword != req.ConfirmNewPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new passwords do not match"})
		return
	}

	token, _ := middleware.Token(c)
	result, err := h.hotel.RotateSecurity(c.Request.Context(), token, &req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": result.Message,
		"notice":  notify.Success("Password Updated", result.Message),
	})
}
