package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mooreweb/internal/models"
	"mooreweb/internal/notify"
)

// GetBooking - GET /api/bookings/:code
//
// Serves the confirmation view. While the booking is Pending the watcher
// keeps re-fetching it upstream; the front-end just re-reads this
// endpoint and sees the freshest snapshot.
func (h *Handlers) GetBooking(c *gin.Context) {
	code := c.Param("code")

	booking, err := h.confirmations.Snapshot(c.Request.Context(), code, nil)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response := gin.H{"booking": booking}

	// Room details enrich the view but are not load-bearing.
	if room, err := h.hotel.GetRoom(c.Request.Context(), booking.RoomID); err == nil {
		response["room"] = room
	} else {
		slog.Warn("Failed to get room for confirmation view", "error", err, "room_id", booking.RoomID)
	}

	c.JSON(http.StatusOK, response)
}

// CancelBooking - POST /api/bookings/:code/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req struct {
		GuestEmail string `json:"guestEmail" binding:"required,email"`
		Reason     string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cancel := models.CancelBookingRequest{
		BookingCode: c.Param("code"),
		GuestEmail:  req.GuestEmail,
		Reason:      req.Reason,
	}
	if err := h.hotel.CancelBooking(c.Request.Context(), &cancel); err != nil {
		slog.Error("Failed to cancel booking", "error", err, "booking_code", cancel.BookingCode)
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notice": notify.Success("Booking Cancelled", "Your reservation has been cancelled."),
	})
}
