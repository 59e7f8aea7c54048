package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mooreweb/internal/availability"
	"mooreweb/internal/models"
)

// ListRooms - GET /api/rooms
func (h *Handlers) ListRooms(c *gin.Context) {
	rooms, err := h.hotel.ListRooms(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list rooms", "error", err)
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// SearchRooms - GET /api/rooms/search
func (h *Handlers) SearchRooms(c *gin.Context) {
	checkIn, err := parseDate(c.Query("checkIn"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkIn is required as YYYY-MM-DD"})
		return
	}
	checkOut, err := parseDate(c.Query("checkOut"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOut is required as YYYY-MM-DD"})
		return
	}

	params := models.RoomSearchParams{
		Category:   c.Query("category"),
		RoomNumber: c.Query("roomNumber"),
		Amenity:    c.Query("amenity"),
	}

	rooms, err := h.hotel.SearchRooms(c.Request.Context(), params, checkIn, checkOut)
	if err != nil {
		slog.Error("Room search failed", "error", err)
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// GetRoom - GET /api/rooms/:id
func (h *Handlers) GetRoom(c *gin.Context) {
	room, err := h.hotel.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("Failed to get room", "error", err, "room_id", c.Param("id"))
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// CheckAvailability - GET /api/rooms/:id/availability
//
// Fired on every room/date input change; the checker waits for input
// stability before touching the hotel API. A request superseded by newer
// input gets 204 and the front-end keeps the answer to the newest one.
func (h *Handlers) CheckAvailability(c *gin.Context) {
	checkIn, err := parseDate(c.Query("checkIn"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkIn is required as YYYY-MM-DD"})
		return
	}
	checkOut, err := parseDate(c.Query("checkOut"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOut is required as YYYY-MM-DD"})
		return
	}

	result, err := h.checker.Check(c.Request.Context(), c.Param("id"), checkIn, checkOut)
	if err != nil {
		if errors.Is(err, availability.ErrSuperseded) {
			c.Status(http.StatusNoContent)
			return
		}
		// Context cancellation: the guest already navigated away.
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, result)
}
