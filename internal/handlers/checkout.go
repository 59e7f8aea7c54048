package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"mooreweb/internal/checkout"
	"mooreweb/internal/middleware"
	"mooreweb/internal/models"
	"mooreweb/internal/notify"
)

type checkoutRequest struct {
	CheckIn       string               `json:"checkIn" binding:"required"`
	CheckOut      string               `json:"checkOut" binding:"required"`
	Guests        int                  `json:"guests"`
	Guest         *models.GuestInfo    `json:"guest"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required"`
}

// Quote - GET /api/checkout/:roomId/quote
//
// The checkout summary: room, nights, total and the latest availability
// verdict, plus the bank details shown for direct transfers.
func (h *Handlers) Quote(c *gin.Context) {
	stay, ok := h.stayFromQuery(c)
	if !ok {
		return
	}

	room, err := h.hotel.GetRoom(c.Request.Context(), stay.RoomID)
	if err != nil {
		slog.Error("Failed to get room for quote", "error", err, "room_id", stay.RoomID)
		h.renderError(c, err)
		return
	}

	result, err := h.checker.CheckNow(c.Request.Context(), stay.RoomID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		h.renderError(c, err)
		return
	}

	nights := stay.Nights()
	c.JSON(http.StatusOK, gin.H{
		"room":         room,
		"nights":       nights,
		"totalAmount":  int64(nights) * room.PricePerNight,
		"availability": result,
		"bankDetails":  h.checkoutCfg.Bank,
	})
}

// Checkout - POST /api/checkout/:roomId
//
// Runs the checkout workflow. The response is one of three terminal
// shapes: bank-transfer instructions awaiting confirmation, a hard
// redirect to the hosted payment page, or a settled booking.
func (h *Handlers) Checkout(c *gin.Context) {
	attempt, ok := h.buildAttempt(c)
	if !ok {
		return
	}

	outcome, err := attempt.Submit(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	switch {
	case outcome.TransferDetails != nil:
		c.JSON(http.StatusOK, gin.H{
			"transferDetails": outcome.TransferDetails,
			"notice":          notify.Info("Direct Transfer Details", "Please make a transfer and confirm with \"Payment Sent\"."),
		})
	case outcome.RedirectURL != "":
		c.JSON(http.StatusOK, gin.H{"redirectUrl": outcome.RedirectURL})
	default:
		h.handoffBooking(c, outcome.Booking)
		c.JSON(http.StatusCreated, gin.H{
			"booking": outcome.Booking,
			"notice":  notify.Success("Stay Confirmed", "Your reservation has been recorded."),
		})
	}
}

// TransferSent - POST /api/checkout/:roomId/transfer-sent
//
// The guest's explicit "payment sent" claim. Creates the booking flagged
// for manual verification.
func (h *Handlers) TransferSent(c *gin.Context) {
	attempt, ok := h.buildAttempt(c)
	if !ok {
		return
	}

	// Only the transfer path may land here. Any other method would run its
	// own payment flow inside Submit and create a booking on the way to a
	// guaranteed failure.
	if attempt.Method() != models.PaymentMethodDirectTransfer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transfer confirmation requires the DirectTransfer payment method"})
		return
	}

	if _, err := attempt.Submit(c.Request.Context()); err != nil {
		h.renderError(c, err)
		return
	}

	outcome, err := attempt.ConfirmTransferSent(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.handoffBooking(c, outcome.Booking)
	c.JSON(http.StatusCreated, gin.H{
		"booking": outcome.Booking,
		"notice":  notify.Success("Stay Pending", "Your reservation is awaiting payment verification."),
	})
}

// buildAttempt walks a fresh attempt through info collection and payment
// selection from the request body. Returns false if a response has already
// been written.
func (h *Handlers) buildAttempt(c *gin.Context) (*checkout.Attempt, bool) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkIn must be YYYY-MM-DD"})
		return nil, false
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOut must be YYYY-MM-DD"})
		return nil, false
	}

	stay := models.StayRequest{
		RoomID:     c.Param("roomId"),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		GuestCount: req.Guests,
	}
	if !stay.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Check-out must be after check-in"})
		return nil, false
	}

	token, _ := middleware.Token(c)
	attempt := checkout.NewAttempt(h.hotel, h.checkoutCfg, stay, token)

	// Trust the most recent availability verdict for these dates; fall
	// back to a fresh check when the guest jumped straight to checkout.
	result := h.checker.Latest(stay.RoomID, stay.CheckIn, stay.CheckOut)
	if result == nil {
		result, err = h.checker.CheckNow(c.Request.Context(), stay.RoomID, stay.CheckIn, stay.CheckOut)
		if err != nil {
			h.renderError(c, err)
			return nil, false
		}
	}
	attempt.SetAvailability(result)

	guest := h.resolveGuest(c, req.Guest)
	if err := attempt.ProvideGuestInfo(guest); err != nil {
		h.renderError(c, err)
		return nil, false
	}

	if err := attempt.SelectPaymentMethod(req.PaymentMethod); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	return attempt, true
}

// resolveGuest prefers explicit form input, then falls back to the
// authenticated profile for member checkouts.
func (h *Handlers) resolveGuest(c *gin.Context, provided *models.GuestInfo) models.GuestInfo {
	if provided != nil {
		return *provided
	}
	if user, ok := middleware.User(c); ok {
		return checkout.GuestFromUser(user)
	}
	return models.GuestInfo{}
}

// handoffBooking seeds the confirmation watcher with the booking returned
// by checkout, so the confirmation view needs no redundant fetch.
func (h *Handlers) handoffBooking(c *gin.Context, booking *models.Booking) {
	if booking == nil {
		return
	}
	if _, err := h.confirmations.Snapshot(c.Request.Context(), booking.BookingCode, booking); err != nil {
		slog.Error("Failed to seed confirmation watcher", "error", err, "booking_code", booking.BookingCode)
	}
}

// stayFromQuery builds the stay selection from query parameters.
func (h *Handlers) stayFromQuery(c *gin.Context) (models.StayRequest, bool) {
	checkIn, err := parseDate(c.Query("checkIn"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkIn is required as YYYY-MM-DD"})
		return models.StayRequest{}, false
	}
	checkOut, err := parseDate(c.Query("checkOut"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOut is required as YYYY-MM-DD"})
		return models.StayRequest{}, false
	}

	return models.StayRequest{
		RoomID:   c.Param("roomId"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}, true
}
