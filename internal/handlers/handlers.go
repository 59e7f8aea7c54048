package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mooreweb/internal/apperrors"
	"mooreweb/internal/availability"
	"mooreweb/internal/checkout"
	"mooreweb/internal/confirmation"
	"mooreweb/internal/external"
	"mooreweb/internal/middleware"
	"mooreweb/internal/notify"
	"mooreweb/internal/session"
)

type Handlers struct {
	hotel         *external.HotelClient
	sessions      session.Store
	checker       *availability.Checker
	confirmations *confirmation.Registry
	checkoutCfg   checkout.Config
}

func NewHandlers(hotel *external.HotelClient, sessions session.Store, checker *availability.Checker, confirmations *confirmation.Registry, checkoutCfg checkout.Config) *Handlers {
	return &Handlers{
		hotel:         hotel,
		sessions:      sessions,
		checker:       checker,
		confirmations: confirmations,
		checkoutCfg:   checkoutCfg,
	}
}

// renderError maps the error taxonomy onto HTTP responses. Critical-path
// failures always carry a notice the front-end can show in its modal.
func (h *Handlers) renderError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}

	var unavailable *checkout.UnavailableError
	if errors.As(err, &unavailable) {
		c.JSON(http.StatusConflict, gin.H{
			"error":  unavailable.Error(),
			"notice": notify.Error("Room Unavailable", unavailable.Error()),
		})
		return
	}

	if errors.Is(err, apperrors.ErrUnauthorized) {
		h.dropSession(c)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":  apperrors.ErrUnauthorized.Error(),
			"notice": notify.Error("Session Expired", "Please login again."),
		})
		return
	}

	if errors.Is(err, apperrors.ErrBookingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Registry record not found. Please verify your reference code.",
		})
		return
	}

	if errors.Is(err, apperrors.ErrNotSubmittable) {
		c.JSON(http.StatusConflict, gin.H{"error": apperrors.ErrNotSubmittable.Error()})
		return
	}

	var reqErr *apperrors.RequestError
	if errors.As(err, &reqErr) {
		// Upstream 4xx means the request itself was rejected; pass the
		// status through. Upstream 5xx is our gateway's problem.
		status := http.StatusBadGateway
		if reqErr.Status >= 400 && reqErr.Status < 500 {
			status = reqErr.Status
		}
		c.JSON(status, gin.H{
			"error":  reqErr.Error(),
			"notice": notify.Error("Transaction Failed", reqErr.Error()),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":  err.Error(),
		"notice": notify.Error("Transaction Failed", err.Error()),
	})
}

// dropSession clears both the stored session and the cookie.
func (h *Handlers) dropSession(c *gin.Context) {
	if sessionID, ok := middleware.SessionID(c); ok {
		if err := h.sessions.Clear(c.Request.Context(), sessionID); err != nil {
			c.Error(err) //nolint:errcheck
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
}

// parseDate accepts the date-only values guests pick as well as full
// timestamps arriving back from the gateway redirect.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
