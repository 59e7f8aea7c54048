package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mooreweb/internal/apperrors"
	"mooreweb/internal/models"
)

func newTestClient(handler http.HandlerFunc) (*HotelClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewHotelClient(HotelConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	return client, srv
}

func TestLoginSendsCredentialsAndReturnsToken(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)

		json.NewEncoder(w).Encode(models.AuthResponse{
			Token: "jwt-token",
			User:  models.ApplicationUser{Email: req.Email},
		})
	})
	defer srv.Close()

	resp, err := client.Login(context.Background(), &models.LoginRequest{
		Email:    "ada@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.Token)
}

func TestErrorBodyFieldMapIsJoined(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": map[string][]string{
				"Email":    {"Email is already registered"},
				"Password": {"Password too short", "Password needs a digit"},
			},
		})
	})
	defer srv.Close()

	_, err := client.Register(context.Background(), &models.RegisterRequest{})

	var reqErr *apperrors.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
	assert.Equal(t, "Email is already registered | Password too short | Password needs a digit", reqErr.Message)
}

func TestErrorBodyMessageFallback(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "Room already booked"})
	})
	defer srv.Close()

	_, err := client.GetRoom(context.Background(), "room-1")

	var reqErr *apperrors.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Room already booked", reqErr.Error())
}

func TestErrorWithoutBodyUsesStatusCode(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := client.ListRooms(context.Background())

	var reqErr *apperrors.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Error 502", reqErr.Error())
}

func TestUnauthorizedFiresHookAndReturnsSentinel(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()

	var hookToken string
	client.SetUnauthorizedHook(func(ctx context.Context, token string) {
		hookToken = token
	})

	_, err := client.GetMe(context.Background(), "stale-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "stale-token", hookToken)
}

func TestAvailabilityQueryUsesFullTimestamps(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Rooms/room-7/availability", r.URL.Path)
		assert.Equal(t, "2025-04-10T00:00:00Z", r.URL.Query().Get("checkIn"))
		assert.Equal(t, "2025-04-12T00:00:00Z", r.URL.Query().Get("checkOut"))
		json.NewEncoder(w).Encode(models.AvailabilityResult{Available: true})
	})
	defer srv.Close()

	in, _ := time.Parse("2006-01-02", "2025-04-10")
	out, _ := time.Parse("2006-01-02", "2025-04-12")

	result, err := client.CheckAvailability(context.Background(), "room-7", in, out)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCreateBookingSendsBearerToken(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Bookings", r.URL.Path)
		assert.Equal(t, "Bearer member-token", r.Header.Get("Authorization"))

		var req models.CreateBookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.PaymentMethodPaystack, req.PaymentMethod)

		json.NewEncoder(w).Encode(models.Booking{
			BookingCode: "MHS-9001",
			Status:      models.BookingStatusPending,
		})
	})
	defer srv.Close()

	booking, err := client.CreateBooking(context.Background(), "member-token", &models.CreateBookingRequest{
		RoomID:        "room-7",
		PaymentMethod: models.PaymentMethodPaystack,
	})
	require.NoError(t, err)
	assert.Equal(t, "MHS-9001", booking.BookingCode)
}

func TestGetBookingByCodeEscapesPath(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Bookings/code/MHS-9002", r.URL.Path)
		json.NewEncoder(w).Encode(models.Booking{BookingCode: "MHS-9002"})
	})
	defer srv.Close()

	booking, err := client.GetBookingByCode(context.Background(), "MHS-9002")
	require.NoError(t, err)
	assert.Equal(t, "MHS-9002", booking.BookingCode)
}
