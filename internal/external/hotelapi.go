package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"mooreweb/internal/apperrors"
	"mooreweb/internal/metrics"
	"mooreweb/internal/models"
)

// HotelClient is the single choke point for all calls to the hotel
// management API. It performs no retries: booking creation in particular
// must never be silently retried, a retry could double-book.
type HotelClient struct {
	baseURL    string
	httpClient *http.Client

	// onUnauthorized is invoked for any 401 so the held token can be
	// discarded before the error propagates.
	onUnauthorized func(ctx context.Context, token string)
}

type HotelConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewHotelClient(cfg HotelConfig) *HotelClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &HotelClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SetUnauthorizedHook registers the callback fired on 401 responses.
func (hc *HotelClient) SetUnauthorizedHook(fn func(ctx context.Context, token string)) {
	hc.onUnauthorized = fn
}

// apiError is the structured error body the hotel API returns on non-2xx
// responses: either a field -> messages map or a single message.
type apiError struct {
	Errors  map[string][]string `json:"errors"`
	Message string              `json:"message"`
}

func (hc *HotelClient) request(ctx context.Context, op, method, path string, body any, token string, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, hc.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := hc.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestDuration.WithLabelValues(op, "transport_error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("hotel api unreachable: %w", err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestDuration.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusUnauthorized {
		if hc.onUnauthorized != nil && token != "" {
			hc.onUnauthorized(ctx, token)
		}
		return apperrors.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return hc.parseError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (hc *HotelClient) parseError(resp *http.Response) error {
	reqErr := &apperrors.RequestError{Status: resp.StatusCode}

	var body apiError
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if len(body.Errors) > 0 {
			// Stable field order so the joined message is deterministic.
			fields := make([]string, 0, len(body.Errors))
			for field := range body.Errors {
				fields = append(fields, field)
			}
			sort.Strings(fields)

			var all []string
			for _, field := range fields {
				all = append(all, body.Errors[field]...)
			}
			reqErr.Message = strings.Join(all, " | ")
		} else if body.Message != "" {
			reqErr.Message = body.Message
		}
	}

	return reqErr
}

// isoTimestamp normalizes a date to the full ISO-8601 UTC timestamp the API
// expects, regardless of the date-only precision collected from the guest.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Authentication. Upstream routes are case-sensitive.

func (hc *HotelClient) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	var result models.AuthResponse
	if err := hc.request(ctx, "register", http.MethodPost, "/Auth/register", req, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (hc *HotelClient) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	var result models.AuthResponse
	if err := hc.request(ctx, "login", http.MethodPost, "/Auth/login", req, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (hc *HotelClient) ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error) {
	var result models.MessageResponse
	req := models.ForgotPasswordRequest{Email: email}
	if err := hc.request(ctx, "forgot_password", http.MethodPost, "/Auth/forgot-password", &req, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (hc *HotelClient) VerifyEmail(ctx context.Context, userID, token string) (*models.MessageResponse, error) {
	var result models.MessageResponse
	path := "/Auth/verify-email?userId=" + url.QueryEscape(userID) + "&token=" + url.QueryEscape(token)
	if err := hc.request(ctx, "verify_email", http.MethodGet, path, nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Rooms. Public endpoints, no token.

func (hc *HotelClient) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := hc.request(ctx, "list_rooms", http.MethodGet, "/Rooms", nil, "", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (hc *HotelClient) SearchRooms(ctx context.Context, params models.RoomSearchParams, checkIn, checkOut time.Time) ([]models.Room, error) {
	query := url.Values{}
	query.Set("checkIn", isoTimestamp(checkIn))
	query.Set("checkOut", isoTimestamp(checkOut))
	if params.Category != "" && params.Category != "All" {
		query.Set("category", params.Category)
	}
	if params.RoomNumber != "" {
		query.Set("roomNumber", params.RoomNumber)
	}
	if params.Amenity != "" {
		query.Set("amenity", params.Amenity)
	}

	var rooms []models.Room
	if err := hc.request(ctx, "search_rooms", http.MethodGet, "/Rooms/search?"+query.Encode(), nil, "", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (hc *HotelClient) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := hc.request(ctx, "get_room", http.MethodGet, "/Rooms/"+url.PathEscape(id), nil, "", &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (hc *HotelClient) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*models.AvailabilityResult, error) {
	query := url.Values{}
	query.Set("checkIn", isoTimestamp(checkIn))
	query.Set("checkOut", isoTimestamp(checkOut))

	var result models.AvailabilityResult
	path := "/Rooms/" + url.PathEscape(roomID) + "/availability?" + query.Encode()
	if err := hc.request(ctx, "check_availability", http.MethodGet, path, nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Bookings.

func (hc *HotelClient) CreateBooking(ctx context.Context, token string, req *models.CreateBookingRequest) (*models.Booking, error) {
	var booking models.Booking
	if err := hc.request(ctx, "create_booking", http.MethodPost, "/Bookings", req, token, &booking); err != nil {
		return nil, err
	}
	metrics.BookingsCreated.WithLabelValues(string(req.PaymentMethod)).Inc()
	return &booking, nil
}

func (hc *HotelClient) GetBookingByCode(ctx context.Context, code string) (*models.Booking, error) {
	var booking models.Booking
	if err := hc.request(ctx, "get_booking", http.MethodGet, "/Bookings/code/"+url.PathEscape(code), nil, "", &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (hc *HotelClient) CancelBooking(ctx context.Context, req *models.CancelBookingRequest) error {
	return hc.request(ctx, "cancel_booking", http.MethodPost, "/Bookings/cancel", req, "", nil)
}

// Profile. All protected.

func (hc *HotelClient) GetMe(ctx context.Context, token string) (*models.ApplicationUser, error) {
	var user models.ApplicationUser
	if err := hc.request(ctx, "get_me", http.MethodGet, "/Profile/me", nil, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (hc *HotelClient) GetMyBookings(ctx context.Context, token string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := hc.request(ctx, "my_bookings", http.MethodGet, "/Profile/bookings", nil, token, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (hc *HotelClient) RotateSecurity(ctx context.Context, token string, req *models.RotateSecurityRequest) (*models.MessageResponse, error) {
	var result models.MessageResponse
	if err := hc.request(ctx, "rotate_security", http.MethodPost, "/Profile/rotate-security", req, token, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (hc *HotelClient) UpdateMe(ctx context.Context, token string, req *models.UpdateProfileRequest) (*models.ApplicationUser, error) {
	var user models.ApplicationUser
	if err := hc.request(ctx, "update_me", http.MethodPatch, "/Profile/me", req, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
