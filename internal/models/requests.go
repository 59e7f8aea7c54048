package models

// Wire models for the hotel API. Dates cross the wire as full ISO-8601
// timestamps even though guests pick date-only values.

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string          `json:"token"`
	User  ApplicationUser `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateBookingRequest struct {
	RoomID         string        `json:"roomId"`
	GuestFirstName string        `json:"guestFirstName"`
	GuestLastName  string        `json:"guestLastName"`
	GuestEmail     string        `json:"guestEmail"`
	GuestPhone     string        `json:"guestPhone"`
	CheckIn        string        `json:"checkIn"`
	CheckOut       string        `json:"checkOut"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	Notes          string        `json:"notes,omitempty"`
}

type CancelBookingRequest struct {
	BookingCode string `json:"bookingCode"`
	GuestEmail  string `json:"guestEmail"`
	Reason      string `json:"reason"`
}

type RotateSecurityRequest struct {
	OldPassword        string `json:"oldPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// RoomSearchParams mirror GET /rooms/search query parameters. Category,
// room number and amenity are optional filters.
type RoomSearchParams struct {
	CheckIn    string
	CheckOut   string
	Category   string
	RoomNumber string
	Amenity    string
}
