package models

import (
	"math"
	"time"
)

type RoomCategory string

const (
	RoomCategoryStandard  RoomCategory = "Standard"
	RoomCategoryBusiness  RoomCategory = "Business"
	RoomCategoryExecutive RoomCategory = "Executive"
	RoomCategorySuite     RoomCategory = "Suite"
)

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusCleaning    RoomStatus = "Cleaning"
	RoomStatusMaintenance RoomStatus = "Maintenance"
	RoomStatusReserved    RoomStatus = "Reserved"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "Pending"
	BookingStatusConfirmed  BookingStatus = "Confirmed"
	BookingStatusCheckedIn  BookingStatus = "CheckedIn"
	BookingStatusCheckedOut BookingStatus = "CheckedOut"
	BookingStatusCancelled  BookingStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPaid                 PaymentStatus = "Paid"
	PaymentStatusUnpaid               PaymentStatus = "Unpaid"
	PaymentStatusPartial              PaymentStatus = "Partial"
	PaymentStatusAwaitingVerification PaymentStatus = "AwaitingVerification"
)

type PaymentMethod string

const (
	PaymentMethodPaystack       PaymentMethod = "Paystack"
	PaymentMethodDirectTransfer PaymentMethod = "DirectTransfer"
)

// Room is owned and mutated exclusively by the hotel API. The portal only
// reads it.
type Room struct {
	ID            string       `json:"id"`
	RoomNumber    string       `json:"roomNumber"`
	Name          string       `json:"name"`
	Category      RoomCategory `json:"category"`
	PricePerNight int64        `json:"pricePerNight"`
	Status        RoomStatus   `json:"status"`
	Amenities     []string     `json:"amenities"`
	Images        []string     `json:"images"`
	IsOnline      bool         `json:"isOnline"`
	Floor         string       `json:"floor,omitempty"`
	Capacity      int          `json:"capacity,omitempty"`
	Description   string       `json:"description,omitempty"`
}

type ApplicationUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Phone         string `json:"phone,omitempty"`
	Status        string `json:"status"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"emailVerified,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

type Booking struct {
	ID                   string        `json:"id"`
	BookingCode          string        `json:"bookingCode"`
	RoomID               string        `json:"roomId"`
	GuestID              string        `json:"guestId,omitempty"`
	GuestFirstName       string        `json:"guestFirstName"`
	GuestLastName        string        `json:"guestLastName"`
	GuestEmail           string        `json:"guestEmail"`
	GuestPhone           string        `json:"guestPhone"`
	CheckIn              time.Time     `json:"checkIn"`
	CheckOut             time.Time     `json:"checkOut"`
	Amount               int64         `json:"amount"`
	Status               BookingStatus `json:"status"`
	PaymentStatus        PaymentStatus `json:"paymentStatus"`
	PaymentMethod        PaymentMethod `json:"paymentMethod"`
	TransactionReference string        `json:"transactionReference,omitempty"`
	Notes                string        `json:"notes,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
	PaymentURL           string        `json:"paymentUrl,omitempty"`
	PaymentInstruction   string        `json:"paymentInstruction,omitempty"`
}

// Settled reports whether the booking no longer needs status polling.
func (b *Booking) Settled() bool {
	return b.Status != BookingStatusPending
}

// StayRequest is the ephemeral room/date selection built from query
// parameters or search-form input.
type StayRequest struct {
	RoomID     string
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int
}

// Nights returns the stay length, rounding partial days up and never
// reporting less than one night.
func (s StayRequest) Nights() int {
	n := int(math.Ceil(s.CheckOut.Sub(s.CheckIn).Hours() / 24))
	if n < 1 {
		n = 1
	}
	return n
}

// Valid reports whether the date range can be booked at all.
func (s StayRequest) Valid() bool {
	return s.CheckOut.After(s.CheckIn)
}

// GuestInfo is the checkout contact form. All four fields are required and
// email must be email-shaped; validation happens before any network call.
type GuestInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

// AvailabilityResult is the hotel API's answer for a room and date range.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

// BankDetails are the static direct-transfer instructions shown at checkout.
type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	Note          string `json:"note"`
}
