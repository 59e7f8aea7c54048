package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"mooreweb/internal/apperrors"
	"mooreweb/internal/logger"
	"mooreweb/internal/models"
)

// State is the position of one checkout attempt. Submission entry points
// are only legal in specific states, which makes double-submission
// structurally unreachable rather than a matter of a disabled button.
type State string

const (
	StateCollectingInfo       State = "CollectingInfo"
	StateSelectingPayment     State = "SelectingPayment"
	StateAwaitingTransfer     State = "AwaitingTransferConfirmation"
	StateSubmittingTransfer   State = "SubmittingTransfer"
	StateSubmittingToGateway  State = "SubmittingToGateway"
	StateRedirected           State = "Redirected"
	StateConfirmed            State = "Confirmed"
	StateFailed               State = "Failed"
)

const (
	paystackNote = "Authorized via Member Portal"
	transferNote = "User claims payment sent. Awaiting admin verification."
)

// UnavailableError blocks submission when the last known availability
// result said the room cannot be booked. Distinct from transport failures,
// which never block.
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Room is unavailable for the selected dates."
}

// BookingAPI is the slice of the hotel client the orchestrator needs.
type BookingAPI interface {
	CreateBooking(ctx context.Context, token string, req *models.CreateBookingRequest) (*models.Booking, error)
}

type Config struct {
	// PublicBaseURL is this portal's origin, used to build the returnUrl
	// handed to the payment gateway.
	PublicBaseURL string

	// AllowGatewayless preserves the upstream quirk where a Paystack
	// booking arriving without a paymentUrl is treated as already settled.
	// Turned off, such a response fails the checkout instead.
	AllowGatewayless bool

	Bank models.BankDetails
}

// Outcome is the terminal result of a successful run: either a hard
// redirect to the hosted payment page, a booking for the confirmation
// view, or bank-transfer instructions awaiting the guest's confirmation.
type Outcome struct {
	RedirectURL     string              `json:"redirectUrl,omitempty"`
	Booking         *models.Booking     `json:"booking,omitempty"`
	TransferDetails *models.BankDetails `json:"transferDetails,omitempty"`
}

// Attempt is one run of the checkout workflow for a stay. Exactly one
// CreateBooking call is issued per successful run.
type Attempt struct {
	api BookingAPI
	cfg Config

	mu           sync.Mutex
	state        State
	stay         models.StayRequest
	guest        models.GuestInfo
	method       models.PaymentMethod
	availability *models.AvailabilityResult
	token        string
	lastErr      error
}

var validate = validator.New()

func NewAttempt(api BookingAPI, cfg Config, stay models.StayRequest, token string) *Attempt {
	return &Attempt{
		api:   api,
		cfg:   cfg,
		state: StateCollectingInfo,
		stay:  stay,
		token: token,
	}
}

func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Method returns the selected payment instrument, empty until chosen.
func (a *Attempt) Method() models.PaymentMethod {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.method
}

// SetAvailability records the most recent checker result. Submission
// trusts this value rather than re-verifying synchronously; the hotel API
// re-checks authoritatively when the booking is created.
func (a *Attempt) SetAvailability(res *models.AvailabilityResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.availability = res
}

// ProvideGuestInfo validates the contact fields. Failure keeps the attempt
// in CollectingInfo and returns field-level messages; no network call has
// happened yet.
func (a *Attempt) ProvideGuestInfo(info models.GuestInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateCollectingInfo {
		return apperrors.ErrNotSubmittable
	}

	if err := validate.Struct(info); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fieldName(fe.Field())] = fieldMessage(fe)
			}
		}
		return &apperrors.ValidationError{Fields: fields}
	}

	a.guest = info
	a.state = StateSelectingPayment
	return nil
}

// SelectPaymentMethod records the chosen instrument. The attempt stays in
// SelectingPayment until Submit.
func (a *Attempt) SelectPaymentMethod(method models.PaymentMethod) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateSelectingPayment {
		return apperrors.ErrNotSubmittable
	}
	if method != models.PaymentMethodPaystack && method != models.PaymentMethodDirectTransfer {
		return fmt.Errorf("unknown payment method %q", method)
	}

	a.method = method
	return nil
}

// Submit runs the payment path for the selected method. For DirectTransfer
// it surfaces the bank instructions and waits for ConfirmTransferSent; for
// Paystack it creates the booking and yields either a gateway redirect or
// an immediately settled booking.
func (a *Attempt) Submit(ctx context.Context) (*Outcome, error) {
	a.mu.Lock()

	if a.state != StateSelectingPayment {
		a.mu.Unlock()
		return nil, apperrors.ErrNotSubmittable
	}
	if a.method == "" {
		a.mu.Unlock()
		return nil, errors.New("select a payment instrument")
	}
	if a.availability != nil && !a.availability.Available {
		msg := a.availability.Message
		a.mu.Unlock()
		return nil, &UnavailableError{Message: msg}
	}

	if a.method == models.PaymentMethodDirectTransfer {
		a.state = StateAwaitingTransfer
		a.mu.Unlock()
		bank := a.cfg.Bank
		return &Outcome{TransferDetails: &bank}, nil
	}

	// Leave the submittable state before touching the network so a second
	// Submit fails for the whole round trip, not just until the click.
	a.state = StateSubmittingToGateway
	req := a.buildRequest(models.PaymentMethodPaystack, paystackNote)
	a.mu.Unlock()

	booking, err := a.api.CreateBooking(ctx, a.token, req)
	if err != nil {
		a.fail(StateSelectingPayment, err)
		return nil, err
	}

	if booking.PaymentURL != "" {
		returnURL := a.cfg.PublicBaseURL + "/#/booking-confirmation/" + url.PathEscape(booking.BookingCode)
		redirect := booking.PaymentURL + "&returnUrl=" + url.QueryEscape(returnURL)

		a.mu.Lock()
		a.state = StateRedirected
		a.mu.Unlock()
		return &Outcome{RedirectURL: redirect}, nil
	}

	if !a.cfg.AllowGatewayless {
		err := errors.New("payment gateway did not return a checkout link")
		a.fail(StateSelectingPayment, err)
		return nil, err
	}

	// No gateway URL: the upstream treated the booking as settled, so the
	// flow lands straight on confirmation.
	logger.WithContext(ctx).Warn("Paystack booking returned no payment URL, treating as settled",
		"booking_code", booking.BookingCode)

	a.mu.Lock()
	a.state = StateConfirmed
	a.mu.Unlock()
	return &Outcome{Booking: booking}, nil
}

// ConfirmTransferSent is the guest's explicit "payment sent" claim. Only
// then is the booking created, flagged for manual verification.
func (a *Attempt) ConfirmTransferSent(ctx context.Context) (*Outcome, error) {
	a.mu.Lock()

	if a.state != StateAwaitingTransfer {
		a.mu.Unlock()
		return nil, apperrors.ErrNotSubmittable
	}
	if a.availability != nil && !a.availability.Available {
		msg := a.availability.Message
		a.mu.Unlock()
		return nil, &UnavailableError{Message: msg}
	}

	a.state = StateSubmittingTransfer
	req := a.buildRequest(models.PaymentMethodDirectTransfer, transferNote)
	a.mu.Unlock()

	booking, err := a.api.CreateBooking(ctx, a.token, req)
	if err != nil {
		// Back to the transfer modal so the guest can retry.
		a.fail(StateAwaitingTransfer, err)
		return nil, err
	}

	a.mu.Lock()
	a.state = StateConfirmed
	a.mu.Unlock()
	return &Outcome{Booking: booking}, nil
}

// CancelTransfer closes the bank-details modal without booking anything.
func (a *Attempt) CancelTransfer() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateAwaitingTransfer {
		return apperrors.ErrNotSubmittable
	}
	a.state = StateSelectingPayment
	return nil
}

// fail records the failed submission and settles on the state that allows
// retry, so the modal can stay open and the guest can try again.
func (a *Attempt) fail(next State, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastErr = err
	a.state = next
}

// LastError returns the error from the most recent failed submission, or
// nil if the attempt has never failed.
func (a *Attempt) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Failed reports whether a submission on this attempt has failed. The
// Failed state is transient: the attempt immediately returns to a
// retryable state, but the error stays visible here.
func (a *Attempt) Failed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr != nil
}

func (a *Attempt) buildRequest(method models.PaymentMethod, notes string) *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		RoomID:         a.stay.RoomID,
		GuestFirstName: a.guest.FirstName,
		GuestLastName:  a.guest.LastName,
		GuestEmail:     a.guest.Email,
		GuestPhone:     a.guest.Phone,
		CheckIn:        a.stay.CheckIn.UTC().Format(time.RFC3339),
		CheckOut:       a.stay.CheckOut.UTC().Format(time.RFC3339),
		PaymentMethod:  method,
		Notes:          notes,
	}
}

// GuestFromUser pre-populates the contact form from an authenticated
// profile, splitting the display name the way the member portal does.
func GuestFromUser(user *models.ApplicationUser) models.GuestInfo {
	first := user.FirstName
	last := user.LastName
	if first == "" && user.Name != "" {
		parts := strings.Fields(user.Name)
		first = parts[0]
		if len(parts) > 1 {
			last = strings.Join(parts[1:], " ")
		} else {
			last = first
		}
	}

	phone := user.Phone
	if phone == "" {
		phone = "+2340000000000"
	}

	return models.GuestInfo{
		FirstName: first,
		LastName:  last,
		Email:     user.Email,
		Phone:     phone,
	}
}

func fieldName(structField string) string {
	switch structField {
	case "FirstName":
		return "firstName"
	case "LastName":
		return "lastName"
	case "Email":
		return "email"
	case "Phone":
		return "phone"
	}
	return strings.ToLower(structField)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "FirstName":
		return "First name is required"
	case "LastName":
		return "Last name is required"
	case "Email":
		if fe.Tag() == "email" {
			return "Enter a valid email address"
		}
		return "Email is required"
	case "Phone":
		return "Phone number is required"
	}
	return "Invalid value"
}
