package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStayRequestNights(t *testing.T) {
	stay := StayRequest{
		CheckIn:  date("2025-03-01"),
		CheckOut: date("2025-03-03"),
	}

	assert.True(t, stay.Valid())
	assert.Equal(t, 2, stay.Nights())
}

func TestStayRequestNightsPartialDayRoundsUp(t *testing.T) {
	stay := StayRequest{
		CheckIn:  date("2025-03-01"),
		CheckOut: date("2025-03-02").Add(6 * time.Hour),
	}

	assert.Equal(t, 2, stay.Nights())
}

func TestStayRequestNightsMinimumOne(t *testing.T) {
	stay := StayRequest{
		CheckIn:  date("2025-03-01"),
		CheckOut: date("2025-03-01").Add(2 * time.Hour),
	}

	assert.Equal(t, 1, stay.Nights())
}

func TestStayRequestInvalidRange(t *testing.T) {
	stay := StayRequest{
		CheckIn:  date("2025-03-03"),
		CheckOut: date("2025-03-01"),
	}

	assert.False(t, stay.Valid())

	same := StayRequest{
		CheckIn:  date("2025-03-01"),
		CheckOut: date("2025-03-01"),
	}

	assert.False(t, same.Valid())
}

func TestStayTotal(t *testing.T) {
	stay := StayRequest{
		CheckIn:  date("2025-04-10"),
		CheckOut: date("2025-04-12"),
	}

	var pricePerNight int64 = 150000
	assert.Equal(t, int64(300000), int64(stay.Nights())*pricePerNight)
}

func TestBookingSettled(t *testing.T) {
	pending := Booking{Status: BookingStatusPending}
	assert.False(t, pending.Settled())

	confirmed := Booking{Status: BookingStatusConfirmed}
	assert.True(t, confirmed.Settled())

	cancelled := Booking{Status: BookingStatusCancelled}
	assert.True(t, cancelled.Settled())
}
