package availability

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mooreweb/internal/models"
)

type fakeRoomAPI struct {
	calls  atomic.Int64
	result *models.AvailabilityResult
	err    error
}

func (f *fakeRoomAPI) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*models.AvailabilityResult, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func date(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func TestCheckRejectsInvertedDatesWithoutNetwork(t *testing.T) {
	api := &fakeRoomAPI{result: &models.AvailabilityResult{Available: true}}
	checker := NewChecker(api, 5*time.Millisecond)

	result, err := checker.Check(context.Background(), "room-1", date("2025-03-03"), date("2025-03-01"))

	assert.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, DateOrderMessage, result.Message)
	assert.Equal(t, int64(0), api.calls.Load())
}

func TestCheckEqualDatesSkipNetwork(t *testing.T) {
	api := &fakeRoomAPI{result: &models.AvailabilityResult{Available: true}}
	checker := NewChecker(api, 5*time.Millisecond)

	result, err := checker.Check(context.Background(), "room-1", date("2025-03-01"), date("2025-03-01"))

	assert.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, int64(0), api.calls.Load())
}

func TestCheckDebounceSupersedesOlderInput(t *testing.T) {
	api := &fakeRoomAPI{result: &models.AvailabilityResult{Available: true}}
	checker := NewChecker(api, 50*time.Millisecond)

	type outcome struct {
		result *models.AvailabilityResult
		err    error
	}
	first := make(chan outcome, 1)

	go func() {
		res, err := checker.Check(context.Background(), "room-1", date("2025-03-01"), date("2025-03-03"))
		first <- outcome{res, err}
	}()

	// Give the first check time to register before the newer input lands.
	time.Sleep(10 * time.Millisecond)

	res, err := checker.Check(context.Background(), "room-1", date("2025-03-02"), date("2025-03-04"))
	assert.NoError(t, err)
	assert.True(t, res.Available)

	got := <-first
	assert.ErrorIs(t, got.err, ErrSuperseded)
	assert.Nil(t, got.result)

	// Only the newest input reached the hotel API.
	assert.Equal(t, int64(1), api.calls.Load())
}

func TestCheckFailsOpenOnTransportError(t *testing.T) {
	api := &fakeRoomAPI{err: errors.New("connection refused")}
	checker := NewChecker(api, time.Millisecond)

	result, err := checker.Check(context.Background(), "room-1", date("2025-03-01"), date("2025-03-03"))

	assert.NoError(t, err)
	assert.True(t, result.Available)
	assert.Empty(t, result.Message)
}

func TestCheckSurfacesUnavailableVerdict(t *testing.T) {
	api := &fakeRoomAPI{result: &models.AvailabilityResult{
		Available: false,
		Message:   "Room unavailable for selected dates",
	}}
	checker := NewChecker(api, time.Millisecond)

	result, err := checker.Check(context.Background(), "room-1", date("2025-03-01"), date("2025-03-03"))

	assert.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "Room unavailable for selected dates", result.Message)
}

func TestLatestReturnsCachedVerdict(t *testing.T) {
	api := &fakeRoomAPI{result: &models.AvailabilityResult{Available: false, Message: "booked out"}}
	checker := NewChecker(api, time.Millisecond)

	assert.Nil(t, checker.Latest("room-1", date("2025-03-01"), date("2025-03-03")))

	_, err := checker.CheckNow(context.Background(), "room-1", date("2025-03-01"), date("2025-03-03"))
	assert.NoError(t, err)

	cached := checker.Latest("room-1", date("2025-03-01"), date("2025-03-03"))
	assert.NotNil(t, cached)
	assert.False(t, cached.Available)
	assert.Equal(t, "booked out", cached.Message)
}
