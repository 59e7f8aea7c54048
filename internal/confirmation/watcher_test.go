package confirmation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mooreweb/internal/apperrors"
	"mooreweb/internal/models"
)

type fakeBookingAPI struct {
	mu      sync.Mutex
	calls   int
	booking *models.Booking
	err     error
}

func (f *fakeBookingAPI) GetBookingByCode(ctx context.Context, code string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeBookingAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeBookingAPI) set(b *models.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.booking = b
}

func pendingBooking(code string) *models.Booking {
	return &models.Booking{
		BookingCode:   code,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
}

func TestSnapshotSeedAvoidsInitialFetch(t *testing.T) {
	api := &fakeBookingAPI{}
	reg := NewRegistry(api, Config{Interval: time.Hour})
	defer reg.Close()

	seed := pendingBooking("MHS-1001")
	got, err := reg.Snapshot(context.Background(), "MHS-1001", seed)
	require.NoError(t, err)
	assert.Equal(t, "MHS-1001", got.BookingCode)
	assert.Equal(t, 0, api.callCount())

	// Snapshot hands out a copy, not the shared record.
	got.Status = models.BookingStatusCancelled
	again, err := reg.Snapshot(context.Background(), "MHS-1001", nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, again.Status)
}

func TestSnapshotFetchesWhenUnseeded(t *testing.T) {
	api := &fakeBookingAPI{booking: &models.Booking{
		BookingCode: "MHS-1002",
		Status:      models.BookingStatusConfirmed,
	}}
	reg := NewRegistry(api, Config{Interval: time.Hour})
	defer reg.Close()

	got, err := reg.Snapshot(context.Background(), "MHS-1002", nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, got.Status)
	assert.Equal(t, 1, api.callCount())

	// Settled on arrival: later snapshots serve the cached record.
	_, err = reg.Snapshot(context.Background(), "MHS-1002", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, api.callCount())
}

func TestSnapshotFetchFailureRendersNotFoundOnce(t *testing.T) {
	api := &fakeBookingAPI{err: errors.New("boom")}
	reg := NewRegistry(api, Config{Interval: time.Hour})
	defer reg.Close()

	_, err := reg.Snapshot(context.Background(), "MHS-404", nil)
	assert.ErrorIs(t, err, apperrors.ErrBookingNotFound)

	// The failed lookup leaves nothing behind; codes that never resolve
	// must not pile up in the registry.
	reg.mu.Lock()
	_, kept := reg.watchers["MHS-404"]
	reg.mu.Unlock()
	assert.False(t, kept)

	// Upstream recovers: the next visit fetches again and succeeds.
	api.mu.Lock()
	api.err = nil
	api.booking = &models.Booking{
		BookingCode: "MHS-404",
		Status:      models.BookingStatusConfirmed,
	}
	api.mu.Unlock()

	got, err := reg.Snapshot(context.Background(), "MHS-404", nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, got.Status)
	assert.Equal(t, 2, api.callCount())
}

func TestPollingStopsOnceSettled(t *testing.T) {
	api := &fakeBookingAPI{booking: pendingBooking("MHS-1003")}
	reg := NewRegistry(api, Config{Interval: 10 * time.Millisecond, IdleTTL: time.Hour})
	defer reg.Close()

	_, err := reg.Snapshot(context.Background(), "MHS-1003", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return api.callCount() >= 3
	}, time.Second, 5*time.Millisecond, "watcher should be refreshing the pending booking")

	api.set(&models.Booking{
		BookingCode: "MHS-1003",
		Status:      models.BookingStatusConfirmed,
	})

	require.Eventually(t, func() bool {
		got, err := reg.Snapshot(context.Background(), "MHS-1003", nil)
		return err == nil && got.Status == models.BookingStatusConfirmed
	}, time.Second, 5*time.Millisecond)

	// Give the ticker a couple more periods, then confirm polling has quit.
	time.Sleep(50 * time.Millisecond)
	settled := api.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, api.callCount())
}

func TestIdleWatcherIsDropped(t *testing.T) {
	api := &fakeBookingAPI{booking: pendingBooking("MHS-1004")}
	reg := NewRegistry(api, Config{Interval: 10 * time.Millisecond, IdleTTL: 20 * time.Millisecond})
	defer reg.Close()

	seed := pendingBooking("MHS-1004")
	_, err := reg.Snapshot(context.Background(), "MHS-1004", seed)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		reg.mu.Lock()
		_, ok := reg.watchers["MHS-1004"]
		reg.mu.Unlock()
		return !ok
	}, time.Second, 5*time.Millisecond, "idle watcher should be evicted")
}
