package availability

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mooreweb/internal/logger"
	"mooreweb/internal/metrics"
	"mooreweb/internal/models"
)

// ErrSuperseded means a newer check for the same room arrived inside the
// debounce window; the caller's answer no longer matters and no network
// call was made on its behalf.
var ErrSuperseded = errors.New("availability check superseded by newer input")

// DateOrderMessage is surfaced without any network call when the range is
// inverted or empty.
const DateOrderMessage = "Check-out must be after check-in"

// RoomAPI is the slice of the hotel client the checker needs.
type RoomAPI interface {
	CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*models.AvailabilityResult, error)
}

// Checker verifies room availability for a date range. Checks wait for
// ~500ms of input stability per room before touching the network, so a
// guest still picking dates does not flood the hotel API. Identical
// concurrent checks are collapsed into one upstream call.
type Checker struct {
	api      RoomAPI
	debounce time.Duration

	sf singleflight.Group

	mu      sync.Mutex
	gen     uint64
	latest  map[string]uint64
	results map[string]*models.AvailabilityResult
}

func NewChecker(api RoomAPI, debounce time.Duration) *Checker {
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &Checker{
		api:      api,
		debounce: debounce,
		latest:   make(map[string]uint64),
		results:  make(map[string]*models.AvailabilityResult),
	}
}

// Check answers whether the room can be booked for the range.
//
// Transport and server failures fail open: the guest is not blocked on a
// transient error, and the hotel API re-verifies availability
// authoritatively at booking creation. This is intentional product
// behavior, not a bug to fix into fail-closed.
func (c *Checker) Check(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*models.AvailabilityResult, error) {
	if !checkOut.After(checkIn) {
		return &models.AvailabilityResult{Available: false, Message: DateOrderMessage}, nil
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.latest[roomID] = gen
	c.mu.Unlock()

	timer := time.NewTimer(c.debounce)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	c.mu.Lock()
	superseded := c.latest[roomID] != gen
	c.mu.Unlock()
	if superseded {
		return nil, ErrSuperseded
	}

	return c.CheckNow(ctx, roomID, checkIn, checkOut)
}

// CheckNow performs the check without waiting for input stability. Used at
// submission time, where the guest has already committed to the dates.
func (c *Checker) CheckNow(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*models.AvailabilityResult, error) {
	if !checkOut.After(checkIn) {
		return &models.AvailabilityResult{Available: false, Message: DateOrderMessage}, nil
	}

	key := resultKey(roomID, checkIn, checkOut)
	v, err, _ := c.sf.Do(key, func() (any, error) {
		return c.api.CheckAvailability(ctx, roomID, checkIn, checkOut)
	})

	var result *models.AvailabilityResult
	if err != nil {
		metrics.AvailabilityFailOpen.Inc()
		logger.WithContext(ctx).Warn("Availability check failed open",
			"error", err,
			"room_id", roomID)
		result = &models.AvailabilityResult{Available: true}
	} else {
		result = v.(*models.AvailabilityResult)
	}

	c.mu.Lock()
	c.results[key] = result
	c.mu.Unlock()

	return result, nil
}

// Latest returns the most recent result for the exact room and range, or
// nil if no check has completed yet. Checkout trusts this value instead of
// blocking on a synchronous re-verification; the hotel API re-checks at
// booking creation regardless.
func (c *Checker) Latest(roomID string, checkIn, checkOut time.Time) *models.AvailabilityResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results[resultKey(roomID, checkIn, checkOut)]
}

func resultKey(roomID string, checkIn, checkOut time.Time) string {
	return fmt.Sprintf("%s|%d|%d", roomID, checkIn.Unix(), checkOut.Unix())
}
