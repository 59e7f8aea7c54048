package confirmation

import (
	"context"
	"sync"
	"time"

	"mooreweb/internal/apperrors"
	"mooreweb/internal/logger"
	"mooreweb/internal/metrics"
	"mooreweb/internal/models"
)

// BookingAPI is the slice of the hotel client the watcher needs.
type BookingAPI interface {
	GetBookingByCode(ctx context.Context, code string) (*models.Booking, error)
}

type Config struct {
	// Interval between refresh attempts while the booking is Pending.
	Interval time.Duration

	// IdleTTL stops a watcher nobody has read for this long, the portal's
	// analog of navigating away from the confirmation view.
	IdleTTL time.Duration
}

// Registry keeps one watcher per booking code. A watcher polls the hotel
// API while the booking is Pending and stops as soon as it settles, the
// registry shuts down, or no reader has asked for the snapshot in a while.
type Registry struct {
	api BookingAPI
	cfg Config

	mu       sync.Mutex
	watchers map[string]*watcher

	baseCtx context.Context
	cancel  context.CancelFunc
}

type watcher struct {
	code string

	mu       sync.Mutex
	booking  *models.Booking
	polling  bool
	inFlight bool
	lastRead time.Time
}

func NewRegistry(api BookingAPI, cfg Config) *Registry {
	if cfg.Interval == 0 {
		cfg.Interval = 6 * time.Second
	}
	if cfg.IdleTTL == 0 {
		cfg.IdleTTL = 2 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		api:      api,
		cfg:      cfg,
		watchers: make(map[string]*watcher),
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// Snapshot returns the freshest known state of the booking. A booking
// handed off from checkout seeds the watcher and avoids a redundant
// fetch; otherwise the first call fetches by code. A failure there renders
// the not-found state for this visit only: the watcher is discarded and
// the next visit fetches again.
func (r *Registry) Snapshot(ctx context.Context, code string, seed *models.Booking) (*models.Booking, error) {
	r.mu.Lock()
	w, ok := r.watchers[code]
	if !ok {
		w = &watcher{code: code}
		r.watchers[code] = w
	}
	r.mu.Unlock()

	w.mu.Lock()
	w.lastRead = time.Now()

	if w.booking == nil {
		if seed != nil {
			w.booking = seed
		} else {
			w.mu.Unlock()
			booking, err := r.api.GetBookingByCode(ctx, code)
			w.mu.Lock()
			if err != nil {
				w.mu.Unlock()
				r.mu.Lock()
				if r.watchers[code] == w {
					delete(r.watchers, code)
				}
				r.mu.Unlock()
				return nil, apperrors.ErrBookingNotFound
			}
			if w.booking == nil {
				w.booking = booking
			}
		}

		if !w.booking.Settled() && !w.polling {
			w.polling = true
			go r.poll(w)
		}
	}

	snapshot := *w.booking
	w.mu.Unlock()
	return &snapshot, nil
}

// poll re-fetches the booking on a fixed cadence until it settles. A tick
// is skipped while the previous fetch is still outstanding, so overlapping
// responses can never race each other.
func (r *Registry) poll(w *watcher) {
	metrics.ActiveWatchers.Inc()
	defer metrics.ActiveWatchers.Dec()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.baseCtx.Done():
			return
		case <-ticker.C:
		}

		w.mu.Lock()
		settled := w.booking != nil && w.booking.Settled()
		idle := time.Since(w.lastRead) > r.cfg.IdleTTL
		skip := w.inFlight
		if !settled && !idle && !skip {
			w.inFlight = true
		}
		w.mu.Unlock()

		if settled {
			return
		}
		if idle {
			r.mu.Lock()
			delete(r.watchers, w.code)
			r.mu.Unlock()
			return
		}
		if skip {
			metrics.PollSkipped.Inc()
			continue
		}

		go r.refresh(w)
	}
}

func (r *Registry) refresh(w *watcher) {
	ctx, cancel := context.WithTimeout(r.baseCtx, r.cfg.Interval*2)
	booking, err := r.api.GetBookingByCode(ctx, w.code)
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false

	if err != nil {
		// Best-effort background read: keep showing the last known state.
		logger.Get().Warn("Booking refresh failed",
			"error", err,
			"booking_code", w.code)
		return
	}

	w.booking = booking
}

// Close stops all watchers.
func (r *Registry) Close() {
	r.cancel()
}
