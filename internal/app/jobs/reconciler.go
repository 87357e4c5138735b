// Package jobs holds scheduled background work
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
)

// CounterStore finds and repairs events whose attendee_count disagrees with
// their RSVP rows
type CounterStore interface {
	FindCounterDrift(ctx context.Context) ([]models.CounterDrift, error)
	RepairAttendeeCount(ctx context.Context, eventID uuid.UUID) (int, error)
}

// Reconciler periodically repairs attendee counters
type Reconciler struct {
	store    CounterStore
	schedule cron.Schedule
	spec     string
	timeout  time.Duration
	cron     *cron.Cron
	logger   zerolog.Logger

	mu      sync.Mutex
	running bool
}

// NewReconciler validates spec (standard cron syntax or a descriptor such as
// "@every 10m") and returns a stopped Reconciler
func NewReconciler(store CounterStore, spec string, logger zerolog.Logger) (*Reconciler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}

	return &Reconciler{
		store:    store,
		schedule: schedule,
		spec:     spec,
		timeout:  2 * time.Minute,
		logger:   logger.With().Str("component", "reconciler").Logger(),
	}, nil
}

// Start schedules the reconciliation runs
func (r *Reconciler) Start() {
	r.cron = cron.New()
	r.cron.Schedule(r.schedule, cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Error().Err(err).Msg("Attendee counter reconciliation failed")
		}
	}))
	r.cron.Start()
	r.logger.Info().Str("schedule", r.spec).Msg("Starting attendee counter reconciler")
}

// Stop halts scheduling and waits for a running job until ctx is done
func (r *Reconciler) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
		r.logger.Warn().Msg("Reconciler did not finish before shutdown")
	}
}

// RunOnce repairs every drifted counter and returns what it found. Runs do
// not overlap; a call made while another is in progress returns nothing.
func (r *Reconciler) RunOnce(ctx context.Context) ([]models.CounterDrift, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, nil
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	drifts, err := r.store.FindCounterDrift(ctx)
	if err != nil {
		return nil, fmt.Errorf("error finding counter drift: %w", err)
	}

	for i := range drifts {
		d := &drifts[i]
		count, err := r.store.RepairAttendeeCount(ctx, d.EventID)
		if err != nil {
			r.logger.Error().Err(err).Str("eventId", d.EventID.String()).Msg("Failed to repair attendee count")
			continue
		}
		d.Actual = count
		d.Repaired = true
		r.logger.Warn().
			Str("eventId", d.EventID.String()).
			Int("stored", d.Stored).
			Int("actual", count).
			Msg("Repaired attendee count")
	}

	if len(drifts) > 0 {
		r.logger.Info().Int("drifted", len(drifts)).Msg("Attendee counter reconciliation finished")
	}
	return drifts, nil
}
