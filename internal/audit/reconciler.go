// Package audit cross-checks the slot ledger against the appointment store.
// The two can only disagree after a partial failure (for example a crash
// between voiding an appointment and releasing its hold, or a ledger wipe).
// The sweep walks both directions: it re-asserts the holds of active
// appointments, and it releases holds still owned by cancelled ones.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkravets/docbooking/internal/ledger"
	"github.com/mkravets/docbooking/internal/metrics"
	"github.com/mkravets/docbooking/internal/repository"
)

type Reconciler struct {
	appointments repository.AppointmentRepository
	slots        ledger.SlotLedger
	lookback     time.Duration
	log          zerolog.Logger
}

// NewReconciler builds a sweep over the store and the ledger. lookback bounds
// how far back the cancelled-side scan reaches; it must cover at least the
// span during which a cancelled appointment's slot is still bookable.
func NewReconciler(appointments repository.AppointmentRepository, slots ledger.SlotLedger, lookback time.Duration, log zerolog.Logger) *Reconciler {
	return &Reconciler{appointments: appointments, slots: slots, lookback: lookback, log: log}
}

// Sweep reconciles both directions and returns the number of faults found.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	faults, err := r.assertActiveHolds(ctx)
	if err != nil {
		return faults, err
	}

	released, err := r.releaseOrphanedHolds(ctx)
	return faults + released, err
}

// assertActiveHolds verifies that every active appointment still holds its
// slot, repairing missing holds.
func (r *Reconciler) assertActiveHolds(ctx context.Context) (int, error) {
	active, err := r.appointments.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	faults := 0
	for _, appt := range active {
		held, err := r.slots.IsHeld(ctx, appt.Slot())
		if err != nil {
			return faults, err
		}
		if held {
			continue
		}

		faults++
		metrics.ConsistencyFaultsTotal.Inc()
		r.log.Error().
			Str("appointment_id", appt.ID).
			Stringer("slot", appt.Slot()).
			Msg("consistency fault: active appointment without a slot hold")

		if err := r.slots.TryHold(ctx, appt.Slot(), appt.ID); err != nil {
			// A conflict here means another hold appeared between the probe
			// and the repair; leave it for the next sweep.
			r.log.Error().Err(err).
				Str("appointment_id", appt.ID).
				Stringer("slot", appt.Slot()).
				Msg("failed to repair slot hold")
		}
	}
	return faults, nil
}

// releaseOrphanedHolds frees slots whose hold is still owned by a cancelled
// appointment, the residue of a crash between the cancel write and the
// ledger release (or of a voided booking). The owner check on Release keeps
// a slot legitimately re-booked under a new appointment id untouched.
func (r *Reconciler) releaseOrphanedHolds(ctx context.Context) (int, error) {
	cancelled, err := r.appointments.ListCancelledSince(ctx, time.Now().Add(-r.lookback))
	if err != nil {
		return 0, err
	}

	faults := 0
	for _, appt := range cancelled {
		err := r.slots.Release(ctx, appt.Slot(), appt.ID)
		switch {
		case err == nil:
			faults++
			metrics.ConsistencyFaultsTotal.Inc()
			r.log.Error().
				Str("appointment_id", appt.ID).
				Stringer("slot", appt.Slot()).
				Msg("consistency fault: released hold orphaned by a cancelled appointment")
		case errors.Is(err, ledger.ErrNotHeld), errors.Is(err, ledger.ErrMismatch):
			// Not held: the normal case. Mismatch: the slot was re-booked.
		default:
			return faults, err
		}
	}
	return faults, nil
}
