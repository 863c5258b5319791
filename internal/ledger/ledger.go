// Package ledger is the authoritative record of which slots are held by an
// active appointment. TryHold must admit at most one winner per slot under
// concurrent callers; that property carries the whole booking subsystem.
package ledger

import (
	"context"
	"errors"

	"github.com/mkravets/docbooking/internal/domain"
)

var (
	// ErrConflict: the slot is already held. Losers fail fast; nobody queues.
	ErrConflict = errors.New("ledger: slot is already held")

	ErrNotHeld = errors.New("ledger: slot is not held")

	// ErrMismatch: the slot is held, but by a different appointment. Guards
	// against an out-of-order release clobbering someone else's hold.
	ErrMismatch = errors.New("ledger: slot is held by another appointment")
)

type SlotLedger interface {
	// TryHold atomically checks absence and records the hold in one step.
	TryHold(ctx context.Context, key domain.SlotKey, appointmentID string) error

	// Release removes the hold only if appointmentID is the current holder.
	Release(ctx context.Context, key domain.SlotKey, appointmentID string) error

	IsHeld(ctx context.Context, key domain.SlotKey) (bool, error)

	// HeldTimes lists the held time tokens for a doctor's date, ascending.
	HeldTimes(ctx context.Context, doctorID int64, date string) ([]string, error)
}
