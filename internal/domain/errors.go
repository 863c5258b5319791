package domain

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidSlot: the requested time is not on the doctor's slot grid.
	ErrInvalidSlot = errors.New("time is not on the doctor's slot grid")

	// ErrSlotUnavailable: the slot is on the grid but already held. Expected
	// under contention; callers re-query availability and pick another slot.
	ErrSlotUnavailable = errors.New("slot is already booked")

	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrAlreadyPaid      = errors.New("appointment is already paid")
)
