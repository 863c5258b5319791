package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkravets/docbooking/internal/domain"
	"github.com/mkravets/docbooking/internal/kafka"
	"github.com/mkravets/docbooking/internal/ledger"
	"github.com/mkravets/docbooking/internal/metrics"
	"github.com/mkravets/docbooking/internal/repository"
	"github.com/mkravets/docbooking/internal/schedule"
)

type BookingUseCase interface {
	Book(ctx context.Context, input BookInput) (*domain.Appointment, error)
	Availability(ctx context.Context, doctorID int64, date string) ([]string, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Engine is the only path that creates an appointment together with its slot
// hold. Booking is create-then-hold: the appointment row is written first so
// the ledger entry always carries a real appointment id, and the row is
// voided if the hold is lost.
type Engine struct {
	appointments       repository.AppointmentRepository
	doctors            repository.DoctorRepository
	slots              ledger.SlotLedger
	producer           Producer
	appointmentsTopic  string
	notificationsTopic string
	log                zerolog.Logger
}

type EngineOption func(*Engine)

func WithNotificationsTopic(topic string) EngineOption {
	return func(e *Engine) {
		e.notificationsTopic = topic
	}
}

func NewEngine(
	appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	slots ledger.SlotLedger,
	producer Producer,
	appointmentsTopic string,
	log zerolog.Logger,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		appointments:      appointments,
		doctors:           doctors,
		slots:             slots,
		producer:          producer,
		appointmentsTopic: appointmentsTopic,
		log:               log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type BookInput struct {
	DoctorID int64  `json:"doctor_id"`
	UserID   string `json:"user_id"`
	SlotDate string `json:"slot_date"`
	SlotTime string `json:"slot_time"`
}

func (e *Engine) Book(ctx context.Context, input BookInput) (*domain.Appointment, error) {
	if input.UserID == "" {
		return nil, errors.New("user id is required")
	}

	doctor, err := e.doctors.GetByID(ctx, input.DoctorID)
	if err != nil {
		return nil, err
	}

	if !schedule.ValidDate(input.SlotDate) {
		return nil, domain.ErrInvalidSlot
	}
	onGrid, err := schedule.Contains(doctor.Window, input.SlotTime)
	if err != nil {
		return nil, fmt.Errorf("doctor %d schedule window: %w", doctor.ID, err)
	}
	if !onGrid {
		return nil, domain.ErrInvalidSlot
	}

	appt := &domain.Appointment{
		ID:          uuid.NewString(),
		DoctorID:    doctor.ID,
		UserID:      input.UserID,
		SlotDate:    input.SlotDate,
		SlotTime:    input.SlotTime,
		AmountCents: doctor.FeesCents,
	}

	// The storage layer's conditional write is the first line of defence:
	// an insert races only against other active appointments for the same
	// slot, so the loser fails before touching the ledger.
	if err := e.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			metrics.BookingConflictsTotal.Inc()
		}
		return nil, err
	}

	if err := e.slots.TryHold(ctx, appt.Slot(), appt.ID); err != nil {
		e.void(ctx, appt)
		if errors.Is(err, ledger.ErrConflict) {
			metrics.BookingConflictsTotal.Inc()
			return nil, domain.ErrSlotUnavailable
		}
		return nil, err
	}

	metrics.BookingsTotal.Inc()
	e.publish(ctx, kafka.EventAppointmentBooked, appt)
	return appt, nil
}

// void discards a provisional appointment whose hold was lost. The row stays
// in storage marked cancelled; it is never returned to the caller.
func (e *Engine) void(ctx context.Context, appt *domain.Appointment) {
	if _, err := e.appointments.MarkCancelled(ctx, appt.ID); err != nil {
		e.log.Error().Err(err).
			Str("appointment_id", appt.ID).
			Stringer("slot", appt.Slot()).
			Msg("failed to void provisional appointment")
	}
}

// Availability returns the doctor's free time tokens for a date: the full
// grid minus the ledger's held entries, ascending.
func (e *Engine) Availability(ctx context.Context, doctorID int64, date string) ([]string, error) {
	doctor, err := e.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !schedule.ValidDate(date) {
		return nil, domain.ErrInvalidSlot
	}

	held, err := e.slots.HeldTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	return schedule.Free(doctor.Window, held)
}

func (e *Engine) publish(ctx context.Context, eventType string, appt *domain.Appointment) {
	if e.producer == nil || e.appointmentsTopic == "" {
		return
	}
	event := kafka.AppointmentEvent{
		Type:          eventType,
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		UserID:        appt.UserID,
		SlotDate:      appt.SlotDate,
		SlotTime:      appt.SlotTime,
		AmountCents:   appt.AmountCents,
		Status:        string(appt.Status()),
		OccurredAt:    time.Now().UTC(),
	}
	if err := e.producer.Publish(ctx, e.appointmentsTopic, appt.ID, event); err != nil {
		e.log.Warn().Err(err).Str("appointment_id", appt.ID).Str("type", eventType).Msg("failed to publish appointment event")
		return
	}
	if e.notificationsTopic != "" {
		if err := e.producer.Publish(ctx, e.notificationsTopic, appt.ID, event); err != nil {
			e.log.Warn().Err(err).Str("appointment_id", appt.ID).Str("type", eventType).Msg("failed to publish notification event")
		}
	}
}

var _ BookingUseCase = (*Engine)(nil)
