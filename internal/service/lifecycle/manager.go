package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkravets/docbooking/internal/domain"
	"github.com/mkravets/docbooking/internal/kafka"
	"github.com/mkravets/docbooking/internal/ledger"
	"github.com/mkravets/docbooking/internal/metrics"
	"github.com/mkravets/docbooking/internal/repository"
)

type LifecycleUseCase interface {
	Pay(ctx context.Context, appointmentID string) (*domain.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) (*domain.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Manager applies payment and cancellation transitions. Pending -> Paid ->
// Cancelled, with Cancelled reachable from both and terminal.
type Manager struct {
	appointments       repository.AppointmentRepository
	slots              ledger.SlotLedger
	producer           Producer
	appointmentsTopic  string
	notificationsTopic string
	log                zerolog.Logger
}

type ManagerOption func(*Manager)

func WithNotificationsTopic(topic string) ManagerOption {
	return func(m *Manager) {
		m.notificationsTopic = topic
	}
}

func NewManager(
	appointments repository.AppointmentRepository,
	slots ledger.SlotLedger,
	producer Producer,
	appointmentsTopic string,
	log zerolog.Logger,
	opts ...ManagerOption,
) *Manager {
	m := &Manager{
		appointments:      appointments,
		slots:             slots,
		producer:          producer,
		appointmentsTopic: appointmentsTopic,
		log:               log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Pay marks a pending appointment as paid. No slot effect. The store's
// conditional write is the arbiter: a cancel that lands first makes this
// fail with ErrAlreadyCancelled, never a paid-and-cancelled record.
func (m *Manager) Pay(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	updated, err := m.appointments.MarkPaid(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	metrics.PaymentsTotal.Inc()
	m.publish(ctx, kafka.EventAppointmentPaid, updated)
	return updated, nil
}

// Cancel marks the appointment cancelled and then frees its slot, in that
// order: a concurrent reader must never observe a freed slot while the
// appointment still reads as active.
func (m *Manager) Cancel(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	updated, err := m.appointments.MarkCancelled(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := m.slots.Release(ctx, updated.Slot(), updated.ID); err != nil {
		// The appointment record is authoritative for user-facing status;
		// a ledger disagreement is logged, not surfaced.
		if errors.Is(err, ledger.ErrNotHeld) || errors.Is(err, ledger.ErrMismatch) {
			metrics.ConsistencyFaultsTotal.Inc()
			m.log.Error().Err(err).
				Str("appointment_id", updated.ID).
				Stringer("slot", updated.Slot()).
				Msg("consistency fault: ledger disagreed on release")
		} else {
			m.log.Error().Err(err).
				Str("appointment_id", updated.ID).
				Stringer("slot", updated.Slot()).
				Msg("failed to release slot hold")
		}
	}

	metrics.CancellationsTotal.Inc()
	m.publish(ctx, kafka.EventAppointmentCancelled, updated)
	return updated, nil
}

func (m *Manager) ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	return m.appointments.ListByUser(ctx, userID)
}

func (m *Manager) publish(ctx context.Context, eventType string, appt *domain.Appointment) {
	if m.producer == nil || m.appointmentsTopic == "" {
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
	if err := m.producer.Publish(ctx, m.appointmentsTopic, appt.ID, event); err != nil {
		m.log.Warn().Err(err).Str("appointment_id", appt.ID).Str("type", eventType).Msg("failed to publish appointment event")
		return
	}
	if m.notificationsTopic != "" {
		if err := m.producer.Publish(ctx, m.notificationsTopic, appt.ID, event); err != nil {
			m.log.Warn().Err(err).Str("appointment_id", appt.ID).Str("type", eventType).Msg("failed to publish notification event")
		}
	}
}

var _ LifecycleUseCase = (*Manager)(nil)
