package email

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mkravets/docbooking/internal/kafka"
)

// Sender hands appointment events to the mail gateway. Delivery itself is an
// external concern; this implementation records the outgoing message.
type Sender struct {
	log zerolog.Logger
}

func NewSender(log zerolog.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(_ context.Context, event kafka.AppointmentEvent) error {
	s.log.Info().
		Str("type", event.Type).
		Str("appointment_id", event.AppointmentID).
		Str("user_id", event.UserID).
		Int64("doctor_id", event.DoctorID).
		Str("slot_date", event.SlotDate).
		Str("slot_time", event.SlotTime).
		Msg("queueing appointment email")
	return nil
}
