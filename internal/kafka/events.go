package kafka

import "time"

const (
	EventAppointmentBooked    = "appointment_booked"
	EventAppointmentPaid      = "appointment_paid"
	EventAppointmentCancelled = "appointment_cancelled"
)

type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID string    `json:"appointment_id"`
	DoctorID      int64     `json:"doctor_id"`
	UserID        string    `json:"user_id"`
	SlotDate      string    `json:"slot_date"`
	SlotTime      string    `json:"slot_time"`
	AmountCents   int64     `json:"amount_cents"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
