package domain

import (
	"fmt"
	"time"
)

// SlotKey identifies a single booking opportunity. Date is "2006-01-02" and
// Time a 24h "15:04" token; both order lexicographically.
type SlotKey struct {
	DoctorID int64
	Date     string
	Time     string
}

func (k SlotKey) String() string {
	return fmt.Sprintf("doctor:%d:%s:%s", k.DoctorID, k.Date, k.Time)
}

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusPaid      AppointmentStatus = "PAID"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

type Appointment struct {
	ID       string
	DoctorID int64
	UserID   string
	SlotDate string
	SlotTime string
	// AmountCents is the doctor's fee snapshotted at booking time. It does
	// not follow later fee changes.
	AmountCents int64
	Payment     bool
	Cancelled   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a *Appointment) Slot() SlotKey {
	return SlotKey{DoctorID: a.DoctorID, Date: a.SlotDate, Time: a.SlotTime}
}

// Status derives the lifecycle state. Cancelled is terminal and wins over
// payment regardless of the payment flag's value at cancellation time.
func (a *Appointment) Status() AppointmentStatus {
	switch {
	case a.Cancelled:
		return AppointmentStatusCancelled
	case a.Payment:
		return AppointmentStatusPaid
	default:
		return AppointmentStatusPending
	}
}
