package domain

import "time"

// ScheduleWindow is a doctor's static working-hour configuration. Bounds are
// 24h "HH:MM" tokens; SlotMinutes is the grid granularity.
type ScheduleWindow struct {
	Start       string
	End         string
	SlotMinutes int
}

type Doctor struct {
	ID         int64
	Name       string
	Speciality string
	FeesCents  int64
	Window     ScheduleWindow
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
