package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravets/docbooking/internal/domain"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error)
	ListActive(ctx context.Context) ([]domain.Appointment, error)
	ListCancelledSince(ctx context.Context, since time.Time) ([]domain.Appointment, error)
	MarkPaid(ctx context.Context, id string) (*domain.Appointment, error)
	MarkCancelled(ctx context.Context, id string) (*domain.Appointment, error)
}

type PGAppointmentRepository struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) AppointmentRepository {
	return &PGAppointmentRepository{db: db}
}

const apptColumns = `id, doctor_id, user_id, slot_date, slot_time, amount_cents, payment, cancelled, created_at, updated_at`

// Create inserts a new non-cancelled appointment. A partial unique index on
// (doctor_id, slot_date, slot_time) WHERE NOT cancelled makes the insert a
// conditional write: a second active appointment for the same slot fails
// here even if the ledger has been wiped.
func (r *PGAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	err := r.db.QueryRow(ctx, `INSERT INTO appointments (id, doctor_id, user_id, slot_date, slot_time, amount_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING payment, cancelled, created_at, updated_at`,
		appt.ID, appt.DoctorID, appt.UserID, appt.SlotDate, appt.SlotTime, appt.AmountCents).
		Scan(&appt.Payment, &appt.Cancelled, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrSlotUnavailable
		}
		return err
	}
	return nil
}

func (r *PGAppointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+apptColumns+` FROM appointments WHERE id=$1`, id)
	return scanAppointment(row)
}

func (r *PGAppointmentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+apptColumns+` FROM appointments WHERE user_id=$1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *PGAppointmentRepository) ListActive(ctx context.Context) ([]domain.Appointment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+apptColumns+` FROM appointments WHERE NOT cancelled ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (r *PGAppointmentRepository) ListCancelledSince(ctx context.Context, since time.Time) ([]domain.Appointment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+apptColumns+` FROM appointments WHERE cancelled AND updated_at >= $1 ORDER BY updated_at, id`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// MarkPaid flips the payment flag with a conditional single-statement update:
// the guard keeps a paid record out of a row that was cancelled between the
// caller's read and this write. Zero rows means the guard lost; a follow-up
// read names the reason.
func (r *PGAppointmentRepository) MarkPaid(ctx context.Context, id string) (*domain.Appointment, error) {
	row := r.db.QueryRow(ctx, `UPDATE appointments SET payment=TRUE, updated_at=now()
		WHERE id=$1 AND NOT cancelled AND NOT payment RETURNING `+apptColumns, id)
	appt, err := scanAppointment(row)
	if errors.Is(err, domain.ErrAppointmentNotFound) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if current.Cancelled {
			return nil, domain.ErrAlreadyCancelled
		}
		return nil, domain.ErrAlreadyPaid
	}
	return appt, err
}

// MarkCancelled is conditional the same way, so of two concurrent cancels
// exactly one reports success.
func (r *PGAppointmentRepository) MarkCancelled(ctx context.Context, id string) (*domain.Appointment, error) {
	row := r.db.QueryRow(ctx, `UPDATE appointments SET cancelled=TRUE, updated_at=now()
		WHERE id=$1 AND NOT cancelled RETURNING `+apptColumns, id)
	appt, err := scanAppointment(row)
	if errors.Is(err, domain.ErrAppointmentNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrAlreadyCancelled
	}
	return appt, err
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	if err := row.Scan(&a.ID, &a.DoctorID, &a.UserID, &a.SlotDate, &a.SlotTime, &a.AmountCents, &a.Payment, &a.Cancelled, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.UserID, &a.SlotDate, &a.SlotTime, &a.AmountCents, &a.Payment, &a.Cancelled, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

var _ AppointmentRepository = (*PGAppointmentRepository)(nil)
