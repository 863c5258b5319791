package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravets/docbooking/internal/domain"
)

type DoctorRepository interface {
	List(ctx context.Context) ([]domain.Doctor, error)
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
}

type PGDoctorRepository struct {
	db *pgxpool.Pool
}

func NewDoctorRepository(db *pgxpool.Pool) DoctorRepository {
	return &PGDoctorRepository{db: db}
}

const doctorColumns = `id, name, speciality, fees_cents, work_start, work_end, slot_minutes, created_at, updated_at`

func (r *PGDoctorRepository) List(ctx context.Context) ([]domain.Doctor, error) {
	rows, err := r.db.Query(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doctors := make([]domain.Doctor, 0)
	for rows.Next() {
		var d domain.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Speciality, &d.FeesCents, &d.Window.Start, &d.Window.End, &d.Window.SlotMinutes, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *PGDoctorRepository) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	row := r.db.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id=$1`, id)
	var d domain.Doctor
	if err := row.Scan(&d.ID, &d.Name, &d.Speciality, &d.FeesCents, &d.Window.Start, &d.Window.End, &d.Window.SlotMinutes, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

var _ DoctorRepository = (*PGDoctorRepository)(nil)
