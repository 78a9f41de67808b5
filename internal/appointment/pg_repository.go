package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS appointments (
	id               TEXT PRIMARY KEY,
	appointment_time TEXT NOT NULL,
	token_number     INTEGER NOT NULL,
	status           TEXT NOT NULL,
	first_name       TEXT NOT NULL,
	last_name        TEXT NOT NULL,
	phone            TEXT NOT NULL,
	chief_complaint  TEXT NOT NULL,
	treatment_type   TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const selectColumns = `id, appointment_time, token_number, status, first_name, last_name, phone, chief_complaint, treatment_type`

func (r *PgRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create appointments table: %w", err)
	}
	return nil
}

// SeedIfEmpty loads the given records when the table has no rows yet.
func (r *PgRepository) SeedIfEmpty(ctx context.Context, records []Appointment) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM appointments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	return r.Insert(ctx, records)
}

// Insert adds records whose id is not stored yet and reports how many rows
// were written.
func (r *PgRepository) Insert(ctx context.Context, records []Appointment) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	written := 0
	for _, a := range records {
		tag, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, appointment_time, token_number, status, first_name, last_name, phone, chief_complaint, treatment_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, a.ID, a.AppointmentTime, a.TokenNumber, a.Status,
			a.Patient.FirstName, a.Patient.LastName, a.Patient.Phone,
			a.ChiefComplaint, a.TreatmentType)
		if err != nil {
			return 0, fmt.Errorf("insert appointment %s: %w", a.ID, err)
		}
		written += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return written, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.AppointmentTime,
		&a.TokenNumber,
		&a.Status,
		&a.Patient.FirstName,
		&a.Patient.LastName,
		&a.Patient.Phone,
		&a.ChiefComplaint,
		&a.TreatmentType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgRepository) ListAppointments(ctx context.Context, _ Filter) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM appointments
		ORDER BY token_number, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+selectColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id string, from, to Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+selectColumns+`
	`, id, to, from)

	a, err := scanAppointment(row)
	if errors.Is(err, ErrAppointmentNotFound) {
		// Zero rows: either the id is unknown or the status moved under us.
		if _, getErr := r.GetAppointmentByID(ctx, id); getErr == nil {
			return nil, ErrStatusChanged
		}
	}
	return a, err
}
