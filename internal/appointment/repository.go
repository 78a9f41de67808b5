package appointment

import (
	"context"
	"errors"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrStatusChanged       = errors.New("appointment status changed concurrently")
	ErrAppointmentBusy     = errors.New("appointment is being updated, please retry")
)

// Repository is the data access boundary of the board. The in-memory seed,
// Redis and Postgres all sit behind it.
type Repository interface {
	ListAppointments(ctx context.Context, f Filter) ([]Appointment, error)
	GetAppointmentByID(ctx context.Context, id string) (*Appointment, error)

	// UpdateAppointmentStatus sets the status to `to` only while the stored
	// status still equals `from`. ErrStatusChanged reports a lost race.
	UpdateAppointmentStatus(ctx context.Context, id string, from, to Status) (*Appointment, error)
}
