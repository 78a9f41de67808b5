package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/hackgods/reception-board/internal/logging"
)

const (
	EventStatusChanged = "APPOINTMENT_STATUS_CHANGED"
)

type Service struct {
	repo   Repository
	policy TransitionPolicy
}

func NewService(repo Repository, policy TransitionPolicy) *Service {
	if policy == nil {
		policy = FreeTransitions{}
	}
	return &Service{
		repo:   repo,
		policy: policy,
	}
}

// ListAppointments reads the board and computes its aggregates from the same
// snapshot.
func (s *Service) ListAppointments(ctx context.Context, f Filter) (Board, error) {
	list, err := s.repo.ListAppointments(ctx, f)
	if err != nil {
		return Board{}, fmt.Errorf("list appointments: %w", err)
	}
	return Board{
		Appointments: list,
		Stats:        Summarize(list),
		Filter:       f,
	}, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	b, err := s.ListAppointments(ctx, Filter{})
	if err != nil {
		return Stats{}, err
	}
	return b.Stats, nil
}

// UpdateStatus moves one appointment to the status named by raw. An unknown
// id is not an error: nothing changes and (nil, nil) is returned.
func (s *Service) UpdateStatus(ctx context.Context, id, raw string) (*Appointment, error) {
	logger := logging.FromContext(ctx)

	to, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			logger.Debug().Str("appointment_id", id).Msg("status update for unknown appointment ignored")
			return nil, nil
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if !s.policy.Allowed(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, to)
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, current.Status, to)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// removed between read and write
			return nil, nil
		}
		if errors.Is(err, ErrStatusChanged) || errors.Is(err, ErrAppointmentBusy) {
			return nil, err
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}

	logger.Info().
		Str("event", EventStatusChanged).
		Str("appointment_id", id).
		Str("from", string(current.Status)).
		Str("to", string(to)).
		Msg("appointment status changed")

	return updated, nil
}
