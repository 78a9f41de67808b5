package appointment

import (
	"context"
	"sync"
)

// MemoryRepository keeps the board in process memory. Its contents are lost
// on restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []Appointment
}

func NewMemoryRepository(initial []Appointment) *MemoryRepository {
	items := make([]Appointment, len(initial))
	copy(items, initial)
	return &MemoryRepository{items: items}
}

// NewSeededMemoryRepository is the default backend: the fixed seed board.
func NewSeededMemoryRepository() *MemoryRepository {
	return NewMemoryRepository(Seed())
}

func (r *MemoryRepository) ListAppointments(_ context.Context, _ Filter) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *MemoryRepository) GetAppointmentByID(_ context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		a := r.items[i]
		return &a, nil
	}
	return nil, ErrAppointmentNotFound
}

func (r *MemoryRepository) UpdateAppointmentStatus(_ context.Context, id string, from, to Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrAppointmentNotFound
	}
	if r.items[i].Status != from {
		return nil, ErrStatusChanged
	}

	r.items = UpdateStatus(r.items, id, to)
	a := r.items[i]
	return &a, nil
}

func (r *MemoryRepository) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
