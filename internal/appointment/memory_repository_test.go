package appointment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_ListPreservesSeedOrder(t *testing.T) {
	repo := NewSeededMemoryRepository()

	list, err := repo.ListAppointments(context.Background(), Filter{Date: "2026-10-15", Search: "jane"})
	require.NoError(t, err)
	assert.Equal(t, Seed(), list, "filter values are not applied")
}

func TestMemoryRepository_ListReturnsCopy(t *testing.T) {
	repo := NewSeededMemoryRepository()

	list, err := repo.ListAppointments(context.Background(), Filter{})
	require.NoError(t, err)
	list[0].Status = StatusCancelled

	again, err := repo.ListAppointments(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, again[0].Status)
}

func TestMemoryRepository_Update(t *testing.T) {
	repo := NewSeededMemoryRepository()
	ctx := context.Background()

	updated, err := repo.UpdateAppointmentStatus(ctx, "2", StatusScheduled, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)

	got, err := repo.GetAppointmentByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	_, err = repo.UpdateAppointmentStatus(ctx, "2", StatusScheduled, StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusChanged)

	_, err = repo.UpdateAppointmentStatus(ctx, "42", StatusScheduled, StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = repo.GetAppointmentByID(ctx, "42")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestMemoryRepository_EmptyBoard(t *testing.T) {
	repo := NewMemoryRepository(nil)

	list, err := repo.ListAppointments(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemoryRepository_ConcurrentUpdatesOnlyOneWins(t *testing.T) {
	repo := NewSeededMemoryRepository()
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.UpdateAppointmentStatus(ctx, "1", StatusConfirmed, StatusInProgress); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}
