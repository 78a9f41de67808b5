package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeTransitionsAllowEverything(t *testing.T) {
	p := FreeTransitions{}
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			assert.True(t, p.Allowed(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, p.Allowed(StatusScheduled, Status("bogus")))
	assert.True(t, p.Allowed(Status("pending"), StatusConfirmed))
	assert.True(t, p.Allowed(Status(""), StatusScheduled))
}

func TestWorkflowTransitions(t *testing.T) {
	p := WorkflowTransitions{}

	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusInProgress, false},
		{StatusScheduled, StatusCompleted, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusScheduled, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusConfirmed, false},
		{StatusCompleted, StatusScheduled, false},
		{StatusCompleted, StatusCompleted, true},
		{StatusCancelled, StatusScheduled, false},
		{StatusCancelled, StatusCancelled, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Allowed(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPolicyFor(t *testing.T) {
	assert.IsType(t, WorkflowTransitions{}, PolicyFor("strict"))
	assert.IsType(t, FreeTransitions{}, PolicyFor("free"))
	assert.IsType(t, FreeTransitions{}, PolicyFor(""))
}
