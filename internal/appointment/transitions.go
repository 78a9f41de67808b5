package appointment

import "errors"

var ErrInvalidStatusTransition = errors.New("invalid status transition")

// TransitionPolicy decides whether an appointment may move between two
// statuses.
type TransitionPolicy interface {
	Allowed(from, to Status) bool
}

// FreeTransitions lets any status change to any other status. Only the
// target has to be in the closed set, so a record holding a stray value can
// still be corrected.
type FreeTransitions struct{}

func (FreeTransitions) Allowed(_, to Status) bool {
	return to.Valid()
}

// WorkflowTransitions enforces the front desk workflow:
//
//	scheduled -> confirmed -> in_progress -> completed
//	scheduled | confirmed | in_progress -> cancelled
//
// Re-applying the current status is always allowed.
type WorkflowTransitions struct{}

var workflow = map[Status][]Status{
	StatusScheduled:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func (WorkflowTransitions) Allowed(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range workflow[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PolicyFor maps the STATUS_WORKFLOW setting to a policy.
func PolicyFor(name string) TransitionPolicy {
	if name == "strict" {
		return WorkflowTransitions{}
	}
	return FreeTransitions{}
}
