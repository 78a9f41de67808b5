package appointment

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid appointment status")

// AllStatuses returns the closed status set in the order the board's
// dropdown lists it.
func AllStatuses() []Status {
	return []Status{
		StatusScheduled,
		StatusConfirmed,
		StatusInProgress,
		StatusCompleted,
		StatusCancelled,
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Label is the human readable form used on the board, e.g. "In Progress".
func (s Status) Label() string {
	parts := strings.Split(string(s), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

type Patient struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Appointment struct {
	ID              string  `json:"id"`
	AppointmentTime string  `json:"appointment_time"`
	TokenNumber     int     `json:"token_number"`
	Status          Status  `json:"status"`
	Patient         Patient `json:"patient"`
	ChiefComplaint  string  `json:"chief_complaint"`
	TreatmentType   string  `json:"treatment_type"`
}

// Filter holds the board's date picker and search box values. Backends
// receive it but do not narrow their results with it yet.
type Filter struct {
	Date   string
	Search string
}
