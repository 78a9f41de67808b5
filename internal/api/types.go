package api

import (
	"github.com/hackgods/reception-board/internal/appointment"
)

const noAppointmentsMessage = "no appointments"

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type FilterResponse struct {
	Date    string `json:"date,omitempty"`
	Search  string `json:"search,omitempty"`
	Applied bool   `json:"applied"`
}

type ListAppointmentsResponse struct {
	Appointments []appointment.Appointment `json:"appointments"`
	Stats        appointment.Stats         `json:"stats"`
	Filter       FilterResponse            `json:"filter"`
	Message      string                    `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
