package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/reception-board/internal/appointment"
	"github.com/hackgods/reception-board/internal/logging"
)

// AppointmentService is what the HTTP layer needs from the board service.
type AppointmentService interface {
	ListAppointments(ctx context.Context, f appointment.Filter) (appointment.Board, error)
	Stats(ctx context.Context) (appointment.Stats, error)
	UpdateStatus(ctx context.Context, id, status string) (*appointment.Appointment, error)
}

const dateLayout = "2006-01-02"

// parseFilter reads the board's date and search inputs. The date only has to
// be well formed; it does not narrow the listing.
func parseFilter(r *http.Request) (appointment.Filter, error) {
	f := appointment.Filter{
		Date:   r.URL.Query().Get("date"),
		Search: r.URL.Query().Get("q"),
	}
	if f.Date != "" {
		if _, err := time.Parse(dateLayout, f.Date); err != nil {
			return appointment.Filter{}, err
		}
	}
	return f, nil
}

func listAppointmentsHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted as YYYY-MM-DD")
			return
		}

		b, err := svc.ListAppointments(r.Context(), f)
		if err != nil {
			handleInternalError(w, r, err)
			return
		}

		resp := ListAppointmentsResponse{
			Appointments: b.Appointments,
			Stats:        b.Stats,
			Filter: FilterResponse{
				Date:    f.Date,
				Search:  f.Search,
				Applied: false,
			},
		}
		if b.Empty() {
			resp.Appointments = []appointment.Appointment{}
			resp.Message = noAppointmentsMessage
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func statsHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			handleInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func updateStatusHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := appointmentIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid path segment")
			return
		}

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			handleUpdateError(w, r, err)
			return
		}
		if appt == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, appt)
	}
}

// appointmentIDParam returns the {id} path segment decoded. Ids are opaque
// and may contain reserved characters, so clients send them percent-encoded.
func appointmentIDParam(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "id"))
}

func handleUpdateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, appointment.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, appointment.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, appointment.ErrStatusChanged):
		writeError(w, http.StatusConflict, "status_changed", err.Error())
	case errors.Is(err, appointment.ErrAppointmentBusy):
		writeError(w, http.StatusConflict, "appointment_busy", "appointment is currently being updated, please retry shortly")
	default:
		handleInternalError(w, r, err)
	}
}

func handleInternalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
}
