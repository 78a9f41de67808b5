package api

import (
	"bytes"
	"net/http"

	"github.com/hackgods/reception-board/internal/board"
)

func boardPageHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r)
		if err != nil {
			http.Error(w, "date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		b, err := svc.ListAppointments(r.Context(), f)
		if err != nil {
			handleInternalError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := board.Render(&buf, board.Page{Board: b}); err != nil {
			handleInternalError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

// boardStatusFormHandler handles the per-row status dropdown and sends the
// browser back to the board.
func boardStatusFormHandler(svc AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "could not parse form", http.StatusBadRequest)
			return
		}

		id, err := appointmentIDParam(r)
		if err != nil {
			http.Error(w, "invalid appointment id", http.StatusBadRequest)
			return
		}
		if _, err := svc.UpdateStatus(r.Context(), id, r.PostForm.Get("status")); err != nil {
			handleUpdateError(w, r, err)
			return
		}

		http.Redirect(w, r, "/board", http.StatusSeeOther)
	}
}
