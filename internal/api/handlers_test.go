package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/reception-board/internal/appointment"
)

type brokenService struct{}

func (brokenService) ListAppointments(context.Context, appointment.Filter) (appointment.Board, error) {
	return appointment.Board{}, errors.New("store unavailable")
}

func (brokenService) Stats(context.Context) (appointment.Stats, error) {
	return appointment.Stats{}, errors.New("store unavailable")
}

func (brokenService) UpdateStatus(context.Context, string, string) (*appointment.Appointment, error) {
	return nil, errors.New("store unavailable")
}

func newTestRouter(repo appointment.Repository, policy appointment.TransitionPolicy) http.Handler {
	return NewRouter(RouterConfig{
		Service: appointment.NewService(repo, policy),
		Env:     "test",
		Version: "test",
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) ListAppointmentsResponse {
	t.Helper()
	var resp ListAppointmentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListAppointments(t *testing.T) {
	h := newTestRouter(appointment.NewSeededMemoryRepository(), nil)

	rec := do(t, h, http.MethodGet, "/appointments?date=2026-10-15&q=jane", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	resp := decodeList(t, rec)
	assert.Equal(t, appointment.Seed(), resp.Appointments)
	assert.Equal(t, appointment.Stats{Total: 3, Confirmed: 1, Waiting: 1, InProgress: 1}, resp.Stats)
	assert.Equal(t, FilterResponse{Date: "2026-10-15", Search: "jane", Applied: false}, resp.Filter)
	assert.Empty(t, resp.Message)
}

func TestListAppointmentsEmpty(t *testing.T) {
	h := newTestRouter(appointment.NewMemoryRepository(nil), nil)

	rec := do(t, h, http.MethodGet, "/appointments", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeList(t, rec)
	assert.Equal(t, noAppointmentsMessage, resp.Message)
	assert.NotNil(t, resp.Appointments)
	assert.Empty(t, resp.Appointments)
	assert.Contains(t, rec.Body.String(), `"appointments":[]`)
}

func TestListAppointmentsBadDate(t *testing.T) {
	h := newTestRouter(appointment.NewSeededMemoryRepository(), nil)

	rec := do(t, h, http.MethodGet, "/appointments?date=15/10/2026", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_date")
}

func TestStats(t *testing.T) {
	h := newTestRouter(appointment.NewSeededMemoryRepository(), nil)

	rec := do(t, h, http.MethodGet, "/appointments/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":3,"confirmed":1,"waiting":1,"inProgress":1}`, rec.Body.String())
}

func TestUpdateStatusThenStats(t *testing.T) {
	h := newTestRouter(appointment.NewSeededMemoryRepository(), nil)

	rec := do(t, h, http.MethodPatch, "/appointments/2/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.Equal(t, "2", appt.ID)
	assert.Equal(t, appointment.StatusCompleted, appt.Status)

	rec = do(t, h, http.MethodGet, "/appointments/stats", "")
	assert.JSONEq(t, `{"total":3,"confirmed":1,"waiting":0,"inProgress":1}`, rec.Body.String())
}

func TestUpdateStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		policy   appointment.TransitionPolicy
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "unknown id is a no-op",
			path:     "/appointments/99/status",
			body:     `{"status":"cancelled"}`,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "status outside the closed set",
			path:     "/appointments/1/status",
			body:     `{"status":"no_show"}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_status",
		},
		{
			name:     "malformed body",
			path:     "/appointments/1/status",
			body:     `{"status":`,
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_request_body",
		},
		{
			name:     "strict workflow rejects skip",
			policy:   appointment.WorkflowTransitions{},
			path:     "/appointments/2/status",
			body:     `{"status":"completed"}`,
			wantCode: http.StatusConflict,
			wantErr:  "invalid_status_transition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(appointment.NewSeededMemoryRepository(), tt.policy)

			rec := do(t, h, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantErr, resp.Error)
			}
		})
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	h := NewRouter(RouterConfig{Service: brokenService{}})

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/appointments", ""},
		{http.MethodGet, "/appointments/stats", ""},
		{http.MethodPatch, "/appointments/1/status", `{"status":"confirmed"}`},
		{http.MethodGet, "/board", ""},
	} {
		rec := do(t, h, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, tc.path)
		assert.NotContains(t, rec.Body.String(), "store unavailable", tc.path)
	}
}

func TestBoardPage(t *testing.T) {
	h := newTestRouter(appointment.NewSeededMemoryRepository(), nil)

	rec := do(t, h, http.MethodGet, "/board", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Mike Johnson")
}

func TestBoardPageEmpty(t *testing.T) {
	h := newTestRouter(appointment.NewMemoryRepository(nil), nil)

	rec := do(t, h, http.MethodGet, "/board", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No appointments found")
}

func TestBoardStatusForm(t *testing.T) {
	repo := appointment.NewSeededMemoryRepository()
	h := newTestRouter(repo, nil)

	form := url.Values{"status": {"cancelled"}}
	req := httptest.NewRequest(http.MethodPost, "/board/appointments/1/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/board", rec.Header().Get("Location"))

	got, err := repo.GetAppointmentByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, got.Status)
}

func TestRootRedirectsToBoard(t *testing.T) {
	h := newTestRouter(appointment.NewSeededMemoryRepository(), nil)

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/board", rec.Header().Get("Location"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(appointment.NewSeededMemoryRepository(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "desk-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "desk-42", rec.Header().Get("X-Request-ID"))
}

func reservedIDRepo() *appointment.MemoryRepository {
	return appointment.NewMemoryRepository([]appointment.Appointment{
		{ID: "A/7", TokenNumber: 7, Status: appointment.StatusScheduled},
		{ID: "A", TokenNumber: 8, Status: appointment.StatusScheduled},
	})
}

func TestUpdateStatusWithReservedCharactersInID(t *testing.T) {
	repo := reservedIDRepo()
	h := newTestRouter(repo, nil)

	rec := do(t, h, http.MethodPatch, "/appointments/"+url.PathEscape("A/7")+"/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.Equal(t, "A/7", appt.ID)

	got, err := repo.GetAppointmentByID(context.Background(), "A/7")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusConfirmed, got.Status)

	other, err := repo.GetAppointmentByID(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusScheduled, other.Status)
}

func TestBoardFormWithReservedCharactersInID(t *testing.T) {
	repo := reservedIDRepo()
	h := newTestRouter(repo, nil)

	page := do(t, h, http.MethodGet, "/board", "")
	require.Equal(t, http.StatusOK, page.Code)

	m := regexp.MustCompile(`action="(/board/appointments/[^"]*A[^"]*7/status)"`).FindStringSubmatch(page.Body.String())
	require.Len(t, m, 2, "form action for A/7 rendered")
	assert.Equal(t, "/board/appointments/A%2F7/status", m[1])

	form := url.Values{"status": {"in_progress"}}
	req := httptest.NewRequest(http.MethodPost, m[1], strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := repo.GetAppointmentByID(context.Background(), "A/7")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusInProgress, got.Status)
}

func TestUpdateStatusFromUnlistedStoredStatus(t *testing.T) {
	repo := appointment.NewMemoryRepository([]appointment.Appointment{
		{ID: "1", Status: appointment.Status("pending")},
	})
	h := newTestRouter(repo, nil)

	rec := do(t, h, http.MethodPatch, "/appointments/1/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}
