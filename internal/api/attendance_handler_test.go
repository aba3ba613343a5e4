package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/phrazzld/attendance-api/internal/report"
	"github.com/phrazzld/attendance-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func attendanceUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("ada@example.com", "Ada")
	require.NoError(t, err)
	return user
}

func TestAttendanceHandler_OptionLists(t *testing.T) {
	router := newTestRouter(&mockUserService{}, &mockAttendanceService{}, uuid.New())

	rr := doRequest(t, router, http.MethodGet, "/api/attendance/types", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var types []domain.SelectOption
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &types))
	assert.Len(t, types, 11)
	assert.Equal(t, domain.SelectOption{Text: "RemoteWork", Value: 5}, types[4])

	rr = doRequest(t, router, http.MethodGet, "/api/attendance/reason-priorities", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[
		{"text":"OnlineDisaster","value":1},
		{"text":"UnscheduledTask","value":2},
		{"text":"UrgentRoutine","value":3},
		{"text":"Compensatory","value":4},
		{"text":"Creative","value":5}
	]`, rr.Body.String())
}

func TestAttendanceHandler_Create(t *testing.T) {
	user := attendanceUser(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	priority := 2

	users := &mockUserService{}
	users.On("CurrentUser", mock.Anything, user.ID).Return(user, nil)

	attendance := &mockAttendanceService{}
	attendance.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateAttendanceInput) bool {
		return in.UserID == user.ID &&
			in.UserName == "Ada" &&
			in.Type == domain.AnnualLeave &&
			in.ReasonPriority != nil && *in.ReasonPriority == domain.UnscheduledTask
	})).Return(
		&domain.AttendanceLog{ID: uuid.New(), Type: domain.AnnualLeave, Status: domain.AttendanceStatusPending},
		&domain.AuditEntry{ID: uuid.New(), Action: domain.AuditActionCreate, ActionBy: "Ada"},
		nil,
	).Once()

	router := newTestRouter(users, attendance, user.ID)
	rr := doRequest(t, router, http.MethodPost, "/api/attendance", CreateAttendanceRequest{
		Type:           int(domain.AnnualLeave),
		StartDateTime:  start,
		EndDateTime:    start.Add(8 * time.Hour),
		Hours:          8,
		Reason:         "family trip",
		ReasonPriority: &priority,
	})

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp CreateAttendanceResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, domain.AttendanceStatusPending, resp.Attendance.Status)
	assert.Equal(t, domain.AuditActionCreate, resp.Audit.Action)
	attendance.AssertExpectations(t)
}

func TestAttendanceHandler_Create_Rejected(t *testing.T) {
	user := attendanceUser(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       interface{}
		createErr  error
		wantStatus int
		wantError  string
	}{
		{
			name: "end before start",
			body: CreateAttendanceRequest{
				Type: 1, StartDateTime: start, EndDateTime: start.Add(-time.Hour), Reason: "flu",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid end_date_time: out of order",
		},
		{
			name:       "unknown type",
			body:       CreateAttendanceRequest{Type: 12, StartDateTime: start, EndDateTime: start, Reason: "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "audit write failed",
			body: CreateAttendanceRequest{
				Type: 1, StartDateTime: start, EndDateTime: start.Add(time.Hour), Hours: 1, Reason: "flu",
			},
			createErr:  service.NewServiceError("attendance", "create", "failed", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to create attendance log",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := &mockUserService{}
			users.On("CurrentUser", mock.Anything, user.ID).Return(user, nil)
			attendance := &mockAttendanceService{}
			if tc.createErr != nil {
				attendance.On("Create", mock.Anything, mock.Anything).
					Return(&domain.AttendanceLog{ID: uuid.New()}, nil, tc.createErr).Once()
			}

			rr := doRequest(t, newTestRouter(users, attendance, user.ID), http.MethodPost, "/api/attendance", tc.body)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantError != "" {
				assert.Equal(t, tc.wantError, decodeError(t, rr).Error)
			}
			assert.NotContains(t, rr.Body.String(), "disk full")
		})
	}
}

func TestAttendanceHandler_Get(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	id := uuid.New()
	entry := &domain.AttendanceLog{ID: id, UserID: owner, Reason: "flu"}

	t.Run("owner", func(t *testing.T) {
		users := &mockUserService{}
		users.On("RequireSelfOrAdmin", mock.Anything, owner, owner).Return(nil)
		attendance := &mockAttendanceService{}
		attendance.On("Get", mock.Anything, id).Return(entry, nil)

		rr := doRequest(t, newTestRouter(users, attendance, owner), http.MethodGet, "/api/attendance/"+id.String(), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("other user", func(t *testing.T) {
		users := &mockUserService{}
		users.On("RequireSelfOrAdmin", mock.Anything, other, owner).Return(service.ErrForbidden)
		attendance := &mockAttendanceService{}
		attendance.On("Get", mock.Anything, id).Return(entry, nil)

		rr := doRequest(t, newTestRouter(users, attendance, other), http.MethodGet, "/api/attendance/"+id.String(), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.NotContains(t, rr.Body.String(), "flu")
	})

	t.Run("not found", func(t *testing.T) {
		attendance := &mockAttendanceService{}
		attendance.On("Get", mock.Anything, id).Return(nil, service.ErrAttendanceNotFound)

		rr := doRequest(t, newTestRouter(&mockUserService{}, attendance, owner), http.MethodGet,
			"/api/attendance/"+id.String(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Attendance log not found", decodeError(t, rr).Error)
	})

	t.Run("bad id", func(t *testing.T) {
		rr := doRequest(t, newTestRouter(&mockUserService{}, &mockAttendanceService{}, owner), http.MethodGet,
			"/api/attendance/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAttendanceHandler_ListMine_Unauthenticated(t *testing.T) {
	rr := doRequest(t, newTestRouter(&mockUserService{}, &mockAttendanceService{}, uuid.Nil), http.MethodGet,
		"/api/attendance", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAttendanceHandler_Export(t *testing.T) {
	admin := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	logs := []*domain.AttendanceLog{{
		ID: uuid.New(), Type: domain.SickLeave, StartDateTime: from, EndDateTime: from.Add(time.Hour),
		Hours: 1, Reason: "flu", Status: domain.AttendanceStatusPending, UserID: uuid.New(), UserName: "Ada",
	}}

	attendance := &mockAttendanceService{}
	attendance.On("ListRange", mock.Anything, from, to).Return(logs, nil).Once()
	router := newTestRouter(&mockUserService{}, attendance, admin)

	rr := doRequest(t, router, http.MethodGet, "/api/attendance/export?from=2026-03-01&to=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, report.XLSXContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attendance_2026-03-01_2026-03-31.xlsx")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "PK"), "xlsx is a zip archive")
	attendance.AssertExpectations(t)

	rr = doRequest(t, router, http.MethodGet, "/api/attendance/export?from=2026-03-31&to=2026-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, router, http.MethodGet, "/api/attendance/export?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
