package api

import (
	"fmt"
	"net/http"

	"github.com/phrazzld/attendance-api/internal/api/shared"
	"github.com/phrazzld/attendance-api/internal/platform/logger"
	"github.com/phrazzld/attendance-api/internal/platform/metrics"
	"github.com/phrazzld/attendance-api/internal/report"
	"github.com/phrazzld/attendance-api/internal/service"
)

// AttendanceHandler serves the attendance endpoints.
type AttendanceHandler struct {
	attendance service.AttendanceService
	users      service.UserService
	metrics    *metrics.Metrics
}

// NewAttendanceHandler creates an AttendanceHandler. m may be nil.
func NewAttendanceHandler(
	attendance service.AttendanceService,
	users service.UserService,
	m *metrics.Metrics,
) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, users: users, metrics: m}
}

// Types handles GET /api/attendance/types.
func (h *AttendanceHandler) Types(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.attendance.TypeList())
}

// ReasonPriorities handles GET /api/attendance/reason-priorities.
func (h *AttendanceHandler) ReasonPriorities(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.attendance.ReasonPriorityList())
}

// Create handles POST /api/attendance for the authenticated user.
func (h *AttendanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateAttendanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.CurrentUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load user")
		return
	}

	entry, audit, err := h.attendance.Create(r.Context(), req.toInput(user.ID, user.Name))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create attendance log")
		return
	}

	h.metrics.AttendanceCreated(entry.Type.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateAttendanceResponse{
		Attendance: entry,
		Audit:      audit,
	})
}

// Get handles GET /api/attendance/{id}. Only the owner or an
// administrator may read a log.
func (h *AttendanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	entry, err := h.attendance.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load attendance log")
		return
	}

	if err := h.users.RequireSelfOrAdmin(r.Context(), userID, entry.UserID); err != nil {
		HandleAPIError(w, r, err, "Failed to check permissions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entry)
}

// ListMine handles GET /api/attendance.
func (h *AttendanceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	logs, err := h.attendance.ListForUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list attendance logs")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, logs)
}

// Export handles GET /api/attendance/export?from=YYYY-MM-DD&to=YYYY-MM-DD
// and streams the logs of every user in the range as a spreadsheet.
func (h *AttendanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logs, err := h.attendance.ListRange(r.Context(), from, to)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list attendance logs")
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", from.Format(DateLayout), to.AddDate(0, 0, -1).Format(DateLayout))
	w.Header().Set("Content-Type", report.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := report.WriteAttendanceXLSX(w, logs); err != nil {
		// Headers are already sent.
		logger.FromContext(r.Context()).Error("failed to write attendance export", "error", err)
	}
}
