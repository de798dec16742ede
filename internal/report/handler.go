package report

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
	"github.com/frahmantamala/schedule-management/internal/schedule"
	"github.com/frahmantamala/schedule-management/internal/transport"
)

type ServiceAPI interface {
	Dashboard(actor *auth.User) (*Dashboard, error)
	Summary(actor *auth.User, filter schedule.ListFilter) (*Summary, error)
	EmployeeReport(actor *auth.User) (*RoleReport, error)
	ClientReport(actor *auth.User) (*RoleReport, error)
	SupervisorReport(actor *auth.User) (*RoleReport, error)
	ExportCSV(w io.Writer, actor *auth.User, dateRangeDays int) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetDashboard handles GET /dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dash, err := h.Service.Dashboard(actor)
	if err != nil {
		h.Logger.Error("GetDashboard: service failed", "user_id", actor.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, dash)
}

// GetSummary handles GET /reports
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, err := parseReportFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.Service.Summary(actor, filter)
	if err != nil {
		h.Logger.Error("GetSummary: service failed", "user_id", actor.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// GetEmployeeReport handles GET /reports/employee
func (h *Handler) GetEmployeeReport(w http.ResponseWriter, r *http.Request) {
	h.roleReport(w, r, h.Service.EmployeeReport)
}

// GetClientReport handles GET /reports/client
func (h *Handler) GetClientReport(w http.ResponseWriter, r *http.Request) {
	h.roleReport(w, r, h.Service.ClientReport)
}

// GetSupervisorReport handles GET /reports/supervisor
func (h *Handler) GetSupervisorReport(w http.ResponseWriter, r *http.Request) {
	h.roleReport(w, r, h.Service.SupervisorReport)
}

func (h *Handler) roleReport(w http.ResponseWriter, r *http.Request, build func(*auth.User) (*RoleReport, error)) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rep, err := build(actor)
	if err != nil {
		if err == schedule.ErrUnauthorizedAccess {
			h.WriteError(w, http.StatusForbidden, "forbidden")
			return
		}
		h.Logger.Error("roleReport: service failed", "user_id", actor.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}

type exportRequest struct {
	DateRange int `json:"date_range,omitempty"`
}

// ExportCSV handles POST /reports/export
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req exportRequest
	if r.Body != nil {
		// An empty body means the default range.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	// Build the document before touching headers so a listing failure
	// still gets a proper error status.
	var buf bytes.Buffer
	if err := h.Service.ExportCSV(&buf, actor, req.DateRange); err != nil {
		h.Logger.Error("ExportCSV: export failed", "user_id", actor.ID, "error", err)
		if err == schedule.ErrUnauthorizedAccess {
			h.WriteError(w, http.StatusForbidden, "forbidden")
			return
		}
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	filename := "schedules-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")

	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("ExportCSV: response write failed", "user_id", actor.ID, "error", err)
	}
}

func parseReportFilter(r *http.Request) (schedule.ListFilter, error) {
	var filter schedule.ListFilter
	q := r.URL.Query()

	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(schedule.DateLayout, v)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(schedule.DateLayout, v)
		if err != nil {
			return filter, err
		}
		filter.To = &t
	}
	if v := q.Get("status"); v != "" {
		status, err := schedule.ParseStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}
	return filter, nil
}
