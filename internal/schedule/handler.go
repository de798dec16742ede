package schedule

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	internal "github.com/frahmantamala/schedule-management/internal"
	"github.com/frahmantamala/schedule-management/internal/auth"
	"github.com/frahmantamala/schedule-management/internal/transport"
	"github.com/frahmantamala/schedule-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateSchedule(actor *auth.User, dto CreateScheduleDTO) (*Schedule, error)
	GetScheduleByID(actor *auth.User, id int64) (*Schedule, error)
	ListSchedules(actor *auth.User, filter ListFilter) ([]*Schedule, error)
	UpdateSchedule(actor *auth.User, id int64, dto UpdateScheduleDTO) (*Schedule, error)
	DeleteSchedule(actor *auth.User, id int64) error
	SubmitSchedule(actor *auth.User, id int64) (*Schedule, error)
	ApproveSchedule(actor *auth.User, id int64) (*Schedule, error)
	RejectSchedule(actor *auth.User, id int64, reason string) (*Schedule, error)
	RequestModification(actor *auth.User, id int64, reason string) (*Schedule, error)
	ListApprovals(actor *auth.User, limit, offset int) ([]*Schedule, error)
	GetConflicts(actor *auth.User, id int64) ([]Conflict, error)
	Calendar(actor *auth.User, year int, month time.Month) (*CalendarView, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateSchedule: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sched, err := h.Service.CreateSchedule(user, dto)
	if err != nil {
		h.Logger.Error("CreateSchedule: service error", "error", err, "user_id", user.ID)
		h.writeScheduleError(w, err)
		return
	}

	h.Logger.Info("CreateSchedule: schedule created",
		"schedule_id", sched.ID,
		"employee_id", sched.EmployeeID,
		"client_id", sched.ClientID)

	h.WriteJSON(w, http.StatusCreated, sched)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.scheduleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	sched, err := h.Service.GetScheduleByID(user, id)
	if err != nil {
		h.writeScheduleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sched)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedules, err := h.Service.ListSchedules(user, filter)
	if err != nil {
		h.writeScheduleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"schedules": schedules,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.scheduleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	var dto UpdateScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sched, err := h.Service.UpdateSchedule(user, id, dto)
	if err != nil {
		h.Logger.Error("UpdateSchedule: service error", "error", err, "schedule_id", id, "user_id", user.ID)
		h.writeScheduleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sched)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.scheduleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	if err := h.Service.DeleteSchedule(user, id); err != nil {
		h.Logger.Error("DeleteSchedule: service error", "error", err, "schedule_id", id, "user_id", user.ID)
		h.writeScheduleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SubmitSchedule(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, "submitted", func(user *auth.User, id int64) (*Schedule, error) {
		return h.Service.SubmitSchedule(user, id)
	})
}

func (h *Handler) ApproveSchedule(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, "approved", func(user *auth.User, id int64) (*Schedule, error) {
		return h.Service.ApproveSchedule(user, id)
	})
}

func (h *Handler) RejectSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.scheduleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	var dto RejectScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.writeScheduleError(w, err)
		return
	}

	sched, err := h.Service.RejectSchedule(user, id, dto.Reason)
	if err != nil {
		h.Logger.Error("RejectSchedule: service error", "error", err, "schedule_id", id, "user_id", user.ID)
		h.writeScheduleError(w, err)
		return
	}

	h.Logger.Info("RejectSchedule: schedule rejected",
		"schedule_id", id,
		"supervisor_id", user.ID,
		"reason", dto.Reason)

	h.WriteJSON(w, http.StatusOK, sched)
}

func (h *Handler) RequestModification(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.scheduleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	var dto ModificationRequestDTO
	if r.Body != nil {
		// Body is optional for modification requests.
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	sched, err := h.Service.RequestModification(user, id, dto.Reason)
	if err != nil {
		h.Logger.Error("RequestModification: service error", "error", err, "schedule_id", id, "user_id", user.ID)
		h.writeScheduleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sched)
}

func (h *Handler) GetApprovals(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := parsePagination(r)

	schedules, err := h.Service.ListApprovals(user, limit, offset)
	if err != nil {
		h.writeScheduleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"schedules": schedules,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) GetConflicts(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.scheduleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	conflicts, err := h.Service.GetConflicts(user, id)
	if err != nil {
		h.writeScheduleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"conflicts": conflicts,
	})
}

func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil || m < 1 || m > 12 {
			h.WriteError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = time.Month(m)
	}

	view, err := h.Service.Calendar(user, year, month)
	if err != nil {
		h.writeScheduleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) applyTransition(w http.ResponseWriter, r *http.Request, action string, fn func(*auth.User, int64) (*Schedule, error)) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.scheduleID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid schedule ID")
		return
	}

	sched, err := fn(user, id)
	if err != nil {
		h.Logger.Error("schedule transition failed", "action", action, "error", err, "schedule_id", id, "user_id", user.ID)
		h.writeScheduleError(w, err)
		return
	}

	h.Logger.Info("schedule transition applied", "action", action, "schedule_id", id, "user_id", user.ID)
	h.WriteJSON(w, http.StatusOK, sched)
}

func (h *Handler) scheduleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// writeScheduleError maps domain errors onto HTTP responses.
func (h *Handler) writeScheduleError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}

	switch err {
	case ErrScheduleNotFound:
		h.WriteError(w, http.StatusNotFound, "schedule not found")
	case ErrUnauthorizedAccess:
		h.WriteError(w, http.StatusForbidden, "access denied")
	case ErrWrongState:
		h.WriteError(w, http.StatusConflict, "schedule is not in a state that allows this transition")
	case ErrNotOwner:
		h.WriteError(w, http.StatusForbidden, "only the owning employee can submit the schedule")
	case ErrSupervisorRequired:
		h.WriteError(w, http.StatusForbidden, "supervisor role required")
	case ErrReasonRequired:
		h.WriteError(w, http.StatusBadRequest, "reason is required")
	case ErrCannotModify:
		h.WriteError(w, http.StatusBadRequest, "cannot modify schedule in current status")
	case ErrClientNotBookable:
		h.WriteError(w, http.StatusBadRequest, "client is not available for booking")
	default:
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	var filter ListFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		status, err := ParseStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if v := q.Get("employee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.EmployeeID = &id
	}
	if v := q.Get("client_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.ClientID = &id
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return filter, err
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return filter, err
		}
		filter.To = &t
	}

	filter.Limit, filter.Offset = parsePagination(r)
	return filter, nil
}

func parsePagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}
