package report

import (
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
	"github.com/frahmantamala/schedule-management/internal/schedule"
)

// ScheduleSource provides the role-scoped schedule set the aggregators
// run over. Scoping happens in the schedule service, so a report can
// never leak rows its actor cannot see.
type ScheduleSource interface {
	ListSchedules(actor *auth.User, filter schedule.ListFilter) ([]*schedule.Schedule, error)
}

// NameDirectory resolves ids to display names.
type NameDirectory interface {
	NamesByID() (map[int64]string, error)
}

type Service struct {
	schedules ScheduleSource
	users     NameDirectory
	clients   NameDirectory
	logger    *slog.Logger
}

func NewService(schedules ScheduleSource, users, clients NameDirectory, logger *slog.Logger) *Service {
	return &Service{
		schedules: schedules,
		users:     users,
		clients:   clients,
		logger:    logger,
	}
}

type Dashboard struct {
	Role            auth.Role            `json:"role"`
	Counts          StatusCounts         `json:"counts"`
	ApprovedHours   float64              `json:"approved_hours"`
	Recent          []*schedule.Schedule `json:"recent"`
	HoursByClient   []HoursEntry         `json:"hours_by_client,omitempty"`
	HoursByEmployee []HoursEntry         `json:"hours_by_employee,omitempty"`
	PendingQueue    []*schedule.Schedule `json:"pending_queue,omitempty"`
}

// Dashboard builds the role-specific aggregate view over the current
// calendar month.
func (s *Service) Dashboard(actor *auth.User) (*Dashboard, error) {
	return s.dashboardAt(actor, time.Now().UTC())
}

func (s *Service) dashboardAt(actor *auth.User, now time.Time) (*Dashboard, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	schedules, err := s.schedules.ListSchedules(actor, schedule.ListFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Role:          actor.Role,
		Counts:        CountByStatus(schedules),
		ApprovedHours: TotalApprovedHours(schedules),
		Recent:        Recent(schedules, 5),
	}

	switch actor.Role {
	case auth.RoleEmployee:
		names, err := s.clients.NamesByID()
		if err != nil {
			return nil, err
		}
		dash.HoursByClient = ApprovedHoursByClient(schedules, names)
	case auth.RoleClient:
		names, err := s.users.NamesByID()
		if err != nil {
			return nil, err
		}
		dash.HoursByEmployee = ApprovedHoursByEmployee(schedules, names)
	case auth.RoleSupervisor:
		names, err := s.users.NamesByID()
		if err != nil {
			return nil, err
		}
		dash.HoursByEmployee = ApprovedHoursByEmployee(schedules, names)
		pending := make([]*schedule.Schedule, 0)
		for _, sch := range schedules {
			if sch.Status == schedule.StatusSubmitted {
				pending = append(pending, sch)
			}
		}
		dash.PendingQueue = pending
	}

	s.logger.Debug("dashboard built", "role", actor.Role, "total", dash.Counts.Total)
	return dash, nil
}

type Summary struct {
	Counts        StatusCounts         `json:"counts"`
	ApprovedHours float64              `json:"approved_hours"`
	Monthly       []MonthBucket        `json:"monthly_approved_hours"`
	Recent        []*schedule.Schedule `json:"recent"`
}

// Summary builds the index report over an optional date range and
// status filter.
func (s *Service) Summary(actor *auth.User, filter schedule.ListFilter) (*Summary, error) {
	return s.summaryAt(actor, filter, time.Now().UTC())
}

func (s *Service) summaryAt(actor *auth.User, filter schedule.ListFilter, now time.Time) (*Summary, error) {
	schedules, err := s.schedules.ListSchedules(actor, filter)
	if err != nil {
		return nil, err
	}

	// The histogram always looks at the trailing six months regardless
	// of the summary's own range.
	histFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -5, 0)
	histSet, err := s.schedules.ListSchedules(actor, schedule.ListFilter{From: &histFrom, To: &now})
	if err != nil {
		return nil, err
	}

	return &Summary{
		Counts:        CountByStatus(schedules),
		ApprovedHours: TotalApprovedHours(schedules),
		Monthly:       MonthlyApprovedHours(histSet, now),
		Recent:        Recent(schedules, 10),
	}, nil
}

type RoleReport struct {
	Counts          StatusCounts `json:"counts"`
	ApprovedHours   float64      `json:"approved_hours"`
	HoursByClient   []HoursEntry `json:"hours_by_client,omitempty"`
	HoursByEmployee []HoursEntry `json:"hours_by_employee,omitempty"`
}

// EmployeeReport aggregates the acting employee's last 30 days,
// grouped by client.
func (s *Service) EmployeeReport(actor *auth.User) (*RoleReport, error) {
	schedules, err := s.lastDays(actor, 30)
	if err != nil {
		return nil, err
	}
	names, err := s.clients.NamesByID()
	if err != nil {
		return nil, err
	}
	return &RoleReport{
		Counts:        CountByStatus(schedules),
		ApprovedHours: TotalApprovedHours(schedules),
		HoursByClient: ApprovedHoursByClient(schedules, names),
	}, nil
}

// ClientReport aggregates the acting client user's last 30 days,
// grouped by employee.
func (s *Service) ClientReport(actor *auth.User) (*RoleReport, error) {
	schedules, err := s.lastDays(actor, 30)
	if err != nil {
		return nil, err
	}
	names, err := s.users.NamesByID()
	if err != nil {
		return nil, err
	}
	return &RoleReport{
		Counts:          CountByStatus(schedules),
		ApprovedHours:   TotalApprovedHours(schedules),
		HoursByEmployee: ApprovedHoursByEmployee(schedules, names),
	}, nil
}

// SupervisorReport aggregates the whole staff's last 30 days, grouped
// both ways.
func (s *Service) SupervisorReport(actor *auth.User) (*RoleReport, error) {
	if !actor.IsSupervisor() {
		return nil, schedule.ErrUnauthorizedAccess
	}

	schedules, err := s.lastDays(actor, 30)
	if err != nil {
		return nil, err
	}
	userNames, err := s.users.NamesByID()
	if err != nil {
		return nil, err
	}
	clientNames, err := s.clients.NamesByID()
	if err != nil {
		return nil, err
	}
	return &RoleReport{
		Counts:          CountByStatus(schedules),
		ApprovedHours:   TotalApprovedHours(schedules),
		HoursByClient:   ApprovedHoursByClient(schedules, clientNames),
		HoursByEmployee: ApprovedHoursByEmployee(schedules, userNames),
	}, nil
}

// ExportCSV streams the actor's schedules from the trailing date range
// as CSV. dateRangeDays defaults to 30.
func (s *Service) ExportCSV(w io.Writer, actor *auth.User, dateRangeDays int) error {
	if dateRangeDays <= 0 {
		dateRangeDays = 30
	}

	schedules, err := s.lastDays(actor, dateRangeDays)
	if err != nil {
		return err
	}
	clientNames, err := s.clients.NamesByID()
	if err != nil {
		return err
	}
	employeeNames, err := s.users.NamesByID()
	if err != nil {
		return err
	}

	s.logger.Info("exporting schedules", "actor_id", actor.ID, "rows", len(schedules), "days", dateRangeDays)
	return WriteCSV(w, schedules, clientNames, employeeNames)
}

func (s *Service) lastDays(actor *auth.User, days int) ([]*schedule.Schedule, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -days)
	return s.schedules.ListSchedules(actor, schedule.ListFilter{From: &from, To: &now})
}
