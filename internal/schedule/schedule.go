package schedule

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
)

// Status is the closed set of schedule workflow states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusModified  Status = "modified"
)

// ParseStatus maps a raw string to a Status, rejecting anything outside the set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected, StatusModified:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown schedule status: %q", s)
	}
}

// IsTerminal reports whether no further transition can leave the state.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusModified
}

const (
	// DateLayout is the wire format for schedule dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for schedule clock times.
	TimeLayout = "15:04"
)

// Schedule represents a single work assignment of an employee at a client.
// Dates and clock times are stored separately so a schedule can span
// midnight without a timezone-dependent instant in the row.
type Schedule struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	EmployeeID      int64      `json:"employee_id" gorm:"column:employee_id;not null"`
	ClientID        int64      `json:"client_id" gorm:"column:client_id;not null"`
	StartDate       time.Time  `json:"start_date" gorm:"column:start_date;type:date;not null"`
	StartTime       string     `json:"start_time" gorm:"column:start_time;not null"`
	EndDate         time.Time  `json:"end_date" gorm:"column:end_date;type:date;not null"`
	EndTime         string     `json:"end_time" gorm:"column:end_time;not null"`
	Status          Status     `json:"status" gorm:"column:status;default:draft"`
	Notes           string     `json:"notes" gorm:"column:notes"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty" gorm:"column:submitted_at"`
	ApprovedBy      *int64     `json:"approved_by,omitempty" gorm:"column:approved_by"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty" gorm:"column:approved_at"`
	RejectionReason *string    `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

// TableName returns the table name for GORM
func (Schedule) TableName() string {
	return "schedules"
}

// Domain errors
var (
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrUnauthorizedAccess = errors.New("unauthorized access to schedule")
	ErrWrongState         = errors.New("invalid schedule status for this transition")
	ErrNotOwner           = errors.New("only the owning employee can submit the schedule")
	ErrSupervisorRequired = errors.New("supervisor role required for this transition")
	ErrReasonRequired     = errors.New("reason is required when rejecting a schedule")
	ErrCannotModify       = errors.New("cannot modify schedule in current status")
	ErrClientNotBookable  = errors.New("client is not available for booking")
)

// StartAt combines start date and clock time into an instant.
func (s *Schedule) StartAt() (time.Time, error) {
	return combineDateTime(s.StartDate, s.StartTime)
}

// EndAt combines end date and clock time into an instant.
func (s *Schedule) EndAt() (time.Time, error) {
	return combineDateTime(s.EndDate, s.EndTime)
}

func combineDateTime(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// DurationSeconds returns the scheduled length in whole seconds, or 0 if
// the time bounds do not parse.
func (s *Schedule) DurationSeconds() int64 {
	start, err := s.StartAt()
	if err != nil {
		return 0
	}
	end, err := s.EndAt()
	if err != nil {
		return 0
	}
	return int64(end.Sub(start).Seconds())
}

// DurationHours returns the scheduled length in hours, rounded to two decimals.
func (s *Schedule) DurationHours() float64 {
	return math.Round(float64(s.DurationSeconds())/3600*100) / 100
}

// Submit moves a draft schedule into review. Only the owning employee
// may submit; every guard failure is an explicit error so callers can
// tell a refused transition from a successful one.
func (s *Schedule) Submit(actor *auth.User) error {
	if actor == nil || !actor.IsEmployee() || actor.ID != s.EmployeeID {
		return ErrNotOwner
	}
	if s.Status != StatusDraft {
		return ErrWrongState
	}

	now := time.Now()
	s.Status = StatusSubmitted
	s.SubmittedAt = &now
	s.UpdatedAt = now
	return nil
}

// Approve finalizes a submitted schedule. Supervisor only.
func (s *Schedule) Approve(actor *auth.User) error {
	if !actor.IsSupervisor() {
		return ErrSupervisorRequired
	}
	if s.Status != StatusSubmitted {
		return ErrWrongState
	}

	now := time.Now()
	s.Status = StatusApproved
	s.ApprovedBy = &actor.ID
	s.ApprovedAt = &now
	s.UpdatedAt = now
	return nil
}

// Reject declines a submitted schedule. Supervisor only, and a
// non-empty reason is mandatory.
func (s *Schedule) Reject(actor *auth.User, reason string) error {
	if !actor.IsSupervisor() {
		return ErrSupervisorRequired
	}
	if s.Status != StatusSubmitted {
		return ErrWrongState
	}
	if reason == "" {
		return ErrReasonRequired
	}

	now := time.Now()
	s.Status = StatusRejected
	s.ApprovedBy = &actor.ID
	s.ApprovedAt = &now
	s.RejectionReason = &reason
	s.UpdatedAt = now
	return nil
}

// RequestModification sends a submitted schedule back to its employee
// for changes. Supervisor only, reason optional.
func (s *Schedule) RequestModification(actor *auth.User, reason string) error {
	if !actor.IsSupervisor() {
		return ErrSupervisorRequired
	}
	if s.Status != StatusSubmitted {
		return ErrWrongState
	}

	now := time.Now()
	s.Status = StatusModified
	s.ApprovedBy = &actor.ID
	s.ApprovedAt = &now
	if reason != "" {
		s.RejectionReason = &reason
	}
	s.UpdatedAt = now
	return nil
}

// CanBeEditedBy reports mutation rights: employees may edit only their
// own drafts, supervisors may edit anything.
func (s *Schedule) CanBeEditedBy(u *auth.User) bool {
	if u == nil {
		return false
	}
	if u.IsSupervisor() {
		return true
	}
	return u.IsEmployee() && u.ID == s.EmployeeID && s.Status == StatusDraft
}

// CanBeDeletedBy mirrors CanBeEditedBy.
func (s *Schedule) CanBeDeletedBy(u *auth.User) bool {
	return s.CanBeEditedBy(u)
}
