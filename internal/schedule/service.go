package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
	"github.com/frahmantamala/schedule-management/internal/core/events"
)

// ListFilter bounds a schedule listing. Nil fields are unconstrained.
// From and To bound the start_date column, both inclusive.
type ListFilter struct {
	EmployeeID *int64
	ClientID   *int64
	Status     *Status
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// Repository interface defines the data access methods for schedules
type Repository interface {
	Create(s *Schedule) error
	GetByID(id int64) (*Schedule, error)
	List(filter ListFilter) ([]*Schedule, error)
	Update(s *Schedule) error
	Delete(id int64) error
	// ListNeighbors returns schedules of the same employee or client
	// within one day of the given schedule's date range, excluding it.
	ListNeighbors(s *Schedule) ([]*Schedule, error)
	ReplaceConflicts(scheduleID int64, conflicts []Conflict) error
	GetConflicts(scheduleID int64) ([]Conflict, error)
	DeleteConflictsFor(scheduleID int64) error
}

// EventPublisher decouples the service from the concrete bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ClientDirectory answers whether a client may still take bookings.
// Deactivated clients keep their history but accept no new schedules.
type ClientDirectory interface {
	IsBookable(id int64) bool
}

// Service handles schedule business logic
type Service struct {
	repo                 Repository
	events               EventPublisher
	clients              ClientDirectory
	policy               *auth.SchedulePolicy
	minGap               time.Duration
	allowPastStartOnEdit bool
	logger               *slog.Logger
}

// NewService creates a new schedule service
func NewService(repo Repository, publisher EventPublisher, clients ClientDirectory, minGap time.Duration, allowPastStartOnEdit bool, logger *slog.Logger) *Service {
	return &Service{
		repo:                 repo,
		events:               publisher,
		clients:              clients,
		policy:               &auth.SchedulePolicy{},
		minGap:               minGap,
		allowPastStartOnEdit: allowPastStartOnEdit,
		logger:               logger,
	}
}

// RegisterEventHandlers wires the conflict detector to the event bus.
func (s *Service) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.ScheduleSaved, s.handleScheduleSaved)
	bus.Subscribe(events.ScheduleDeleted, s.handleScheduleDeleted)
}

// CreateSchedule creates a new draft schedule after validating its time bounds.
func (s *Service) CreateSchedule(actor *auth.User, dto CreateScheduleDTO) (*Schedule, error) {
	if actor == nil || actor.IsClient() {
		return nil, ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("schedule validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	employeeID := actor.ID
	if dto.EmployeeID != nil {
		if actor.IsSupervisor() {
			employeeID = *dto.EmployeeID
		} else if *dto.EmployeeID != actor.ID {
			s.logger.Warn("employee tried to create schedule for someone else",
				"user_id", actor.ID, "employee_id", *dto.EmployeeID)
			return nil, ErrUnauthorizedAccess
		}
	}

	sched, err := dto.ToSchedule(employeeID)
	if err != nil {
		return nil, err
	}

	if err := s.checkBookable(sched.ClientID); err != nil {
		s.logger.Warn("schedule refused: client not bookable", "client_id", sched.ClientID, "user_id", actor.ID)
		return nil, err
	}

	// Creation always enforces the past-date check.
	if verr := ValidateTimes(sched, ValidatePolicy{}); verr != nil {
		s.logger.Error("schedule time bounds invalid", "error", verr, "user_id", actor.ID)
		return nil, verr
	}

	if err := s.repo.Create(sched); err != nil {
		s.logger.Error("failed to create schedule", "error", err, "user_id", actor.ID)
		return nil, err
	}

	s.publishSaved(sched)

	s.logger.Info("schedule created successfully",
		"schedule_id", sched.ID,
		"employee_id", sched.EmployeeID,
		"client_id", sched.ClientID,
		"duration_hours", sched.DurationHours())

	return sched, nil
}

// GetScheduleByID retrieves a schedule with role-based access control.
func (s *Service) GetScheduleByID(actor *auth.User, id int64) (*Schedule, error) {
	sched, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get schedule", "error", err, "schedule_id", id)
		return nil, ErrScheduleNotFound
	}

	if err := s.policy.CanViewSchedule(actor, sched.EmployeeID, sched.ClientID); err != nil {
		s.logger.Warn("unauthorized access to schedule", "schedule_id", id, "user_id", actor.ID)
		return nil, ErrUnauthorizedAccess
	}

	return sched, nil
}

// ListSchedules lists schedules visible to the actor, narrowed by filter.
func (s *Service) ListSchedules(actor *auth.User, filter ListFilter) ([]*Schedule, error) {
	scoped, err := s.scopeFilter(actor, filter)
	if err != nil {
		return nil, err
	}

	schedules, err := s.repo.List(scoped)
	if err != nil {
		s.logger.Error("failed to list schedules", "error", err, "user_id", actor.ID)
		return nil, err
	}

	return schedules, nil
}

// scopeFilter narrows a listing to what the actor's role may see.
func (s *Service) scopeFilter(actor *auth.User, filter ListFilter) (ListFilter, error) {
	if actor == nil {
		return ListFilter{}, ErrUnauthorizedAccess
	}

	switch actor.Role {
	case auth.RoleSupervisor:
		return filter, nil
	case auth.RoleEmployee:
		filter.EmployeeID = &actor.ID
		return filter, nil
	case auth.RoleClient:
		if actor.ClientID == nil {
			return ListFilter{}, ErrUnauthorizedAccess
		}
		filter.ClientID = actor.ClientID
		return filter, nil
	}
	return ListFilter{}, ErrUnauthorizedAccess
}

// UpdateSchedule applies a partial edit with role and status guards.
func (s *Service) UpdateSchedule(actor *auth.User, id int64, dto UpdateScheduleDTO) (*Schedule, error) {
	sched, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrScheduleNotFound
	}

	if !sched.CanBeEditedBy(actor) {
		if actor != nil && actor.IsEmployee() && actor.ID == sched.EmployeeID {
			// Owner but the schedule left draft already.
			return nil, ErrCannotModify
		}
		return nil, ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.ClientID != nil && *dto.ClientID != sched.ClientID {
		if err := s.checkBookable(*dto.ClientID); err != nil {
			s.logger.Warn("schedule edit refused: client not bookable", "client_id", *dto.ClientID, "user_id", actor.ID)
			return nil, err
		}
	}

	if err := dto.ApplyTo(sched); err != nil {
		return nil, err
	}

	if verr := ValidateTimes(sched, ValidatePolicy{AllowPastStart: s.allowPastStartOnEdit}); verr != nil {
		return nil, verr
	}

	if err := s.repo.Update(sched); err != nil {
		s.logger.Error("failed to update schedule", "error", err, "schedule_id", id)
		return nil, err
	}

	s.publishSaved(sched)

	s.logger.Info("schedule updated", "schedule_id", id, "user_id", actor.ID)
	return sched, nil
}

// DeleteSchedule removes a schedule with the same rights as editing.
func (s *Service) DeleteSchedule(actor *auth.User, id int64) error {
	sched, err := s.repo.GetByID(id)
	if err != nil {
		return ErrScheduleNotFound
	}

	if !sched.CanBeDeletedBy(actor) {
		if actor != nil && actor.IsEmployee() && actor.ID == sched.EmployeeID {
			return ErrCannotModify
		}
		return ErrUnauthorizedAccess
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete schedule", "error", err, "schedule_id", id)
		return err
	}

	if s.events != nil {
		if err := s.events.Publish(context.Background(), events.NewScheduleDeletedEvent(id)); err != nil {
			s.logger.Error("failed to publish schedule deleted event", "error", err, "schedule_id", id)
		}
	}

	s.logger.Info("schedule deleted", "schedule_id", id, "user_id", actor.ID)
	return nil
}

// SubmitSchedule moves a draft into review.
func (s *Service) SubmitSchedule(actor *auth.User, id int64) (*Schedule, error) {
	return s.transition(actor, id, func(sched *Schedule) error {
		return sched.Submit(actor)
	})
}

// ApproveSchedule finalizes a submitted schedule.
func (s *Service) ApproveSchedule(actor *auth.User, id int64) (*Schedule, error) {
	return s.transition(actor, id, func(sched *Schedule) error {
		return sched.Approve(actor)
	})
}

// RejectSchedule declines a submitted schedule with a mandatory reason.
func (s *Service) RejectSchedule(actor *auth.User, id int64, reason string) (*Schedule, error) {
	return s.transition(actor, id, func(sched *Schedule) error {
		return sched.Reject(actor, reason)
	})
}

// RequestModification sends a submitted schedule back for changes.
func (s *Service) RequestModification(actor *auth.User, id int64, reason string) (*Schedule, error) {
	return s.transition(actor, id, func(sched *Schedule) error {
		return sched.RequestModification(actor, reason)
	})
}

func (s *Service) transition(actor *auth.User, id int64, apply func(*Schedule) error) (*Schedule, error) {
	sched, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrScheduleNotFound
	}

	if err := apply(sched); err != nil {
		s.logger.Warn("schedule transition refused",
			"schedule_id", id,
			"status", sched.Status,
			"user_id", actor.ID,
			"error", err)
		return nil, err
	}

	if err := s.repo.Update(sched); err != nil {
		s.logger.Error("failed to persist schedule transition", "error", err, "schedule_id", id)
		return nil, err
	}

	s.logger.Info("schedule transition applied",
		"schedule_id", id,
		"status", sched.Status,
		"user_id", actor.ID)

	return sched, nil
}

// ListApprovals lists submitted schedules awaiting a supervisor decision.
func (s *Service) ListApprovals(actor *auth.User, limit, offset int) ([]*Schedule, error) {
	if !actor.IsSupervisor() {
		return nil, ErrUnauthorizedAccess
	}

	status := StatusSubmitted
	return s.repo.List(ListFilter{Status: &status, Limit: limit, Offset: offset})
}

// GetConflicts returns the recorded conflicts of a schedule the actor may see.
func (s *Service) GetConflicts(actor *auth.User, id int64) ([]Conflict, error) {
	sched, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrScheduleNotFound
	}

	if err := s.policy.CanViewSchedule(actor, sched.EmployeeID, sched.ClientID); err != nil {
		return nil, ErrUnauthorizedAccess
	}

	return s.repo.GetConflicts(id)
}

// checkBookable refuses clients that are unknown or deactivated.
func (s *Service) checkBookable(clientID int64) error {
	if s.clients == nil {
		return nil
	}
	if !s.clients.IsBookable(clientID) {
		return ErrClientNotBookable
	}
	return nil
}

func (s *Service) publishSaved(sched *Schedule) {
	if s.events == nil {
		return
	}
	event := events.NewScheduleSavedEvent(sched.ID, sched.EmployeeID, sched.ClientID)
	if err := s.events.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish schedule saved event", "error", err, "schedule_id", sched.ID)
	}
}

// handleScheduleSaved re-scans a saved schedule for conflicts and
// replaces its recorded set. Advisory only: failures are logged, never
// surfaced to the request that triggered the save.
func (s *Service) handleScheduleSaved(ctx context.Context, event events.Event) error {
	id, ok := events.ScheduleIDFromEvent(event)
	if !ok {
		s.logger.Error("schedule saved event without schedule_id", "event_id", event.EventID())
		return nil
	}

	sched, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("conflict scan: schedule not found", "schedule_id", id, "error", err)
		return err
	}

	neighbors, err := s.repo.ListNeighbors(sched)
	if err != nil {
		s.logger.Error("conflict scan: failed to load neighbors", "schedule_id", id, "error", err)
		return err
	}

	conflicts := DetectConflicts(sched, neighbors, s.minGap)
	if err := s.repo.ReplaceConflicts(id, conflicts); err != nil {
		s.logger.Error("conflict scan: failed to store conflicts", "schedule_id", id, "error", err)
		return err
	}

	s.logger.Info("conflict scan finished", "schedule_id", id, "conflicts", len(conflicts))
	return nil
}

func (s *Service) handleScheduleDeleted(ctx context.Context, event events.Event) error {
	id, ok := events.ScheduleIDFromEvent(event)
	if !ok {
		return nil
	}
	return s.repo.DeleteConflictsFor(id)
}
