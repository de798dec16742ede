package postgres

import (
	"time"

	"github.com/frahmantamala/schedule-management/internal/schedule"
	"gorm.io/gorm"
)

// ScheduleRepository implements the schedule.Repository interface using GORM
type ScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *gorm.DB) schedule.Repository {
	return &ScheduleRepository{db: db}
}

// Create saves a new schedule to the database
func (r *ScheduleRepository) Create(s *schedule.Schedule) error {
	return r.db.Create(s).Error
}

// GetByID retrieves a schedule by its ID
func (r *ScheduleRepository) GetByID(id int64) (*schedule.Schedule, error) {
	var s schedule.Schedule
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, schedule.ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List retrieves schedules matching the filter, newest start date first.
func (r *ScheduleRepository) List(filter schedule.ListFilter) ([]*schedule.Schedule, error) {
	var schedules []*schedule.Schedule

	query := r.db.Model(&schedule.Schedule{})
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("start_date >= ?", filter.From.Format(schedule.DateLayout))
	}
	if filter.To != nil {
		query = query.Where("start_date <= ?", filter.To.Format(schedule.DateLayout))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	err := query.
		Order("start_date DESC, start_time DESC").
		Find(&schedules).Error
	return schedules, err
}

// Update updates an existing schedule
func (r *ScheduleRepository) Update(s *schedule.Schedule) error {
	s.UpdatedAt = time.Now()
	return r.db.Save(s).Error
}

// Delete removes a schedule
func (r *ScheduleRepository) Delete(id int64) error {
	return r.db.Delete(&schedule.Schedule{}, id).Error
}

// ListNeighbors returns schedules of the same employee or client within
// one day of the given schedule's date range, excluding it. The window
// is wide enough for the conflict detector's gap check.
func (r *ScheduleRepository) ListNeighbors(s *schedule.Schedule) ([]*schedule.Schedule, error) {
	var schedules []*schedule.Schedule

	from := s.StartDate.AddDate(0, 0, -1).Format(schedule.DateLayout)
	to := s.EndDate.AddDate(0, 0, 1).Format(schedule.DateLayout)

	err := r.db.
		Where("id <> ?", s.ID).
		Where("employee_id = ? OR client_id = ?", s.EmployeeID, s.ClientID).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Find(&schedules).Error
	return schedules, err
}

// ReplaceConflicts swaps the recorded conflict set of a schedule.
func (r *ScheduleRepository) ReplaceConflicts(scheduleID int64, conflicts []schedule.Conflict) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("schedule_a_id = ? OR schedule_b_id = ?", scheduleID, scheduleID).
			Delete(&schedule.Conflict{}).Error; err != nil {
			return err
		}
		if len(conflicts) == 0 {
			return nil
		}
		return tx.Create(&conflicts).Error
	})
}

// GetConflicts lists the recorded conflicts touching a schedule.
func (r *ScheduleRepository) GetConflicts(scheduleID int64) ([]schedule.Conflict, error) {
	var conflicts []schedule.Conflict
	err := r.db.
		Where("schedule_a_id = ? OR schedule_b_id = ?", scheduleID, scheduleID).
		Order("detected_at DESC").
		Find(&conflicts).Error
	return conflicts, err
}

// DeleteConflictsFor removes every conflict touching a schedule.
func (r *ScheduleRepository) DeleteConflictsFor(scheduleID int64) error {
	return r.db.
		Where("schedule_a_id = ? OR schedule_b_id = ?", scheduleID, scheduleID).
		Delete(&schedule.Conflict{}).Error
}
