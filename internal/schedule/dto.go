package schedule

import (
	"time"

	errors "github.com/frahmantamala/schedule-management/internal"
	"github.com/frahmantamala/schedule-management/internal/core/common/validation"
)

// CreateScheduleDTO represents the request payload for creating a schedule.
// EmployeeID is honored only for supervisors; employees always create
// schedules for themselves.
type CreateScheduleDTO struct {
	EmployeeID *int64 `json:"employee_id,omitempty"`
	ClientID   int64  `json:"client_id"`
	StartDate  string `json:"start_date"`
	StartTime  string `json:"start_time"`
	EndDate    string `json:"end_date"`
	EndTime    string `json:"end_time"`
	Notes      string `json:"notes,omitempty"`
}

// Validate checks field presence and formats; time-bounds semantics are
// checked by ValidateTimes after the entity is built.
func (dto CreateScheduleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("client_id", dto.ClientID).Required()
	v.Field("start_date", dto.StartDate).Required().DateFormat()
	v.Field("start_time", dto.StartTime).Required().TimeFormat()
	v.Field("end_date", dto.EndDate).Required().DateFormat()
	v.Field("end_time", dto.EndTime).Required().TimeFormat()
	v.Field("notes", dto.Notes).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ToSchedule builds a draft entity from the validated payload.
func (dto CreateScheduleDTO) ToSchedule(employeeID int64) (*Schedule, error) {
	startDate, err := time.Parse(DateLayout, dto.StartDate)
	if err != nil {
		return nil, errors.NewValidationFieldError("start_date", "start_date must be a valid date in YYYY-MM-DD format", errors.ErrCodeInvalidDate)
	}
	endDate, err := time.Parse(DateLayout, dto.EndDate)
	if err != nil {
		return nil, errors.NewValidationFieldError("end_date", "end_date must be a valid date in YYYY-MM-DD format", errors.ErrCodeInvalidDate)
	}

	now := time.Now()
	return &Schedule{
		EmployeeID: employeeID,
		ClientID:   dto.ClientID,
		StartDate:  startDate,
		StartTime:  dto.StartTime,
		EndDate:    endDate,
		EndTime:    dto.EndTime,
		Status:     StatusDraft,
		Notes:      dto.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// UpdateScheduleDTO carries a partial edit; nil fields are left untouched.
type UpdateScheduleDTO struct {
	ClientID  *int64  `json:"client_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

func (dto UpdateScheduleDTO) Validate() error {
	v := validation.NewValidator()
	if dto.StartDate != nil {
		v.Field("start_date", *dto.StartDate).Required().DateFormat()
	}
	if dto.StartTime != nil {
		v.Field("start_time", *dto.StartTime).Required().TimeFormat()
	}
	if dto.EndDate != nil {
		v.Field("end_date", *dto.EndDate).Required().DateFormat()
	}
	if dto.EndTime != nil {
		v.Field("end_time", *dto.EndTime).Required().TimeFormat()
	}
	if dto.Notes != nil {
		v.Field("notes", *dto.Notes).MaxLength(1000)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ApplyTo writes the non-nil fields onto the entity.
func (dto UpdateScheduleDTO) ApplyTo(s *Schedule) error {
	if dto.ClientID != nil {
		s.ClientID = *dto.ClientID
	}
	if dto.StartDate != nil {
		d, err := time.Parse(DateLayout, *dto.StartDate)
		if err != nil {
			return errors.NewValidationFieldError("start_date", "start_date must be a valid date in YYYY-MM-DD format", errors.ErrCodeInvalidDate)
		}
		s.StartDate = d
	}
	if dto.StartTime != nil {
		s.StartTime = *dto.StartTime
	}
	if dto.EndDate != nil {
		d, err := time.Parse(DateLayout, *dto.EndDate)
		if err != nil {
			return errors.NewValidationFieldError("end_date", "end_date must be a valid date in YYYY-MM-DD format", errors.ErrCodeInvalidDate)
		}
		s.EndDate = d
	}
	if dto.EndTime != nil {
		s.EndTime = *dto.EndTime
	}
	if dto.Notes != nil {
		s.Notes = *dto.Notes
	}
	s.UpdatedAt = time.Now()
	return nil
}

// RejectScheduleDTO represents the request for rejecting a schedule.
type RejectScheduleDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectScheduleDTO) Validate() error {
	if err := validation.ValidateRejectionReason(dto.Reason); err != nil {
		return err
	}
	return nil
}

// ModificationRequestDTO represents the optional note sent back with a
// modification request.
type ModificationRequestDTO struct {
	Reason string `json:"reason,omitempty"`
}
