package schedule

import (
	"time"

	errors "github.com/frahmantamala/schedule-management/internal"
)

// Duration bounds in seconds. A schedule shorter than one hour or
// longer than twelve hours is rejected; exactly 1h and exactly 12h pass.
const (
	MinDurationSeconds = 3600
	MaxDurationSeconds = 43200
)

// ValidatePolicy tunes the time-bounds validator. AllowPastStart is set
// from configuration when validating edits of existing schedules;
// creation always runs with the zero value.
type ValidatePolicy struct {
	AllowPastStart bool
}

// ValidateTimes checks the time bounds of a schedule: parseable clock
// times, end strictly after start, start date not in the past, and
// duration within [1h, 12h]. The returned error carries a field-level
// code so the HTTP layer can surface it inline.
func ValidateTimes(s *Schedule, policy ValidatePolicy) *errors.AppError {
	return validateTimesAt(s, policy, time.Now())
}

// validateTimesAt is the clock-injected core, used directly by tests.
func validateTimesAt(s *Schedule, policy ValidatePolicy, now time.Time) *errors.AppError {
	startAt, err := s.StartAt()
	if err != nil {
		return errors.NewValidationFieldError("start_time", "start_time must be a valid time in HH:MM format", errors.ErrCodeInvalidTime)
	}
	endAt, err := s.EndAt()
	if err != nil {
		return errors.NewValidationFieldError("end_time", "end_time must be a valid time in HH:MM format", errors.ErrCodeInvalidTime)
	}

	if !endAt.After(startAt) {
		return errors.NewValidationFieldError("end_time", "schedule must end after it starts", errors.ErrCodeInvalidRange)
	}

	if !policy.AllowPastStart {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		startDay := time.Date(s.StartDate.Year(), s.StartDate.Month(), s.StartDate.Day(), 0, 0, 0, 0, time.UTC)
		if startDay.Before(today) {
			return errors.NewValidationFieldError("start_date", "start_date cannot be in the past", errors.ErrCodePastDate)
		}
	}

	seconds := int64(endAt.Sub(startAt).Seconds())
	if seconds < MinDurationSeconds {
		return errors.NewValidationFieldError("end_time", "schedule must last at least 1 hour", errors.ErrCodeDurationTooShort)
	}
	if seconds > MaxDurationSeconds {
		return errors.NewValidationFieldError("end_time", "schedule must not exceed 12 hours", errors.ErrCodeDurationTooLong)
	}

	return nil
}
