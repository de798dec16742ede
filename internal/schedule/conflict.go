package schedule

import (
	"time"
)

// ConflictType classifies why two schedules clash.
type ConflictType string

const (
	// ConflictEmployeeOverlap: the same employee is booked twice at once.
	ConflictEmployeeOverlap ConflictType = "employee_overlap"
	// ConflictClientOverlap: two schedules occupy the same client at once.
	ConflictClientOverlap ConflictType = "client_overlap"
	// ConflictInsufficientGap: back-to-back bookings of one employee
	// with less than the configured minimum gap between them.
	ConflictInsufficientGap ConflictType = "insufficient_gap"
)

// Conflict records an advisory clash between an ordered pair of
// schedules. Conflicts never block saving; they are surfaced to
// supervisors for review.
type Conflict struct {
	ID           int64        `json:"id" gorm:"primaryKey"`
	ScheduleAID  int64        `json:"schedule_a_id" gorm:"column:schedule_a_id;not null"`
	ScheduleBID  int64        `json:"schedule_b_id" gorm:"column:schedule_b_id;not null"`
	ConflictType ConflictType `json:"conflict_type" gorm:"column:conflict_type;not null"`
	DetectedAt   time.Time    `json:"detected_at" gorm:"column:detected_at;default:now()"`
}

func (Conflict) TableName() string {
	return "schedule_conflicts"
}

// newConflict orders the pair so (A, B) is unique regardless of which
// schedule was scanned first.
func newConflict(a, b int64, t ConflictType) Conflict {
	if a > b {
		a, b = b, a
	}
	return Conflict{
		ScheduleAID:  a,
		ScheduleBID:  b,
		ConflictType: t,
		DetectedAt:   time.Now(),
	}
}

// DetectConflicts scans candidate against existing schedules and
// returns every clash found. Pure function: no ordering assumptions on
// existing, no side effects. Schedules whose time bounds do not parse
// are skipped.
func DetectConflicts(candidate *Schedule, existing []*Schedule, minGap time.Duration) []Conflict {
	candStart, err := candidate.StartAt()
	if err != nil {
		return nil
	}
	candEnd, err := candidate.EndAt()
	if err != nil {
		return nil
	}

	var conflicts []Conflict
	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}

		otherStart, err := other.StartAt()
		if err != nil {
			continue
		}
		otherEnd, err := other.EndAt()
		if err != nil {
			continue
		}

		overlaps := candStart.Before(otherEnd) && otherStart.Before(candEnd)

		if overlaps {
			if other.EmployeeID == candidate.EmployeeID {
				conflicts = append(conflicts, newConflict(candidate.ID, other.ID, ConflictEmployeeOverlap))
			}
			if other.ClientID == candidate.ClientID {
				conflicts = append(conflicts, newConflict(candidate.ID, other.ID, ConflictClientOverlap))
			}
			continue
		}

		// Non-overlapping adjacency only matters for one employee's day.
		if other.EmployeeID == candidate.EmployeeID && minGap > 0 {
			gap := candStart.Sub(otherEnd)
			if gap < 0 {
				gap = otherStart.Sub(candEnd)
			}
			if gap >= 0 && gap < minGap {
				conflicts = append(conflicts, newConflict(candidate.ID, other.ID, ConflictInsufficientGap))
			}
		}
	}

	return conflicts
}
