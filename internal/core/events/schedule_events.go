package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	ScheduleSaved   = "schedule.saved"
	ScheduleDeleted = "schedule.deleted"
)

// NewScheduleSavedEvent is published after a schedule is created or its
// time bounds change, so the conflict detector can re-scan the schedule.
func NewScheduleSavedEvent(scheduleID, employeeID, clientID int64) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      ScheduleSaved,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"schedule_id": scheduleID,
			"employee_id": employeeID,
			"client_id":   clientID,
		},
	}
}

func NewScheduleDeletedEvent(scheduleID int64) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      ScheduleDeleted,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"schedule_id": scheduleID,
		},
	}
}

// ScheduleIDFromEvent extracts the schedule id from a schedule event payload.
func ScheduleIDFromEvent(event Event) (int64, bool) {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return 0, false
	}
	switch v := data["schedule_id"].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
