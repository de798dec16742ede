package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/frahmantamala/schedule-management/internal/schedule"
)

var csvHeader = []string{"Date", "Start Time", "End Time", "Client", "Employee", "Status", "Hours", "Notes"}

// WriteCSV streams the schedule set as CSV, one row per schedule. IDs
// are rendered through the supplied name maps; unknown ids fall back
// to an empty name.
func WriteCSV(w io.Writer, schedules []*schedule.Schedule, clientNames, employeeNames map[int64]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range schedules {
		row := []string{
			s.StartDate.Format(schedule.DateLayout),
			s.StartTime,
			s.EndTime,
			clientNames[s.ClientID],
			employeeNames[s.EmployeeID],
			string(s.Status),
			strconv.FormatFloat(s.DurationHours(), 'f', 2, 64),
			s.Notes,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
