package schedule

import (
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
)

// CalendarCell is one day of the month grid. Cells outside the
// requested month carry InMonth=false so the UI can gray them out.
type CalendarCell struct {
	Date      string      `json:"date"`
	InMonth   bool        `json:"in_month"`
	Today     bool        `json:"is_today"`
	Schedules []*Schedule `json:"schedules"`
}

// CalendarView is a fixed six-week, Sunday-first month grid: always 42
// cells, padded with the trailing days of the previous month and the
// leading days of the next.
type CalendarView struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Cells []CalendarCell `json:"cells"`
}

const calendarCells = 42

// CalendarGridRange returns the inclusive date range covered by the
// 42-cell grid of the given month.
func CalendarGridRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := gridStart.AddDate(0, 0, calendarCells-1)
	return gridStart, gridEnd
}

// BuildCalendar lays the given schedules onto the month grid, keyed by
// start date. Schedules outside the grid are ignored.
func BuildCalendar(year int, month time.Month, schedules []*Schedule) *CalendarView {
	gridStart, _ := CalendarGridRange(year, month)

	byDay := make(map[string][]*Schedule)
	for _, s := range schedules {
		key := s.StartDate.Format(DateLayout)
		byDay[key] = append(byDay[key], s)
	}

	today := time.Now().UTC().Format(DateLayout)

	cells := make([]CalendarCell, 0, calendarCells)
	for i := 0; i < calendarCells; i++ {
		day := gridStart.AddDate(0, 0, i)
		key := day.Format(DateLayout)
		cells = append(cells, CalendarCell{
			Date:      key,
			InMonth:   day.Month() == month,
			Today:     key == today,
			Schedules: byDay[key],
		})
	}

	return &CalendarView{
		Year:  year,
		Month: int(month),
		Cells: cells,
	}
}

// Calendar returns the month grid of schedules visible to the actor.
func (s *Service) Calendar(actor *auth.User, year int, month time.Month) (*CalendarView, error) {
	gridStart, gridEnd := CalendarGridRange(year, month)

	schedules, err := s.ListSchedules(actor, ListFilter{From: &gridStart, To: &gridEnd})
	if err != nil {
		return nil, err
	}

	return BuildCalendar(year, month, schedules), nil
}
