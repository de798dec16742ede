package report

import (
	"sort"
	"time"

	"github.com/frahmantamala/schedule-management/internal/schedule"
)

// Aggregators in this package are pure functions over a schedule slice.
// The caller is responsible for role-scoping and date-bounding the input.

type StatusCounts struct {
	Draft     int `json:"draft"`
	Submitted int `json:"submitted"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Modified  int `json:"modified"`
	Total     int `json:"total"`
}

func CountByStatus(schedules []*schedule.Schedule) StatusCounts {
	var counts StatusCounts
	for _, s := range schedules {
		switch s.Status {
		case schedule.StatusDraft:
			counts.Draft++
		case schedule.StatusSubmitted:
			counts.Submitted++
		case schedule.StatusApproved:
			counts.Approved++
		case schedule.StatusRejected:
			counts.Rejected++
		case schedule.StatusModified:
			counts.Modified++
		}
		counts.Total++
	}
	return counts
}

// HoursEntry is one row of an approved-hours grouping, carrying the
// display name resolved from the id.
type HoursEntry struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

// ApprovedHoursByClient sums approved duration hours per client,
// sorted by hours descending.
func ApprovedHoursByClient(schedules []*schedule.Schedule, names map[int64]string) []HoursEntry {
	hours := make(map[int64]float64)
	for _, s := range schedules {
		if s.Status == schedule.StatusApproved {
			hours[s.ClientID] += s.DurationHours()
		}
	}
	return sortedEntries(hours, names)
}

// ApprovedHoursByEmployee sums approved duration hours per employee,
// sorted by hours descending.
func ApprovedHoursByEmployee(schedules []*schedule.Schedule, names map[int64]string) []HoursEntry {
	hours := make(map[int64]float64)
	for _, s := range schedules {
		if s.Status == schedule.StatusApproved {
			hours[s.EmployeeID] += s.DurationHours()
		}
	}
	return sortedEntries(hours, names)
}

func sortedEntries(hours map[int64]float64, names map[int64]string) []HoursEntry {
	entries := make([]HoursEntry, 0, len(hours))
	for id, h := range hours {
		entries = append(entries, HoursEntry{ID: id, Name: names[id], Hours: h})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Hours != entries[j].Hours {
			return entries[i].Hours > entries[j].Hours
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// MonthBucket is one calendar month of the approved-hours histogram.
type MonthBucket struct {
	Month string  `json:"month"` // YYYY-MM
	Hours float64 `json:"hours"`
}

const monthKeyLayout = "2006-01"

// MonthlyApprovedHours builds a trailing six calendar month histogram
// of approved hours, oldest month first. Months with no approved
// schedules appear with zero hours.
func MonthlyApprovedHours(schedules []*schedule.Schedule, now time.Time) []MonthBucket {
	buckets := make([]MonthBucket, 0, 6)
	index := make(map[string]int, 6)

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -5, 0)
	for i := 0; i < 6; i++ {
		key := first.AddDate(0, i, 0).Format(monthKeyLayout)
		index[key] = i
		buckets = append(buckets, MonthBucket{Month: key})
	}

	for _, s := range schedules {
		if s.Status != schedule.StatusApproved {
			continue
		}
		key := s.StartDate.Format(monthKeyLayout)
		if i, ok := index[key]; ok {
			buckets[i].Hours += s.DurationHours()
		}
	}
	return buckets
}

// Recent returns up to n schedules with the latest start instants first.
func Recent(schedules []*schedule.Schedule, n int) []*schedule.Schedule {
	sorted := make([]*schedule.Schedule, len(schedules))
	copy(sorted, schedules)
	sort.Slice(sorted, func(i, j int) bool {
		a, erra := sorted[i].StartAt()
		b, errb := sorted[j].StartAt()
		if erra != nil || errb != nil {
			return sorted[i].ID > sorted[j].ID
		}
		if !a.Equal(b) {
			return a.After(b)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// TotalApprovedHours sums approved duration hours over the slice.
func TotalApprovedHours(schedules []*schedule.Schedule) float64 {
	var total float64
	for _, s := range schedules {
		if s.Status == schedule.StatusApproved {
			total += s.DurationHours()
		}
	}
	return total
}
