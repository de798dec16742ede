package schedule

import (
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func conflictTypes(conflicts []Conflict) []ConflictType {
	types := make([]ConflictType, len(conflicts))
	for i, c := range conflicts {
		types[i] = c.ConflictType
	}
	return types
}

var _ = ginkgo.Describe("DetectConflicts", func() {
	var (
		candidate *Schedule
		minGap    time.Duration
	)

	newShift := func(id, employeeID, clientID int64, start, end string) *Schedule {
		return &Schedule{
			ID:         id,
			EmployeeID: employeeID,
			ClientID:   clientID,
			StartDate:  mustDate("2999-01-01"),
			StartTime:  start,
			EndDate:    mustDate("2999-01-01"),
			EndTime:    end,
			Status:     StatusDraft,
		}
	}

	ginkgo.BeforeEach(func() {
		candidate = newShift(1, 10, 20, "09:00", "17:00")
		minGap = 30 * time.Minute
	})

	ginkgo.It("should report nothing against an empty set", func() {
		gomega.Expect(DetectConflicts(candidate, nil, minGap)).To(gomega.BeEmpty())
	})

	ginkgo.It("should never conflict a schedule with itself", func() {
		gomega.Expect(DetectConflicts(candidate, []*Schedule{candidate}, minGap)).To(gomega.BeEmpty())
	})

	ginkgo.It("should flag the same employee booked twice at once", func() {
		other := newShift(2, 10, 21, "16:00", "20:00")

		conflicts := DetectConflicts(candidate, []*Schedule{other}, minGap)

		gomega.Expect(conflicts).To(gomega.HaveLen(1))
		gomega.Expect(conflicts[0].ConflictType).To(gomega.Equal(ConflictEmployeeOverlap))
	})

	ginkgo.It("should flag two schedules at the same client at once", func() {
		other := newShift(2, 11, 20, "10:00", "12:00")

		conflicts := DetectConflicts(candidate, []*Schedule{other}, minGap)

		gomega.Expect(conflicts).To(gomega.HaveLen(1))
		gomega.Expect(conflicts[0].ConflictType).To(gomega.Equal(ConflictClientOverlap))
	})

	ginkgo.It("should flag both overlap kinds when employee and client match", func() {
		other := newShift(2, 10, 20, "16:00", "20:00")

		conflicts := DetectConflicts(candidate, []*Schedule{other}, minGap)

		gomega.Expect(conflictTypes(conflicts)).To(gomega.ConsistOf(ConflictEmployeeOverlap, ConflictClientOverlap))
	})

	ginkgo.It("should not flag touching intervals as overlap", func() {
		// Ends exactly when the candidate starts: gap of zero, so the
		// insufficient-gap rule fires instead.
		other := newShift(2, 10, 21, "05:00", "09:00")

		conflicts := DetectConflicts(candidate, []*Schedule{other}, minGap)

		gomega.Expect(conflicts).To(gomega.HaveLen(1))
		gomega.Expect(conflicts[0].ConflictType).To(gomega.Equal(ConflictInsufficientGap))
	})

	ginkgo.It("should flag a gap shorter than the minimum", func() {
		other := newShift(2, 10, 21, "17:15", "19:00")

		conflicts := DetectConflicts(candidate, []*Schedule{other}, minGap)

		gomega.Expect(conflicts).To(gomega.HaveLen(1))
		gomega.Expect(conflicts[0].ConflictType).To(gomega.Equal(ConflictInsufficientGap))
	})

	ginkgo.It("should accept a gap of exactly the minimum", func() {
		other := newShift(2, 10, 21, "17:30", "19:00")

		gomega.Expect(DetectConflicts(candidate, []*Schedule{other}, minGap)).To(gomega.BeEmpty())
	})

	ginkgo.It("should ignore adjacency between different employees", func() {
		other := newShift(2, 11, 21, "17:15", "19:00")

		gomega.Expect(DetectConflicts(candidate, []*Schedule{other}, minGap)).To(gomega.BeEmpty())
	})

	ginkgo.It("should skip the gap rule when no minimum is configured", func() {
		other := newShift(2, 10, 21, "17:15", "19:00")

		gomega.Expect(DetectConflicts(candidate, []*Schedule{other}, 0)).To(gomega.BeEmpty())
	})

	ginkgo.It("should order the pair regardless of scan direction", func() {
		other := newShift(2, 10, 21, "16:00", "20:00")

		forward := DetectConflicts(candidate, []*Schedule{other}, minGap)
		reverse := DetectConflicts(other, []*Schedule{candidate}, minGap)

		gomega.Expect(forward).To(gomega.HaveLen(1))
		gomega.Expect(reverse).To(gomega.HaveLen(1))
		gomega.Expect(forward[0].ScheduleAID).To(gomega.Equal(reverse[0].ScheduleAID))
		gomega.Expect(forward[0].ScheduleBID).To(gomega.Equal(reverse[0].ScheduleBID))
	})

	ginkgo.It("should skip schedules whose times do not parse", func() {
		other := newShift(2, 10, 20, "bogus", "20:00")

		gomega.Expect(DetectConflicts(candidate, []*Schedule{other}, minGap)).To(gomega.BeEmpty())
	})
})

var _ = ginkgo.Describe("BuildCalendar", func() {
	ginkgo.It("should always produce a 42-cell Sunday-first grid", func() {
		view := BuildCalendar(2025, time.June, nil)

		gomega.Expect(view.Cells).To(gomega.HaveLen(42))
		// June 1st 2025 is a Sunday, so the grid starts on the month itself.
		gomega.Expect(view.Cells[0].Date).To(gomega.Equal("2025-06-01"))
		gomega.Expect(view.Cells[0].InMonth).To(gomega.BeTrue())
		gomega.Expect(view.Cells[41].Date).To(gomega.Equal("2025-07-12"))
		gomega.Expect(view.Cells[41].InMonth).To(gomega.BeFalse())
	})

	ginkgo.It("should pad the front with the previous month", func() {
		// July 1st 2025 is a Tuesday: two leading cells from June.
		view := BuildCalendar(2025, time.July, nil)

		gomega.Expect(view.Cells[0].Date).To(gomega.Equal("2025-06-29"))
		gomega.Expect(view.Cells[0].InMonth).To(gomega.BeFalse())
		gomega.Expect(view.Cells[2].Date).To(gomega.Equal("2025-07-01"))
		gomega.Expect(view.Cells[2].InMonth).To(gomega.BeTrue())
	})

	ginkgo.It("should place schedules on their start date", func() {
		sched := futureSchedule()
		sched.StartDate = mustDate("2025-06-10")
		sched.EndDate = mustDate("2025-06-10")

		view := BuildCalendar(2025, time.June, []*Schedule{sched})

		var cell *CalendarCell
		for i := range view.Cells {
			if view.Cells[i].Date == "2025-06-10" {
				cell = &view.Cells[i]
				break
			}
		}
		gomega.Expect(cell).ToNot(gomega.BeNil())
		gomega.Expect(cell.Schedules).To(gomega.HaveLen(1))
		gomega.Expect(cell.Schedules[0].ID).To(gomega.Equal(sched.ID))
	})
})
