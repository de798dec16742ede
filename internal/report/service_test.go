package report

import (
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
	"github.com/frahmantamala/schedule-management/internal/schedule"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type stubScheduleSource struct {
	schedules []*schedule.Schedule
	lastActor *auth.User
}

func (s *stubScheduleSource) ListSchedules(actor *auth.User, filter schedule.ListFilter) ([]*schedule.Schedule, error) {
	s.lastActor = actor

	out := make([]*schedule.Schedule, 0, len(s.schedules))
	for _, sch := range s.schedules {
		if filter.From != nil && sch.StartDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && sch.StartDate.After(*filter.To) {
			continue
		}
		if filter.Status != nil && sch.Status != *filter.Status {
			continue
		}
		out = append(out, sch)
	}
	return out, nil
}

type stubDirectory map[int64]string

func (d stubDirectory) NamesByID() (map[int64]string, error) {
	return d, nil
}

var _ = ginkgo.Describe("ReportService", func() {
	var (
		service *Service
		source  *stubScheduleSource
		now     time.Time
	)

	ginkgo.BeforeEach(func() {
		now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
		source = &stubScheduleSource{
			schedules: []*schedule.Schedule{
				newShift(1, 10, 20, "2025-06-02", schedule.StatusApproved),
				newShift(2, 10, 21, "2025-06-05", schedule.StatusSubmitted),
				newShift(3, 11, 20, "2025-06-08", schedule.StatusDraft),
				newShift(4, 10, 20, "2025-03-10", schedule.StatusApproved),
			},
		}
		service = NewService(source,
			stubDirectory{10: "Jane Doe", 11: "John Smith"},
			stubDirectory{20: "Acme Corp", 21: "Globex"},
			slog.Default())
	})

	ginkgo.Describe("dashboard", func() {
		ginkgo.It("should bound the set to the current month", func() {
			employee := &auth.User{ID: 10, Role: auth.RoleEmployee}

			dash, err := service.dashboardAt(employee, now)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(dash.Counts.Total).To(gomega.Equal(3))
			gomega.Expect(dash.ApprovedHours).To(gomega.Equal(8.0))
		})

		ginkgo.It("should group hours by client for employees", func() {
			employee := &auth.User{ID: 10, Role: auth.RoleEmployee}

			dash, err := service.dashboardAt(employee, now)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(dash.HoursByClient).ToNot(gomega.BeEmpty())
			gomega.Expect(dash.HoursByClient[0].Name).To(gomega.Equal("Acme Corp"))
			gomega.Expect(dash.HoursByEmployee).To(gomega.BeEmpty())
		})

		ginkgo.It("should include the pending queue for supervisors", func() {
			supervisor := &auth.User{ID: 99, Role: auth.RoleSupervisor}

			dash, err := service.dashboardAt(supervisor, now)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(dash.PendingQueue).To(gomega.HaveLen(1))
			gomega.Expect(dash.PendingQueue[0].Status).To(gomega.Equal(schedule.StatusSubmitted))
		})
	})

	ginkgo.Describe("summary", func() {
		ginkgo.It("should build the trailing six month histogram", func() {
			supervisor := &auth.User{ID: 99, Role: auth.RoleSupervisor}

			summary, err := service.summaryAt(supervisor, schedule.ListFilter{}, now)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(summary.Monthly).To(gomega.HaveLen(6))
			gomega.Expect(summary.Monthly[2].Month).To(gomega.Equal("2025-03"))
			gomega.Expect(summary.Monthly[2].Hours).To(gomega.Equal(8.0))
		})

		ginkgo.It("should honor a status filter", func() {
			supervisor := &auth.User{ID: 99, Role: auth.RoleSupervisor}
			approved := schedule.StatusApproved

			summary, err := service.summaryAt(supervisor, schedule.ListFilter{Status: &approved}, now)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(summary.Counts.Total).To(gomega.Equal(2))
			gomega.Expect(summary.Counts.Approved).To(gomega.Equal(2))
		})
	})

	ginkgo.Describe("supervisor report", func() {
		ginkgo.It("should refuse non-supervisors", func() {
			employee := &auth.User{ID: 10, Role: auth.RoleEmployee}

			_, err := service.SupervisorReport(employee)

			gomega.Expect(err).To(gomega.Equal(schedule.ErrUnauthorizedAccess))
		})
	})

	ginkgo.Describe("ExportCSV", func() {
		ginkgo.It("should stream header plus role-scoped rows", func() {
			employee := &auth.User{ID: 10, Role: auth.RoleEmployee}

			var buf strings.Builder
			err := service.ExportCSV(&buf, employee, 3650)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(source.lastActor).To(gomega.Equal(employee))

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			gomega.Expect(lines[0]).To(gomega.Equal("Date,Start Time,End Time,Client,Employee,Status,Hours,Notes"))
			gomega.Expect(len(lines)).To(gomega.BeNumerically(">", 1))
		})
	})
})
