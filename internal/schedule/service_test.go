package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
	"github.com/frahmantamala/schedule-management/internal/core/events"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// Mock repository for testing
type mockRepository struct {
	schedules map[int64]*Schedule
	conflicts map[int64][]Conflict
	nextID    int64
	failWith  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		schedules: make(map[int64]*Schedule),
		conflicts: make(map[int64][]Conflict),
		nextID:    1,
	}
}

func (m *mockRepository) Create(s *Schedule) error {
	if m.failWith != nil {
		return m.failWith
	}
	s.ID = m.nextID
	m.nextID++
	copied := *s
	m.schedules[s.ID] = &copied
	return nil
}

func (m *mockRepository) GetByID(id int64) (*Schedule, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	s, ok := m.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockRepository) List(filter ListFilter) ([]*Schedule, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []*Schedule
	for _, s := range m.schedules {
		if filter.EmployeeID != nil && s.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.ClientID != nil && s.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockRepository) Update(s *Schedule) error {
	if m.failWith != nil {
		return m.failWith
	}
	copied := *s
	m.schedules[s.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(id int64) error {
	delete(m.schedules, id)
	return nil
}

func (m *mockRepository) ListNeighbors(s *Schedule) ([]*Schedule, error) {
	var out []*Schedule
	for _, other := range m.schedules {
		if other.ID == s.ID {
			continue
		}
		if other.EmployeeID == s.EmployeeID || other.ClientID == s.ClientID {
			copied := *other
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) ReplaceConflicts(scheduleID int64, conflicts []Conflict) error {
	m.conflicts[scheduleID] = conflicts
	return nil
}

func (m *mockRepository) GetConflicts(scheduleID int64) ([]Conflict, error) {
	return m.conflicts[scheduleID], nil
}

func (m *mockRepository) DeleteConflictsFor(scheduleID int64) error {
	delete(m.conflicts, scheduleID)
	return nil
}

// Synchronous publisher that records events
type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

// mockDirectory marks which client IDs accept bookings.
type mockDirectory map[int64]bool

func (d mockDirectory) IsBookable(id int64) bool {
	return d[id]
}

var _ = ginkgo.Describe("ScheduleService", func() {
	var (
		service    *Service
		repo       *mockRepository
		publisher  *mockPublisher
		directory  mockDirectory
		employee   *auth.User
		other      *auth.User
		supervisor *auth.User
		client     *auth.User
	)

	newDTO := func() CreateScheduleDTO {
		return CreateScheduleDTO{
			ClientID:  20,
			StartDate: "2999-01-01",
			StartTime: "09:00",
			EndDate:   "2999-01-01",
			EndTime:   "17:00",
			Notes:     "on site",
		}
	}

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		publisher = &mockPublisher{}
		directory = mockDirectory{20: true, 21: true}
		service = NewService(repo, publisher, directory, 30*time.Minute, false, slog.Default())

		clientID := int64(20)
		employee = &auth.User{ID: 10, Role: auth.RoleEmployee}
		other = &auth.User{ID: 11, Role: auth.RoleEmployee}
		supervisor = &auth.User{ID: 99, Role: auth.RoleSupervisor}
		client = &auth.User{ID: 3, Role: auth.RoleClient, ClientID: &clientID}
	})

	ginkgo.Describe("CreateSchedule", func() {
		ginkgo.It("should create a draft for the acting employee", func() {
			sched, err := service.CreateSchedule(employee, newDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sched.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(sched.EmployeeID).To(gomega.Equal(employee.ID))
			gomega.Expect(sched.Status).To(gomega.Equal(StatusDraft))
		})

		ginkgo.It("should publish a saved event", func() {
			_, err := service.CreateSchedule(employee, newDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(publisher.published).To(gomega.HaveLen(1))
			gomega.Expect(publisher.published[0].EventType()).To(gomega.Equal(events.ScheduleSaved))
		})

		ginkgo.It("should let a supervisor create for another employee", func() {
			dto := newDTO()
			dto.EmployeeID = &employee.ID

			sched, err := service.CreateSchedule(supervisor, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sched.EmployeeID).To(gomega.Equal(employee.ID))
		})

		ginkgo.It("should refuse an employee creating for someone else", func() {
			dto := newDTO()
			dto.EmployeeID = &other.ID

			_, err := service.CreateSchedule(employee, dto)

			gomega.Expect(err).To(gomega.Equal(ErrUnauthorizedAccess))
		})

		ginkgo.It("should refuse client users", func() {
			_, err := service.CreateSchedule(client, newDTO())

			gomega.Expect(err).To(gomega.Equal(ErrUnauthorizedAccess))
		})

		ginkgo.It("should reject invalid time bounds before persisting", func() {
			dto := newDTO()
			dto.EndTime = "09:30"

			_, err := service.CreateSchedule(employee, dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.schedules).To(gomega.BeEmpty())
			gomega.Expect(publisher.published).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject a past start date", func() {
			dto := newDTO()
			dto.StartDate = "2000-01-01"
			dto.EndDate = "2000-01-01"

			_, err := service.CreateSchedule(employee, dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.schedules).To(gomega.BeEmpty())
		})

		ginkgo.It("should refuse a client that takes no bookings", func() {
			directory[20] = false

			_, err := service.CreateSchedule(employee, newDTO())

			gomega.Expect(err).To(gomega.Equal(ErrClientNotBookable))
			gomega.Expect(repo.schedules).To(gomega.BeEmpty())
			gomega.Expect(publisher.published).To(gomega.BeEmpty())
		})

		ginkgo.It("should refuse an unknown client", func() {
			dto := newDTO()
			dto.ClientID = 424242

			_, err := service.CreateSchedule(employee, dto)

			gomega.Expect(err).To(gomega.Equal(ErrClientNotBookable))
			gomega.Expect(repo.schedules).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GetScheduleByID", func() {
		var created *Schedule

		ginkgo.BeforeEach(func() {
			var err error
			created, err = service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should return the schedule to its owner", func() {
			sched, err := service.GetScheduleByID(employee, created.ID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sched.ID).To(gomega.Equal(created.ID))
		})

		ginkgo.It("should return the schedule to a supervisor and the booked client", func() {
			_, err := service.GetScheduleByID(supervisor, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.GetScheduleByID(client, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should refuse another employee", func() {
			_, err := service.GetScheduleByID(other, created.ID)

			gomega.Expect(err).To(gomega.Equal(ErrUnauthorizedAccess))
		})

		ginkgo.It("should report not found for unknown ids", func() {
			_, err := service.GetScheduleByID(employee, 999)

			gomega.Expect(err).To(gomega.Equal(ErrScheduleNotFound))
		})
	})

	ginkgo.Describe("ListSchedules", func() {
		ginkgo.BeforeEach(func() {
			_, err := service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			dto := newDTO()
			dto.ClientID = 21
			_, err = service.CreateSchedule(other, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should scope employees to their own schedules", func() {
			schedules, err := service.ListSchedules(employee, ListFilter{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(schedules).To(gomega.HaveLen(1))
			gomega.Expect(schedules[0].EmployeeID).To(gomega.Equal(employee.ID))
		})

		ginkgo.It("should scope client users to their client's schedules", func() {
			schedules, err := service.ListSchedules(client, ListFilter{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(schedules).To(gomega.HaveLen(1))
			gomega.Expect(schedules[0].ClientID).To(gomega.Equal(int64(20)))
		})

		ginkgo.It("should let supervisors see everything", func() {
			schedules, err := service.ListSchedules(supervisor, ListFilter{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(schedules).To(gomega.HaveLen(2))
		})

		ginkgo.It("should refuse a client user without a client link", func() {
			unlinked := &auth.User{ID: 4, Role: auth.RoleClient}

			_, err := service.ListSchedules(unlinked, ListFilter{})

			gomega.Expect(err).To(gomega.Equal(ErrUnauthorizedAccess))
		})
	})

	ginkgo.Describe("UpdateSchedule", func() {
		var created *Schedule

		ginkgo.BeforeEach(func() {
			var err error
			created, err = service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			publisher.published = nil
		})

		ginkgo.It("should apply a partial edit and re-publish", func() {
			notes := "moved to afternoon"
			start := "13:00"
			end := "18:00"

			sched, err := service.UpdateSchedule(employee, created.ID, UpdateScheduleDTO{
				StartTime: &start,
				EndTime:   &end,
				Notes:     &notes,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sched.StartTime).To(gomega.Equal("13:00"))
			gomega.Expect(sched.Notes).To(gomega.Equal("moved to afternoon"))
			gomega.Expect(publisher.published).To(gomega.HaveLen(1))
		})

		ginkgo.It("should refuse rebooking onto a client that takes no bookings", func() {
			directory[21] = false
			newClient := int64(21)

			_, err := service.UpdateSchedule(employee, created.ID, UpdateScheduleDTO{ClientID: &newClient})

			gomega.Expect(err).To(gomega.Equal(ErrClientNotBookable))
			gomega.Expect(repo.schedules[created.ID].ClientID).To(gomega.Equal(int64(20)))
		})

		ginkgo.It("should refuse the owner once the draft is submitted", func() {
			_, err := service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			notes := "too late"
			_, err = service.UpdateSchedule(employee, created.ID, UpdateScheduleDTO{Notes: &notes})

			gomega.Expect(err).To(gomega.Equal(ErrCannotModify))
		})

		ginkgo.It("should let a supervisor edit a submitted schedule", func() {
			_, err := service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			notes := "supervisor fixup"
			sched, err := service.UpdateSchedule(supervisor, created.ID, UpdateScheduleDTO{Notes: &notes})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sched.Notes).To(gomega.Equal("supervisor fixup"))
		})

		ginkgo.It("should refuse edits by unrelated users", func() {
			notes := "not mine"
			_, err := service.UpdateSchedule(other, created.ID, UpdateScheduleDTO{Notes: &notes})

			gomega.Expect(err).To(gomega.Equal(ErrUnauthorizedAccess))
		})

		ginkgo.It("should reject an edit that breaks the duration bounds", func() {
			end := "09:30"
			_, err := service.UpdateSchedule(employee, created.ID, UpdateScheduleDTO{EndTime: &end})

			gomega.Expect(err).To(gomega.HaveOccurred())

			unchanged, gerr := service.GetScheduleByID(employee, created.ID)
			gomega.Expect(gerr).ToNot(gomega.HaveOccurred())
			gomega.Expect(unchanged.EndTime).To(gomega.Equal("17:00"))
		})
	})

	ginkgo.Describe("DeleteSchedule", func() {
		var created *Schedule

		ginkgo.BeforeEach(func() {
			var err error
			created, err = service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should let the owner delete a draft", func() {
			err := service.DeleteSchedule(employee, created.ID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.GetScheduleByID(employee, created.ID)
			gomega.Expect(err).To(gomega.Equal(ErrScheduleNotFound))
		})

		ginkgo.It("should refuse the owner once submitted", func() {
			_, err := service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.DeleteSchedule(employee, created.ID)).To(gomega.Equal(ErrCannotModify))
		})

		ginkgo.It("should let a supervisor delete regardless of status", func() {
			_, err := service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.DeleteSchedule(supervisor, created.ID)).To(gomega.Succeed())
		})
	})

	ginkgo.Describe("transitions", func() {
		var created *Schedule

		ginkgo.BeforeEach(func() {
			var err error
			created, err = service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should persist the submitted state", func() {
			sched, err := service.SubmitSchedule(employee, created.ID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sched.Status).To(gomega.Equal(StatusSubmitted))

			stored, err := service.GetScheduleByID(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.Status).To(gomega.Equal(StatusSubmitted))
		})

		ginkgo.It("should surface the wrong-state error on double submit", func() {
			_, err := service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).To(gomega.Equal(ErrWrongState))
		})

		ginkgo.It("should approve through the service", func() {
			_, err := service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			sched, err := service.ApproveSchedule(supervisor, created.ID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sched.Status).To(gomega.Equal(StatusApproved))
			gomega.Expect(*sched.ApprovedBy).To(gomega.Equal(supervisor.ID))
		})

		ginkgo.It("should refuse approval from a draft and keep state", func() {
			_, err := service.ApproveSchedule(supervisor, created.ID)

			gomega.Expect(err).To(gomega.Equal(ErrWrongState))

			stored, gerr := service.GetScheduleByID(employee, created.ID)
			gomega.Expect(gerr).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.Status).To(gomega.Equal(StatusDraft))
		})

		ginkgo.It("should reject with a reason", func() {
			_, err := service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			sched, err := service.RejectSchedule(supervisor, created.ID, "double booked")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sched.Status).To(gomega.Equal(StatusRejected))
			gomega.Expect(*sched.RejectionReason).To(gomega.Equal("double booked"))
		})

		ginkgo.It("should request modification with an optional reason", func() {
			_, err := service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			sched, err := service.RequestModification(supervisor, created.ID, "")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sched.Status).To(gomega.Equal(StatusModified))
		})
	})

	ginkgo.Describe("ListApprovals", func() {
		ginkgo.BeforeEach(func() {
			created, err := service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.SubmitSchedule(employee, created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should list only submitted schedules for supervisors", func() {
			schedules, err := service.ListApprovals(supervisor, 50, 0)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(schedules).To(gomega.HaveLen(1))
			gomega.Expect(schedules[0].Status).To(gomega.Equal(StatusSubmitted))
		})

		ginkgo.It("should refuse non-supervisors", func() {
			_, err := service.ListApprovals(employee, 50, 0)

			gomega.Expect(err).To(gomega.Equal(ErrUnauthorizedAccess))
		})
	})

	ginkgo.Describe("conflict scanning", func() {
		ginkgo.It("should record conflicts when a saved schedule overlaps", func() {
			first, err := service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			dto := newDTO()
			dto.StartTime = "16:00"
			dto.EndTime = "20:00"
			second, err := service.CreateSchedule(employee, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			event := events.NewScheduleSavedEvent(second.ID, second.EmployeeID, second.ClientID)
			gomega.Expect(service.handleScheduleSaved(context.Background(), event)).To(gomega.Succeed())

			conflicts, err := service.GetConflicts(employee, second.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(conflictTypes(conflicts)).To(gomega.ConsistOf(ConflictEmployeeOverlap, ConflictClientOverlap))
			gomega.Expect(conflicts[0].ScheduleAID).To(gomega.Equal(first.ID))
		})

		ginkgo.It("should clear stale conflicts after a resolving edit", func() {
			_, err := service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			dto := newDTO()
			dto.StartTime = "16:00"
			dto.EndTime = "20:00"
			second, err := service.CreateSchedule(employee, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			event := events.NewScheduleSavedEvent(second.ID, second.EmployeeID, second.ClientID)
			gomega.Expect(service.handleScheduleSaved(context.Background(), event)).To(gomega.Succeed())

			// Move the second schedule to a free day.
			start := "2999-02-01"
			end := "2999-02-01"
			_, err = service.UpdateSchedule(employee, second.ID, UpdateScheduleDTO{StartDate: &start, EndDate: &end})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(service.handleScheduleSaved(context.Background(), event)).To(gomega.Succeed())

			conflicts, err := service.GetConflicts(employee, second.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(conflicts).To(gomega.BeEmpty())
		})

		ginkgo.It("should hide conflicts from users who cannot see the schedule", func() {
			created, err := service.CreateSchedule(employee, newDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.GetConflicts(other, created.ID)
			gomega.Expect(err).To(gomega.Equal(ErrUnauthorizedAccess))
		})
	})

	ginkgo.Describe("repository failures", func() {
		ginkgo.It("should surface creation failures", func() {
			repo.failWith = errors.New("database down")

			_, err := service.CreateSchedule(employee, newDTO())

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
