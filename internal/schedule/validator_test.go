package schedule

import (
	"time"

	errors "github.com/frahmantamala/schedule-management/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func validationCode(err *errors.AppError) string {
	details, ok := err.Details.(errors.ValidationErrors)
	if !ok || len(details.Errors) == 0 {
		return string(err.Code)
	}
	return details.Errors[0].Code
}

var _ = ginkgo.Describe("ValidateTimes", func() {
	var (
		sched *Schedule
		now   time.Time
	)

	ginkgo.BeforeEach(func() {
		sched = futureSchedule()
		now = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	})

	ginkgo.Context("with valid bounds", func() {
		ginkgo.It("should accept an eight hour day", func() {
			gomega.Expect(validateTimesAt(sched, ValidatePolicy{}, now)).To(gomega.BeNil())
		})

		ginkgo.It("should accept exactly one hour", func() {
			sched.StartTime = "09:00"
			sched.EndTime = "10:00"

			gomega.Expect(validateTimesAt(sched, ValidatePolicy{}, now)).To(gomega.BeNil())
		})

		ginkgo.It("should accept exactly twelve hours", func() {
			sched.StartTime = "07:00"
			sched.EndTime = "19:00"

			gomega.Expect(validateTimesAt(sched, ValidatePolicy{}, now)).To(gomega.BeNil())
		})

		ginkgo.It("should accept a start date of today", func() {
			sched.StartDate = mustDate("2025-06-15")
			sched.EndDate = mustDate("2025-06-15")

			gomega.Expect(validateTimesAt(sched, ValidatePolicy{}, now)).To(gomega.BeNil())
		})
	})

	ginkgo.Context("with a bad range", func() {
		ginkgo.It("should reject end before start", func() {
			sched.StartTime = "17:00"
			sched.EndTime = "09:00"

			err := validateTimesAt(sched, ValidatePolicy{}, now)

			gomega.Expect(err).ToNot(gomega.BeNil())
			gomega.Expect(validationCode(err)).To(gomega.Equal(string(errors.ErrCodeInvalidRange)))
		})

		ginkgo.It("should reject zero duration", func() {
			sched.StartTime = "09:00"
			sched.EndTime = "09:00"

			err := validateTimesAt(sched, ValidatePolicy{}, now)

			gomega.Expect(err).ToNot(gomega.BeNil())
			gomega.Expect(validationCode(err)).To(gomega.Equal(string(errors.ErrCodeInvalidRange)))
		})
	})

	ginkgo.Context("with out-of-bounds duration", func() {
		ginkgo.It("should reject thirty minutes as too short", func() {
			sched.StartTime = "09:00"
			sched.EndTime = "09:30"

			err := validateTimesAt(sched, ValidatePolicy{}, now)

			gomega.Expect(err).ToNot(gomega.BeNil())
			gomega.Expect(validationCode(err)).To(gomega.Equal(string(errors.ErrCodeDurationTooShort)))
		})

		ginkgo.It("should reject thirteen hours as too long", func() {
			sched.StartTime = "06:00"
			sched.EndTime = "19:00"

			err := validateTimesAt(sched, ValidatePolicy{}, now)

			gomega.Expect(err).ToNot(gomega.BeNil())
			gomega.Expect(validationCode(err)).To(gomega.Equal(string(errors.ErrCodeDurationTooLong)))
		})
	})

	ginkgo.Context("with a past start date", func() {
		ginkgo.BeforeEach(func() {
			sched.StartDate = mustDate("2025-06-14")
			sched.EndDate = mustDate("2025-06-14")
		})

		ginkgo.It("should reject it by default", func() {
			err := validateTimesAt(sched, ValidatePolicy{}, now)

			gomega.Expect(err).ToNot(gomega.BeNil())
			gomega.Expect(validationCode(err)).To(gomega.Equal(string(errors.ErrCodePastDate)))
		})

		ginkgo.It("should accept it when the edit policy allows past starts", func() {
			gomega.Expect(validateTimesAt(sched, ValidatePolicy{AllowPastStart: true}, now)).To(gomega.BeNil())
		})
	})

	ginkgo.Context("with unparseable clock times", func() {
		ginkgo.It("should reject a malformed start time", func() {
			sched.StartTime = "9am"

			err := validateTimesAt(sched, ValidatePolicy{}, now)

			gomega.Expect(err).ToNot(gomega.BeNil())
			gomega.Expect(validationCode(err)).To(gomega.Equal(string(errors.ErrCodeInvalidTime)))
		})
	})
})
