package report

import (
	goerrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
	"github.com/frahmantamala/schedule-management/internal/schedule"
	"github.com/frahmantamala/schedule-management/internal/transport"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// stubExportService returns canned results for the export handler specs.
type stubExportService struct {
	csv string
	err error
}

func (s *stubExportService) Dashboard(*auth.User) (*Dashboard, error)                  { return nil, nil }
func (s *stubExportService) Summary(*auth.User, schedule.ListFilter) (*Summary, error) { return nil, nil }
func (s *stubExportService) EmployeeReport(*auth.User) (*RoleReport, error)            { return nil, nil }
func (s *stubExportService) ClientReport(*auth.User) (*RoleReport, error)              { return nil, nil }
func (s *stubExportService) SupervisorReport(*auth.User) (*RoleReport, error)          { return nil, nil }

func (s *stubExportService) ExportCSV(w io.Writer, actor *auth.User, dateRangeDays int) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, s.csv)
	return err
}

var _ = ginkgo.Describe("ReportHandler ExportCSV", func() {
	var (
		handler *Handler
		stub    *stubExportService
		actor   *auth.User
	)

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/export", strings.NewReader(`{"date_range":7}`))
		return req.WithContext(auth.ContextWithUser(req.Context(), actor))
	}

	ginkgo.BeforeEach(func() {
		stub = &stubExportService{csv: "Date,Start Time,End Time,Client,Employee,Status,Hours,Notes\n"}
		handler = NewHandler(transport.NewBaseHandler(slog.Default()), stub)
		actor = &auth.User{ID: 10, Role: auth.RoleEmployee}
	})

	ginkgo.It("should stream the document as a CSV attachment", func() {
		rec := httptest.NewRecorder()

		handler.ExportCSV(rec, newRequest())

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Header().Get("Content-Type")).To(gomega.Equal("text/csv"))
		gomega.Expect(rec.Header().Get("Content-Disposition")).To(gomega.ContainSubstring(
			"schedules-" + time.Now().UTC().Format("2006-01-02") + ".csv"))
		gomega.Expect(rec.Body.String()).To(gomega.HavePrefix("Date,Start Time,End Time"))
	})

	ginkgo.It("should return an error status when the export fails", func() {
		stub.err = goerrors.New("listing failed")
		rec := httptest.NewRecorder()

		handler.ExportCSV(rec, newRequest())

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(rec.Header().Get("Content-Type")).ToNot(gomega.Equal("text/csv"))
		gomega.Expect(rec.Header().Get("Content-Disposition")).To(gomega.BeEmpty())
	})

	ginkgo.It("should map refused actors to forbidden", func() {
		stub.err = schedule.ErrUnauthorizedAccess
		rec := httptest.NewRecorder()

		handler.ExportCSV(rec, newRequest())

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
	})
})
