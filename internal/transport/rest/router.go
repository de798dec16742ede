package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/schedule-management/internal/auth"
	"github.com/frahmantamala/schedule-management/internal/client"
	"github.com/frahmantamala/schedule-management/internal/report"
	"github.com/frahmantamala/schedule-management/internal/schedule"
	"github.com/frahmantamala/schedule-management/internal/transport/middleware"
	"github.com/frahmantamala/schedule-management/internal/transport/swagger"
	"github.com/frahmantamala/schedule-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, authHandler *auth.Handler, userHandler *user.Handler, scheduleHandler *schedule.Handler, clientHandler *client.Handler, reportHandler *report.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db.DB)

	roles := auth.NewRoleAuthorization(logger)
	schedulePolicy := &auth.SchedulePolicy{}

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
				if userHandler != nil {
					sr.Post("/register", userHandler.Register)
				}
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
					pr.Patch("/users/me", userHandler.UpdateCurrentUser)

					pr.Group(func(mr chi.Router) {
						mr.Use(roles.RequireSupervisor())
						mr.Get("/users/employees", userHandler.ListEmployees)
					})
				}

				// Client registry
				if clientHandler != nil {
					pr.Route("/clients", func(cr chi.Router) {
						cr.Group(func(sr chi.Router) {
							sr.Use(roles.RequireStaff())
							sr.Get("/", clientHandler.GetClients)
							sr.Get("/{id}", clientHandler.GetClient)
						})

						cr.Group(func(mr chi.Router) {
							mr.Use(roles.RequireSupervisor())
							mr.Post("/", clientHandler.CreateClient)
							mr.Patch("/{id}", clientHandler.UpdateClient)
						})

						// Client-role convenience views over the scoped
						// schedule and report services.
						if scheduleHandler != nil && reportHandler != nil {
							cr.Group(func(clr chi.Router) {
								clr.Use(roles.RequireClient())
								clr.Get("/my-schedules", scheduleHandler.ListSchedules)
								clr.Get("/reports", reportHandler.GetClientReport)
							})
						}
					})
				}

				// Schedule routes
				if scheduleHandler != nil {
					pr.Route("/schedules", func(er chi.Router) {
						er.Post("/", scheduleHandler.CreateSchedule)
						er.Get("/", scheduleHandler.ListSchedules)
						er.Get("/table", scheduleHandler.ListSchedules)
						er.Get("/calendar", scheduleHandler.GetCalendar)

						er.Group(func(mr chi.Router) {
							mr.Use(roles.RequireSupervisor())
							mr.Get("/approvals", scheduleHandler.GetApprovals)
						})

						er.Group(func(vr chi.Router) {
							vr.Use(auth.RequireCanViewSchedule(db, schedulePolicy))
							vr.Get("/{id}", scheduleHandler.GetSchedule)
							vr.Get("/{id}/conflicts", scheduleHandler.GetConflicts)
						})

						er.Group(func(wr chi.Router) {
							wr.Use(auth.RequireCanModifySchedule(db, schedulePolicy))
							wr.Patch("/{id}", scheduleHandler.UpdateSchedule)
							wr.Delete("/{id}", scheduleHandler.DeleteSchedule)
						})

						er.Group(func(sr chi.Router) {
							sr.Use(roles.RequireEmployee())
							sr.Post("/{id}/submit", scheduleHandler.SubmitSchedule)
						})

						er.Group(func(mr chi.Router) {
							mr.Use(roles.RequireSupervisor())
							mr.Post("/{id}/approve", scheduleHandler.ApproveSchedule)
							mr.Post("/{id}/reject", scheduleHandler.RejectSchedule)
							mr.Post("/{id}/request-modification", scheduleHandler.RequestModification)
						})
					})
				}

				// Reporting routes
				if reportHandler != nil {
					pr.Get("/dashboard", reportHandler.GetDashboard)

					pr.Route("/reports", func(rr chi.Router) {
						rr.Get("/", reportHandler.GetSummary)
						rr.Post("/export", reportHandler.ExportCSV)

						rr.Group(func(sr chi.Router) {
							sr.Use(roles.RequireEmployee())
							sr.Get("/employee", reportHandler.GetEmployeeReport)
						})
						rr.Group(func(cr chi.Router) {
							cr.Use(roles.RequireClient())
							cr.Get("/client", reportHandler.GetClientReport)
						})
						rr.Group(func(mr chi.Router) {
							mr.Use(roles.RequireSupervisor())
							mr.Get("/supervisor", reportHandler.GetSupervisorReport)
						})
					})
				}
			})
		}
	})
}
