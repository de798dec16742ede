package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

// SchedulePolicy decides who may see or touch a schedule.
// Supervisors see everything, employees see their own schedules,
// client users see the schedules booked against their client record.
type SchedulePolicy struct{}

// CanViewSchedule checks read access to a schedule owned by employeeID
// and booked for clientID.
func (p *SchedulePolicy) CanViewSchedule(u *User, employeeID, clientID int64) error {
	if u == nil {
		return ErrForbidden
	}

	switch u.Role {
	case RoleSupervisor:
		return nil
	case RoleEmployee:
		if u.ID == employeeID {
			return nil
		}
	case RoleClient:
		if u.ClientID != nil && *u.ClientID == clientID {
			return nil
		}
	}
	return ErrForbidden
}

// CanModifySchedule checks write access. Client users never modify
// schedules, they only view them.
func (p *SchedulePolicy) CanModifySchedule(u *User, employeeID int64) error {
	if u == nil {
		return ErrForbidden
	}

	switch u.Role {
	case RoleSupervisor:
		return nil
	case RoleEmployee:
		if u.ID == employeeID {
			return nil
		}
	}
	return ErrForbidden
}

// CanDecideSchedule checks approve/reject/request-modification access,
// which only supervisors have.
func (p *SchedulePolicy) CanDecideSchedule(u *User) error {
	if u == nil || u.Role != RoleSupervisor {
		return ErrForbidden
	}
	return nil
}

// RequirePolicy is a middleware wrapper that runs a policy check function.
func RequirePolicy(policy *SchedulePolicy, check func(p *SchedulePolicy, u *User, r *http.Request) error) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := check(policy, u, r); err != nil {
				if errors.Is(err, ErrForbidden) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCanViewSchedule builds a middleware that checks if the
// authenticated user can view the schedule in the URL.
func RequireCanViewSchedule(db *sqlx.DB, policy *SchedulePolicy) func(next http.Handler) http.Handler {
	return RequirePolicy(policy, func(p *SchedulePolicy, u *User, r *http.Request) error {
		idStr := chi.URLParam(r, "id")
		if idStr == "" {
			return ErrForbidden
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return err
		}

		var owner struct {
			EmployeeID int64 `db:"employee_id"`
			ClientID   int64 `db:"client_id"`
		}
		err = db.GetContext(r.Context(), &owner, "SELECT employee_id, client_id FROM schedules WHERE id=$1", id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Missing rows fall through to the handler's not-found response.
				return nil
			}
			return err
		}
		return p.CanViewSchedule(u, owner.EmployeeID, owner.ClientID)
	})
}

// RequireCanModifySchedule builds a middleware that checks write access
// to the schedule in the URL.
func RequireCanModifySchedule(db *sqlx.DB, policy *SchedulePolicy) func(next http.Handler) http.Handler {
	return RequirePolicy(policy, func(p *SchedulePolicy, u *User, r *http.Request) error {
		idStr := chi.URLParam(r, "id")
		if idStr == "" {
			return ErrForbidden
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return err
		}

		var employeeID int64
		err = db.GetContext(r.Context(), &employeeID, "SELECT employee_id FROM schedules WHERE id=$1", id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Missing rows fall through to the handler's not-found response.
				return nil
			}
			return err
		}
		return p.CanModifySchedule(u, employeeID)
	})
}
