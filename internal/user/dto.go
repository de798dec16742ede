package user

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/schedule-management/internal"
	"github.com/frahmantamala/schedule-management/internal/auth"
	"github.com/frahmantamala/schedule-management/internal/core/common/validation"
)

type RegisterDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
	ClientID *int64 `json:"client_id,omitempty"`
}

func (d *RegisterDTO) Validate() *errors.AppError {
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	d.Name = strings.TrimSpace(d.Name)

	validator := validation.NewValidator()

	validator.Field("email", d.Email).
		Required().
		MaxLength(255).
		Custom(func(value interface{}) *errors.AppError {
			if v, ok := value.(string); ok && v != "" && !strings.Contains(v, "@") {
				return errors.NewValidationFieldError("email", "email must be a valid email address", errors.ErrCodeValidationFailed)
			}
			return nil
		})

	validator.Field("password", d.Password).
		Required().
		MinLength(8).
		MaxLength(72)

	validator.Field("name", d.Name).
		Required().
		MaxLength(255)

	validator.Field("phone", d.Phone).
		MaxLength(50)

	validator.Field("role", d.Role).
		Required().
		Custom(func(value interface{}) *errors.AppError {
			if v, ok := value.(string); ok && v != "" {
				if _, err := auth.ParseRole(v); err != nil {
					message := fmt.Sprintf("role must be one of %s, %s, %s", auth.RoleEmployee, auth.RoleSupervisor, auth.RoleClient)
					return errors.NewValidationFieldError("role", message, errors.ErrCodeValidationFailed)
				}
			}
			return nil
		})

	validator.Field("client_id", d.ClientID).
		Custom(func(interface{}) *errors.AppError {
			role, err := auth.ParseRole(d.Role)
			if err != nil {
				return nil
			}
			if role == auth.RoleClient && d.ClientID == nil {
				return errors.NewValidationFieldError("client_id", "client users must be linked to a client", errors.ErrCodeValidationFailed)
			}
			if role != auth.RoleClient && d.ClientID != nil {
				return errors.NewValidationFieldError("client_id", "only client users can be linked to a client", errors.ErrCodeValidationFailed)
			}
			return nil
		})

	return validator.Validate()
}

type UpdateProfileDTO struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (d *UpdateProfileDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		validator.Field("name", trimmed).
			Required().
			MaxLength(255)
	}
	if d.Phone != nil {
		trimmed := strings.TrimSpace(*d.Phone)
		d.Phone = &trimmed
		validator.Field("phone", trimmed).
			MaxLength(50)
	}
	if d.Password != nil {
		validator.Field("password", *d.Password).
			MinLength(8).
			MaxLength(72)
	}
	if d.Name == nil && d.Phone == nil && d.Password == nil {
		return errors.NewValidationError("at least one field must be provided", errors.ErrCodeValidationFailed)
	}

	return validator.Validate()
}
