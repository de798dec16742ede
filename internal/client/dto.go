package client

import (
	"strings"

	errors "github.com/frahmantamala/schedule-management/internal"
	"github.com/frahmantamala/schedule-management/internal/core/common/validation"
)

type CreateClientDTO struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
}

func (d *CreateClientDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)

	validator := validation.NewValidator()
	validator.Field("name", d.Name).
		Required().
		MaxLength(255)
	validator.Field("contact_email", d.ContactEmail).
		MaxLength(255)
	validator.Field("phone", d.Phone).
		MaxLength(50)
	validator.Field("address", d.Address).
		MaxLength(500)

	return validator.Validate()
}

type UpdateClientDTO struct {
	Name         *string `json:"name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (d *UpdateClientDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()

	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		validator.Field("name", trimmed).
			Required().
			MaxLength(255)
	}
	if d.ContactEmail != nil {
		validator.Field("contact_email", *d.ContactEmail).
			MaxLength(255)
	}
	if d.Phone != nil {
		validator.Field("phone", *d.Phone).
			MaxLength(50)
	}
	if d.Address != nil {
		validator.Field("address", *d.Address).
			MaxLength(500)
	}

	return validator.Validate()
}

func (d *UpdateClientDTO) ApplyTo(c *Client) {
	if d.Name != nil {
		c.Name = *d.Name
	}
	if d.ContactEmail != nil {
		c.ContactEmail = *d.ContactEmail
	}
	if d.Phone != nil {
		c.Phone = *d.Phone
	}
	if d.Address != nil {
		c.Address = *d.Address
	}
	if d.IsActive != nil {
		c.IsActive = *d.IsActive
	}
}

type ClientsResponse struct {
	Clients []*Client `json:"clients"`
}
