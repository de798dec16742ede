package user

import (
	"errors"
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"column:email;not null"`
	Name         string    `json:"name" gorm:"column:name;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         auth.Role `json:"role" gorm:"column:role;not null"`
	Phone        string    `json:"phone,omitempty" gorm:"column:phone"`
	ClientID     *int64    `json:"client_id,omitempty" gorm:"column:client_id"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

// ToAuthUser converts to the identity carried in request context.
func (u *User) ToAuthUser() *auth.User {
	return &auth.User{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		ClientID: u.ClientID,
	}
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)
