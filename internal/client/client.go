package client

import (
	"errors"
	"time"
)

// Client is a customer location that schedules are booked against.
type Client struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"column:name;not null"`
	ContactEmail string    `json:"contact_email,omitempty" gorm:"column:contact_email"`
	Phone        string    `json:"phone,omitempty" gorm:"column:phone"`
	Address      string    `json:"address,omitempty" gorm:"column:address"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) IsActiveClient() bool {
	return c.IsActive
}

func (c *Client) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

func NewClient(name, contactEmail, phone, address string) *Client {
	now := time.Now()
	return &Client{
		Name:         name,
		ContactEmail: contactEmail,
		Phone:        phone,
		Address:      address,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

var ErrClientNotFound = errors.New("client not found")
