package auth

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/schedule-management/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForEmail(email string) (string, string, error) {
	var passwordHash string
	var userID string
	query := `SELECT id, password_hash FROM users WHERE email = ? AND is_active = true`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", "", fmt.Errorf("user not found")
		}
		return "", "", err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetUserWithRole(userID int64) (*auth.User, error) {
	var user auth.User
	var roleStr string
	var clientID sql.NullInt64

	query := `SELECT id, email, name, role, client_id FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &roleStr, &clientID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	role, err := auth.ParseRole(roleStr)
	if err != nil {
		return nil, err
	}
	user.Role = role

	if clientID.Valid {
		user.ClientID = &clientID.Int64
	}

	return &user, nil
}
