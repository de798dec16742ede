package user

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/schedule-management/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	Create(u *User) error
	GetByID(userID int64) (*User, error)
	GetByEmail(email string) (*User, error)
	Update(u *User) error
	List() ([]*User, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// Register creates a new account. The email must be unused.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err != nil && err != ErrNotFound {
		s.logger.Error("register: email lookup failed", "error", err)
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(dto.Password, bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("register: password hashing failed", "error", err)
		return nil, err
	}

	role, err := auth.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		Role:         role,
		Phone:        dto.Phone,
		ClientID:     dto.ClientID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("register: create failed", "email", dto.Email, "error", err)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// UpdateProfile applies a partial profile edit for the acting user.
func (s *Service) UpdateProfile(userID int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Phone != nil {
		u.Phone = *dto.Phone
	}
	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("update profile: password hashing failed", "user_id", userID, "error", err)
			return nil, err
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("update profile: save failed", "user_id", userID, "error", err)
		return nil, err
	}

	return u, nil
}

// ListEmployees returns the active employee directory, used by
// supervisors when assigning schedules.
func (s *Service) ListEmployees() ([]*User, error) {
	users, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	employees := make([]*User, 0, len(users))
	for _, u := range users {
		if u.Role == auth.RoleEmployee && u.IsActive {
			employees = append(employees, u)
		}
	}
	return employees, nil
}

// NamesByID maps user IDs to display names for report rendering.
func (s *Service) NamesByID() (map[int64]string, error) {
	users, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}
