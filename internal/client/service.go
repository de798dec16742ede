package client

import (
	"log/slog"
	"time"
)

type RepositoryAPI interface {
	GetAll() ([]*Client, error)
	GetByID(id int64) (*Client, error)
	Create(c *Client) error
	Update(c *Client) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetActiveClients lists the clients that schedules can be booked
// against.
func (s *Service) GetActiveClients() ([]*Client, error) {
	clients, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get clients from repository", "error", err)
		return nil, err
	}

	active := make([]*Client, 0, len(clients))
	for _, c := range clients {
		if c.IsActiveClient() {
			active = append(active, c)
		}
	}

	s.logger.Info("retrieved clients", "count", len(active))
	return active, nil
}

func (s *Service) GetByID(id int64) (*Client, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(dto CreateClientDTO) (*Client, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := NewClient(dto.Name, dto.ContactEmail, dto.Phone, dto.Address)
	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create client", "name", dto.Name, "error", err)
		return nil, err
	}

	s.logger.Info("client created", "client_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) Update(id int64, dto UpdateClientDTO) (*Client, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	dto.ApplyTo(c)
	c.UpdatedAt = time.Now()

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update client", "client_id", id, "error", err)
		return nil, err
	}

	return c, nil
}

// IsBookable reports whether a schedule may be created against the
// client.
func (s *Service) IsBookable(id int64) bool {
	c, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Warn("error checking client", "client_id", id, "error", err)
		return false
	}
	return c.IsActiveClient()
}

// NamesByID maps client IDs to display names for report rendering.
func (s *Service) NamesByID() (map[int64]string, error) {
	clients, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return names, nil
}
