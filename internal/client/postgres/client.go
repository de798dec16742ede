package postgres

import (
	"github.com/frahmantamala/schedule-management/internal/client"
	"gorm.io/gorm"
)

// ClientRepository implements the client.RepositoryAPI interface using GORM
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) client.RepositoryAPI {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetAll() ([]*client.Client, error) {
	var clients []*client.Client
	err := r.db.Order("name ASC").Find(&clients).Error
	return clients, err
}

func (r *ClientRepository) GetByID(id int64) (*client.Client, error) {
	var c client.Client
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, client.ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(c *client.Client) error {
	return r.db.Create(c).Error
}

func (r *ClientRepository) Update(c *client.Client) error {
	return r.db.Save(c).Error
}
