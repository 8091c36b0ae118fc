package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"gorm.io/gorm"
)

// ClientRepository accesses the clientes table.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

var clientSortColumns = map[string]bool{
	"created_at": true,
	"nombre":     true,
	"nit":        true,
}

// FindAll lists clients with free-text search over nombre/nit/email.
func (r *ClientRepository) FindAll(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Client, int64, error) {
	var items []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{})

	if activo := filters["activo"]; activo != "" {
		query = query.Where("activo = ?", activo == "true")
	}
	if q := filters["q"]; q != "" {
		like := "%" + q + "%"
		query = query.Where("nombre LIKE ? OR nit LIKE ? OR email LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyOrder(query, filters, clientSortColumns).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

// FindByID returns the client with its sites preloaded.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).
		Preload("Sedes").
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) FindByNit(ctx context.Context, nit string) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).Where("nit = ?", nit).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}
