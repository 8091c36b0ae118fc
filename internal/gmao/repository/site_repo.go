package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"gorm.io/gorm"
)

// SiteRepository accesses the sedes table.
type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// FindByClient lists the sites of one client, newest first.
func (r *SiteRepository) FindByClient(ctx context.Context, clienteID string, page, limit int) ([]entity.Site, int64, error) {
	var items []entity.Site
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Site{}).Where("cliente_id = ?", clienteID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

func (r *SiteRepository) FindByID(ctx context.Context, id string) (*entity.Site, error) {
	var site entity.Site
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepository) Create(ctx context.Context, site *entity.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *SiteRepository) Update(ctx context.Context, site *entity.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}
