package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"gorm.io/gorm"
)

// EquipmentRepository accesses the equipos table.
type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

var equipmentSortColumns = map[string]bool{
	"created_at": true,
	"nombre":     true,
	"marca":      true,
	"serial":     true,
}

// FindAll lists equipment filtered by site, category and free-text search
// over nombre/marca/modelo/serial.
func (r *EquipmentRepository) FindAll(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Equipment, int64, error) {
	var items []entity.Equipment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Equipment{})

	if sedeID := filters["sede"]; sedeID != "" {
		query = query.Where("sede_id = ?", sedeID)
	}
	if categoria := filters["categoria"]; categoria != "" {
		query = query.Where("categoria = ?", categoria)
	}
	if activo := filters["activo"]; activo != "" {
		query = query.Where("activo = ?", activo == "true")
	}
	if q := filters["q"]; q != "" {
		like := "%" + q + "%"
		query = query.Where("nombre LIKE ? OR marca LIKE ? OR modelo LIKE ? OR serial LIKE ?",
			like, like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyOrder(query, filters, equipmentSortColumns).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

func (r *EquipmentRepository) FindByID(ctx context.Context, id string) (*entity.Equipment, error) {
	var eq entity.Equipment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&eq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eq, nil
}

func (r *EquipmentRepository) Create(ctx context.Context, eq *entity.Equipment) error {
	return r.db.WithContext(ctx).Create(eq).Error
}

func (r *EquipmentRepository) Update(ctx context.Context, eq *entity.Equipment) error {
	return r.db.WithContext(ctx).Save(eq).Error
}
