package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"gorm.io/gorm"
)

// WarehouseRepository accesses solicitudes_bodega and its line-item tables.
type WarehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

var warehouseSortColumns = map[string]bool{
	"created_at": true,
	"codigo":     true,
	"estado":     true,
}

// FindAll lists warehouse requests filtered by client, order, status and
// date range, with free-text search over codigo/observacion.
func (r *WarehouseRepository) FindAll(ctx context.Context, page, limit int, filters map[string]string) ([]entity.WarehouseRequest, int64, error) {
	var items []entity.WarehouseRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.WarehouseRequest{})

	if clienteID := filters["cliente"]; clienteID != "" {
		query = query.Where("cliente_id = ?", clienteID)
	}
	if ordenID := filters["orden"]; ordenID != "" {
		query = query.Where("orden_id = ?", ordenID)
	}
	if estado := filters["estado"]; estado != "" {
		query = query.Where("estado = ?", estado)
	}
	if q := filters["q"]; q != "" {
		like := "%" + q + "%"
		query = query.Where("codigo LIKE ? OR observacion LIKE ?", like, like)
	}
	query = applyDateRange(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyOrder(query, filters, warehouseSortColumns).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

// FindByID loads one warehouse request with its part and extra lines.
func (r *WarehouseRepository) FindByID(ctx context.Context, id string) (*entity.WarehouseRequest, error) {
	var req entity.WarehouseRequest
	err := r.db.WithContext(ctx).
		Preload("Repuestos").
		Preload("Adicionales").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Create inserts the request together with its line items. gorm cascades the
// associated Repuestos/Adicionales slices in the same transaction.
func (r *WarehouseRepository) Create(ctx context.Context, req *entity.WarehouseRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// UpdateStatusGuarded performs the conditional transition UPDATE. Warehouse
// requests carry string statuses, so the guard compares estado text.
func (r *WarehouseRepository) UpdateStatusGuarded(ctx context.Context, id string, from string, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.WarehouseRequest{}).
		Where("id = ? AND estado = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// GenerateCode returns the next SB-<year>-NNNN code.
func (r *WarehouseRepository) GenerateCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.WarehouseRequest{}, "SB")
}

// WarehouseStats is the aggregate shape for the bodega dashboard block.
type WarehouseStats struct {
	Total       int `json:"total"`
	Pendientes  int `json:"pendientes"`
	Aprobadas   int `json:"aprobadas"`
	Despachadas int `json:"despachadas"`
	Terminadas  int `json:"terminadas"`
	Rechazadas  int `json:"rechazadas"`
}

// Stats runs one aggregate query grouped by status.
func (r *WarehouseRepository) Stats(ctx context.Context) (*WarehouseStats, error) {
	var stats WarehouseStats
	row := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN estado = 'pendiente' THEN 1 END) AS pendientes,
			COUNT(CASE WHEN estado = 'aprobada' THEN 1 END) AS aprobadas,
			COUNT(CASE WHEN estado = 'despachada' THEN 1 END) AS despachadas,
			COUNT(CASE WHEN estado = 'terminada' THEN 1 END) AS terminadas,
			COUNT(CASE WHEN estado = 'rechazada' THEN 1 END) AS rechazadas
		FROM solicitudes_bodega
	`).Row()
	if err := row.Scan(&stats.Total, &stats.Pendientes, &stats.Aprobadas, &stats.Despachadas, &stats.Terminadas, &stats.Rechazadas); err != nil {
		return nil, err
	}
	return &stats, nil
}
