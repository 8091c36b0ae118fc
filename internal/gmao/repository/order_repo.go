package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"gorm.io/gorm"
)

// OrderRepository accesses the ordenes table.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

var orderSortColumns = map[string]bool{
	"created_at":   true,
	"codigo":       true,
	"id_estado":    true,
	"fecha_cierre": true,
	"total":        true,
}

// FindAll lists orders with status/date filters and free-text search over
// codigo/recibido_por/observaciones_cierre.
func (r *OrderRepository) FindAll(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Order, int64, error) {
	var items []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if estado := filters["estado"]; estado != "" {
		query = query.Where("id_estado = ?", estado)
	}
	if solicitudID := filters["solicitud"]; solicitudID != "" {
		query = query.Where("solicitud_id = ?", solicitudID)
	}
	if q := filters["q"]; q != "" {
		like := "%" + q + "%"
		query = query.Where("codigo LIKE ? OR recibido_por LIKE ? OR observaciones_cierre LIKE ?",
			like, like, like)
	}
	query = applyDateRange(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyOrder(query, filters, orderSortColumns).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// UpdateStatusGuarded performs the conditional transition UPDATE with the
// current-status guard in the WHERE clause.
func (r *OrderRepository) UpdateStatusGuarded(ctx context.Context, id string, from int, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ? AND id_estado = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// GenerateCode returns the next ORD-<year>-NNNN code.
func (r *OrderRepository) GenerateCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.Order{}, "ORD")
}

// OrderStats is the aggregate shape for the ordenes dashboard block.
type OrderStats struct {
	Total          int     `json:"total"`
	Abiertas       int     `json:"abiertas"`
	Cerradas       int     `json:"cerradas"`
	Anuladas       int     `json:"anuladas"`
	TotalFacturado float64 `json:"total_facturado"`
}

// Stats runs one aggregate query grouped by status, summing closed totals.
func (r *OrderRepository) Stats(ctx context.Context) (*OrderStats, error) {
	var stats OrderStats
	row := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN id_estado = 1 THEN 1 END) AS abiertas,
			COUNT(CASE WHEN id_estado = 2 THEN 1 END) AS cerradas,
			COUNT(CASE WHEN id_estado = 3 THEN 1 END) AS anuladas,
			COALESCE(SUM(CASE WHEN id_estado = 2 THEN total END), 0) AS total_facturado
		FROM ordenes
	`).Row()
	if err := row.Scan(&stats.Total, &stats.Abiertas, &stats.Cerradas, &stats.Anuladas, &stats.TotalFacturado); err != nil {
		return nil, err
	}
	return &stats, nil
}
