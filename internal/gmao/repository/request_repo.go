package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"gorm.io/gorm"
)

// RequestRepository accesses the solicitudes table.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

var requestSortColumns = map[string]bool{
	"created_at": true,
	"codigo":     true,
	"id_estado":  true,
}

// FindAll lists requests with status/date filters and free-text search over
// codigo/aviso/observacion.
func (r *RequestRepository) FindAll(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Request, int64, error) {
	var items []entity.Request
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Request{})

	if estado := filters["estado"]; estado != "" {
		query = query.Where("id_estado = ?", estado)
	}
	if creadoPor := filters["creado_por"]; creadoPor != "" {
		query = query.Where("creado_por = ?", creadoPor)
	}
	if q := filters["q"]; q != "" {
		like := "%" + q + "%"
		query = query.Where("codigo LIKE ? OR aviso LIKE ? OR observacion LIKE ?", like, like, like)
	}
	query = applyDateRange(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyOrder(query, filters, requestSortColumns).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*entity.Request, error) {
	var req entity.Request
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *entity.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// UpdateStatusGuarded performs the conditional transition UPDATE. The WHERE
// guard on the current status makes concurrent double-transitions affect
// zero rows; the caller treats false as a state conflict.
func (r *RequestRepository) UpdateStatusGuarded(ctx context.Context, id string, from int, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Request{}).
		Where("id = ? AND id_estado = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// GenerateCode returns the next SOL-<year>-NNNN code.
func (r *RequestRepository) GenerateCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.Request{}, "SOL")
}

// RequestStats is the aggregate shape for the solicitudes dashboard block.
type RequestStats struct {
	Total      int `json:"total"`
	Pendientes int `json:"pendientes"`
	Aprobadas  int `json:"aprobadas"`
	Rechazadas int `json:"rechazadas"`
}

// Stats runs one aggregate query grouped by status.
func (r *RequestRepository) Stats(ctx context.Context) (*RequestStats, error) {
	var stats RequestStats
	row := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN id_estado = 1 THEN 1 END) AS pendientes,
			COUNT(CASE WHEN id_estado = 2 THEN 1 END) AS aprobadas,
			COUNT(CASE WHEN id_estado = 3 THEN 1 END) AS rechazadas
		FROM solicitudes
	`).Row()
	if err := row.Scan(&stats.Total, &stats.Pendientes, &stats.Aprobadas, &stats.Rechazadas); err != nil {
		return nil, err
	}
	return &stats, nil
}
