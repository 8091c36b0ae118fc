package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"gorm.io/gorm"
)

// DecommissionRepository accesses the solicitudes_baja table.
type DecommissionRepository struct {
	db *gorm.DB
}

func NewDecommissionRepository(db *gorm.DB) *DecommissionRepository {
	return &DecommissionRepository{db: db}
}

var decommissionSortColumns = map[string]bool{
	"created_at":        true,
	"codigo":            true,
	"estado":            true,
	"valor_recuperable": true,
}

// FindAll lists decommission requests filtered by status and date range,
// with free-text search over codigo and the denormalized equipment fields.
func (r *DecommissionRepository) FindAll(ctx context.Context, page, limit int, filters map[string]string) ([]entity.DecommissionRequest, int64, error) {
	var items []entity.DecommissionRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DecommissionRequest{})

	if estado := filters["estado"]; estado != "" {
		query = query.Where("estado = ?", estado)
	}
	if creadoPor := filters["creado_por"]; creadoPor != "" {
		query = query.Where("creado_por = ?", creadoPor)
	}
	if q := filters["q"]; q != "" {
		like := "%" + q + "%"
		query = query.Where("codigo LIKE ? OR equipo_nombre LIKE ? OR equipo_serial LIKE ?",
			like, like, like)
	}
	query = applyDateRange(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyOrder(query, filters, decommissionSortColumns).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

func (r *DecommissionRepository) FindByID(ctx context.Context, id string) (*entity.DecommissionRequest, error) {
	var req entity.DecommissionRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *DecommissionRepository) Create(ctx context.Context, req *entity.DecommissionRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// UpdateStatusGuarded performs the conditional transition UPDATE with the
// current-status guard in the WHERE clause.
func (r *DecommissionRepository) UpdateStatusGuarded(ctx context.Context, id string, from string, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.DecommissionRequest{}).
		Where("id = ? AND estado = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// GenerateCode returns the next BAJ-<year>-NNNN code.
func (r *DecommissionRepository) GenerateCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.DecommissionRequest{}, "BAJ")
}

// DecommissionStats is the aggregate shape for the bajas dashboard block.
type DecommissionStats struct {
	Total            int     `json:"total"`
	Pendientes       int     `json:"pendientes"`
	Aprobadas        int     `json:"aprobadas"`
	Ejecutadas       int     `json:"ejecutadas"`
	Rechazadas       int     `json:"rechazadas"`
	ValorRecuperable float64 `json:"valor_recuperable"`
}

// Stats runs one aggregate query grouped by status, summing the approved
// recoverable value.
func (r *DecommissionRepository) Stats(ctx context.Context) (*DecommissionStats, error) {
	var stats DecommissionStats
	row := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN estado = 'pendiente' THEN 1 END) AS pendientes,
			COUNT(CASE WHEN estado = 'aprobada' THEN 1 END) AS aprobadas,
			COUNT(CASE WHEN estado = 'ejecutada' THEN 1 END) AS ejecutadas,
			COUNT(CASE WHEN estado = 'rechazada' THEN 1 END) AS rechazadas,
			COALESCE(SUM(CASE WHEN estado IN ('aprobada', 'ejecutada') THEN valor_aprobado END), 0) AS valor_recuperable
		FROM solicitudes_baja
	`).Row()
	if err := row.Scan(&stats.Total, &stats.Pendientes, &stats.Aprobadas, &stats.Ejecutadas, &stats.Rechazadas, &stats.ValorRecuperable); err != nil {
		return nil, err
	}
	return &stats, nil
}
