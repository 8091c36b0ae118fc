package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"gorm.io/gorm"
)

// VisitRepository accesses the visitas table.
type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

var visitSortColumns = map[string]bool{
	"created_at":       true,
	"fecha_programada": true,
	"id_estado":        true,
}

// FindAll lists visits filtered by order, responsible user, status and date
// range, with free-text search over observacion.
func (r *VisitRepository) FindAll(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Visit, int64, error) {
	var items []entity.Visit
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Visit{})

	if ordenID := filters["orden"]; ordenID != "" {
		query = query.Where("orden_id = ?", ordenID)
	}
	if responsable := filters["responsable"]; responsable != "" {
		query = query.Where("responsable_id = ?", responsable)
	}
	if estado := filters["estado"]; estado != "" {
		query = query.Where("id_estado = ?", estado)
	}
	if q := filters["q"]; q != "" {
		query = query.Where("observacion LIKE ?", "%"+q+"%")
	}
	query = applyDateRange(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyOrder(query, filters, visitSortColumns).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

func (r *VisitRepository) FindByID(ctx context.Context, id string) (*entity.Visit, error) {
	var visit entity.Visit
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&visit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &visit, nil
}

func (r *VisitRepository) Create(ctx context.Context, visit *entity.Visit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

// UpdateStatusGuarded performs the conditional transition UPDATE with the
// current-status guard in the WHERE clause.
func (r *VisitRepository) UpdateStatusGuarded(ctx context.Context, id string, from int, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Visit{}).
		Where("id = ? AND id_estado = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// UpdateFieldsWhilePending edits schedule fields only while the visit is
// still pendiente, using the same zero-rows-means-conflict contract as the
// status transitions.
func (r *VisitRepository) UpdateFieldsWhilePending(ctx context.Context, id string, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Visit{}).
		Where("id = ? AND id_estado = ?", id, entity.VisitStatusPendiente).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// VisitStats is the aggregate shape for the visitas dashboard block.
type VisitStats struct {
	Total      int `json:"total"`
	Pendientes int `json:"pendientes"`
	Abiertas   int `json:"abiertas"`
	Cerradas   int `json:"cerradas"`
	Rechazadas int `json:"rechazadas"`
}

// Stats runs one aggregate query grouped by status.
func (r *VisitRepository) Stats(ctx context.Context) (*VisitStats, error) {
	var stats VisitStats
	row := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN id_estado = 1 THEN 1 END) AS pendientes,
			COUNT(CASE WHEN id_estado = 2 THEN 1 END) AS abiertas,
			COUNT(CASE WHEN id_estado = 3 THEN 1 END) AS cerradas,
			COUNT(CASE WHEN id_estado = 4 THEN 1 END) AS rechazadas
		FROM visitas
	`).Row()
	if err := row.Scan(&stats.Total, &stats.Pendientes, &stats.Abiertas, &stats.Cerradas, &stats.Rechazadas); err != nil {
		return nil, err
	}
	return &stats, nil
}
