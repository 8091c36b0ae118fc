package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"gorm.io/gorm"
)

// QuotationRepository accesses the cotizaciones table.
type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

var quotationSortColumns = map[string]bool{
	"created_at": true,
	"codigo":     true,
	"id_estado":  true,
	"total":      true,
}

// FindAll lists quotations filtered by client, order, status and date range,
// with free-text search over codigo/mensaje.
func (r *QuotationRepository) FindAll(ctx context.Context, page, limit int, filters map[string]string) ([]entity.Quotation, int64, error) {
	var items []entity.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quotation{})

	if clienteID := filters["cliente"]; clienteID != "" {
		query = query.Where("cliente_id = ?", clienteID)
	}
	if ordenID := filters["orden"]; ordenID != "" {
		query = query.Where("orden_id = ?", ordenID)
	}
	if estado := filters["estado"]; estado != "" {
		query = query.Where("id_estado = ?", estado)
	}
	if q := filters["q"]; q != "" {
		like := "%" + q + "%"
		query = query.Where("codigo LIKE ? OR mensaje LIKE ?", like, like)
	}
	query = applyDateRange(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyOrder(query, filters, quotationSortColumns).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error

	return items, total, err
}

func (r *QuotationRepository) FindByID(ctx context.Context, id string) (*entity.Quotation, error) {
	var quo entity.Quotation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&quo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quo, nil
}

func (r *QuotationRepository) Create(ctx context.Context, quo *entity.Quotation) error {
	return r.db.WithContext(ctx).Create(quo).Error
}

// UpdateStatusGuarded performs the conditional transition UPDATE with the
// current-status guard in the WHERE clause.
func (r *QuotationRepository) UpdateStatusGuarded(ctx context.Context, id string, from int, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Quotation{}).
		Where("id = ? AND id_estado = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// GenerateCode returns the next COT-<year>-NNNN code.
func (r *QuotationRepository) GenerateCode(ctx context.Context) (string, error) {
	return nextCode(ctx, r.db, &entity.Quotation{}, "COT")
}

// QuotationStats is the aggregate shape for the cotizaciones dashboard block.
type QuotationStats struct {
	Total         int     `json:"total"`
	Pendientes    int     `json:"pendientes"`
	Aprobadas     int     `json:"aprobadas"`
	Rechazadas    int     `json:"rechazadas"`
	TotalAprobado float64 `json:"total_aprobado"`
}

// Stats runs one aggregate query grouped by status, summing approved totals.
func (r *QuotationRepository) Stats(ctx context.Context) (*QuotationStats, error) {
	var stats QuotationStats
	row := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN id_estado = 1 THEN 1 END) AS pendientes,
			COUNT(CASE WHEN id_estado = 2 THEN 1 END) AS aprobadas,
			COUNT(CASE WHEN id_estado = 3 THEN 1 END) AS rechazadas,
			COALESCE(SUM(CASE WHEN id_estado = 2 THEN total END), 0) AS total_aprobado
		FROM cotizaciones
	`).Row()
	if err := row.Scan(&stats.Total, &stats.Pendientes, &stats.Aprobadas, &stats.Rechazadas, &stats.TotalAprobado); err != nil {
		return nil, err
	}
	return &stats, nil
}
