package repository

import (
	"context"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoveltyRepository accesses the novedades audit table.
type NoveltyRepository struct {
	db *gorm.DB
}

func NewNoveltyRepository(db *gorm.DB) *NoveltyRepository {
	return &NoveltyRepository{db: db}
}

func (r *NoveltyRepository) Create(ctx context.Context, n *entity.Novelty) error {
	if n.ID == "" {
		n.ID = uuid.New().String()[:32]
	}
	return r.db.WithContext(ctx).Create(n).Error
}

// LogNovelty appends an audit row, best effort. Write failures are ignored
// so a logging problem never breaks the business operation.
func (r *NoveltyRepository) LogNovelty(ctx context.Context, entityType, entityID, entityCode, accion, estadoAnterior, estadoNuevo, contenido, operadorID, operadorNombre string) {
	n := &entity.Novelty{
		ID:             uuid.New().String()[:32],
		EntityType:     entityType,
		EntityID:       entityID,
		EntityCode:     entityCode,
		Accion:         accion,
		EstadoAnterior: estadoAnterior,
		EstadoNuevo:    estadoNuevo,
		Contenido:      contenido,
		OperadorID:     operadorID,
		OperadorNombre: operadorNombre,
	}
	r.db.WithContext(ctx).Create(n)
}

// FindByEntity lists the audit trail of one workflow entity, newest first.
func (r *NoveltyRepository) FindByEntity(ctx context.Context, entityType, entityID string, page, limit int) ([]entity.Novelty, int64, error) {
	var items []entity.Novelty
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Novelty{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID)

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
