package service

import (
	"context"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
)

// noveltyEntityTypes is the closed set of auditable entity families.
var noveltyEntityTypes = map[string]bool{
	"solicitud":  true,
	"orden":      true,
	"visita":     true,
	"cotizacion": true,
	"bodega":     true,
	"baja":       true,
}

// NoveltyService reads the audit trail.
type NoveltyService struct {
	noveltyRepo *repository.NoveltyRepository
}

func NewNoveltyService(noveltyRepo *repository.NoveltyRepository) *NoveltyService {
	return &NoveltyService{noveltyRepo: noveltyRepo}
}

// ListByEntity returns the audit rows of one workflow entity, newest first.
func (s *NoveltyService) ListByEntity(ctx context.Context, entityType, entityID string, page, limit int) ([]entity.Novelty, int64, error) {
	if !noveltyEntityTypes[entityType] {
		return nil, 0, NewValidationError("tipo de entidad inválido: %s", entityType)
	}
	return s.noveltyRepo.FindByEntity(ctx, entityType, entityID, page, limit)
}
