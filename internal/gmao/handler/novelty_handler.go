package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// NoveltyHandler serves the audit trail.
type NoveltyHandler struct {
	noveltySvc *service.NoveltyService
}

func NewNoveltyHandler(noveltySvc *service.NoveltyService) *NoveltyHandler {
	return &NoveltyHandler{noveltySvc: noveltySvc}
}

// List GET /novedades?entity_type&entity_id
func (h *NoveltyHandler) List(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	if entityType == "" || entityID == "" {
		BadRequest(c, "entity_type y entity_id son obligatorios")
		return
	}

	page, limit := GetPagination(c)
	items, total, err := h.noveltySvc.ListByEntity(c.Request.Context(), entityType, entityID, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}
