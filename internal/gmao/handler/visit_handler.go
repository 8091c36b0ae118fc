package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// VisitHandler serves scheduled visits (visitas).
type VisitHandler struct {
	visitSvc *service.VisitService
}

func NewVisitHandler(visitSvc *service.VisitService) *VisitHandler {
	return &VisitHandler{visitSvc: visitSvc}
}

// List GET /visitas
func (h *VisitHandler) List(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "orden", "responsable", "estado", "q", "desde", "hasta", "sort_by", "sort_dir")

	items, total, err := h.visitSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Get GET /visitas/:id
func (h *VisitHandler) Get(c *gin.Context) {
	visit, err := h.visitSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, visit)
}

// Create POST /visitas
func (h *VisitHandler) Create(c *gin.Context) {
	var data service.CreateVisitData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "datos de visita inválidos: "+err.Error())
		return
	}

	visit, err := h.visitSvc.Create(c.Request.Context(), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, visit)
}

// Update PATCH /visitas/:id
func (h *VisitHandler) Update(c *gin.Context) {
	var data service.UpdateVisitData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "datos de visita inválidos: "+err.Error())
		return
	}

	visit, err := h.visitSvc.Update(c.Request.Context(), c.Param("id"), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, visit)
}

// Approve POST /visitas/:id/aprobar
func (h *VisitHandler) Approve(c *gin.Context) {
	visit, err := h.visitSvc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, visit)
}

// Reject POST /visitas/:id/rechazar
func (h *VisitHandler) Reject(c *gin.Context) {
	var data service.RejectVisitData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "motivo_rechazo es obligatorio")
		return
	}

	visit, err := h.visitSvc.Reject(c.Request.Context(), c.Param("id"), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, visit)
}

// Close POST /visitas/:id/cerrar
func (h *VisitHandler) Close(c *gin.Context) {
	var data service.CloseVisitData
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&data); err != nil {
			BadRequest(c, "datos de cierre inválidos: "+err.Error())
			return
		}
	}

	visit, err := h.visitSvc.Close(c.Request.Context(), c.Param("id"), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, visit)
}

// Stats GET /visitas/stats
func (h *VisitHandler) Stats(c *gin.Context) {
	stats, err := h.visitSvc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, stats)
}
