package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// RequestHandler serves service requests (solicitudes).
type RequestHandler struct {
	requestSvc *service.RequestService
}

func NewRequestHandler(requestSvc *service.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// List GET /solicitudes
func (h *RequestHandler) List(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "estado", "creado_por", "q", "desde", "hasta", "sort_by", "sort_dir")

	items, total, err := h.requestSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Get GET /solicitudes/:id
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.requestSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, req)
}

// Create POST /solicitudes
func (h *RequestHandler) Create(c *gin.Context) {
	var data service.CreateRequestData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "datos de solicitud inválidos: "+err.Error())
		return
	}

	req, err := h.requestSvc.Create(c.Request.Context(), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, req)
}

// ChangeStatus PATCH /solicitudes/:id/estado
func (h *RequestHandler) ChangeStatus(c *gin.Context) {
	var data service.ChangeStatusData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "id_estado es obligatorio")
		return
	}

	req, err := h.requestSvc.ChangeStatus(c.Request.Context(), c.Param("id"), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, req)
}

// Stats GET /solicitudes/stats
func (h *RequestHandler) Stats(c *gin.Context) {
	stats, err := h.requestSvc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, stats)
}
