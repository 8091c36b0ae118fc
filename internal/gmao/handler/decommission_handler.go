package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// DecommissionHandler serves decommission requests (solicitudes de baja).
type DecommissionHandler struct {
	decommissionSvc *service.DecommissionService
}

func NewDecommissionHandler(decommissionSvc *service.DecommissionService) *DecommissionHandler {
	return &DecommissionHandler{decommissionSvc: decommissionSvc}
}

// List GET /solicitudes-baja
func (h *DecommissionHandler) List(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "estado", "creado_por", "q", "desde", "hasta", "sort_by", "sort_dir")

	items, total, err := h.decommissionSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Get GET /solicitudes-baja/:id
func (h *DecommissionHandler) Get(c *gin.Context) {
	req, err := h.decommissionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, req)
}

// Create POST /solicitudes-baja
func (h *DecommissionHandler) Create(c *gin.Context) {
	var data service.CreateDecommissionData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "datos de solicitud de baja inválidos: "+err.Error())
		return
	}

	req, err := h.decommissionSvc.Create(c.Request.Context(), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, req)
}

// Approve POST /solicitudes-baja/:id/aprobar
func (h *DecommissionHandler) Approve(c *gin.Context) {
	var data service.ApproveDecommissionData
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&data); err != nil {
			BadRequest(c, "datos de aprobación inválidos: "+err.Error())
			return
		}
	}

	req, err := h.decommissionSvc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, req)
}

// Reject POST /solicitudes-baja/:id/rechazar
func (h *DecommissionHandler) Reject(c *gin.Context) {
	var data service.RejectDecommissionData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "motivo_rechazo es obligatorio")
		return
	}

	req, err := h.decommissionSvc.Reject(c.Request.Context(), c.Param("id"), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, req)
}

// Execute POST /solicitudes-baja/:id/ejecutar
func (h *DecommissionHandler) Execute(c *gin.Context) {
	req, err := h.decommissionSvc.Execute(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, req)
}

// Stats GET /solicitudes-baja/stats
func (h *DecommissionHandler) Stats(c *gin.Context) {
	stats, err := h.decommissionSvc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, stats)
}
