package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// EquipmentHandler serves the asset catalog.
type EquipmentHandler struct {
	equipmentSvc *service.EquipmentService
}

func NewEquipmentHandler(equipmentSvc *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentSvc: equipmentSvc}
}

// List GET /equipos
func (h *EquipmentHandler) List(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "sede", "categoria", "activo", "q")

	items, total, err := h.equipmentSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Get GET /equipos/:id
func (h *EquipmentHandler) Get(c *gin.Context) {
	eq, err := h.equipmentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, eq)
}

// Create POST /equipos
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req service.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de equipo inválidos: "+err.Error())
		return
	}

	eq, err := h.equipmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, eq)
}

// ListBySite GET /sedes/:id/equipos
func (h *EquipmentHandler) ListBySite(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "categoria", "activo", "q")
	filters["sede"] = c.Param("id")

	items, total, err := h.equipmentSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// CreateForSite POST /sedes/:id/equipos
// The site comes from the path and overrides any id_sede in the body.
func (h *EquipmentHandler) CreateForSite(c *gin.Context) {
	var req service.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de equipo inválidos: "+err.Error())
		return
	}
	req.SedeID = c.Param("id")

	eq, err := h.equipmentSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, eq)
}

// Update PATCH /equipos/:id
func (h *EquipmentHandler) Update(c *gin.Context) {
	var req service.UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de equipo inválidos: "+err.Error())
		return
	}

	eq, err := h.equipmentSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, eq)
}
