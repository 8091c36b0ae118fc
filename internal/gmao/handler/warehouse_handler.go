package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler serves warehouse requests (solicitudes de bodega).
type WarehouseHandler struct {
	warehouseSvc *service.WarehouseService
	noveltySvc   *service.NoveltyService
}

func NewWarehouseHandler(warehouseSvc *service.WarehouseService, noveltySvc *service.NoveltyService) *WarehouseHandler {
	return &WarehouseHandler{warehouseSvc: warehouseSvc, noveltySvc: noveltySvc}
}

// List GET /solicitudes-bodega
func (h *WarehouseHandler) List(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "cliente", "orden", "estado", "q", "desde", "hasta", "sort_by", "sort_dir")

	items, total, err := h.warehouseSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Get GET /solicitudes-bodega/:id
func (h *WarehouseHandler) Get(c *gin.Context) {
	req, err := h.warehouseSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, req)
}

// Create POST /solicitudes-bodega
func (h *WarehouseHandler) Create(c *gin.Context) {
	var data service.CreateWarehouseData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "datos de solicitud de bodega inválidos: "+err.Error())
		return
	}

	req, err := h.warehouseSvc.Create(c.Request.Context(), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, req)
}

// Transition PATCH /solicitudes-bodega/:id/estado
func (h *WarehouseHandler) Transition(c *gin.Context) {
	var data service.TransitionWarehouseData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "estado es obligatorio")
		return
	}

	req, err := h.warehouseSvc.Transition(c.Request.Context(), c.Param("id"), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, req)
}

type warehouseStepRequest struct {
	Motivo string `json:"motivo"`
}

// step runs a fixed-target transition. The body is optional except when
// rejecting, where the service demands a motivo.
func (h *WarehouseHandler) step(c *gin.Context, estado string) {
	var body warehouseStepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			BadRequest(c, "cuerpo de solicitud inválido")
			return
		}
	}

	req, err := h.warehouseSvc.Transition(c.Request.Context(), c.Param("id"), GetUserID(c), &service.TransitionWarehouseData{
		Estado: estado,
		Motivo: body.Motivo,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, req)
}

// Approve POST /solicitudes-bodega/:id/aprobar
func (h *WarehouseHandler) Approve(c *gin.Context) {
	h.step(c, entity.WarehouseStatusAprobada)
}

// Reject POST /solicitudes-bodega/:id/rechazar
func (h *WarehouseHandler) Reject(c *gin.Context) {
	h.step(c, entity.WarehouseStatusRechazada)
}

// Dispatch POST /solicitudes-bodega/:id/despachar
func (h *WarehouseHandler) Dispatch(c *gin.Context) {
	h.step(c, entity.WarehouseStatusDespachada)
}

// Finish POST /solicitudes-bodega/:id/terminar
func (h *WarehouseHandler) Finish(c *gin.Context) {
	h.step(c, entity.WarehouseStatusTerminada)
}

// Novelties GET /solicitudes-bodega/:id/novedades
func (h *WarehouseHandler) Novelties(c *gin.Context) {
	page, limit := GetPagination(c)

	items, total, err := h.noveltySvc.ListByEntity(c.Request.Context(), "bodega", c.Param("id"), page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Stats GET /solicitudes-bodega/stats
func (h *WarehouseHandler) Stats(c *gin.Context) {
	stats, err := h.warehouseSvc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, stats)
}
