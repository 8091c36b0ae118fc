package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves work orders (órdenes).
type OrderHandler struct {
	orderSvc *service.OrderService
}

func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// List GET /ordenes
func (h *OrderHandler) List(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "estado", "solicitud", "q", "desde", "hasta", "sort_by", "sort_dir")

	items, total, err := h.orderSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Get GET /ordenes/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, order)
}

// Create POST /ordenes
func (h *OrderHandler) Create(c *gin.Context) {
	var data service.CreateOrderData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "id_solicitud es obligatorio")
		return
	}

	order, err := h.orderSvc.Create(c.Request.Context(), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, order)
}

// Close POST /ordenes/:id/cerrar
func (h *OrderHandler) Close(c *gin.Context) {
	var data service.CloseOrderData
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&data); err != nil {
			BadRequest(c, "datos de cierre inválidos: "+err.Error())
			return
		}
	}

	order, err := h.orderSvc.Close(c.Request.Context(), c.Param("id"), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, order)
}

// ChangeStatus PATCH /ordenes/:id/estado
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	var data service.ChangeStatusData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "id_estado es obligatorio")
		return
	}

	order, err := h.orderSvc.ChangeStatus(c.Request.Context(), c.Param("id"), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, order)
}

// Stats GET /ordenes/stats
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orderSvc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, stats)
}
