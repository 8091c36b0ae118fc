package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// QuotationHandler serves quotations (cotizaciones).
type QuotationHandler struct {
	quotationSvc *service.QuotationService
}

func NewQuotationHandler(quotationSvc *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationSvc: quotationSvc}
}

// List GET /cotizaciones
func (h *QuotationHandler) List(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "cliente", "orden", "estado", "q", "desde", "hasta", "sort_by", "sort_dir")

	items, total, err := h.quotationSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Get GET /cotizaciones/:id
func (h *QuotationHandler) Get(c *gin.Context) {
	quo, err := h.quotationSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, quo)
}

// Create POST /cotizaciones
func (h *QuotationHandler) Create(c *gin.Context) {
	var data service.CreateQuotationData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "datos de cotización inválidos: "+err.Error())
		return
	}

	quo, err := h.quotationSvc.Create(c.Request.Context(), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, quo)
}

// Decide PATCH /cotizaciones/:id/estado
func (h *QuotationHandler) Decide(c *gin.Context) {
	var data service.ChangeStatusData
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "id_estado es obligatorio")
		return
	}

	quo, err := h.quotationSvc.Decide(c.Request.Context(), c.Param("id"), GetUserID(c), &data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, quo)
}

// Stats GET /cotizaciones/stats
func (h *QuotationHandler) Stats(c *gin.Context) {
	stats, err := h.quotationSvc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, stats)
}
