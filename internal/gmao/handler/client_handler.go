package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// ClientHandler serves clients and their nested sites.
type ClientHandler struct {
	clientSvc *service.ClientService
}

func NewClientHandler(clientSvc *service.ClientService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc}
}

// List GET /clientes
func (h *ClientHandler) List(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "activo", "q")

	items, total, err := h.clientSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Get GET /clientes/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clientSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, client)
}

// Create POST /clientes
func (h *ClientHandler) Create(c *gin.Context) {
	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de cliente inválidos: "+err.Error())
		return
	}

	client, err := h.clientSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, client)
}

// Update PATCH /clientes/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de cliente inválidos: "+err.Error())
		return
	}

	client, err := h.clientSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, client)
}

// ListSites GET /clientes/:id/sedes
func (h *ClientHandler) ListSites(c *gin.Context) {
	page, limit := GetPagination(c)

	items, total, err := h.clientSvc.ListSites(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// CreateSite POST /clientes/:id/sedes
func (h *ClientHandler) CreateSite(c *gin.Context) {
	var req service.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de sede inválidos: "+err.Error())
		return
	}

	site, err := h.clientSvc.CreateSite(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, site)
}

// GetSite GET /sedes/:id
func (h *ClientHandler) GetSite(c *gin.Context) {
	site, err := h.clientSvc.GetSite(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, site)
}

// UpdateSite PATCH /sedes/:id
func (h *ClientHandler) UpdateSite(c *gin.Context) {
	var req service.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de sede inválidos: "+err.Error())
		return
	}

	site, err := h.clientSvc.UpdateSite(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, site)
}
