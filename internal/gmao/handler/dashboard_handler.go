package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the aggregate stats endpoint.
type DashboardHandler struct {
	dashboardSvc *service.DashboardService
}

func NewDashboardHandler(dashboardSvc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Stats GET /dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardSvc.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, stats)
}
