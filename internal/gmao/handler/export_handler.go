package handler

import (
	"strconv"
	"strings"

	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// ExportHandler streams entity listings as CSV or XLSX downloads.
type ExportHandler struct {
	exportSvc *service.ExportService
}

func NewExportHandler(exportSvc *service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Download GET /exports/:file
// The entity and format ride on the filename: /exports/ordenes.csv,
// /exports/solicitudes.xlsx, /exports/solicitudes-bodega.csv.
func (h *ExportHandler) Download(c *gin.Context) {
	name := c.Param("file")

	var format string
	switch {
	case strings.HasSuffix(name, ".csv"):
		format = "csv"
	case strings.HasSuffix(name, ".xlsx"):
		format = "xlsx"
	default:
		BadRequest(c, "formato de exportación inválido, use .csv o .xlsx")
		return
	}
	entityName := strings.TrimSuffix(strings.TrimSuffix(name, ".csv"), ".xlsx")

	filters := GetFilters(c, "cliente", "estado", "solicitud", "orden", "q", "desde", "hasta")
	max := 0
	if m := c.Query("max"); m != "" {
		if v, err := strconv.Atoi(m); err == nil && v > 0 {
			max = v
		}
	}
	ctx := c.Request.Context()

	var file *service.ExportFile
	var err error
	switch entityName {
	case "solicitudes":
		file, err = h.exportSvc.ExportRequests(ctx, format, filters, max)
	case "ordenes":
		file, err = h.exportSvc.ExportOrders(ctx, format, filters, max)
	case "solicitudes-bodega":
		file, err = h.exportSvc.ExportWarehouseRequests(ctx, format, filters, max)
	default:
		NotFound(c, "exportación no disponible: "+entityName)
		return
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(200, file.ContentType, file.Data)
}
