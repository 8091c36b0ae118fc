package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/xuri/excelize/v2"
)

// utf8BOM keeps Excel from misreading accented characters in CSV files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders entity listings as CSV or XLSX downloads.
type ExportService struct {
	requestRepo   *repository.RequestRepository
	orderRepo     *repository.OrderRepository
	warehouseRepo *repository.WarehouseRepository
	maxRows       int
}

func NewExportService(requestRepo *repository.RequestRepository, orderRepo *repository.OrderRepository, warehouseRepo *repository.WarehouseRepository, maxRows int) *ExportService {
	if maxRows <= 0 {
		maxRows = 10000
	}
	return &ExportService{
		requestRepo:   requestRepo,
		orderRepo:     orderRepo,
		warehouseRepo: warehouseRepo,
		maxRows:       maxRows,
	}
}

// rowCap clamps a caller-requested row count to the configured ceiling.
func (s *ExportService) rowCap(max int) int {
	if max <= 0 || max > s.maxRows {
		return s.maxRows
	}
	return max
}

var requestExportHeaders = []string{
	"codigo", "id_servicio", "aviso", "observacion", "estado", "creado_por", "fecha_creacion",
}

// ExportRequests renders the filtered request listing.
func (s *ExportService) ExportRequests(ctx context.Context, format string, filters map[string]string, max int) (*ExportFile, error) {
	items, _, err := s.requestRepo.FindAll(ctx, 1, s.rowCap(max), filters)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(items))
	for _, r := range items {
		rows = append(rows, []interface{}{
			r.Codigo, r.ServicioID, r.Aviso, r.Observacion,
			entity.RequestStatusNames[r.IDEstado], r.CreadoPor,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return s.render("solicitudes", format, requestExportHeaders, rows)
}

var orderExportHeaders = []string{
	"codigo", "id_solicitud", "estado", "recibido_por", "total", "fecha_cierre", "observaciones_cierre", "fecha_creacion",
}

// ExportOrders renders the filtered order listing.
func (s *ExportService) ExportOrders(ctx context.Context, format string, filters map[string]string, max int) (*ExportFile, error) {
	items, _, err := s.orderRepo.FindAll(ctx, 1, s.rowCap(max), filters)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(items))
	for _, o := range items {
		total := ""
		if o.Total != nil {
			total = strconv.FormatFloat(*o.Total, 'f', 2, 64)
		}
		cierre := ""
		if o.FechaCierre != nil {
			cierre = o.FechaCierre.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []interface{}{
			o.Codigo, o.SolicitudID, entity.OrderStatusNames[o.IDEstado],
			o.RecibidoPor, total, cierre, o.ObservacionesCierre,
			o.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return s.render("ordenes", format, orderExportHeaders, rows)
}

var warehouseExportHeaders = []string{
	"codigo", "estado", "observacion", "creado_por", "fecha_creacion",
}

// ExportWarehouseRequests renders the filtered warehouse-request listing.
func (s *ExportService) ExportWarehouseRequests(ctx context.Context, format string, filters map[string]string, max int) (*ExportFile, error) {
	items, _, err := s.warehouseRepo.FindAll(ctx, 1, s.rowCap(max), filters)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(items))
	for _, w := range items {
		rows = append(rows, []interface{}{
			w.Codigo, w.Estado, w.Observacion, w.CreadoPor,
			w.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return s.render("solicitudes_bodega", format, warehouseExportHeaders, rows)
}

func (s *ExportService) render(name, format string, headers []string, rows [][]interface{}) (*ExportFile, error) {
	switch format {
	case "csv":
		return renderCSV(name, headers, rows)
	case "xlsx":
		return renderXLSX(name, headers, rows)
	default:
		return nil, NewValidationError("formato de exportación inválido: %s", format)
	}
}

func renderCSV(name string, headers []string, rows [][]interface{}) (*ExportFile, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("%s_%s.csv", name, time.Now().Format("2006-01-02")),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

func renderXLSX(name string, headers []string, rows [][]interface{}) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Datos"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, v := range row {
			col, _ := excelize.ColumnNumberToName(colIdx + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, rowIdx+2), v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}
