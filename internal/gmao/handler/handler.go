package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// Handlers holds every HTTP handler group.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Client       *ClientHandler
	Equipment    *EquipmentHandler
	Request      *RequestHandler
	Order        *OrderHandler
	Visit        *VisitHandler
	Quotation    *QuotationHandler
	Warehouse    *WarehouseHandler
	Decommission *DecommissionHandler
	Novelty      *NoveltyHandler
	Dashboard    *DashboardHandler
	Export       *ExportHandler
}

// NewHandlers wires every handler group onto its service.
func NewHandlers(
	authSvc *service.AuthService,
	userSvc *service.UserService,
	clientSvc *service.ClientService,
	equipmentSvc *service.EquipmentService,
	requestSvc *service.RequestService,
	orderSvc *service.OrderService,
	visitSvc *service.VisitService,
	quotationSvc *service.QuotationService,
	warehouseSvc *service.WarehouseService,
	decommissionSvc *service.DecommissionService,
	noveltySvc *service.NoveltyService,
	dashboardSvc *service.DashboardService,
	exportSvc *service.ExportService,
) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(authSvc, userSvc),
		User:         NewUserHandler(userSvc),
		Client:       NewClientHandler(clientSvc),
		Equipment:    NewEquipmentHandler(equipmentSvc),
		Request:      NewRequestHandler(requestSvc),
		Order:        NewOrderHandler(orderSvc),
		Visit:        NewVisitHandler(visitSvc),
		Quotation:    NewQuotationHandler(quotationSvc),
		Warehouse:    NewWarehouseHandler(warehouseSvc, noveltySvc),
		Decommission: NewDecommissionHandler(decommissionSvc),
		Novelty:      NewNoveltyHandler(noveltySvc),
		Dashboard:    NewDashboardHandler(dashboardSvc),
		Export:       NewExportHandler(exportSvc),
	}
}

// === Response helpers ===

type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Code       string      `json:"code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func Paginated(c *gin.Context, data interface{}, page, limit int, total int64) {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{Success: false, Code: code, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, "NOT_FOUND", message)
}

func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, "CONFLICT", message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Fail(c, http.StatusUnauthorized, code, message)
}

func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "error interno del servidor")
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
func handleServiceError(c *gin.Context, err error) {
	var stateErr *service.StateError
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "registro no encontrado")
	case errors.As(err, &stateErr):
		BadRequest(c, stateErr.Message)
	case errors.As(err, &validationErr):
		BadRequest(c, validationErr.Message)
	case errors.As(err, &conflictErr):
		Conflict(c, conflictErr.Message)
	default:
		InternalError(c)
	}
}

// === Request helpers ===

// GetPagination reads page/limit with defaults 1/10, capping limit at 100.
func GetPagination(c *gin.Context) (page, limit int) {
	page = 1
	limit = 10

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	return page, limit
}

// GetFilters copies the whitelisted query params into a filter map.
func GetFilters(c *gin.Context, keys ...string) map[string]string {
	filters := make(map[string]string, len(keys))
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			filters[k] = v
		}
	}
	return filters
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetUserRol(c *gin.Context) string {
	rol, _ := c.Get("user_rol")
	if r, ok := rol.(string); ok {
		return r
	}
	return ""
}
