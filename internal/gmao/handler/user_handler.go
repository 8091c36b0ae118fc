package handler

import (
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// UserHandler serves operator account management.
type UserHandler struct {
	userSvc *service.UserService
}

func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List GET /usuarios
func (h *UserHandler) List(c *gin.Context) {
	page, limit := GetPagination(c)
	filters := GetFilters(c, "rol", "activo", "q")

	items, total, err := h.userSvc.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Paginated(c, items, page, limit, total)
}

// Get GET /usuarios/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, user)
}

// Create POST /usuarios
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de usuario inválidos: "+err.Error())
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	Created(c, user)
}

// Update PATCH /usuarios/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "datos de usuario inválidos: "+err.Error())
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, user)
}

type setActiveRequest struct {
	Activo *bool `json:"activo" binding:"required"`
}

// SetActive PATCH /usuarios/:id/activo
func (h *UserHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "activo es obligatorio")
		return
	}

	user, err := h.userSvc.SetActive(c.Request.Context(), c.Param("id"), *req.Activo)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, user)
}

type resetPasswordRequest struct {
	ClaveActual string `json:"clave_actual"`
	ClaveNueva  string `json:"clave_nueva" binding:"required,min=8"`
}

// ChangePassword PUT /usuarios/:id/clave
// Changing your own password requires the current one; admins reset other
// accounts without it.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "clave_nueva es obligatoria")
		return
	}

	id := c.Param("id")
	if id == GetUserID(c) {
		err := h.userSvc.ChangePassword(c.Request.Context(), id, &service.ChangePasswordRequest{
			ClaveActual: req.ClaveActual,
			ClaveNueva:  req.ClaveNueva,
		})
		if err != nil {
			handleServiceError(c, err)
			return
		}
		OK(c, gin.H{"message": "clave actualizada"})
		return
	}

	if GetUserRol(c) != "admin" {
		Fail(c, 403, "INSUFFICIENT_PERMISSIONS", "solo un administrador puede cambiar la clave de otro usuario")
		return
	}
	if err := h.userSvc.ResetPassword(c.Request.Context(), id, req.ClaveNueva); err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, gin.H{"message": "clave actualizada"})
}
