package handler

import (
	"errors"

	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, refresh, logout and the current-user profile.
type AuthHandler struct {
	authSvc *service.AuthService
	userSvc *service.UserService
}

func NewAuthHandler(authSvc *service.AuthService, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, userSvc: userSvc}
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Clave string `json:"clave" binding:"required"`
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email y clave son obligatorios")
		return
	}

	user, pair, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Clave)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Unauthorized(c, "INVALID_CREDENTIALS", "credenciales inválidas")
			return
		}
		InternalError(c)
		return
	}

	OK(c, gin.H{
		"usuario":       user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh POST /auth/refresh-token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "refresh_token es obligatorio")
		return
	}

	user, pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) || errors.Is(err, service.ErrUserInactive) {
			Unauthorized(c, "INVALID_TOKEN", "refresh token inválido")
			return
		}
		InternalError(c)
		return
	}

	OK(c, gin.H{
		"usuario":       user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "refresh_token es obligatorio")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			Unauthorized(c, "INVALID_TOKEN", "refresh token inválido")
			return
		}
		InternalError(c)
		return
	}
	OK(c, gin.H{"message": "sesión cerrada"})
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userSvc.Get(c.Request.Context(), GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	OK(c, user)
}
