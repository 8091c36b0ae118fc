package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 401 error codes
const (
	CodeNoToken      = "NO_TOKEN"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeUserNotFound = "USER_NOT_FOUND"
)

// JWTAuth validates the bearer token and re-reads the user row on every
// request, so revoked or deactivated accounts lose access immediately
// regardless of token lifetime.
func JWTAuth(authSvc *service.AuthService, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			unauthorized(c, CodeNoToken, "token de autenticación requerido")
			return
		}

		claims, err := authSvc.ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				unauthorized(c, CodeTokenExpired, "el token ha expirado")
				return
			}
			unauthorized(c, CodeInvalidToken, "token inválido")
			return
		}
		if claims.TokenType != "access" {
			unauthorized(c, CodeInvalidToken, "token inválido")
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.Activo {
			unauthorized(c, CodeUserNotFound, "usuario no encontrado o inactivo")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_rol", user.Rol)
		c.Set("user_nombre", user.Nombre)
		c.Next()
	}
}

// RequireRoles rejects the request unless the authenticated user's role is
// in the allowed set. admin always passes.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rol := c.GetString("user_rol")
		if rol == "admin" {
			c.Next()
			return
		}
		for _, r := range roles {
			if r == rol {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"code":    "INSUFFICIENT_PERMISSIONS",
			"message": "no tiene permisos para esta operación",
			"data": gin.H{
				"required": roles,
				"actual":   rol,
			},
		})
		c.Abort()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Query("token")
}

func unauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
	c.Abort()
}
