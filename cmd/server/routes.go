package main

import (
	"net/http"
	"time"

	"github.com/bitfantasy/mantenix/internal/config"
	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/handler"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// rolePolicy maps a route group to the roles allowed to mutate it. Reads are
// open to every authenticated user; admin passes every check.
var rolePolicy = map[string][]string{
	"usuarios":          {entity.RolAdmin},
	"catalogo":          {entity.RolAdmin, entity.RolCoordinador, entity.RolComercial},
	"solicitudes":       {entity.RolAdmin, entity.RolCoordinador, entity.RolAnalista},
	"ordenes":           {entity.RolAdmin, entity.RolCoordinador},
	"visitas":           {entity.RolAdmin, entity.RolCoordinador, entity.RolTecnico},
	"cotizaciones":      {entity.RolAdmin, entity.RolComercial},
	"bodega-aprobacion": {entity.RolAdmin, entity.RolCoordinador},
	"bodega-despacho":   {entity.RolAdmin, entity.RolAnalista},
	"bajas":             {entity.RolAdmin, entity.RolCoordinador},
}

func allow(group string) gin.HandlerFunc {
	return middleware.RequireRoles(rolePolicy[group]...)
}

func registerRoutes(
	router *gin.Engine,
	h *handler.Handlers,
	authSvc *service.AuthService,
	repos *repository.Repositories,
	cfg *config.Config,
	loginLimiter middleware.RateLimiter,
	logger *zap.Logger,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().Format(time.RFC3339),
			"environment": cfg.Server.Environment,
		})
	})

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		login := auth.Group("")
		if loginLimiter != nil {
			login.Use(middleware.RateLimit(loginLimiter, logger))
		}
		login.POST("/login", h.Auth.Login)

		auth.POST("/refresh-token", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", middleware.JWTAuth(authSvc, repos.User), h.Auth.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(authSvc, repos.User))

	usuarios := protected.Group("/usuarios", allow("usuarios"))
	{
		usuarios.GET("", h.User.List)
		usuarios.GET("/:id", h.User.Get)
		usuarios.POST("", h.User.Create)
		usuarios.PATCH("/:id", h.User.Update)
		usuarios.PATCH("/:id/activo", h.User.SetActive)
	}
	// Password change is open to every user for their own account; the
	// handler enforces admin for other accounts.
	protected.PUT("/usuarios/:id/clave", h.User.ChangePassword)

	clientes := protected.Group("/clientes")
	{
		clientes.GET("", h.Client.List)
		clientes.GET("/:id", h.Client.Get)
		clientes.POST("", allow("catalogo"), h.Client.Create)
		clientes.PATCH("/:id", allow("catalogo"), h.Client.Update)
		clientes.GET("/:id/sedes", h.Client.ListSites)
		clientes.POST("/:id/sedes", allow("catalogo"), h.Client.CreateSite)
	}

	sedes := protected.Group("/sedes")
	{
		sedes.GET("/:id", h.Client.GetSite)
		sedes.PATCH("/:id", allow("catalogo"), h.Client.UpdateSite)
		sedes.GET("/:id/equipos", h.Equipment.ListBySite)
		sedes.POST("/:id/equipos", allow("catalogo"), h.Equipment.CreateForSite)
	}

	equipos := protected.Group("/equipos")
	{
		equipos.GET("", h.Equipment.List)
		equipos.GET("/:id", h.Equipment.Get)
		equipos.POST("", allow("catalogo"), h.Equipment.Create)
		equipos.PATCH("/:id", allow("catalogo"), h.Equipment.Update)
	}

	solicitudes := protected.Group("/solicitudes")
	{
		solicitudes.GET("", h.Request.List)
		solicitudes.GET("/stats", h.Request.Stats)
		solicitudes.GET("/:id", h.Request.Get)
		solicitudes.POST("", h.Request.Create)
		solicitudes.PATCH("/:id/estado", allow("solicitudes"), h.Request.ChangeStatus)
	}

	ordenes := protected.Group("/ordenes")
	{
		ordenes.GET("", h.Order.List)
		ordenes.GET("/stats", h.Order.Stats)
		ordenes.GET("/:id", h.Order.Get)
		ordenes.POST("", allow("ordenes"), h.Order.Create)
		ordenes.POST("/:id/cerrar", allow("ordenes"), h.Order.Close)
		ordenes.PATCH("/:id/estado", allow("ordenes"), h.Order.ChangeStatus)
	}

	visitas := protected.Group("/visitas")
	{
		visitas.GET("", h.Visit.List)
		visitas.GET("/stats", h.Visit.Stats)
		visitas.GET("/:id", h.Visit.Get)
		visitas.POST("", allow("visitas"), h.Visit.Create)
		visitas.PATCH("/:id", allow("visitas"), h.Visit.Update)
		visitas.POST("/:id/aprobar", allow("ordenes"), h.Visit.Approve)
		visitas.POST("/:id/rechazar", allow("ordenes"), h.Visit.Reject)
		visitas.POST("/:id/cerrar", allow("visitas"), h.Visit.Close)
	}

	cotizaciones := protected.Group("/cotizaciones")
	{
		cotizaciones.GET("", h.Quotation.List)
		cotizaciones.GET("/stats", h.Quotation.Stats)
		cotizaciones.GET("/:id", h.Quotation.Get)
		cotizaciones.POST("", allow("cotizaciones"), h.Quotation.Create)
		cotizaciones.PATCH("/:id/estado", allow("cotizaciones"), h.Quotation.Decide)
	}

	bodega := protected.Group("/solicitudes-bodega")
	{
		bodega.GET("", h.Warehouse.List)
		bodega.GET("/stats", h.Warehouse.Stats)
		bodega.GET("/:id", h.Warehouse.Get)
		bodega.GET("/:id/novedades", h.Warehouse.Novelties)
		bodega.POST("", h.Warehouse.Create)
		bodega.PATCH("/:id/estado", allow("bodega-aprobacion"), h.Warehouse.Transition)
		bodega.POST("/:id/aprobar", allow("bodega-aprobacion"), h.Warehouse.Approve)
		bodega.POST("/:id/rechazar", allow("bodega-aprobacion"), h.Warehouse.Reject)
		bodega.POST("/:id/despachar", allow("bodega-despacho"), h.Warehouse.Dispatch)
		bodega.POST("/:id/terminar", allow("bodega-despacho"), h.Warehouse.Finish)
	}

	bajas := protected.Group("/solicitudes-baja")
	{
		bajas.GET("", h.Decommission.List)
		bajas.GET("/stats", h.Decommission.Stats)
		bajas.GET("/:id", h.Decommission.Get)
		bajas.POST("", h.Decommission.Create)
		bajas.POST("/:id/aprobar", allow("bajas"), h.Decommission.Approve)
		bajas.POST("/:id/rechazar", allow("bajas"), h.Decommission.Reject)
		bajas.POST("/:id/ejecutar", allow("bajas"), h.Decommission.Execute)
	}

	protected.GET("/novedades", h.Novelty.List)
	protected.GET("/dashboard/stats", h.Dashboard.Stats)
	protected.GET("/exports/:file", h.Export.Download)
}
