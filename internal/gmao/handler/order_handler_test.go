package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/gmao/testutil"
	"github.com/google/uuid"
)

func setupOrderTest(t *testing.T) (*testutil.TestEnv, *entity.User) {
	t.Helper()
	env := testutil.NewEnv(t)
	admin := testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")

	orderSvc := service.NewOrderService(env.Repos.Order, env.Repos.Request, env.Repos.Novelty)
	h := NewOrderHandler(orderSvc)

	api := env.AuthGroup("/api/v1")
	ordenes := api.Group("/ordenes")
	ordenes.GET("", h.List)
	ordenes.GET("/stats", h.Stats)
	ordenes.GET("/:id", h.Get)
	ordenes.POST("", h.Create)
	ordenes.POST("/:id/cerrar", h.Close)
	ordenes.PATCH("/:id/estado", h.ChangeStatus)

	return env, admin
}

func seedRequestRow(t *testing.T, env *testutil.TestEnv, userID string, estado int, codigo string) *entity.Request {
	t.Helper()
	req := &entity.Request{
		ID:         uuid.New().String()[:32],
		Codigo:     codigo,
		ServicioID: 1,
		IDEstado:   estado,
		CreadoPor:  userID,
	}
	if err := env.DB.Create(req).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return req
}

func TestOrderCreateRequiresApprovedRequest(t *testing.T) {
	env, admin := setupOrderTest(t)
	token := testutil.TokenFor(admin)

	pending := seedRequestRow(t, env, admin.ID, entity.RequestStatusPendiente, "SOL-2026-0001")
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/ordenes",
		map[string]interface{}{"id_solicitud": pending.ID}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 creating order from pending request, got %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if msg, _ := resp["message"].(string); !strings.Contains(msg, "solicitudes aprobadas") {
		t.Errorf("unexpected guard message: %v", resp["message"])
	}

	approved := seedRequestRow(t, env, admin.ID, entity.RequestStatusAprobada, "SOL-2026-0002")
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/ordenes",
		map[string]interface{}{"id_solicitud": approved.ID, "recibido_por": "Juan Pérez"}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if !strings.HasPrefix(data["codigo"].(string), "ORD-") {
		t.Errorf("expected ORD- code, got %v", data["codigo"])
	}
	if data["id_estado"].(float64) != float64(entity.OrderStatusAbierta) {
		t.Errorf("expected new order abierta, got %v", data["id_estado"])
	}
}

func TestOrderDoubleCloseRejected(t *testing.T) {
	env, admin := setupOrderTest(t)
	token := testutil.TokenFor(admin)

	approved := seedRequestRow(t, env, admin.ID, entity.RequestStatusAprobada, "SOL-2026-0003")
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/ordenes",
		map[string]interface{}{"id_solicitud": approved.ID}, token)
	orderID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	closeBody := map[string]interface{}{
		"total":                1500.50,
		"recibido_por":         "María Gómez",
		"observaciones_cierre": "trabajo recibido conforme",
	}
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/ordenes/"+orderID+"/cerrar", closeBody, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on first close, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["id_estado"].(float64) != float64(entity.OrderStatusCerrada) {
		t.Errorf("expected cerrada after close, got %v", data["id_estado"])
	}
	if data["total"].(float64) != 1500.50 {
		t.Errorf("expected total 1500.50, got %v", data["total"])
	}
	if data["fecha_cierre"] == nil {
		t.Error("expected fecha_cierre to be set")
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/ordenes/"+orderID+"/cerrar", closeBody, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on second close, got %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if msg, _ := resp["message"].(string); msg != "solo se pueden cerrar órdenes que estén abiertas" {
		t.Errorf("unexpected guard message: %q", msg)
	}
}

func TestOrderAnnulOnlyWhileOpen(t *testing.T) {
	env, admin := setupOrderTest(t)
	token := testutil.TokenFor(admin)

	approved := seedRequestRow(t, env, admin.ID, entity.RequestStatusAprobada, "SOL-2026-0004")
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/ordenes",
		map[string]interface{}{"id_solicitud": approved.ID}, token)
	orderID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// Cerrada is not reachable through the generic endpoint.
	w = testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/ordenes/"+orderID+"/estado",
		map[string]interface{}{"id_estado": entity.OrderStatusCerrada}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for cerrada via generic endpoint, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/ordenes/"+orderID+"/estado",
		map[string]interface{}{"id_estado": entity.OrderStatusAnulada}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 annulling open order, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/ordenes/"+orderID+"/estado",
		map[string]interface{}{"id_estado": entity.OrderStatusAnulada}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 annulling twice, got %d", w.Code)
	}
}

func TestOrderStats(t *testing.T) {
	env, admin := setupOrderTest(t)
	token := testutil.TokenFor(admin)

	for i, codigo := range []string{"SOL-2026-0010", "SOL-2026-0011"} {
		req := seedRequestRow(t, env, admin.ID, entity.RequestStatusAprobada, codigo)
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/ordenes",
			map[string]interface{}{"id_solicitud": req.ID}, token)
		orderID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)
		if i == 0 {
			testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/ordenes/"+orderID+"/cerrar",
				map[string]interface{}{"total": 200.0}, token)
		}
	}

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/ordenes/stats", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	stats := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if stats["total"].(float64) != 2 {
		t.Errorf("expected total 2, got %v", stats["total"])
	}
	if stats["cerradas"].(float64) != 1 {
		t.Errorf("expected 1 cerrada, got %v", stats["cerradas"])
	}
	if stats["total_facturado"].(float64) != 200.0 {
		t.Errorf("expected total_facturado 200, got %v", stats["total_facturado"])
	}
}
