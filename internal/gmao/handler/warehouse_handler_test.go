package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/gmao/testutil"
)

func setupWarehouseTest(t *testing.T) (*testutil.TestEnv, *entity.User) {
	t.Helper()
	env := testutil.NewEnv(t)
	admin := testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")

	warehouseSvc := service.NewWarehouseService(env.Repos.Warehouse, env.Repos.Client, env.Repos.Order, env.Repos.Novelty)
	noveltySvc := service.NewNoveltyService(env.Repos.Novelty)
	h := NewWarehouseHandler(warehouseSvc, noveltySvc)

	api := env.AuthGroup("/api/v1")
	bodega := api.Group("/solicitudes-bodega")
	bodega.GET("", h.List)
	bodega.GET("/stats", h.Stats)
	bodega.GET("/:id", h.Get)
	bodega.GET("/:id/novedades", h.Novelties)
	bodega.POST("", h.Create)
	bodega.POST("/:id/aprobar", h.Approve)
	bodega.POST("/:id/rechazar", h.Reject)
	bodega.POST("/:id/despachar", h.Dispatch)
	bodega.POST("/:id/terminar", h.Finish)

	return env, admin
}

func createWarehouseRequest(t *testing.T, env *testutil.TestEnv, token string) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-bodega", map[string]interface{}{
		"observacion": "repuestos para mantenimiento preventivo",
		"repuestos": []map[string]interface{}{
			{"codigo": "RP-100", "descripcion": "Rodamiento 6204", "cantidad": 2},
			{"descripcion": "Correa tipo A", "cantidad": 1, "unidad": "m"},
		},
		"adicionales": []map[string]interface{}{
			{"descripcion": "Grasa industrial", "cantidad": 0.5, "notas": "alta temperatura"},
		},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create warehouse request: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func TestWarehouseRequestChain(t *testing.T) {
	env, admin := setupWarehouseTest(t)
	token := testutil.TokenFor(admin)

	data := createWarehouseRequest(t, env, token)
	id := data["id"].(string)

	if data["estado"] != entity.WarehouseStatusPendiente {
		t.Errorf("expected pendiente, got %v", data["estado"])
	}
	if !strings.HasPrefix(data["codigo"].(string), "SB-") {
		t.Errorf("expected SB- code, got %v", data["codigo"])
	}
	if len(data["repuestos"].([]interface{})) != 2 {
		t.Errorf("expected 2 repuestos, got %v", data["repuestos"])
	}

	// The chain only moves forward one step at a time.
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-bodega/"+id+"/despachar", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 dispatching a pending request, got %d", w.Code)
	}

	steps := []struct {
		path   string
		estado string
		stamp  string
	}{
		{"/aprobar", entity.WarehouseStatusAprobada, "fecha_aprobacion"},
		{"/despachar", entity.WarehouseStatusDespachada, "fecha_despacho"},
		{"/terminar", entity.WarehouseStatusTerminada, "fecha_termino"},
	}
	for _, step := range steps {
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-bodega/"+id+step.path, nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("step %s: expected 200, got %d: %s", step.path, w.Code, w.Body.String())
		}
		row := testutil.ParseResponse(w)["data"].(map[string]interface{})
		if row["estado"] != step.estado {
			t.Errorf("step %s: expected estado %s, got %v", step.path, step.estado, row["estado"])
		}
		if row[step.stamp] == nil {
			t.Errorf("step %s: expected %s to be stamped", step.path, step.stamp)
		}
	}

	// Terminada is terminal.
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-bodega/"+id+"/aprobar", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 transitioning a finished request, got %d", w.Code)
	}

	// create + three steps.
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/solicitudes-bodega/"+id+"/novedades", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 listing novelties, got %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["pagination"].(map[string]interface{})["total"].(float64) != 4 {
		t.Errorf("expected 4 novelty rows, got %v", resp["pagination"])
	}
	first := resp["data"].([]interface{})[0].(map[string]interface{})
	if first["accion"] != "finish" {
		t.Errorf("expected newest novelty first, got accion %v", first["accion"])
	}
}

func TestWarehouseRejectRequiresMotivo(t *testing.T) {
	env, admin := setupWarehouseTest(t)
	token := testutil.TokenFor(admin)

	data := createWarehouseRequest(t, env, token)
	id := data["id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-bodega/"+id+"/rechazar", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 rejecting without motivo, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-bodega/"+id+"/rechazar",
		map[string]interface{}{"motivo": "stock insuficiente"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 rejecting with motivo, got %d: %s", w.Code, w.Body.String())
	}
	row := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if row["estado"] != entity.WarehouseStatusRechazada {
		t.Errorf("expected rechazada, got %v", row["estado"])
	}
	if row["motivo_rechazo"] != "stock insuficiente" {
		t.Errorf("expected motivo_rechazo to be stored, got %v", row["motivo_rechazo"])
	}
}

func TestWarehouseCreateRequiresLines(t *testing.T) {
	env, admin := setupWarehouseTest(t)
	token := testutil.TokenFor(admin)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-bodega",
		map[string]interface{}{"observacion": "sin líneas"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without line items, got %d", w.Code)
	}
}
