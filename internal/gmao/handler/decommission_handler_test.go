package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/gmao/testutil"
)

func setupDecommissionTest(t *testing.T) (*testutil.TestEnv, *entity.User) {
	t.Helper()
	env := testutil.NewEnv(t)
	admin := testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")

	decommissionSvc := service.NewDecommissionService(env.Repos.Decommission, env.Repos.Equipment, env.Repos.Novelty)
	h := NewDecommissionHandler(decommissionSvc)

	api := env.AuthGroup("/api/v1")
	bajas := api.Group("/solicitudes-baja")
	bajas.GET("", h.List)
	bajas.GET("/:id", h.Get)
	bajas.POST("", h.Create)
	bajas.POST("/:id/aprobar", h.Approve)
	bajas.POST("/:id/rechazar", h.Reject)
	bajas.POST("/:id/ejecutar", h.Execute)

	return env, admin
}

func TestDecommissionApproveAndExecute(t *testing.T) {
	env, admin := setupDecommissionTest(t)
	token := testutil.TokenFor(admin)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-baja", map[string]interface{}{
		"equipo_nombre":     "Compresor de tornillo",
		"equipo_marca":      "Atlas",
		"justificacion":     "fin de vida útil, reparación antieconómica",
		"valor_recuperable": 850.0,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	id := data["id"].(string)
	if !strings.HasPrefix(data["codigo"].(string), "BAJ-") {
		t.Errorf("expected BAJ- code, got %v", data["codigo"])
	}
	if data["estado"] != entity.DecommissionStatusPendiente {
		t.Errorf("expected pendiente, got %v", data["estado"])
	}

	// Execute is only reachable from aprobada.
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-baja/"+id+"/ejecutar", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 executing a pending request, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-baja/"+id+"/aprobar",
		map[string]interface{}{"recomendaciones": "vender como chatarra"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 approving, got %d: %s", w.Code, w.Body.String())
	}
	approved := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if approved["estado"] != entity.DecommissionStatusAprobada {
		t.Errorf("expected aprobada, got %v", approved["estado"])
	}
	// Without an explicit valor_aprobado the recoverable value carries over.
	if approved["valor_aprobado"].(float64) != 850.0 {
		t.Errorf("expected valor_aprobado 850, got %v", approved["valor_aprobado"])
	}
	if approved["evaluado_por"] == nil {
		t.Error("expected evaluado_por to be stamped")
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-baja/"+id+"/ejecutar", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 executing, got %d: %s", w.Code, w.Body.String())
	}
	executed := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if executed["estado"] != entity.DecommissionStatusEjecutada {
		t.Errorf("expected ejecutada, got %v", executed["estado"])
	}
}

func TestDecommissionRejectIsTerminal(t *testing.T) {
	env, admin := setupDecommissionTest(t)
	token := testutil.TokenFor(admin)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-baja", map[string]interface{}{
		"equipo_nombre": "Bomba centrífuga",
		"justificacion": "daño estructural",
	}, token)
	id := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-baja/"+id+"/rechazar",
		map[string]interface{}{"motivo_rechazo": "el equipo aún es reparable"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 rejecting, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-baja/"+id+"/aprobar", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 approving a rejected request, got %d", w.Code)
	}
}

func TestDecommissionCreateRequiresEquipmentName(t *testing.T) {
	env, admin := setupDecommissionTest(t)
	token := testutil.TokenFor(admin)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes-baja",
		map[string]interface{}{"justificacion": "sin equipo"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without equipment, got %d", w.Code)
	}
}
