package handler

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/gmao/testutil"
)

func setupRequestTest(t *testing.T) (*testutil.TestEnv, *entity.User) {
	t.Helper()
	env := testutil.NewEnv(t)
	admin := testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")

	requestSvc := service.NewRequestService(env.Repos.Request, env.Repos.Equipment, env.Repos.User, env.Repos.Novelty)
	h := NewRequestHandler(requestSvc)

	api := env.AuthGroup("/api/v1")
	solicitudes := api.Group("/solicitudes")
	solicitudes.GET("", h.List)
	solicitudes.GET("/stats", h.Stats)
	solicitudes.GET("/:id", h.Get)
	solicitudes.POST("", h.Create)
	solicitudes.PATCH("/:id/estado", h.ChangeStatus)

	return env, admin
}

func createRequest(t *testing.T, env *testutil.TestEnv, token string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/solicitudes", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create request: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

func TestRequestLifecycle(t *testing.T) {
	env, admin := setupRequestTest(t)
	token := testutil.TokenFor(admin)

	data := createRequest(t, env, token, map[string]interface{}{
		"id_servicio": 1,
		"aviso":       "A-001",
		"observacion": "Falla en motor",
	})

	if data["id_estado"].(float64) != float64(entity.RequestStatusPendiente) {
		t.Errorf("expected new request in estado 1, got %v", data["id_estado"])
	}
	codigo := data["codigo"].(string)
	if !strings.HasPrefix(codigo, "SOL-") {
		t.Errorf("expected SOL- code, got %s", codigo)
	}

	id := data["id"].(string)
	w := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/solicitudes/"+id+"/estado", map[string]interface{}{
		"id_estado":   entity.RequestStatusAprobada,
		"observacion": "aprobada por supervisor",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on approval, got %d: %s", w.Code, w.Body.String())
	}

	updated := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if updated["id_estado"].(float64) != float64(entity.RequestStatusAprobada) {
		t.Errorf("expected estado 2, got %v", updated["id_estado"])
	}
	if updated["cambio_estado"] == nil {
		t.Error("expected cambio_estado timestamp to be set")
	}
	if updated["cambiado_por"] == nil {
		t.Error("expected cambiado_por to be set")
	}

	// One novelty for the create, one for the transition.
	var count int64
	env.DB.Model(&entity.Novelty{}).Where("entity_type = ? AND entity_id = ?", "solicitud", id).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 novelty rows, got %d", count)
	}
}

func TestRequestChangeStatusIsTerminal(t *testing.T) {
	env, admin := setupRequestTest(t)
	token := testutil.TokenFor(admin)

	data := createRequest(t, env, token, map[string]interface{}{"id_servicio": 2, "aviso": "A-002"})
	id := data["id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/solicitudes/"+id+"/estado",
		map[string]interface{}{"id_estado": entity.RequestStatusRechazada}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on rejection, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/solicitudes/"+id+"/estado",
		map[string]interface{}{"id_estado": entity.RequestStatusAprobada}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on second transition, got %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if msg, _ := resp["message"].(string); !strings.Contains(msg, "solo se pueden aprobar o rechazar solicitudes pendientes") {
		t.Errorf("unexpected guard message: %v", resp["message"])
	}
}

func TestRequestInvalidStatusLeavesRowUnchanged(t *testing.T) {
	env, admin := setupRequestTest(t)
	token := testutil.TokenFor(admin)

	data := createRequest(t, env, token, map[string]interface{}{"id_servicio": 3})
	id := data["id"].(string)

	w := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/solicitudes/"+id+"/estado",
		map[string]interface{}{"id_estado": 5}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on unknown estado, got %d", w.Code)
	}

	var row entity.Request
	if err := env.DB.First(&row, "id = ?", id).Error; err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if row.IDEstado != entity.RequestStatusPendiente {
		t.Errorf("row changed despite invalid target, estado %d", row.IDEstado)
	}
}

func TestRequestPagination(t *testing.T) {
	env, admin := setupRequestTest(t)
	token := testutil.TokenFor(admin)

	for i := 0; i < 23; i++ {
		createRequest(t, env, token, map[string]interface{}{
			"id_servicio": 1,
			"aviso":       fmt.Sprintf("AV-%03d", i),
		})
	}

	seen := make(map[string]bool)
	for page := 1; page <= 3; page++ {
		w := testutil.DoRequest(env.Router, http.MethodGet,
			fmt.Sprintf("/api/v1/solicitudes?page=%d&limit=10", page), nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("page %d: expected 200, got %d", page, w.Code)
		}
		resp := testutil.ParseResponse(w)
		pg := resp["pagination"].(map[string]interface{})
		if pg["total"].(float64) != 23 {
			t.Fatalf("expected total 23, got %v", pg["total"])
		}
		if pg["totalPages"].(float64) != 3 {
			t.Fatalf("expected totalPages 3, got %v", pg["totalPages"])
		}

		items := resp["data"].([]interface{})
		want := 10
		if page == 3 {
			want = 3
		}
		if len(items) != want {
			t.Fatalf("page %d: expected %d items, got %d", page, want, len(items))
		}
		for _, it := range items {
			id := it.(map[string]interface{})["id"].(string)
			if seen[id] {
				t.Fatalf("item %s repeated across pages", id)
			}
			seen[id] = true
		}
	}
}

func TestRequestStats(t *testing.T) {
	env, admin := setupRequestTest(t)
	token := testutil.TokenFor(admin)

	data := createRequest(t, env, token, map[string]interface{}{"id_servicio": 1})
	createRequest(t, env, token, map[string]interface{}{"id_servicio": 2})

	testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/solicitudes/"+data["id"].(string)+"/estado",
		map[string]interface{}{"id_estado": entity.RequestStatusAprobada}, token)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/solicitudes/stats", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	stats := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if stats["total"].(float64) != 2 {
		t.Errorf("expected total 2, got %v", stats["total"])
	}
	if stats["aprobadas"].(float64) != 1 {
		t.Errorf("expected 1 aprobada, got %v", stats["aprobadas"])
	}
	if stats["pendientes"].(float64) != 1 {
		t.Errorf("expected 1 pendiente, got %v", stats["pendientes"])
	}
}
