package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/gmao/testutil"
	"golang.org/x/crypto/bcrypt"
)

func setupUserTest(t *testing.T) (*testutil.TestEnv, *entity.User) {
	t.Helper()
	env := testutil.NewEnv(t)
	admin := testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")

	userSvc := service.NewUserService(env.Repos.User)
	h := NewUserHandler(userSvc)

	api := env.AuthGroup("/api/v1")
	usuarios := api.Group("/usuarios")
	usuarios.GET("", h.List)
	usuarios.GET("/:id", h.Get)
	usuarios.POST("", h.Create)
	usuarios.PATCH("/:id", h.Update)
	usuarios.PATCH("/:id/activo", h.SetActive)
	usuarios.PUT("/:id/clave", h.ChangePassword)

	return env, admin
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	env, admin := setupUserTest(t)
	token := testutil.TokenFor(admin)

	body := map[string]interface{}{
		"nombre": "Carlos Ruiz",
		"email":  "carlos@test.com",
		"clave":  "clave12345",
		"rol":    entity.RolTecnico,
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/usuarios", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["activo"] != true {
		t.Error("expected new user active")
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/usuarios", body, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate email, got %d", w.Code)
	}
}

func TestUserCreateRejectsUnknownRole(t *testing.T) {
	env, admin := setupUserTest(t)
	token := testutil.TokenFor(admin)

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/usuarios", map[string]interface{}{
		"nombre": "X",
		"email":  "x@test.com",
		"clave":  "clave12345",
		"rol":    "superusuario",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on unknown role, got %d", w.Code)
	}
}

func TestChangeOwnPasswordRequiresCurrent(t *testing.T) {
	env, _ := setupUserTest(t)
	user := testutil.SeedUser(t, env.DB, "Ana", "ana@test.com", entity.RolAnalista, "clave12345")
	token := testutil.TokenFor(user)

	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/usuarios/"+user.ID+"/clave",
		map[string]interface{}{"clave_actual": "equivocada99", "clave_nueva": "nuevaclave1"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with wrong current password, got %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/usuarios/"+user.ID+"/clave",
		map[string]interface{}{"clave_actual": "clave12345", "clave_nueva": "nuevaclave1"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var row entity.User
	env.DB.First(&row, "id = ?", user.ID)
	if bcrypt.CompareHashAndPassword([]byte(row.Clave), []byte("nuevaclave1")) != nil {
		t.Error("stored hash does not match the new password")
	}
}

func TestAdminResetsOtherPasswordWithoutCurrent(t *testing.T) {
	env, admin := setupUserTest(t)
	user := testutil.SeedUser(t, env.DB, "Pedro", "pedro@test.com", entity.RolComercial, "clave12345")

	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/usuarios/"+user.ID+"/clave",
		map[string]interface{}{"clave_nueva": "recuperada99"}, testutil.TokenFor(admin))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on admin reset, got %d: %s", w.Code, w.Body.String())
	}

	// Non-admins cannot touch other accounts.
	w = testutil.DoRequest(env.Router, http.MethodPut, "/api/v1/usuarios/"+admin.ID+"/clave",
		map[string]interface{}{"clave_nueva": "intrusa1234"}, testutil.TokenFor(user))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestUserSetActive(t *testing.T) {
	env, admin := setupUserTest(t)
	token := testutil.TokenFor(admin)
	user := testutil.SeedUser(t, env.DB, "Laura", "laura@test.com", entity.RolCoordinador, "clave12345")

	w := testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/usuarios/"+user.ID+"/activo",
		map[string]interface{}{"activo": false}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["activo"] != false {
		t.Errorf("expected activo false, got %v", data["activo"])
	}

	// Missing flag is a validation error.
	w = testutil.DoRequest(env.Router, http.MethodPatch, "/api/v1/usuarios/"+user.ID+"/activo",
		map[string]interface{}{}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without activo, got %d", w.Code)
	}
}
