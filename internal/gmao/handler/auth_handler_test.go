package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/gmao/testutil"
	"github.com/bitfantasy/mantenix/internal/middleware"
	"github.com/gin-gonic/gin"
)

func setupAuthTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	env := testutil.NewEnv(t)

	userSvc := service.NewUserService(env.Repos.User)
	h := NewAuthHandler(env.AuthSvc, userSvc)

	auth := env.Router.Group("/api/v1/auth")
	auth.POST("/login", h.Login)
	auth.POST("/refresh-token", h.Refresh)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", middleware.JWTAuth(env.AuthSvc, env.Repos.User), h.Me)

	// A role-gated probe route for the policy checks.
	api := env.AuthGroup("/api/v1")
	api.GET("/usuarios", middleware.RequireRoles(entity.RolAdmin), func(c *gin.Context) {
		OK(c, []string{})
	})

	return env
}

func TestLoginIssuesTokenPair(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"email": "admin@test.com", "clave": "clave12345"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	access, _ := data["access_token"].(string)
	if access == "" {
		t.Fatal("expected access_token in login response")
	}
	if data["refresh_token"].(string) == "" {
		t.Fatal("expected refresh_token in login response")
	}
	usuario := data["usuario"].(map[string]interface{})
	if usuario["email"] != "admin@test.com" {
		t.Errorf("unexpected usuario payload: %v", usuario)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/auth/me", nil, access)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on /auth/me, got %d", w.Code)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := setupAuthTest(t)
	user := testutil.SeedUser(t, env.DB, "Tecnico", "tec@test.com", entity.RolTecnico, "clave12345")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"unknown email", map[string]interface{}{"email": "nadie@test.com", "clave": "clave12345"}},
		{"wrong password", map[string]interface{}{"email": "tec@test.com", "clave": "incorrecta1"}},
	}
	for _, tc := range cases {
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/auth/login", tc.body, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tc.name, w.Code)
		}
		resp := testutil.ParseResponse(w)
		if resp["code"] != "INVALID_CREDENTIALS" {
			t.Errorf("%s: expected INVALID_CREDENTIALS, got %v", tc.name, resp["code"])
		}
	}

	// Deactivated accounts answer the same way.
	env.DB.Model(&entity.User{}).Where("id = ?", user.ID).Update("activo", false)
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"email": "tec@test.com", "clave": "clave12345"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("inactive user: expected 401, got %d", w.Code)
	}
	if testutil.ParseResponse(w)["code"] != "INVALID_CREDENTIALS" {
		t.Error("inactive user: expected INVALID_CREDENTIALS code")
	}
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	env := setupAuthTest(t)
	testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/auth/login",
		map[string]interface{}{"email": "admin@test.com", "clave": "clave12345"}, "")
	refresh := testutil.ParseResponse(w)["data"].(map[string]interface{})["refresh_token"].(string)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/auth/refresh-token",
		map[string]interface{}{"refresh_token": refresh}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on first refresh, got %d: %s", w.Code, w.Body.String())
	}
	second := testutil.ParseResponse(w)["data"].(map[string]interface{})["refresh_token"].(string)
	if second == refresh {
		t.Error("expected a rotated refresh token")
	}

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/auth/refresh-token",
		map[string]interface{}{"refresh_token": refresh}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 reusing a spent refresh token, got %d", w.Code)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	env := setupAuthTest(t)
	admin := testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/auth/me", nil, testutil.ExpiredToken(admin))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["code"] != middleware.CodeTokenExpired {
		t.Errorf("expected %s, got %v", middleware.CodeTokenExpired, resp["code"])
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/auth/me", nil, "")
	if testutil.ParseResponse(w)["code"] != middleware.CodeNoToken {
		t.Error("expected NO_TOKEN without credentials")
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/auth/me", nil, "not-a-jwt")
	if testutil.ParseResponse(w)["code"] != middleware.CodeInvalidToken {
		t.Error("expected INVALID_TOKEN for a garbled token")
	}
}

func TestDeactivatedUserLosesAccessImmediately(t *testing.T) {
	env := setupAuthTest(t)
	user := testutil.SeedUser(t, env.DB, "Analista", "ana@test.com", entity.RolAnalista, "clave12345")
	token := testutil.TokenFor(user)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/auth/me", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 before deactivation, got %d", w.Code)
	}

	env.DB.Model(&entity.User{}).Where("id = ?", user.ID).Update("activo", false)

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/auth/me", nil, token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after deactivation, got %d", w.Code)
	}
	if testutil.ParseResponse(w)["code"] != middleware.CodeUserNotFound {
		t.Error("expected USER_NOT_FOUND after deactivation")
	}
}

func TestRolePolicyPayload(t *testing.T) {
	env := setupAuthTest(t)
	tecnico := testutil.SeedUser(t, env.DB, "Tecnico", "tec@test.com", entity.RolTecnico, "clave12345")

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/usuarios", nil, testutil.TokenFor(tecnico))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["code"] != "INSUFFICIENT_PERMISSIONS" {
		t.Errorf("expected INSUFFICIENT_PERMISSIONS, got %v", resp["code"])
	}
	data := resp["data"].(map[string]interface{})
	if data["actual"] != entity.RolTecnico {
		t.Errorf("expected actual rol tecnico, got %v", data["actual"])
	}
	required := data["required"].([]interface{})
	if len(required) != 1 || required[0] != entity.RolAdmin {
		t.Errorf("unexpected required roles: %v", required)
	}

	// admin bypasses every role check.
	admin := testutil.SeedUser(t, env.DB, "Admin", "admin@test.com", entity.RolAdmin, "clave12345")
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/usuarios", nil, testutil.TokenFor(admin))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}
