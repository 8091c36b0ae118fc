package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bitfantasy/mantenix/internal/config"
	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "mantenix-test-secret-2024"

// TestEnv holds the wired resources one handler test needs.
type TestEnv struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Repos   *repository.Repositories
	AuthSvc *service.AuthService
	Router  *gin.Engine
	T       *testing.T
}

// JWTCfg is the token configuration every test environment runs with.
func JWTCfg() config.JWTConfig {
	return config.JWTConfig{
		Secret:             JWTSecret,
		AccessTokenExpire:  time.Hour,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "mantenix-test",
	}
}

// SetupTestDB opens an isolated in-memory sqlite database and migrates the
// full schema. The shared cache keeps it alive across pooled connections.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Client{},
		&entity.Site{},
		&entity.Equipment{},
		&entity.Request{},
		&entity.Order{},
		&entity.Visit{},
		&entity.Quotation{},
		&entity.WarehouseRequest{},
		&entity.WarehousePart{},
		&entity.WarehouseExtra{},
		&entity.DecommissionRequest{},
		&entity.Novelty{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRedis starts a miniredis instance and returns a client bound to it.
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

// NewEnv wires database, redis, repositories and the auth service onto a
// fresh test router.
func NewEnv(t *testing.T) *TestEnv {
	t.Helper()

	db := SetupTestDB(t)
	rdb := SetupRedis(t)
	repos := repository.NewRepositories(db)
	authSvc := service.NewAuthService(repos.User, rdb, JWTCfg())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	return &TestEnv{
		DB:      db,
		Redis:   rdb,
		Repos:   repos,
		AuthSvc: authSvc,
		Router:  router,
		T:       t,
	}
}

// AuthGroup returns a router group behind the real JWT middleware.
func (e *TestEnv) AuthGroup(path string) *gin.RouterGroup {
	return e.Router.Group(path, middleware.JWTAuth(e.AuthSvc, e.Repos.User))
}

// SeedUser creates an active user with a bcrypt-hashed password.
func SeedUser(t *testing.T, db *gorm.DB, nombre, email, rol, clave string) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(clave), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	user := &entity.User{
		ID:     uuid.New().String()[:32],
		Nombre: nombre,
		Email:  email,
		Clave:  string(hash),
		Rol:    rol,
		Activo: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
	return user
}

// TokenFor signs a valid access token for the given user.
func TokenFor(user *entity.User) string {
	return signToken(user, time.Hour)
}

// ExpiredToken signs an access token that expired an hour ago.
func ExpiredToken(user *entity.User) string {
	return signToken(user, -time.Hour)
}

func signToken(user *entity.User, ttl time.Duration) string {
	now := time.Now()
	claims := &service.Claims{
		UserID:    user.ID,
		Rol:       user.Rol,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    "mantenix-test",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	return token
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes the JSON response body into a generic map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
