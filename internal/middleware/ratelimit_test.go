package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func setupRateLimitRouter(t *testing.T, limit int) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisRateLimiter(rdb, "ratelimit:test", limit, time.Minute)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(limiter, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r, mr
}

func hit(r *gin.Engine) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	r, _ := setupRateLimitRouter(t, 3)

	for i := 0; i < 3; i++ {
		if w := hit(r); w.Code != http.StatusOK {
			t.Fatalf("hit %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := hit(r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over the limit, got %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "RATE_LIMITED") {
		t.Errorf("expected RATE_LIMITED code in body: %s", body)
	}
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	r, mr := setupRateLimitRouter(t, 1)
	mr.Close()

	for i := 0; i < 5; i++ {
		if w := hit(r); w.Code != http.StatusOK {
			t.Fatalf("expected 200 with limiter down, got %d", w.Code)
		}
	}
}
