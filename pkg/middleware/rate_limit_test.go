package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func hit(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddlewareEnforcesBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(1, 2))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	ip := "10.9.9.1"
	if code := hit(r, ip); code != http.StatusOK {
		t.Fatalf("first request limited: %d", code)
	}
	if code := hit(r, ip); code != http.StatusOK {
		t.Fatalf("second request limited: %d", code)
	}
	if code := hit(r, ip); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past the burst, got %d", code)
	}
	// another client has its own bucket
	if code := hit(r, "10.9.9.2"); code != http.StatusOK {
		t.Fatalf("independent client limited: %d", code)
	}
}

func TestRedisRateLimitMiddlewareFixedWindow(t *testing.T) {
	srv, err := mr.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer srv.Close()
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	// wide window so the burst of test requests lands in one bucket:
	// floor(0.1*10)+1 = 2 allowed per 10s window
	r.Use(RedisRateLimitMiddleware(client, 0.1, 1, 10*time.Second))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	ip := "10.9.9.3"
	allowed := 0
	limited := 0
	for i := 0; i < 4; i++ {
		switch hit(r, ip) {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			limited++
		}
	}
	if allowed != 2 || limited != 2 {
		t.Fatalf("expected 2 allowed / 2 limited, got %d / %d", allowed, limited)
	}
}

func TestRedisRateLimitMiddlewareNilClientFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RedisRateLimitMiddleware(nil, 1, 1, time.Second))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	if code := hit(r, "10.9.9.4"); code != http.StatusOK {
		t.Fatalf("fallback limiter rejected first request: %d", code)
	}
}
