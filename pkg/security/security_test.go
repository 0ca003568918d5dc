package security_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"trainee_portal_backend/pkg/security"

	"github.com/gin-gonic/gin"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestLimiter_PerClient(t *testing.T) {
	l := security.NewLimiter("gate", 2, time.Minute)
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	if !l.Allow("a", now) || !l.Allow("a", now) {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a", now) {
		t.Error("third request within window should be limited")
	}
	if !l.Allow("b", now) {
		t.Error("other clients are independent")
	}
	if !l.Allow("a", now.Add(31*time.Second)) {
		t.Error("token should refill after window/maxRequests")
	}

	if n := l.Sweep(now.Add(time.Hour), 10*time.Minute); n != 0 {
		t.Errorf("remaining after sweep = %d", n)
	}
}

func TestLimiter_Middleware(t *testing.T) {
	r := newRouter(security.NewLimiter("api", 1, time.Hour).Middleware())

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestCORS(t *testing.T) {
	r := newRouter(security.CORS([]string{"https://portal.example/"}))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://portal.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "https://portal.example" {
		t.Errorf("preflight: %d %v", w.Code, w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin must not be allowed")
	}
}
