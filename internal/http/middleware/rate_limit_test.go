package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/api/analyze", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if i == 2 {
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != "Too many requests" {
				t.Fatalf("error=%q", body["error"])
			}
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes: %v", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client should have its own bucket, got %d", rec.Code)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	if rl.Len() != 2 {
		t.Fatalf("len=%d want 2", rl.Len())
	}
	now = now.Add(11 * time.Minute)
	rl.Allow("b")
	if rl.Len() != 1 {
		t.Fatalf("len=%d want 1 after eviction", rl.Len())
	}
}

func TestNilRateLimiterAllows(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, 5)
	if rl != nil {
		t.Fatalf("expected nil limiter for rps=0")
	}
	if !rl.Allow("x") {
		t.Fatalf("nil limiter must allow")
	}
}
