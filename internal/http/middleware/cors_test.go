package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func corsEngine(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(origins))
	r.POST("/api/analyze", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSAllowsLocalDevOrigins(t *testing.T) {
	t.Parallel()

	for _, origin := range []string{"http://localhost:5173", "http://127.0.0.1:3000"} {
		origin := origin
		t.Run(origin, func(t *testing.T) {
			t.Parallel()
			rec := preflight(corsEngine(nil), origin)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, origin)
			}
		})
	}
}

func TestCORSConfiguredOrigins(t *testing.T) {
	t.Parallel()

	r := corsEngine([]string{" https://promptcraft.example/ "})
	rec := preflight(r, "https://promptcraft.example")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://promptcraft.example" {
		t.Fatalf("allow-origin=%q", got)
	}
	rec = preflight(r, "http://localhost:5173")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin for unlisted origin: %q", got)
	}

	wild := preflight(corsEngine([]string{"*"}), "https://anywhere.example")
	if got := wild.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("wildcard allow-origin=%q", got)
	}
}
