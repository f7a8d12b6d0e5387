package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveAPI("POST", "/api/analyze", "200", 120*time.Millisecond)
	m.ObserveLLMRequest("gemini", "gemini-2.5-flash", "generate_json", "ok", 2*time.Second)
	m.IncWorkflowStep("analyze", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`pc_api_requests_total{method="POST",route="/api/analyze",status="200"} 1`,
		`pc_llm_requests_total{model="gemini-2.5-flash",operation="generate_json",provider="gemini",status="ok"} 1`,
		`pc_workflow_steps_total{status="ok",step="analyze"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("missing %q in exposition:\n%s", want, body)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveLLMRequest("", "", "", "", 0)
	m.IncWorkflowStep("", "")
	m.ApiInflightInc()
	m.ApiInflightDec()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
