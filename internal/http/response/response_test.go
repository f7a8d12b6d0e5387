package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptcraft-backend/internal/platform/apierr"
)

func respond(err error, fallback string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondErr(c, err, fallback)
	return rec
}

func TestRespondErrHidesInternalDetail(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", apierr.Validation("invalid_request", errors.New("Prompt is required")), http.StatusBadRequest, "Prompt is required"},
		{"not found", apierr.NotFound("enhancement_not_found", errors.New("record not found")), http.StatusNotFound, MsgNotFound},
		{"upstream", apierr.Upstream("analysis_failed", errors.New("gemini: status 503")), http.StatusInternalServerError, "Failed to analyze prompt"},
		{"storage", apierr.Storage("save_failed", errors.New("pq: connection refused")), http.StatusInternalServerError, "Failed to analyze prompt"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "Failed to analyze prompt"},
		{"rate", apierr.RateLimited("rate_limited", nil), http.StatusTooManyRequests, MsgRateLimited},
	}
	for _, tc := range cases {
		rec := respond(tc.err, "Failed to analyze prompt")
		if rec.Code != tc.status {
			t.Fatalf("%s: status=%d want %d", tc.name, rec.Code, tc.status)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if body["error"] != tc.msg {
			t.Fatalf("%s: error=%q want %q", tc.name, body["error"], tc.msg)
		}
		if len(body) != 1 {
			t.Fatalf("%s: unexpected fields %v", tc.name, body)
		}
	}
}
