package util_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"trainee_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		want   int
		reason string
	}{
		{"validation", util.Validationf("answers required"), http.StatusBadRequest, ""},
		{"not found", util.NotFoundf("exam %q", "exam-9"), http.StatusNotFound, ""},
		{"bad password", util.ErrInvalidPassword, http.StatusUnauthorized, ""},
		{"permission denied", util.PermissionDeniedf("trainee %q", "jordan-lee"), http.StatusForbidden, ""},
		{"limit reached", &util.AttemptLimitError{Reason: util.ReasonLimitReached, AttemptsUsed: 3, MaxAttempts: 3}, http.StatusConflict, util.ReasonLimitReached},
		{"upstream", util.Upstream("find records", errors.New("dial tcp: i/o timeout")), http.StatusServiceUnavailable, ""},
		{"wrapped upstream", fmt.Errorf("load progress: %w", util.Upstream("fetch", errors.New("503"))), http.StatusServiceUnavailable, ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			util.HandleError(c, tt.err)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			var resp util.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", resp.Reason, tt.reason)
			}
		})
	}
}

func TestHandleError_UpstreamHidesTransportDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	util.HandleError(c, util.Upstream("push progress", errors.New("dial tcp 10.0.0.7:443: connection refused")))

	var resp util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message == "" || strings.Contains(resp.Message, "10.0.0.7") {
		t.Errorf("message leaks transport error: %q", resp.Message)
	}
}

