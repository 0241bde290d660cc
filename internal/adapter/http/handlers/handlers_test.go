package handlers

import (
	"bytes"
	"encoding/json"
	"marketplace_escrow/internal/adapter/http/middleware"
	"marketplace_escrow/pkg"
	"marketplace_escrow/pkg/logger"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	client     = middleware.Caller{ID: "client-1", Role: middleware.RoleClient}
	worker     = middleware.Caller{ID: "worker-1", Role: middleware.RoleWorker}
	supervisor = middleware.Caller{ID: "sup-1", Role: middleware.RoleSupervisor}
)

func newTestRouter(caller middleware.Caller, method, path string, h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger.SetLogger(zap.NewNop())
	r := gin.New()
	r.Handle(method, path, middleware.WithCaller(caller), h)
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) pkg.HTTPError {
	t.Helper()
	var e pkg.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("error body not json: %v (%s)", err, w.Body.String())
	}
	return e
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d body=%s", status, w.Code, w.Body.String())
	}
	if e := decodeError(t, w); e.Code != code {
		t.Fatalf("expected code %s, got %s", code, e.Code)
	}
}

func contains(w *httptest.ResponseRecorder, s string) bool {
	return strings.Contains(w.Body.String(), s)
}
