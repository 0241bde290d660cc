package middleware

import (
	"marketplace_escrow/pkg/logger"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger.SetLogger(zap.NewNop())
	r := gin.New()
	r.Use(Recovery(), RequestLogger())
	r.GET("/probe", append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CallerFrom(c).ID, "role": CallerFrom(c).Role})
	})...)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func doGet(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentify(t *testing.T) {
	r := newRouter(Identify())

	cases := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"no token", map[string]string{HeaderCallerID: "u-1", HeaderCallerRole: "client"}, http.StatusUnauthorized},
		{"empty bearer", map[string]string{"Authorization": "Bearer ", HeaderCallerID: "u-1", HeaderCallerRole: "client"}, http.StatusUnauthorized},
		{"no caller id", map[string]string{"Authorization": "Bearer t", HeaderCallerRole: "client"}, http.StatusUnauthorized},
		{"bad role", map[string]string{"Authorization": "Bearer t", HeaderCallerID: "u-1", HeaderCallerRole: "admin"}, http.StatusUnauthorized},
		{"ok", map[string]string{"Authorization": "Bearer t", HeaderCallerID: "u-1", HeaderCallerRole: "Worker"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := doGet(r, "/probe", tc.headers); w.Code != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter(Identify(), RequireRole(RoleSupervisor))
	headers := map[string]string{"Authorization": "Bearer t", HeaderCallerID: "u-1", HeaderCallerRole: "client"}
	if w := doGet(r, "/probe", headers); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	headers[HeaderCallerRole] = "supervisor"
	if w := doGet(r, "/probe", headers); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	if w := doGet(newRouter(), "/panic", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
