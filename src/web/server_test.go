package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"retinascan/src/core/utils"

	"github.com/gin-gonic/gin"
)

func newRouter(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	service := NewDefaultWebService(staticDir, utils.NewWriterLogger(io.Discard, "info"))
	if err := service.Start(context.Background(), router, router.Group("/api")); err != nil {
		t.Fatal(err)
	}
	return router
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealthz(t *testing.T) {
	w := get(newRouter(t, ""), "/healthz")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestStaticPages(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "public")
	os.MkdirAll(filepath.Join(dir, "assets"), 0755)
	os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>RetinaScan AI</h1>"), 0644)
	os.WriteFile(filepath.Join(dir, "signup.html"), []byte("<form>Create Account</form>"), 0644)
	os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0644)
	os.WriteFile(filepath.Join(root, "secret.txt"), []byte("nope"), 0644)

	router := newRouter(t, dir)

	tests := []struct {
		name     string
		target   string
		status   int
		contains string
	}{
		{name: "首页", target: "/", status: http.StatusOK, contains: "RetinaScan AI"},
		{name: "注册页", target: "/signup", status: http.StatusOK, contains: "Create Account"},
		{name: "静态资源", target: "/assets/app.js", status: http.StatusOK, contains: "console.log"},
		{name: "不存在", target: "/missing.css", status: http.StatusNotFound},
		{name: "目录穿越", target: "/../secret.txt", status: http.StatusNotFound},
		{name: "未知API", target: "/api/unknown", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, tt.target)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.contains != "" && !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}
