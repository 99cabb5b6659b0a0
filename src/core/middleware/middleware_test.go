package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retinascan/src/core/auth"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("生成新ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		id := w.Header().Get(RequestIDHeader)
		if id == "" || w.Body.String() != id {
			t.Errorf("header = %q, body = %q", id, w.Body.String())
		}
	})

	t.Run("沿用已有ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Header().Get(RequestIDHeader) != "abc-123" {
			t.Errorf("header = %q, want abc-123", w.Header().Get(RequestIDHeader))
		}
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name     string
		origins  []string
		origin   string
		expected string
	}{
		{name: "允许全部", origins: []string{"*"}, origin: "http://a.test", expected: "*"},
		{name: "白名单命中", origins: []string{"http://a.test"}, origin: "http://a.test", expected: "http://a.test"},
		{name: "白名单未命中", origins: []string{"http://a.test"}, origin: "http://b.test", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.origins))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.expected {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	at, _ := auth.NewAuthToken("secret", time.Hour)
	token, _ := at.GenerateToken(7, "a@example.test")

	router := gin.New()
	router.GET("/private", RequireSession(at), func(c *gin.Context) {
		claims, _ := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "有效令牌", header: "Bearer " + token, status: http.StatusOK},
		{name: "缺少令牌", header: "", status: http.StatusUnauthorized},
		{name: "非Bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "无效令牌", header: "Bearer garbage", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}
