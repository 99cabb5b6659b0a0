package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"retinascan/src/configs"
	"retinascan/src/core/utils"

	"github.com/gin-gonic/gin"
)

func TestCfgService_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := configs.Default()
	config.ApplyEnv(func(key string) string {
		if key == configs.BackendURLEnv {
			return "http://example.test:9000"
		}
		return ""
	})

	service, _ := NewDefaultCfgService(config, utils.NewWriterLogger(io.Discard, "info"))
	router := gin.New()
	service.Start(context.Background(), router, router.Group("/api"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cfg", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var got PublicConfig
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.BackendURL != "http://example.test:9000" || got.PredictPath != "/api/predict" {
		t.Errorf("got %+v", got)
	}
}
