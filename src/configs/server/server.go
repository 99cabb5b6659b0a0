package server

import (
	"context"
	"net/http"

	"retinascan/src/configs"
	"retinascan/src/core/utils"

	"github.com/gin-gonic/gin"
)

// PublicConfig 浏览器端可以读取的配置
type PublicConfig struct {
	BackendURL        string `json:"backend_url"`
	PredictPath       string `json:"predict_path"`
	RequireForPredict bool   `json:"require_auth_for_predict"`
}

type DefaultCfgService struct {
	logger *utils.Logger
	public PublicConfig
}

// NewDefaultCfgService 构造函数
func NewDefaultCfgService(config *configs.Config, logger *utils.Logger) (*DefaultCfgService, error) {
	service := &DefaultCfgService{
		logger: logger,
		public: PublicConfig{
			BackendURL:        config.Backend.URL,
			PredictPath:       "/api/predict",
			RequireForPredict: config.Auth.RequireForPredict,
		},
	}

	return service, nil
}

// Start 实现 CfgService 接口，注册所有 Cfg 相关路由
func (s *DefaultCfgService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	apiGroup.GET("/cfg", s.handleGet)
	apiGroup.OPTIONS("/cfg", s.handleOptions)

	s.logger.Info("Cfg HTTP服务路由注册完成")
	return nil
}

func (s *DefaultCfgService) handleGet(c *gin.Context) {
	c.JSON(http.StatusOK, s.public)
}

func (s *DefaultCfgService) handleOptions(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
