package predict

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"retinascan/src/configs"
	"retinascan/src/core/auth"
	"retinascan/src/core/middleware"
	"retinascan/src/core/utils"

	"github.com/gin-gonic/gin"
)

// 状态检查调用后端的超时，不影响预测请求
const pingTimeout = 5 * time.Second

type DefaultPredictService struct {
	logger      *utils.TaggedLogger
	backend     Predictor
	requireAuth bool
	authToken   *auth.AuthToken
}

// NewDefaultPredictService 构造函数，authToken 仅在开启预测鉴权时需要
func NewDefaultPredictService(config *configs.Config, logger *utils.Logger, backend Predictor, authToken *auth.AuthToken) (*DefaultPredictService, error) {
	if backend == nil {
		return nil, errors.New("predict backend is nil")
	}
	if config.Auth.RequireForPredict && authToken == nil {
		return nil, errors.New("预测接口开启了鉴权但未配置会话密钥")
	}

	return &DefaultPredictService{
		logger:      logger.WithTag("predict"),
		backend:     backend,
		requireAuth: config.Auth.RequireForPredict,
		authToken:   authToken,
	}, nil
}

// Start 实现 PredictService 接口，注册所有预测相关路由
func (s *DefaultPredictService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	postHandlers := []gin.HandlerFunc{}
	if s.requireAuth {
		postHandlers = append(postHandlers, middleware.RequireSession(s.authToken))
	}
	postHandlers = append(postHandlers, s.handlePost)

	apiGroup.GET("/predict", s.handleGet)
	apiGroup.POST("/predict", postHandlers...)
	apiGroup.OPTIONS("/predict", s.handleOptions)

	s.logger.Info(fmt.Sprintf("预测代理路由注册完成, 后端地址: %s", s.backend.BaseURL()))
	return nil
}

// handleOptions 处理CORS预检
func (s *DefaultPredictService) handleOptions(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// handleGet 检查后端是否可用
func (s *DefaultPredictService) handleGet(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := s.backend.Ping(ctx); err != nil {
		s.logger.Warn(fmt.Sprintf("预测后端不可用: %v", err))
		c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "ok", Backend: s.backend.BaseURL()})
}

// handlePost 读取整个 multipart 请求体，原样转发给后端并返回其 JSON
func (s *DefaultPredictService) handlePost(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.fail(c, requestID, fmt.Errorf("读取请求体失败: %w", err))
		return
	}

	contentType := c.GetHeader("Content-Type")
	fields := map[string]interface{}{
		"request_id":   requestID,
		"content_type": contentType,
		"body_size":    len(body),
	}
	if session, ok := middleware.GetSession(c); ok {
		fields["user_id"] = session.UserID
	}
	s.logger.Info("收到预测请求", fields)

	// 客户端断开不取消后端调用
	result, err := s.backend.Predict(context.WithoutCancel(c.Request.Context()), contentType, body)
	if err != nil {
		s.fail(c, requestID, err)
		return
	}

	s.logger.Info(fmt.Sprintf("预测完成 request_id=%s", requestID))
	c.Data(http.StatusOK, "application/json", result)
}

// fail 记录原始错误，只向调用方返回统一错误
func (s *DefaultPredictService) fail(c *gin.Context, requestID string, err error) {
	s.logger.Error("预测失败", map[string]interface{}{
		"request_id": requestID,
		"error":      err.Error(),
	})
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: FailureMessage})
}
