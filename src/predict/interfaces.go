package predict

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// PredictService 定义预测代理服务接口
type PredictService interface {
	// 将预测路由注册到 engine 与 apiGroup
	Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error
}

// Predictor 预测后端
type Predictor interface {
	// Predict 原样转发请求体，返回后端 JSON
	Predict(ctx context.Context, contentType string, body []byte) (json.RawMessage, error)
	// Ping 检查后端是否可用
	Ping(ctx context.Context) error
	BaseURL() string
}
