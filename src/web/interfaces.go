package web

import (
	"context"

	"github.com/gin-gonic/gin"
)

// WebService 定义页面与健康检查服务接口
type WebService interface {
	Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error
}
