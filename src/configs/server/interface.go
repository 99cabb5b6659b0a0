package server

import (
	"context"

	"github.com/gin-gonic/gin"
)

// CfgService 定义公开配置服务接口
type CfgService interface {
	Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error
}
