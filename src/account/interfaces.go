package account

import (
	"context"

	"retinascan/src/models"

	"github.com/gin-gonic/gin"
)

// AccountService 定义账号服务接口
type AccountService interface {
	Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error
}

// UserStore 用户存储
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
}
