package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"retinascan/src/core/utils"

	"github.com/gin-gonic/gin"
)

// 页面路径与文件的对应关系
var pages = map[string]string{
	"/":       "index.html",
	"/signup": "signup.html",
}

type DefaultWebService struct {
	StaticDir string
	logger    *utils.Logger
}

// NewDefaultWebService 构造函数，staticDir 为空时只提供健康检查
func NewDefaultWebService(staticDir string, logger *utils.Logger) *DefaultWebService {
	return &DefaultWebService{StaticDir: staticDir, logger: logger}
}

// Start 注册健康检查与静态页面路由
func (s *DefaultWebService) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if s.StaticDir == "" {
		return nil
	}
	if info, err := os.Stat(s.StaticDir); err != nil || !info.IsDir() {
		s.logger.Warn(fmt.Sprintf("静态目录不存在，跳过页面路由: %s", s.StaticDir))
		return nil
	}

	for route, file := range pages {
		file := file
		engine.GET(route, func(c *gin.Context) {
			s.serve(c, file)
		})
	}

	// 其他静态资源
	engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
			return
		}
		s.serve(c, c.Request.URL.Path)
	})

	s.logger.Info(fmt.Sprintf("静态页面目录: %s", s.StaticDir))
	return nil
}

// serve 返回静态目录中的文件，不允许跳出目录
func (s *DefaultWebService) serve(c *gin.Context, name string) {
	cleaned := path.Clean("/" + name)
	p := filepath.Join(s.StaticDir, filepath.FromSlash(cleaned))

	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "file not found"})
		return
	}
	c.File(p)
}
