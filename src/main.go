package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"retinascan/src/account"
	"retinascan/src/configs"
	"retinascan/src/configs/database"
	cfgserver "retinascan/src/configs/server"
	"retinascan/src/core/auth"
	"retinascan/src/core/backend"
	"retinascan/src/core/middleware"
	"retinascan/src/core/utils"
	"retinascan/src/predict"
	"retinascan/src/web"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// routeService 各个 HTTP 服务的统一注册方式
type routeService interface {
	Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error
}

func LoadConfigAndLogger() (*configs.Config, *utils.Logger, error) {
	// 加载配置,默认使用.config.yaml
	config, configPath, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	config.ApplyEnv(os.Getenv)

	// 初始化日志系统
	logger, err := utils.NewLogger(config)
	if err != nil {
		return nil, nil, err
	}
	if configPath == "" {
		logger.Warn("未找到配置文件，使用默认配置")
	} else {
		logger.Info(fmt.Sprintf("日志系统初始化成功, 配置文件路径: %s", configPath))
	}

	return config, logger, nil
}

func buildServices(config *configs.Config, logger *utils.Logger, db *gorm.DB) ([]routeService, error) {
	secret := config.Auth.Secret
	if secret == "" {
		// 未配置时使用进程内随机密钥，重启后已签发的会话失效
		logger.Warn(fmt.Sprintf("未配置会话密钥(auth.secret 或 %s)，使用临时随机密钥", configs.AuthSecretEnv))
		secret = uuid.NewString() + uuid.NewString()
	}
	authToken, err := auth.NewAuthToken(secret, time.Duration(config.Auth.TokenTTL))
	if err != nil {
		return nil, err
	}

	client := backend.NewClient(backend.Config{
		BaseURL: config.Backend.URL,
		Timeout: time.Duration(config.Backend.Timeout),
	}, logger)

	predictService, err := predict.NewDefaultPredictService(config, logger, client, authToken)
	if err != nil {
		return nil, err
	}

	cfgService, err := cfgserver.NewDefaultCfgService(config, logger)
	if err != nil {
		return nil, err
	}

	return []routeService{
		predictService,
		account.NewDefaultAccountService(account.NewGormUserStore(db), authToken, logger),
		cfgService,
		web.NewDefaultWebService(config.Web.StaticDir, logger),
	}, nil
}

func StartHttpServer(config *configs.Config, logger *utils.Logger, db *gorm.DB, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	// 初始化Gin引擎
	if logger.Enabled(utils.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), middleware.CORS(config.CORS.AllowedOrigins))
	router.SetTrustedProxies(nil)

	services, err := buildServices(config, logger, db)
	if err != nil {
		return nil, err
	}

	// API路由全部挂载到/api前缀下
	apiGroup := router.Group("/api")
	for _, service := range services {
		if err := service.Start(groupCtx, router, apiGroup); err != nil {
			return nil, err
		}
	}

	// HTTP Server（支持优雅关机）
	httpServer := &http.Server{
		Addr:    config.Server.IP + ":" + strconv.Itoa(config.Server.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.Info(fmt.Sprintf("Gin 服务已启动，访问地址: http://%s", httpServer.Addr))
		logger.Info(fmt.Sprintf("预测后端: %s%s", config.Backend.URL, backend.PredictPath))

		// 在单独的 goroutine 中监听关闭信号
		go func() {
			<-groupCtx.Done()
			logger.Info("收到关闭信号，开始关闭HTTP服务...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error(fmt.Sprintf("HTTP服务关闭失败: %v", err))
			} else {
				logger.Info("HTTP服务已优雅关闭")
			}
		}()

		// ListenAndServe 返回 ErrServerClosed 时表示正常关闭
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(fmt.Sprintf("HTTP 服务启动失败: %v", err))
			return err
		}
		return nil
	})

	return httpServer, nil
}

func GracefulShutdown(cancel context.CancelFunc, logger *utils.Logger, g *errgroup.Group) {
	// 监听系统信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	// 等待信号，或服务自行退出
	select {
	case sig := <-sigChan:
		logger.Info(fmt.Sprintf("接收到系统信号: %v，开始优雅关闭服务", sig))
	case err := <-done:
		if err != nil {
			logger.Error(fmt.Sprintf("服务异常退出: %v", err))
			os.Exit(1)
		}
		return
	}

	// 取消上下文，通知所有服务开始关闭
	cancel()

	select {
	case err := <-done:
		if err != nil {
			logger.Error(fmt.Sprintf("服务关闭过程中出现错误: %v", err))
			os.Exit(1)
		}
		logger.Info("所有服务已优雅关闭")
	case <-time.After(15 * time.Second):
		logger.Error("服务关闭超时，强制退出")
		os.Exit(1)
	}
}

func main() {
	// 先加载 .env，环境变量参与配置解析
	envErr := godotenv.Load()

	config, logger, err := LoadConfigAndLogger()
	if err != nil {
		fmt.Println("加载配置或初始化日志系统失败:", err)
		os.Exit(1)
	}
	defer logger.Close()

	if envErr != nil {
		logger.Warn("未找到 .env 文件，使用系统环境变量")
	}

	// 初始化数据库连接
	db, _, err := database.InitDB(config.DatabaseURL, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("数据库连接失败: %v", err))
		os.Exit(1)
	}

	// 创建可取消的上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, groupCtx := errgroup.WithContext(ctx)

	if _, err := StartHttpServer(config, logger, db, g, groupCtx); err != nil {
		logger.Error(fmt.Sprintf("启动服务失败: %v", err))
		cancel()
		os.Exit(1)
	}

	// 启动优雅关机处理
	GracefulShutdown(cancel, logger, g)

	logger.Info("程序已成功退出")
}
