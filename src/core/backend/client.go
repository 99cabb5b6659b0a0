package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"retinascan/src/core/utils"

	"github.com/go-resty/resty/v2"
)

// PredictPath 后端预测接口路径
const PredictPath = "/predict"

var (
	// ErrBackendStatus 后端返回非200状态码
	ErrBackendStatus = errors.New("prediction backend returned non-success status")
	// ErrInvalidJSON 后端响应不是合法JSON
	ErrInvalidJSON = errors.New("prediction backend returned invalid JSON")
)

// Config 后端客户端配置
type Config struct {
	BaseURL string
	Timeout time.Duration // 0 表示不设超时
}

// Client 预测后端客户端，只做一次转发，不重试
type Client struct {
	baseURL string
	http    *resty.Client
	logger  *utils.TaggedLogger
}

// NewClient 创建后端客户端
func NewClient(config Config, logger *utils.Logger) *Client {
	tagged := logger.WithTag("backend")
	rc := resty.New().
		SetBaseURL(config.BaseURL).
		SetRetryCount(0).
		SetLogger(restyLogger{tagged})
	if config.Timeout > 0 {
		rc.SetTimeout(config.Timeout)
	}
	return &Client{
		baseURL: config.BaseURL,
		http:    rc,
		logger:  tagged,
	}
}

// BaseURL 返回后端地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PredictURL 返回完整的预测接口地址
func (c *Client) PredictURL() string {
	return c.baseURL + PredictPath
}

// Predict 把 multipart 请求体原样转发到 {BaseURL}/predict，返回后端 JSON 原始字节
func (c *Client) Predict(ctx context.Context, contentType string, body []byte) (json.RawMessage, error) {
	req := c.http.R().
		SetContext(ctx).
		SetBody(body)
	if contentType != "" {
		req.SetHeader("Content-Type", contentType)
	}

	resp, err := req.Post(PredictPath)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.PredictURL(), err)
	}

	// 只有200视为成功
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBackendStatus, resp.StatusCode())
	}

	data := resp.Body()
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w (%d bytes)", ErrInvalidJSON, len(data))
	}

	c.logger.Debug(fmt.Sprintf("后端预测完成，耗时 %v", resp.Time()))
	return json.RawMessage(data), nil
}

// Ping 调用后端根路径做健康检查
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return fmt.Errorf("get %s: %w", c.baseURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrBackendStatus, resp.StatusCode())
	}
	return nil
}

// restyLogger 把 resty 内部日志转到服务日志
type restyLogger struct {
	logger *utils.TaggedLogger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
