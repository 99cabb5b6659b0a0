package configs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// BackendURLEnv 预测后端地址环境变量（同时暴露给浏览器端）
	BackendURLEnv = "NEXT_PUBLIC_BACKEND_URL"
	// DefaultBackendURL 未设置环境变量时使用的后端地址
	DefaultBackendURL = "http://localhost:5000"
	// AuthSecretEnv 会话签名密钥环境变量
	AuthSecretEnv = "AUTH_SECRET"
	// DatabaseURLEnv 数据库连接串环境变量
	DatabaseURLEnv = "DATABASE_URL"
	// DefaultDatabaseURL 默认使用本地 sqlite
	DefaultDatabaseURL = "sqlite://retinascan.db"
)

// Duration 支持 "24h"、"30s" 这类写法的 yaml 时间字段
type Duration time.Duration

// UnmarshalYAML 解析时间字符串
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config 主配置结构
type Config struct {
	Server struct {
		IP   string `yaml:"ip"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		LogFormat string `yaml:"log_format"`
		LogLevel  string `yaml:"log_level"`
		LogDir    string `yaml:"log_dir"`
		LogFile   string `yaml:"log_file"`
	} `yaml:"log"`

	Web struct {
		StaticDir string `yaml:"static_dir"`
	} `yaml:"web"`

	Backend BackendConfig `yaml:"backend"`

	Auth AuthConfig `yaml:"auth"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	// DatabaseURL 只从环境变量读取
	DatabaseURL string `yaml:"-"`
}

// BackendConfig 预测后端配置
type BackendConfig struct {
	// URL 不从配置文件读取，见 ResolveBackendURL
	URL     string   `yaml:"-"`
	Timeout Duration `yaml:"timeout"` // 0 表示不设超时
}

// AuthConfig 会话配置
type AuthConfig struct {
	Secret            string   `yaml:"secret"`
	TokenTTL          Duration `yaml:"token_ttl"`
	RequireForPredict bool     `yaml:"require_for_predict"`
}

// Default 返回内置默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.Server.IP = "0.0.0.0"
	cfg.Server.Port = 3000
	cfg.Log.LogFormat = "json"
	cfg.Log.LogLevel = "INFO"
	cfg.Log.LogDir = "logs"
	cfg.Log.LogFile = "server.log"
	cfg.Auth.TokenTTL = Duration(24 * time.Hour)
	cfg.CORS.AllowedOrigins = []string{"*"}
	return cfg
}

// ResolveBackendURL 按优先级确定预测后端地址：
// NEXT_PUBLIC_BACKEND_URL，否则 http://localhost:5000
func ResolveBackendURL(getenv func(string) string) string {
	if v := strings.TrimSpace(getenv(BackendURLEnv)); v != "" {
		return strings.TrimRight(v, "/")
	}
	return DefaultBackendURL
}

// ApplyEnv 用环境变量覆盖配置
func (c *Config) ApplyEnv(getenv func(string) string) {
	c.Backend.URL = ResolveBackendURL(getenv)

	if v := strings.TrimSpace(getenv(AuthSecretEnv)); v != "" {
		c.Auth.Secret = v
	}

	c.DatabaseURL = DefaultDatabaseURL
	if v := strings.TrimSpace(getenv(DatabaseURLEnv)); v != "" {
		c.DatabaseURL = v
	}
}

// Parse 解析 yaml 配置内容，未出现的字段保留默认值
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig 从文件加载配置，默认使用.config.yaml
func LoadConfig() (*Config, string, error) {
	path := ".config.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// 没有配置文件时使用默认配置
		config := Default()
		return config, "", nil
	}
	if err != nil {
		return nil, path, err
	}

	config, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return config, path, nil
}
