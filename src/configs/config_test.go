package configs

import (
	"testing"
	"time"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestResolveBackendURL(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{
			name:     "未设置时使用默认地址",
			env:      map[string]string{},
			expected: "http://localhost:5000",
		},
		{
			name:     "使用公开环境变量",
			env:      map[string]string{BackendURLEnv: "http://example.test:9000"},
			expected: "http://example.test:9000",
		},
		{
			name:     "去掉末尾斜杠",
			env:      map[string]string{BackendURLEnv: "http://example.test:9000/"},
			expected: "http://example.test:9000",
		},
		{
			name:     "空白值视为未设置",
			env:      map[string]string{BackendURLEnv: "   "},
			expected: "http://localhost:5000",
		},
		{
			name:     "服务端专用变量不参与解析",
			env:      map[string]string{"BACKEND_URL": "http://internal:8000"},
			expected: "http://localhost:5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolveBackendURL(envOf(tt.env))
			if result != tt.expected {
				t.Errorf("ResolveBackendURL() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
server:
  port: 8080
log:
  log_level: DEBUG
backend:
  timeout: 30s
auth:
  secret: from-file
  token_ttl: 2h
  require_for_predict: true
`)
	config, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if config.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", config.Server.Port)
	}
	if config.Server.IP != "0.0.0.0" {
		t.Errorf("Server.IP = %q, want default 0.0.0.0", config.Server.IP)
	}
	if config.Log.LogLevel != "DEBUG" {
		t.Errorf("Log.LogLevel = %q, want DEBUG", config.Log.LogLevel)
	}
	if time.Duration(config.Backend.Timeout) != 30*time.Second {
		t.Errorf("Backend.Timeout = %v, want 30s", time.Duration(config.Backend.Timeout))
	}
	if time.Duration(config.Auth.TokenTTL) != 2*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 2h", time.Duration(config.Auth.TokenTTL))
	}
	if !config.Auth.RequireForPredict {
		t.Error("Auth.RequireForPredict = false, want true")
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	if _, err := Parse([]byte("backend:\n  timeout: soon\n")); err == nil {
		t.Error("Parse() expected error for invalid duration")
	}
}

func TestApplyEnv(t *testing.T) {
	config := Default()
	config.Auth.Secret = "from-file"

	config.ApplyEnv(envOf(map[string]string{
		BackendURLEnv:  "http://example.test:9000",
		AuthSecretEnv:  "from-env",
		DatabaseURLEnv: "postgres://u:p@db:5432/retina",
	}))

	if config.Backend.URL != "http://example.test:9000" {
		t.Errorf("Backend.URL = %q", config.Backend.URL)
	}
	if config.Auth.Secret != "from-env" {
		t.Errorf("Auth.Secret = %q, want from-env", config.Auth.Secret)
	}
	if config.DatabaseURL != "postgres://u:p@db:5432/retina" {
		t.Errorf("DatabaseURL = %q", config.DatabaseURL)
	}

	t.Run("缺省值", func(t *testing.T) {
		config := Default()
		config.ApplyEnv(envOf(nil))
		if config.Backend.URL != DefaultBackendURL {
			t.Errorf("Backend.URL = %q, want %q", config.Backend.URL, DefaultBackendURL)
		}
		if config.DatabaseURL != DefaultDatabaseURL {
			t.Errorf("DatabaseURL = %q, want %q", config.DatabaseURL, DefaultDatabaseURL)
		}
	})
}
