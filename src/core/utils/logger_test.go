package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_LevelFilter(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected int
	}{
		{name: "debug输出全部", level: "DEBUG", expected: 4},
		{name: "info过滤debug", level: "info", expected: 3},
		{name: "error只输出错误", level: "error", expected: 1},
		{name: "未知级别按info处理", level: "verbose", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWriterLogger(&buf, tt.level)
			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")
			logger.Error("e")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if buf.Len() == 0 {
				lines = nil
			}
			if len(lines) != tt.expected {
				t.Errorf("got %d lines, want %d: %q", len(lines), tt.expected, buf.String())
			}
		})
	}
}

func TestTaggedLogger_Entry(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "info").WithTag("predict")
	logger.Warn("后端请求失败", map[string]interface{}{"status": 502})

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("日志不是合法JSON: %v", err)
	}
	if entry.Tag != "predict" {
		t.Errorf("Tag = %q, want predict", entry.Tag)
	}
	if entry.Level != WarnLevel {
		t.Errorf("Level = %q, want warn", entry.Level)
	}
	fields, ok := entry.Fields.(map[string]interface{})
	if !ok || fields["status"] != float64(502) {
		t.Errorf("Fields = %#v", entry.Fields)
	}
}
