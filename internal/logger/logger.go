// 包 logger：统一初始化与获取日志器；级别与格式由环境变量控制，业务代码不重复配置
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// 进程级默认日志器，避免多处初始化导致输出不一致
var defaultLogger *slog.Logger

// Setup：按 LOG_LEVEL/LOG_FORMAT 初始化默认日志器，输出到标准错误
// 约束：不在此处管理文件句柄或外部聚合通道
func Setup() *slog.Logger {
	defaultLogger = build(os.Stderr)
	return defaultLogger
}

// SetupWithWriter：指定输出目标初始化，测试与手工注入场景
func SetupWithWriter(w io.Writer) *slog.Logger {
	defaultLogger = build(w)
	return defaultLogger
}

func build(w io.Writer) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return slog.New(h)
}

// L：获取默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}
