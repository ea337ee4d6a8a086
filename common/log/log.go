package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// 引擎作为库使用时可能不会调用 InitLog，这里给一个默认 logger
var logger = newLogger(os.Stdout, "majsoul", log.InfoLevel)

func newLogger(w io.Writer, prefix string, level log.Level) *log.Logger {
	l := log.New(w)
	l.SetPrefix(prefix)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)
	l.SetReportCaller(true)
	// 跳过本包的包装函数，调用者信息指向真实调用处
	l.SetCallerOffset(1)
	l.SetLevel(level)
	return l
}

// InitLog 初始化全局 logger
func InitLog(appName string, logLevel string) {
	// 使用 os.Stdout 而不是 os.Stderr，避免控制台把所有日志标红
	logger = newLogger(os.Stdout, appName, ParseLevel(logLevel))
}

// SetOutput 重定向日志输出，测试和命令行工具使用
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel 动态调整日志级别
func SetLevel(logLevel string) {
	logger.SetLevel(ParseLevel(logLevel))
}

// ParseLevel 解析日志级别，默认为 info
func ParseLevel(logLevel string) log.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func Fatal(format string, args ...any) {
	if len(args) == 0 {
		logger.Fatalf(format)
	} else {
		logger.Fatalf(format, args...)
	}
}

func Info(format string, args ...any) {
	if len(args) == 0 {
		logger.Infof(format)
	} else {
		logger.Infof(format, args...)
	}
}

func Warn(format string, args ...any) {
	if len(args) == 0 {
		logger.Warnf(format)
	} else {
		logger.Warnf(format, args...)
	}
}

func Error(format string, args ...any) {
	if len(args) == 0 {
		logger.Errorf(format)
	} else {
		logger.Errorf(format, args...)
	}
}

func Debug(format string, args ...any) {
	if len(args) == 0 {
		logger.Debugf(format)
	} else {
		logger.Debugf(format, args...)
	}
}
