// Package debug 提供可选的文件调试日志。
// 默认关闭；设置环境变量 QUILL_DEBUG=<path> 或调用 Init 后开启。
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnvVar 指定调试日志文件路径的环境变量。
const EnvVar = "QUILL_DEBUG"

var (
	logFile  *os.File
	mu       sync.Mutex
	envTried bool
)

// Init 打开 path 处的调试日志，path 为空时写入 quill-debug.log。
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked(path)
}

func initLocked(path string) error {
	if path == "" {
		path = "quill-debug.log"
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("打开调试日志失败: %w", err)
	}
	logFile = f
	return nil
}

// Enabled 表示日志是否开启。
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabledLocked()
}

func enabledLocked() bool {
	if logFile == nil && !envTried {
		envTried = true
		if path := os.Getenv(EnvVar); path != "" {
			_ = initLocked(path)
		}
	}
	return logFile != nil
}

// Close 关闭日志文件。
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// Logf 在开启时写入一行带时间戳的日志。
func Logf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabledLocked() {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(logFile, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}
