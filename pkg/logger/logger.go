package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	sugar  = zap.NewNop().Sugar()
	inited bool
)

// Init 初始化全局日志
// mode: "dev" 输出彩色控制台格式，其他输出 JSON
func Init(mode string, level string) error {
	var cfg zap.Config
	if mode == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	sugar = l.Sugar()
	inited = true
	mu.Unlock()
	return nil
}

// S 获取全局 SugaredLogger，未初始化时为 Nop
func S() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Replace 替换全局日志 (测试用)
func Replace(l *zap.Logger) {
	mu.Lock()
	sugar = l.Sugar()
	inited = true
	mu.Unlock()
}

// Sync 刷新缓冲
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if inited {
		_ = sugar.Sync()
	}
}
