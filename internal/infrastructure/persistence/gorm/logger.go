package gorm

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// zapWriter forwards gorm log lines to zap
type zapWriter struct {
	logger *zap.Logger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.logger.Info(fmt.Sprintf(format, args...))
}

// NewLogger creates a gorm logger writing through zap. level is one of
// silent, error, warn or info.
func NewLogger(log *zap.Logger, level string) logger.Interface {
	return logger.New(
		zapWriter{logger: log.Named("gorm")},
		logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  ParseLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ParseLogLevel maps a config level name to a gorm log level
func ParseLogLevel(level string) logger.LogLevel {
	switch level {
	case "info", "debug":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
