package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger writes JSON entries to a rolling file under logDir and mirrors
// them to stdout so daemons stay readable in a terminal.
func NewLogger(logDir string) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "hostcheck.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.InfoLevel)

	conCfg := zap.NewDevelopmentEncoderConfig()
	conCore := zapcore.NewCore(zapcore.NewConsoleEncoder(conCfg), zapcore.Lock(os.Stdout), zap.InfoLevel)

	return zap.New(zapcore.NewTee(fileCore, conCore)), nil
}
