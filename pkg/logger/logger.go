package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init inicializa el logger global
func Init() {
	var err error
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json" // Logs estructurados en JSON
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.CallerKey = "caller"

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(lvl)); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(l)
		}
	}

	log, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}

// Sugar retorna un logger más “friendly” para usar con printf-like
func Sugar() *zap.SugaredLogger {
	return log.Sugar()
}

// Logger retorna el logger estructurado
func Logger() *zap.Logger {
	return log
}
