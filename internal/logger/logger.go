package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

func Init() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	log = l.Sugar()
	log.Infow("logger initialized")
}

func get() *zap.SugaredLogger {
	if log == nil {
		// Tests and early startup paths may log before Init.
		log = zap.NewNop().Sugar()
	}
	return log
}

func args(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

func Info(msg string, fields map[string]any) {
	get().Infow(msg, args(fields)...)
}

func Warn(msg string, fields map[string]any) {
	get().Warnw(msg, args(fields)...)
}

func Error(msg string, fields map[string]any) {
	get().Errorw(msg, args(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	get().Errorw(msg, args(fields)...)
	_ = get().Sync()
	os.Exit(1)
}
