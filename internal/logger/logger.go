package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New() *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	env := strings.ToLower(os.Getenv("ALPHA_ENV"))
	switch env {
	case "dev":
		logger, err = zap.NewDevelopment(opts...)
	case "test":
		logger = zap.NewNop()
	default:
		opts = append(opts, zap.Fields(zap.Field{
			Key:    "ALPHA_ENV",
			Type:   zapcore.StringType,
			String: os.Getenv("ALPHA_ENV"),
		}))
		logger, err = zap.NewProduction(opts...)
	}

	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}

const ContextKey = "LOGGER"

// FromContext returns the request scoped logger, or the global one when
// ctx does not carry a logger
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return zap.S()
	}
	lg, ok := ctx.Value(ContextKey).(*zap.SugaredLogger)
	if !ok || lg == nil {
		return zap.S()
	}
	return lg
}

func WithLogger(ctx context.Context, lg *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ContextKey, lg)
}

func init() {
	logger := New()
	zap.ReplaceGlobals(logger.Desugar())
}
