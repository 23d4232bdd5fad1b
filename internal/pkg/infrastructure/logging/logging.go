package logging

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type loggerContextKey struct {
	name string
}

var loggerCtxKey = &loggerContextKey{"logger"}

// NewLogger creates the service logger and stores it in the returned context. LOG_LEVEL
// selects the minimum level, defaulting to info.
func NewLogger(ctx context.Context, serviceName, serviceVersion string) (context.Context, zerolog.Logger) {
	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := log.With().
		Str("service", strings.ToLower(serviceName)).
		Str("version", serviceVersion).
		Logger().
		Level(level)

	return NewContextWithLogger(ctx, logger), logger
}

func NewContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

func GetFromContext(ctx context.Context) zerolog.Logger {
	logger, ok := ctx.Value(loggerCtxKey).(zerolog.Logger)
	if !ok {
		return log.Logger
	}

	return logger
}

// WithFields returns a context whose logger carries the given string fields.
func WithFields(ctx context.Context, keyValues ...string) (context.Context, zerolog.Logger) {
	lc := GetFromContext(ctx).With()
	for i := 0; i+1 < len(keyValues); i += 2 {
		if keyValues[i+1] != "" {
			lc = lc.Str(keyValues[i], keyValues[i+1])
		}
	}
	logger := lc.Logger()
	return NewContextWithLogger(ctx, logger), logger
}
