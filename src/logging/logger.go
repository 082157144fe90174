// Package logging is the process-wide leveled logger. Call sites use the printf-style
// helpers; records go through log/slog so they can be exported over OTLP when enabled.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var currentLevel int32 = int32(LevelInfo)

var (
	programLevel = new(slog.LevelVar)
	baseLogger   = newTextLogger(os.Stderr)
	shutdownFunc func(context.Context) error
)

func newTextLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: programLevel}))
}

// SetOutput redirects text output. Used by tests and by front ends that own stderr.
func SetOutput(w io.Writer) { baseLogger = newTextLogger(w) }

// SetLogLevel parses and sets global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	atomic.StoreInt32(&currentLevel, int32(l))
	programLevel.Set(l.slogLevel())
}

func getLevel() LogLevel { return LogLevel(atomic.LoadInt32(&currentLevel)) }

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel { return getLevel() }

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logf(l LogLevel, format string, args ...interface{}) {
	if getLevel() > l {
		return
	}
	// A message without args is logged verbatim so literal % survives.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	baseLogger.Log(context.Background(), l.slogLevel(), msg)
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// With returns the underlying structured logger with attrs attached, for call sites that
// want key/value fields instead of a formatted line.
func With(args ...any) *slog.Logger { return baseLogger.With(args...) }

// TimeTrack logs how long a phase took at debug level.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}

// EnableOTEL switches the backend to an OTLP/gRPC log exporter (configured through the
// standard OTEL_EXPORTER_OTLP_* variables). Text output stops once this succeeds.
func EnableOTEL(ctx context.Context, serviceName string) error {
	if serviceName == "" {
		serviceName = "user-metric-chart"
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	exporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return fmt.Errorf("create OTLP exporter: %w", err)
	}
	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	handler := &levelHandler{level: programLevel, handler: otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(provider))}
	baseLogger = slog.New(handler)
	shutdownFunc = provider.Shutdown
	return nil
}

// EnableOTELFromEnv calls EnableOTEL when OTEL_ENABLED=true, falling back to text output.
func EnableOTELFromEnv(ctx context.Context) {
	if !strings.EqualFold(os.Getenv("OTEL_ENABLED"), "true") {
		return
	}
	if err := EnableOTEL(ctx, os.Getenv("OTEL_SERVICE_NAME")); err != nil {
		Warnf("OTEL logging unavailable, keeping text output: %v", err)
	}
}

// Shutdown flushes the OTLP exporter if one is active.
func Shutdown(ctx context.Context) error {
	if shutdownFunc != nil {
		return shutdownFunc(ctx)
	}
	return nil
}

type levelHandler struct {
	level   slog.Leveler
	handler slog.Handler
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handler.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, handler: h.handler.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, handler: h.handler.WithGroup(name)}
}
