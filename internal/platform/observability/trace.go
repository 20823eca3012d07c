package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Config toggles span and metric records.
type Config struct {
	Enabled bool
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
	state  Config
)

func current() (*slog.Logger, Config) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, state
}

// Setup installs the logger that receives span and metric records. A nil
// logger or a disabled config turns every call into a no-op.
func Setup(cfg Config, l *slog.Logger) {
	mu.Lock()
	logger = l
	state = cfg
	mu.Unlock()
}

// StartSpan times an operation. The returned func ends the span; a non-nil
// error raises the record to error level.
func StartSpan(ctx context.Context, component, operation string) func(error) {
	l, cfg := current()
	if l == nil || !cfg.Enabled {
		return func(error) {}
	}

	start := time.Now()
	l.LogAttrs(ctx, slog.LevelDebug, "span start",
		slog.String("component", component),
		slog.String("operation", operation),
	)

	return func(err error) {
		level := slog.LevelDebug
		attrs := []slog.Attr{
			slog.String("component", component),
			slog.String("operation", operation),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			level = slog.LevelError
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		l.LogAttrs(ctx, level, "span end", attrs...)
	}
}

// RecordMetric emits one datapoint.
func RecordMetric(ctx context.Context, name string, value float64, labels map[string]string) {
	l, cfg := current()
	if l == nil || !cfg.Enabled {
		return
	}

	attrs := []slog.Attr{
		slog.String("metric", name),
		slog.Float64("value", value),
	}
	for k, v := range labels {
		attrs = append(attrs, slog.String(k, v))
	}
	l.LogAttrs(ctx, slog.LevelDebug, "metric", attrs...)
}
