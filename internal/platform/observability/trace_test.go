package observability

import (
	"bytes"
	"context"
	goerrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	Setup(Config{Enabled: false}, captureLogger(&buf))
	t.Cleanup(func() { Setup(Config{}, nil) })

	StartSpan(context.Background(), "batch", "convert")(nil)
	RecordMetric(context.Background(), "batch.success", 1, nil)
	assert.Zero(t, buf.Len())
}

func TestSpanAndMetric(t *testing.T) {
	var buf bytes.Buffer
	Setup(Config{Enabled: true}, captureLogger(&buf))
	t.Cleanup(func() { Setup(Config{}, nil) })

	end := StartSpan(context.Background(), "batch", "convert a.png")
	end(goerrors.New("decode failed"))
	RecordMetric(context.Background(), "batch.success", 3, map[string]string{"run_id": "r1"})

	out := buf.String()
	assert.Contains(t, out, `"msg":"span start"`)
	assert.Contains(t, out, `"level":"ERROR","msg":"span end"`)
	assert.Contains(t, out, `"error":"decode failed"`)
	assert.Contains(t, out, `"metric":"batch.success","value":3`)
	assert.Contains(t, out, `"run_id":"r1"`)
}

func TestNilLoggerIsSilent(t *testing.T) {
	Setup(Config{Enabled: true}, nil)
	t.Cleanup(func() { Setup(Config{}, nil) })

	assert.NotPanics(t, func() {
		StartSpan(context.Background(), "batch", "convert")(nil)
	})
}
