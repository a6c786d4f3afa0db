package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/dmitrijs2005/accountsvc/internal/tracex"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		if !strings.Contains(out, "level="+tc.level) {
			t.Fatalf("expected line with level=%s in output:\n%s", tc.level, out)
		}
		if !strings.Contains(out, "msg="+tc.msg) {
			t.Fatalf("expected line with msg=%q in output:\n%s", tc.msg, out)
		}
		if !strings.Contains(out, tc.key+"="+tc.val) {
			t.Fatalf("expected attribute %s=%s in output:\n%s", tc.key, tc.val, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	child := log.With("module", "test")
	child.Info(ctx, "hello")

	if !strings.Contains(buf.String(), "module=test") {
		t.Fatalf("expected module=test in output:\n%s", buf.String())
	}
}

func TestSlogLogger_TraceIDFromContext(t *testing.T) {
	log, buf := newTestLogger(t)

	ctx := tracex.WithTraceID(context.Background(), "trace-123")
	log.Info(ctx, "hello")

	if !strings.Contains(buf.String(), "trace_id=trace-123") {
		t.Fatalf("expected trace_id=trace-123 in output:\n%s", buf.String())
	}
}

func TestSlogLogger_NoTraceID(t *testing.T) {
	log, buf := newTestLogger(t)

	log.Info(context.Background(), "hello")

	if strings.Contains(buf.String(), "trace_id=") {
		t.Fatalf("no trace id in context must mean no trace_id attribute:\n%s", buf.String())
	}
}
