package logger

import (
	"context"
	"testing"
)

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Error("empty context should yield Default()")
	}

	l, _ := newBufferLogger(t, "info")
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("FromContext did not return stored logger")
	}
}

func TestRequestID(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
	ctx := WithRequestID(context.Background(), "01HZX")
	if got := RequestIDFromContext(ctx); got != "01HZX" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
}

func TestL_AddsRequestID(t *testing.T) {
	l, buf := newBufferLogger(t, "info")

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req-1")
	L(ctx).Info("handled")

	entries := decodeLines(t, buf)
	if len(entries) != 1 || entries[0]["request_id"] != "req-1" {
		t.Errorf("unexpected entries: %v", entries)
	}
}
