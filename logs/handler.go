package logs

import (
	"context"
	"log/slog"
)

// spanHandler stamps every record with the span threaded through its
// context before handing it to the fan-out.
type spanHandler struct {
	inner slog.Handler
}

func (h *spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *spanHandler) Handle(ctx context.Context, record slog.Record) error {
	if span, ok := ctx.Value(SpanKey).(Span); ok {
		record.AddAttrs(slog.String("span", string(span)))
	}
	return h.inner.Handle(ctx, record)
}

func (h *spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanHandler{
		inner: h.inner.WithAttrs(attrs),
	}
}

func (h *spanHandler) WithGroup(name string) slog.Handler {
	return &spanHandler{
		inner: h.inner.WithGroup(name),
	}
}
