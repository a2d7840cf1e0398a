package logs

import (
	"context"
	"crypto/rand"
	"fmt"
)

// NewSpan opens a span for one evaluation; subsequent records logged
// under the returned context carry it.
type NewSpan func(ctx context.Context) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context) (context.Context, Span) {
		parent, _ := ctx.Value(SpanKey).(Span)

		span := Span(rand.Text())
		ctx = context.WithValue(ctx, SpanKey, span)

		if parent != "" {
			logger.DebugContext(ctx, "new span", "parent", parent)
		} else {
			logger.DebugContext(ctx, "new span")
		}

		return ctx, span
	}
}

// WrapSpan annotates an error with the span of the evaluation that
// raised it.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span, ok := ctx.Value(SpanKey).(Span)
	if !ok {
		return err
	}
	return fmt.Errorf("%w (span %s)", err, span)
}
