package logs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func TestSpan(t *testing.T) {
	dscope.New(new(Module)).Call(func(
		newSpan NewSpan,
	) {
		ctx, span := newSpan(context.Background())
		if span == "" {
			t.Fatal("empty span")
		}
		if got, _ := ctx.Value(SpanKey).(Span); got != span {
			t.Fatalf("span not in context: %v", got)
		}

		_, child := newSpan(ctx)
		if child == span {
			t.Fatal("child span equals parent")
		}

		err := WrapSpan(ctx, errors.New("boom"))
		if !strings.Contains(err.Error(), string(span)) {
			t.Fatalf("wrapped error misses span: %v", err)
		}
		if WrapSpan(context.Background(), errors.New("boom")).Error() != "boom" {
			t.Fatal("spanless context should not annotate")
		}
	})
}
