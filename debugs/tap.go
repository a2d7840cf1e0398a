package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/seq/logs"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap drops into an interactive Starlark session over a snapshot of
// engine state: VM stats, GC counters, global bindings.
type Tap func(ctx context.Context, what string, globals map[string]any)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
}

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		logger.InfoContext(ctx, "tap: "+what,
			"globals", slices.Collect(maps.Keys(globals)),
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		mappings := make(starlark.StringDict)
		for name, value := range globals {
			mappings[name] = toStarlarkValue(value)
		}

		thread := &starlark.Thread{
			Name: "repl",
		}
		repl.REPLOptions(fileOptions, thread, mappings)
	}
}

// RunScript evaluates a Starlark script against the same state a Tap
// exposes, for scripted inspection.
type RunScript func(ctx context.Context, script string, globals map[string]any) (starlark.StringDict, error)

func (Module) RunScript(
	logger logs.Logger,
) RunScript {
	return func(ctx context.Context, script string, globals map[string]any) (starlark.StringDict, error) {
		logger.DebugContext(ctx, "run debug script",
			"globals", slices.Collect(maps.Keys(globals)),
		)
		mappings := make(starlark.StringDict)
		for name, value := range globals {
			mappings[name] = toStarlarkValue(value)
		}
		thread := &starlark.Thread{
			Name: "debug script",
		}
		return starlark.ExecFileOptions(fileOptions, thread, "script", script, mappings)
	}
}
