package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/seq/cmds"
	"github.com/reusee/seq/configs"
	"github.com/reusee/seq/debugs"
	"github.com/reusee/seq/logs"
	"github.com/reusee/seq/modes"
	"github.com/reusee/seq/seqlisp"
	"github.com/reusee/seq/seqvm"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
	Debugs  debugs.Module
	Lisp    seqlisp.Module
}

var (
	configPaths = cmds.Collect[string]("-config")
	scriptPath  = cmds.Var[string]("-script")
	evalSource  = cmds.Var[string]("-e")
)

func main() {
	cmds.Execute(os.Args[1:])
	ctx := context.Background()

	loader := configs.NewLoader(*configPaths, configs.EngineSchema)
	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
		&loader,
	)

	scope.Call(func(
		logger logs.Logger,
		newEngine seqlisp.NewEngine,
		newSpan logs.NewSpan,
		tap debugs.Tap,
	) {
		vm := newEngine()

		if *evalSource != "" {
			runSource(ctx, vm, *evalSource, logger, newSpan)
			return
		}

		if *scriptPath != "" {
			content, err := os.ReadFile(*scriptPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			runSource(ctx, vm, string(content), logger, newSpan)
			return
		}

		runREPL(ctx, vm, logger, newSpan, tap)
	})
}

func runSource(
	ctx context.Context,
	vm *seqvm.VM,
	source string,
	logger logs.Logger,
	newSpan logs.NewSpan,
) {
	ctx, _ = newSpan(ctx)
	result, err := seqlisp.Exec(vm, source)
	if err != nil {
		logger.ErrorContext(ctx, "evaluation failed", "error", logs.WrapSpan(ctx, err))
		os.Exit(1)
	}
	fmt.Println(seqlisp.Print(result))
}
