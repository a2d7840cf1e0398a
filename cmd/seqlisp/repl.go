package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/reusee/seq/debugs"
	"github.com/reusee/seq/logs"
	"github.com/reusee/seq/seqlisp"
	"github.com/reusee/seq/seqvm"
)

func runREPL(
	ctx context.Context,
	vm *seqvm.VM,
	logger logs.Logger,
	newSpan logs.NewSpan,
	tap debugs.Tap,
) {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".seqlisp_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			break
		}
		if line == "" {
			continue
		}

		if line == ":debug" {
			tap(ctx, "repl", map[string]any{
				"stats":   vm.Stats(),
				"globals": vm.Global.Vars,
			})
			continue
		}
		if line == ":gc" {
			stats := vm.Collect()
			fmt.Printf("tracked %d, collections %d, freed %d\n",
				stats.Tracked, stats.Collections, stats.TotalFreed)
			continue
		}

		lineCtx, _ := newSpan(ctx)
		result, err := seqlisp.Exec(vm, line)
		if err != nil {
			// report and continue with the next input
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			logger.DebugContext(lineCtx, "evaluation failed",
				"error", logs.WrapSpan(lineCtx, err),
			)
			continue
		}
		fmt.Println(seqlisp.Print(result))
	}
}
