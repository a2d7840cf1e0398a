package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/reusee/seq/cmds"
	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

var level = new(slog.LevelVar)

func init() {
	cmds.Define("-log", cmds.Func(func(name string) error {
		switch strings.ToLower(name) {
		case "debug":
			level.Set(slog.LevelDebug)
		case "info":
			level.Set(slog.LevelInfo)
		case "warn":
			level.Set(slog.LevelWarn)
		case "error":
			level.Set(slog.LevelError)
		default:
			return fmt.Errorf("unknown log level: %s", name)
		}
		return nil
	}).Desc("set log level: debug, info, warn, error"))
}

type Logger = *slog.Logger

type Writer io.Writer

func (Module) Writer() Writer {
	return os.Stderr
}

// Logger fans records out to the terminal and, when journald is
// reachable, the systemd journal. Every record carries the evaluation
// span from its context.
func (Module) Logger(
	writer Writer,
) Logger {
	handlers := []slog.Handler{
		slog.NewTextHandler(writer, &slog.HandlerOptions{
			Level: level,
		}),
	}

	journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
		ReplaceGroup: journalKey,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a.Key = journalKey(a.Key)
			return a
		},
	})
	if err == nil {
		handlers = append(handlers, journalHandler)
	}

	return slog.New(&spanHandler{
		inner: slogmulti.Fanout(handlers...),
	})
}

// journalKey maps attribute keys onto the journald field alphabet.
func journalKey(str string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		}
		return '_'
	}, str)
}
