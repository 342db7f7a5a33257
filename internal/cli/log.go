// Package cli implements the digitaug command-line interface.
//
// The CLI is built on cobra; logging uses charmbracelet/log and the preview
// command runs a bubbletea program.
//
// # Commands
//
//   - augment: Generate augmented variants of a digit image
//   - preview: Show the source and a variant side by side in the terminal
//   - config: Write or print the TOML options file
//   - cache: Manage the result cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// Log lines go to stderr so stdout stays clean for styled results and
// config show output. --verbose (-v) lowers the level to debug and swaps
// the spinner for per-stage pipeline logs.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat stamps log lines with centisecond precision, enough to tell
// apart the stages of a short augment run.
const logTimeFormat = "15:04:05.00"

// newLogger returns a timestamped logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress times one CLI step. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time as a "took" field,
// e.g. "Wrote 11 files to seven_aug took=3ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the commands run under it.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default()
// when a command runs without one (as in unit tests calling it directly).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
