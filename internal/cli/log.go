// Package cli implements the evotree command-line interface.
//
// Commands resolve species names against GBIF, preview and add lineages to
// the saved tree of life, export the tree and serve the HTTP API. The CLI is
// built using cobra; output is styled with lipgloss and the interactive
// session runs on bubbletea.
//
// # Commands
//
// The main commands are:
//   - resolve: print the taxon key, resolution stage and lineage of a name
//   - add: preview a lineage and merge it into the saved tree
//   - tree: show, export, normalize or clear the saved tree
//   - interactive: add species one after another
//   - serve: run the HTTP API with Prometheus metrics
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/evotree/evotree/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// timeFormat renders log timestamps as HH:MM:SS plus hundredths.
const timeFormat = "15:04:05.00"

// newLogger returns the logger every command shares. Lines below level are
// dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           level,
	})
}

// progress times one lookup and logs how long it took. Not safe for
// concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
//
//	14:32:01.45 INFO Resolved "lion" to Panthera leo (412ms)
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
