package cli

import (
	"context"
	"os"
)

// Execute runs the evotree CLI with os.Args and returns an error if the
// command fails. Logging goes to stderr at info level, or debug level with
// --verbose; the logger is attached to the command context and reachable
// through loggerFromContext.
//
// Example:
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//	if err := cli.Execute(ctx); err != nil {
//	    os.Exit(1)
//	}
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
