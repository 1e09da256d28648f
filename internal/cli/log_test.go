package cli

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("resolved") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("stage", "name", "lion") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("stage", "name", "lion") }, true},
		{"warn at warn", log.WarnLevel, func(l *log.Logger) { l.Warn("save failed") }, true},
		{"info at warn", log.WarnLevel, func(l *log.Logger) { l.Info("added to tree") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestNewLoggerTimestampFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("resolved", "key", 5219404)

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("line %q should start with an HH:MM:SS.cc timestamp", buf.String())
	}
	if !strings.Contains(buf.String(), "key=5219404") {
		t.Errorf("line %q should carry the key-value pair", buf.String())
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done(`Resolved "lion" to Panthera leo`)

	out := buf.String()
	if !strings.Contains(out, `Resolved "lion" to Panthera leo`) {
		t.Errorf("output %q should contain the message", out)
	}
	if !regexp.MustCompile(`\(\d+(\.\d+)?(ns|µs|ms|s)\)`).MatchString(out) {
		t.Errorf("output %q should end with the elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should yield the default logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("loggerFromContext should return the attached logger")
	}
}

func TestVerboseFlagRaisesLevel(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		var logs bytes.Buffer
		c := New(&logs, LogInfo)
		root := c.RootCommand()

		var seen *log.Logger
		probe := &cobra.Command{
			Use: "probe",
			Run: func(cmd *cobra.Command, args []string) {
				seen = loggerFromContext(cmd.Context())
				seen.Debug("probe")
			},
		}
		root.AddCommand(probe)
		root.SetOut(io.Discard)

		args := []string{"probe"}
		if verbose {
			args = []string{"--verbose", "probe"}
		}
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatal(err)
		}

		if seen != c.Logger {
			t.Error("commands should receive the CLI logger through the context")
		}
		if got := logs.Len() > 0; got != verbose {
			t.Errorf("verbose=%v: debug output = %v", verbose, got)
		}
	}
}
