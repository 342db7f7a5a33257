package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		debug   bool
		wantLog bool
	}{
		{"info at info", LogInfo, false, true},
		{"debug at info", LogInfo, true, false},
		{"debug at debug", LogDebug, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			if tt.debug {
				logger.Debug("resolved params")
			} else {
				logger.Info("resolved params")
			}
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).done("Wrote 5 files to out", "variants", 4)

	line := buf.String()
	for _, want := range []string{"Wrote 5 files to out", "variants=4", "took="} {
		if !strings.Contains(line, want) {
			t.Errorf("progress line %q missing %q", line, want)
		}
	}
}

// TestAugmentLogsWrittenFiles checks the progress line of a real augment run:
// three PNG variants plus the manifest.
func TestAugmentLogsWrittenFiles(t *testing.T) {
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	out := filepath.Join(t.TempDir(), "variants")

	if _, err := runWith(t, c, "augment", writeDigit(t), "-n", "3", "--no-cache", "-o", out); err != nil {
		t.Fatal(err)
	}
	want := "Wrote 4 files to " + out
	if !strings.Contains(logs.String(), want) {
		t.Errorf("log missing %q:\n%s", want, logs.String())
	}
	if !strings.Contains(logs.String(), "variants=3") {
		t.Errorf("log missing variant count:\n%s", logs.String())
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should yield log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, LogInfo)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("augmenting")
	if !strings.Contains(buf.String(), "augmenting") {
		t.Error("attached logger should write to its buffer")
	}
}
