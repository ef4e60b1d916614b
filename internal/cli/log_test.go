package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("bumped 3 features")

	if !strings.Contains(buf.String(), "bumped 3 features (") {
		t.Errorf("progress.done() output = %q", buf.String())
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(LogHooks)
		want string
	}{
		{"start", func(h LogHooks) { h.OnBumpStart(ctx, "genes", "overlap", 12) }, "bump start"},
		{"complete", func(h LogHooks) { h.OnBumpComplete(ctx, "genes", "overlap", 3, time.Millisecond, nil) }, "columns=3"},
		{"failed", func(h LogHooks) { h.OnBumpComplete(ctx, "genes", "all", 0, 0, errors.New("boom")) }, "bump failed"},
		{"overflow", func(h LogHooks) { h.OnOverflow(ctx, "genes", 40000, 30000) }, "coordinate overflow"},
		{"hit", func(h LogHooks) { h.OnCacheHit(ctx, "layout") }, "cache hit"},
		{"miss", func(h LogHooks) { h.OnCacheMiss(ctx, "import") }, "cache miss"},
		{"set", func(h LogHooks) { h.OnCacheSet(ctx, "layout", 512) }, "bytes=512"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.call(LogHooks{Logger: newLogger(&buf, log.DebugLevel)})
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}

	var buf bytes.Buffer
	LogHooks{Logger: newLogger(&buf, log.InfoLevel)}.OnCacheHit(ctx, "layout")
	if buf.Len() != 0 {
		t.Errorf("LogHooks at info level wrote %q", buf.String())
	}
}
