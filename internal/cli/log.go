// Package cli implements the trackbump command-line interface.
//
// # Commands
//
// The main commands are:
//   - bump: Lay out a GFF3 or JSON feature file and write the layout JSON
//   - modes: List the accepted bump mode names
//   - bench: Time the engine on synthetic tracks, optionally profiling it
//   - graph: Write the overlap graph of a laid-out track as DOT or SVG
//   - view: Browse the columns of a laid-out track interactively
//   - serve: Run the HTTP layout service
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. At debug
// level every bump pass and cache lookup is logged through [LogHooks].
//
// # Configuration
//
// Settings come from --config, else $XDG_CONFIG_HOME/trackbump/config.toml
// when it exists, else the built-in defaults. Command flags override them.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Bumped 1200 features (34ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// LogHooks reports bump and cache events to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnBumpStart(ctx context.Context, track, mode string, features int) {
	h.Logger.Debug("bump start", "track", track, "mode", mode, "features", features)
}

func (h LogHooks) OnBumpComplete(ctx context.Context, track, mode string, columns int, duration time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("bump failed", "track", track, "mode", mode, "error", err)
		return
	}
	h.Logger.Debug("bump complete", "track", track, "mode", mode, "columns", columns, "duration", duration)
}

func (h LogHooks) OnOverflow(ctx context.Context, track string, width, ceiling float64) {
	h.Logger.Debug("coordinate overflow", "track", track, "width", width, "ceiling", ceiling)
}

func (h LogHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.Logger.Debug("cache hit", "stage", keyType)
}

func (h LogHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.Logger.Debug("cache miss", "stage", keyType)
}

func (h LogHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "stage", keyType, "bytes", size)
}
