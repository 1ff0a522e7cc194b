package texel

import (
	"log/slog"

	"github.com/gogpu/texel/alloc"
	"github.com/gogpu/texel/internal/logging"
	"github.com/gogpu/texel/jobs"
)

// logger stores the active logger. The zero value logs nothing.
var logger logging.Holder

// SetLogger configures the logger for texel and all its sub-packages.
// By default, texel produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by texel:
//   - [slog.LevelDebug]: allocations, pass scheduling and timing
//   - [slog.LevelWarn]: double dispose, leaked blocks, failed deferred frees
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	texel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Set(l)
	alloc.SetLogger(l)
	jobs.SetLogger(l)
}

// Logger returns the current logger used by texel.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logger.Get()
}
