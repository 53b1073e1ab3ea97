// Package logx provides the structured logger shared across this
// module, matching the JSON slog.Logger the teacher project exposes
// from api/tools/logger.go.
package logx

import (
	"log/slog"
	"os"
)

// Logger is the process-wide structured logger. Commands that need a
// quieter or louder level adjust it via SetVerbose rather than building
// their own.
var Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// SetVerbose switches Logger to emit debug-level records, used by the
// CLI's --verbose flag.
func SetVerbose(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
