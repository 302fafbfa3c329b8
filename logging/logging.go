// ABOUTME: Constructs the single *zap.Logger each command threads through
// ABOUTME: its pipeline, instead of reaching for a package-level logger

package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a SugaredLogger suited to CLI output: human-readable console
// encoding, timestamps, level names, written to stderr. Everything the
// commands report, including dedupe-lrclib's --test search results, goes
// through this logger.
func New(verbose bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "t"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		level,
	)

	return zap.New(core).Sugar()
}
