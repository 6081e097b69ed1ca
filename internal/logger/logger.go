// Package logger builds the zap logger shared by the CLI.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger holds the process-wide zap logger.
type Logger struct {
	Log *zap.Logger
	out io.Writer
}

// New returns a Logger with a no-op zap logger that will write to w, or
// to stderr when w is nil. Call Init to enable output.
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{Log: zap.NewNop(), out: w}
}

// Init configures a console logger at the given level ("debug", "info",
// "warn", "error").
func (l *Logger) Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(l.out),
		zap.NewAtomicLevelAt(lvl),
	)
	l.Log = zap.New(core)
	return nil
}

// Level maps the --verbose flag to a level name.
func Level(verbose bool) string {
	if verbose {
		return "debug"
	}
	return "warn"
}
