// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance.
var Logger *zap.SugaredLogger

func init() {
	// No-op until Initialize runs so packages can log unconditionally.
	Logger = zap.NewNop().Sugar()
}

// Options configures Initialize.
type Options struct {
	// JSON selects the production JSON encoder instead of console output.
	JSON bool
	// Level is a zap level name ("debug", "info", "warn", "error").
	// Empty means "info".
	Level string
	// Output receives log lines. Defaults to os.Stderr so that stdout stays
	// reserved for progress messages.
	Output io.Writer
}

// Initialize sets up the global logger.
func Initialize(opts Options) error {
	level := zap.InfoLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return err
		}
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncodeCaller = nil
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	Logger = zap.New(zapcore.NewCore(enc, zapcore.AddSync(out), level)).Sugar()
	return nil
}

// Named returns a child of the global logger for one component.
func Named(component string) *zap.SugaredLogger {
	return Logger.Named(component)
}

// Sync flushes buffered log entries. Errors are ignored; stderr sync fails
// on some terminals.
func Sync() {
	_ = Logger.Sync()
}
