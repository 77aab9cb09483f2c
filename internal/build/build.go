// Package build runs the release build of the native library.
package build

import (
	"context"

	"go.uber.org/zap"

	"github.com/aurex-audio/aurexgen/internal/errors"
	"github.com/aurex-audio/aurexgen/internal/logger"
	"github.com/aurex-audio/aurexgen/pkgs/buildsys"
	"github.com/aurex-audio/aurexgen/pkgs/proc"
)

// Options configures a Builder.
type Options struct {
	// System performs the actual build.
	System buildsys.BuildSystem
	// Args are appended to the build tool's command line.
	Args []string
	// Logger defaults to the global logger named "build".
	Logger *zap.SugaredLogger
}

// Builder runs the release build once per call.
type Builder struct {
	sys  buildsys.BuildSystem
	args []string
	log  *zap.SugaredLogger
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.System == nil {
		return nil, errors.New("build: no build system configured")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Named("build")
	}
	return &Builder{sys: opts.System, args: opts.Args, log: log}, nil
}

// OutputDir returns the directory the release artifact lands in.
func (b *Builder) OutputDir() string {
	return b.sys.OutputDir()
}

// Build runs the release build. Any outcome other than a zero exit status
// is returned as an error marked errors.ErrBuildFailed; when the tool ran,
// the error wraps a *proc.ExitError carrying the captured output.
func (b *Builder) Build(ctx context.Context) (*proc.Result, error) {
	res, err := b.sys.Build(ctx, b.args...)
	if err != nil {
		err = errors.Mark(errors.Wrap(err, "release build"), errors.ErrBuildFailed)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return res, err
		}
		return res, errors.WithHint(err, "is the Rust toolchain installed and cargo on PATH?")
	}

	b.log.Debugw("build finished",
		logger.FieldCommand, res.Command(),
		logger.FieldExitCode, res.ExitCode,
		logger.FieldDurationMS, res.Duration.Milliseconds())

	if err := res.Err(); err != nil {
		return res, errors.Mark(errors.Wrap(err, "release build"), errors.ErrBuildFailed)
	}
	return res, nil
}
