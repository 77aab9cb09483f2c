// Package bindgen runs the UniFFI bindings generator against a built
// shared library.
//
// The generator writes into the output directory directly. When it fails
// part way, files it already wrote are left in place.
package bindgen

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/aurex-audio/aurexgen/internal/errors"
	"github.com/aurex-audio/aurexgen/internal/logger"
	"github.com/aurex-audio/aurexgen/pkgs/proc"
)

// DefaultBin is the cargo binary target that hosts the generator.
const DefaultBin = "uniffi-bindgen"

// Runner starts a binary target of the crate, as "cargo run --bin" does.
type Runner interface {
	RunBin(ctx context.Context, name string, args ...string) (*proc.Result, error)
}

// Request is one generation job.
type Request struct {
	// Library is the path of the compiled shared library.
	Library string
	// Language is passed to the generator verbatim.
	Language string
	// OutDir receives the generated sources. It is created if absent.
	OutDir string
}

// Options configures a Generator.
type Options struct {
	Runner Runner
	// Bin defaults to DefaultBin.
	Bin string
	// Args are appended after the generator's own arguments.
	Args   []string
	Logger *zap.SugaredLogger
}

// Generator invokes the bindings generator.
type Generator struct {
	runner Runner
	bin    string
	args   []string
	log    *zap.SugaredLogger
}

// New creates a Generator.
func New(opts Options) (*Generator, error) {
	if opts.Runner == nil {
		return nil, errors.New("bindgen: no runner configured")
	}
	g := &Generator{
		runner: opts.Runner,
		bin:    opts.Bin,
		args:   opts.Args,
		log:    opts.Logger,
	}
	if g.bin == "" {
		g.bin = DefaultBin
	}
	if g.log == nil {
		g.log = logger.Named("bindgen")
	}
	return g, nil
}

// Generate checks that the library exists, prepares the output directory
// and runs the generator. A non-zero exit is returned as an error marked
// errors.ErrBindgenFailed; a missing library as errors.ErrArtifactMissing,
// in which case the generator is not started.
func (g *Generator) Generate(ctx context.Context, req Request) (*proc.Result, error) {
	if req.Language == "" {
		return nil, errors.Usagef("no target language")
	}
	if req.OutDir == "" {
		return nil, errors.Usagef("no output directory")
	}
	if err := CheckArtifact(req.Library); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to create output directory"), errors.ErrBindgenFailed)
	}

	args := []string{
		"generate",
		"--library", req.Library,
		"--language", req.Language,
		"--out-dir", req.OutDir,
	}
	args = append(args, g.args...)

	res, err := g.runner.RunBin(ctx, g.bin, args...)
	if err != nil {
		return res, errors.Mark(errors.Wrapf(err, "run %s", g.bin), errors.ErrBindgenFailed)
	}
	g.log.Debugw("generator finished",
		logger.FieldCommand, res.Command(),
		logger.FieldExitCode, res.ExitCode,
		logger.FieldDurationMS, res.Duration.Milliseconds())

	if err := res.Err(); err != nil {
		return res, errors.Mark(errors.Wrapf(err, "generate %s bindings", req.Language), errors.ErrBindgenFailed)
	}
	return res, nil
}

// CheckArtifact returns an error marked errors.ErrArtifactMissing unless
// path names an existing regular file.
func CheckArtifact(path string) error {
	if path == "" {
		return errors.Mark(errors.New("no library path"), errors.ErrArtifactMissing)
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.WithHint(
			errors.Mark(errors.Wrapf(err, "library %s", path), errors.ErrArtifactMissing),
			"the build reported success but produced no library; check [lib] crate-type includes \"cdylib\"")
	}
	if info.IsDir() {
		return errors.Mark(errors.Newf("library %s is a directory", path), errors.ErrArtifactMissing)
	}
	return nil
}
