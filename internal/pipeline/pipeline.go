// Package pipeline sequences the release build and bindings generation.
package pipeline

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aurex-audio/aurexgen/internal/bindgen"
	"github.com/aurex-audio/aurexgen/internal/digest"
	"github.com/aurex-audio/aurexgen/internal/errors"
	"github.com/aurex-audio/aurexgen/internal/logger"
	"github.com/aurex-audio/aurexgen/internal/platform"
	"github.com/aurex-audio/aurexgen/pkgs/proc"
)

// NoLanguageMessage is printed when the target language argument is absent.
const NoLanguageMessage = "No language specified."

// Builder produces the native library.
type Builder interface {
	Build(ctx context.Context) (*proc.Result, error)
	OutputDir() string
}

// Generator produces bindings from the native library.
type Generator interface {
	Generate(ctx context.Context, req bindgen.Request) (*proc.Result, error)
}

// Pipeline runs build → resolve → bindgen once per Run.
type Pipeline struct {
	Builder   Builder
	Generator Generator
	Resolver  *platform.Resolver
	Reporter  Reporter
	// OutDir receives the generated bindings.
	OutDir string
	// Languages, when non-empty, is the set of accepted target languages.
	// Empty passes any language through to the generator.
	Languages []string
	Logger    *zap.SugaredLogger
}

// Report describes one run.
type Report struct {
	RunID    string
	Language string
	Platform platform.Platform
	Artifact string
	OutDir   string
	// Digest fingerprints OutDir after a successful run.
	Digest string
	States []State

	Build   *proc.Result
	Bindgen *proc.Result
}

// State returns the last state reached.
func (r *Report) State() State {
	if len(r.States) == 0 {
		return StateStart
	}
	return r.States[len(r.States)-1]
}

// Run executes the pipeline for the positional arguments of the command
// line. The report is returned even on failure; the error's kind selects
// the exit code (see ExitCode).
func (p *Pipeline) Run(ctx context.Context, args []string) (*Report, error) {
	rep := &Report{RunID: uuid.NewString(), OutDir: p.OutDir}
	if p.Resolver != nil {
		rep.Platform = p.Resolver.Platform
	}
	log := p.Logger
	if log == nil {
		log = logger.Named("pipeline")
	}
	log = log.With(logger.FieldRunID, rep.RunID)
	reporter := p.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}
	enter := func(s State) {
		rep.States = append(rep.States, s)
		log.Debugw("state", logger.FieldState, string(s))
	}

	enter(StateStart)
	if len(args) == 0 || args[0] == "" {
		return rep, errors.Usagef(NoLanguageMessage)
	}
	if len(args) > 1 {
		return rep, errors.Usagef("expected one target language, got %d arguments", len(args))
	}
	rep.Language = args[0]
	if len(p.Languages) > 0 && !slices.Contains(p.Languages, rep.Language) {
		return rep, errors.WithHintf(
			errors.Usagef("language %q is not enabled", rep.Language),
			"enabled languages: %v", p.Languages)
	}
	if p.Builder == nil || p.Generator == nil || p.Resolver == nil {
		return rep, errors.AssertionFailedf("pipeline is missing a component")
	}
	enter(StateArgsParsed)
	log = log.With(logger.FieldLanguage, rep.Language)

	enter(StateBuilding)
	reporter.PhaseStarted(PhaseBuild)
	res, err := p.Builder.Build(ctx)
	rep.Build = res
	if err != nil {
		enter(StateBuildFailed)
		log.Debugw("build failed", logger.FieldError, err)
		return rep, err
	}
	reporter.PhaseFinished(PhaseBuild)
	enter(StateBuilt)

	enter(StateResolvingArtifact)
	artifact, err := p.Resolver.Path(p.Builder.OutputDir())
	if err != nil {
		enter(StatePlatformUnknown)
		log.Debugw("cannot resolve artifact", logger.FieldPlatform, rep.Platform.String(), logger.FieldError, err)
		return rep, err
	}
	rep.Artifact = artifact
	enter(StateArtifactResolved)
	log.Infow("artifact resolved", logger.FieldArtifact, artifact, logger.FieldPlatform, rep.Platform.String())

	if err := bindgen.CheckArtifact(artifact); err != nil {
		enter(StateArtifactMissing)
		log.Debugw("artifact missing after build", logger.FieldArtifact, artifact, logger.FieldError, err)
		return rep, err
	}

	enter(StateGeneratingBindings)
	reporter.PhaseStarted(PhaseBindgen)
	res, err = p.Generator.Generate(ctx, bindgen.Request{
		Library:  artifact,
		Language: rep.Language,
		OutDir:   p.OutDir,
	})
	rep.Bindgen = res
	if err != nil {
		enter(StateBindgenFailed)
		log.Debugw("bindings generation failed", logger.FieldError, err)
		return rep, err
	}
	reporter.PhaseFinished(PhaseBindgen)
	enter(StateDone)

	if d, err := digest.Dir(p.OutDir); err != nil {
		log.Warnw("cannot fingerprint output", logger.FieldOutDir, p.OutDir, logger.FieldError, err)
	} else {
		rep.Digest = d
	}
	log.Infow("bindings generated", logger.FieldOutDir, p.OutDir, logger.FieldDigest, rep.Digest)
	return rep, nil
}
