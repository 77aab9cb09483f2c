package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aurex-audio/aurexgen/internal/bindgen"
	"github.com/aurex-audio/aurexgen/internal/errors"
	"github.com/aurex-audio/aurexgen/internal/logger"
	"github.com/aurex-audio/aurexgen/internal/platform"
	"github.com/aurex-audio/aurexgen/pkgs/proc"
)

// fakeBuilder writes libName into outputDir when the build succeeds.
type fakeBuilder struct {
	outputDir string
	libName   string
	exitCode  int
	output    string

	calls int
}

func (b *fakeBuilder) Build(ctx context.Context) (*proc.Result, error) {
	b.calls++
	res := &proc.Result{
		Args:     []string{"cargo", "build", "--release"},
		ExitCode: b.exitCode,
		Stderr:   []byte(b.output),
	}
	if err := res.Err(); err != nil {
		return res, errors.Mark(errors.Wrap(err, "release build"), errors.ErrBuildFailed)
	}
	if b.libName != "" {
		if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
			return res, err
		}
		if err := os.WriteFile(filepath.Join(b.outputDir, b.libName), []byte("lib"), 0o644); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (b *fakeBuilder) OutputDir() string { return b.outputDir }

// fakeGenerator writes one deterministic source file per language.
type fakeGenerator struct {
	exitCode int

	calls int
	reqs  []bindgen.Request
}

func (g *fakeGenerator) Generate(ctx context.Context, req bindgen.Request) (*proc.Result, error) {
	g.calls++
	g.reqs = append(g.reqs, req)
	res := &proc.Result{Args: []string{"uniffi-bindgen", "generate"}, ExitCode: g.exitCode}
	if err := res.Err(); err != nil {
		return res, errors.Mark(err, errors.ErrBindgenFailed)
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return res, err
	}
	src := "// generated from " + filepath.Base(req.Library) + " for " + req.Language + "\n"
	return res, os.WriteFile(filepath.Join(req.OutDir, "aurex."+req.Language), []byte(src), 0o644)
}

type recordingReporter struct {
	events []string
}

func (r *recordingReporter) PhaseStarted(p Phase)  { r.events = append(r.events, p.Message()) }
func (r *recordingReporter) PhaseFinished(p Phase) { r.events = append(r.events, "Done.") }

type fixture struct {
	builder   *fakeBuilder
	generator *fakeGenerator
	reporter  *recordingReporter
	pipeline  *Pipeline
}

func newFixture(t *testing.T, p platform.Platform) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		builder: &fakeBuilder{
			outputDir: filepath.Join(root, "target", "release"),
			libName:   "libaurex.so",
		},
		generator: &fakeGenerator{},
		reporter:  &recordingReporter{},
	}
	f.pipeline = &Pipeline{
		Builder:   f.builder,
		Generator: f.generator,
		Resolver:  platform.NewResolver(p, ""),
		Reporter:  f.reporter,
		OutDir:    filepath.Join(root, "out"),
	}
	return f
}

func TestRunWithoutLanguage(t *testing.T) {
	for _, args := range [][]string{nil, {}, {""}} {
		f := newFixture(t, platform.Linux)

		rep, err := f.pipeline.Run(context.Background(), args)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUsage))
		assert.Equal(t, NoLanguageMessage, err.Error())
		assert.Equal(t, ExitUsage, ExitCode(err))
		assert.Equal(t, 0, f.builder.calls, "build must not run")
		assert.Equal(t, 0, f.generator.calls)
		assert.Equal(t, []State{StateStart}, rep.States)
		assert.Empty(t, f.reporter.events)
	}
}

func TestRunTooManyArguments(t *testing.T) {
	f := newFixture(t, platform.Linux)

	_, err := f.pipeline.Run(context.Background(), []string{"kotlin", "swift"})
	assert.Equal(t, ExitUsage, ExitCode(err))
	assert.Equal(t, 0, f.builder.calls)
}

func TestRunSuccessOnLinux(t *testing.T) {
	f := newFixture(t, platform.Linux)

	rep, err := f.pipeline.Run(context.Background(), []string{"kotlin"})
	require.NoError(t, err)
	assert.Equal(t, ExitOK, ExitCode(err))

	assert.Equal(t, 1, f.builder.calls)
	require.Equal(t, 1, f.generator.calls)
	req := f.generator.reqs[0]
	assert.Equal(t, filepath.Join(f.builder.outputDir, "libaurex.so"), req.Library)
	assert.Equal(t, "kotlin", req.Language)
	assert.Equal(t, f.pipeline.OutDir, req.OutDir)

	assert.Equal(t, "kotlin", rep.Language)
	assert.Equal(t, platform.Linux, rep.Platform)
	assert.Equal(t, req.Library, rep.Artifact)
	assert.NotEmpty(t, rep.RunID)
	assert.Len(t, rep.Digest, 64)
	assert.Equal(t, []State{
		StateStart, StateArgsParsed, StateBuilding, StateBuilt,
		StateResolvingArtifact, StateArtifactResolved,
		StateGeneratingBindings, StateDone,
	}, rep.States)
	assert.Equal(t, StateDone, rep.State())
	assert.Equal(t, []string{
		"Building the library...", "Done.",
		"Generating bindings...", "Done.",
	}, f.reporter.events)
}

func TestRunBuildFailureSkipsBindgen(t *testing.T) {
	f := newFixture(t, platform.Linux)
	f.builder.exitCode = 101
	f.builder.output = "error: could not compile `aurex` due to 2 previous errors"

	rep, err := f.pipeline.Run(context.Background(), []string{"swift"})
	require.Error(t, err)
	assert.Equal(t, ExitBuildFailed, ExitCode(err))
	assert.Equal(t, 0, f.generator.calls, "bindgen must not run after a failed build")
	assert.Equal(t, StateBuildFailed, rep.State())
	assert.True(t, rep.State().Failed())
	assert.Equal(t, []string{"Building the library..."}, f.reporter.events)

	var exitErr *proc.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, exitErr.Result.Output(), "could not compile")
	assert.Same(t, rep.Build, exitErr.Result)
}

func TestRunFailuresLogBelowWarn(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"build", func(f *fixture) { f.builder.exitCode = 101 }},
		{"platform", func(f *fixture) { f.pipeline.Resolver = platform.NewResolver(platform.Unknown, "") }},
		{"artifact", func(f *fixture) { f.builder.libName = "" }},
		{"bindgen", func(f *fixture) { f.generator.exitCode = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			f := newFixture(t, platform.Linux)
			f.pipeline.Logger = zap.New(core).Sugar()
			tt.setup(f)

			_, err := f.pipeline.Run(context.Background(), []string{"kotlin"})
			require.Error(t, err)
			assert.Zero(t, logs.Filter(func(e observer.LoggedEntry) bool {
				return e.Level >= zapcore.WarnLevel
			}).Len(), "failures are reported by the caller")
			assert.NotZero(t, logs.FilterFieldKey(logger.FieldError).Len())
		})
	}
}

func TestRunUnknownPlatform(t *testing.T) {
	f := newFixture(t, platform.Detect("haiku"))

	rep, err := f.pipeline.Run(context.Background(), []string{"python"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownPlatform))
	assert.Equal(t, ExitUnknownPlatform, ExitCode(err))
	assert.Equal(t, 1, f.builder.calls)
	assert.Equal(t, 0, f.generator.calls)
	assert.Equal(t, StatePlatformUnknown, rep.State())
	assert.Empty(t, rep.Artifact)
}

func TestRunArtifactMissing(t *testing.T) {
	f := newFixture(t, platform.Linux)
	f.builder.libName = ""

	rep, err := f.pipeline.Run(context.Background(), []string{"kotlin"})
	require.Error(t, err)
	assert.Equal(t, ExitArtifactMissing, ExitCode(err))
	assert.Equal(t, 0, f.generator.calls)
	assert.Equal(t, StateArtifactMissing, rep.State())
}

func TestRunArtifactForOtherPlatform(t *testing.T) {
	// A Linux build tree on a macOS host: the .dylib is not there.
	f := newFixture(t, platform.Darwin)

	_, err := f.pipeline.Run(context.Background(), []string{"swift"})
	assert.Equal(t, ExitArtifactMissing, ExitCode(err))
	assert.Equal(t, 0, f.generator.calls)
}

func TestRunBindgenFailure(t *testing.T) {
	f := newFixture(t, platform.Linux)
	f.generator.exitCode = 2

	rep, err := f.pipeline.Run(context.Background(), []string{"kotlin"})
	require.Error(t, err)
	assert.Equal(t, ExitBindgenFailed, ExitCode(err))
	assert.Equal(t, 1, f.generator.calls)
	assert.Equal(t, StateBindgenFailed, rep.State())
	assert.Empty(t, rep.Digest)
	assert.Equal(t, []string{"Building the library...", "Done.", "Generating bindings..."}, f.reporter.events)
}

func TestRunLanguageAllowList(t *testing.T) {
	f := newFixture(t, platform.Linux)
	f.pipeline.Languages = []string{"kotlin", "swift"}

	_, err := f.pipeline.Run(context.Background(), []string{"cobol"})
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
	assert.NotEmpty(t, errors.GetAllHints(err))
	assert.Equal(t, 0, f.builder.calls)

	_, err = f.pipeline.Run(context.Background(), []string{"swift"})
	require.NoError(t, err)
}

func TestRunPassesLanguageVerbatim(t *testing.T) {
	f := newFixture(t, platform.Linux)

	_, err := f.pipeline.Run(context.Background(), []string{"Kotlin-Multiplatform"})
	require.NoError(t, err)
	assert.Equal(t, "Kotlin-Multiplatform", f.generator.reqs[0].Language)
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t, platform.Linux)

	first, err := f.pipeline.Run(context.Background(), []string{"python"})
	require.NoError(t, err)
	firstBytes, err := os.ReadFile(filepath.Join(f.pipeline.OutDir, "aurex.python"))
	require.NoError(t, err)

	second, err := f.pipeline.Run(context.Background(), []string{"python"})
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(filepath.Join(f.pipeline.OutDir, "aurex.python"))
	require.NoError(t, err)

	assert.Equal(t, first.Digest, second.Digest)
	assert.Equal(t, firstBytes, secondBytes)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunMissingComponent(t *testing.T) {
	p := &Pipeline{}
	_, err := p.Run(context.Background(), []string{"kotlin"})
	require.Error(t, err)
	assert.Equal(t, ExitOther, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", errors.Usagef("no language"), ExitUsage},
		{"build", errors.Mark(errors.New("x"), errors.ErrBuildFailed), ExitBuildFailed},
		{"platform", errors.Mark(errors.New("x"), errors.ErrUnknownPlatform), ExitUnknownPlatform},
		{"artifact", errors.Mark(errors.New("x"), errors.ErrArtifactMissing), ExitArtifactMissing},
		{"bindgen", errors.Wrap(errors.Mark(errors.New("x"), errors.ErrBindgenFailed), "ctx"), ExitBindgenFailed},
		{"config", errors.WrapConfig(errors.New("x"), "load"), ExitOther},
		{"interrupted build", errors.Mark(errors.Wrap(context.Canceled, "cargo"), errors.ErrBuildFailed), ExitInterrupted},
		{"other", errors.New("boom"), ExitOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateBuildFailed, StatePlatformUnknown, StateArtifactMissing, StateBindgenFailed} {
		assert.True(t, s.Terminal(), s)
		assert.True(t, s.Failed(), s)
	}
	assert.True(t, StateDone.Terminal())
	assert.False(t, StateDone.Failed())
	for _, s := range []State{StateStart, StateArgsParsed, StateBuilding, StateBuilt, StateResolvingArtifact, StateArtifactResolved, StateGeneratingBindings} {
		assert.False(t, s.Terminal(), s)
	}
}
