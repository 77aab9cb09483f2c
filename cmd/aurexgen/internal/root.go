package internal

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aurex-audio/aurexgen/internal/bindgen"
	"github.com/aurex-audio/aurexgen/internal/build"
	"github.com/aurex-audio/aurexgen/internal/config"
	"github.com/aurex-audio/aurexgen/internal/errors"
	"github.com/aurex-audio/aurexgen/internal/logger"
	"github.com/aurex-audio/aurexgen/internal/manifest"
	"github.com/aurex-audio/aurexgen/internal/pipeline"
	"github.com/aurex-audio/aurexgen/internal/platform"
	"github.com/aurex-audio/aurexgen/pkgs/buildsys/cargo"
)

// errReported marks errors whose message was already shown to the user.
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aurexgen <language>",
		Short: "Build libaurex and generate UniFFI bindings for it",
		Long: `aurexgen builds the aurex crate in release mode, locates the shared library
cargo produced for this platform (libaurex.dll, libaurex.dylib or libaurex.so)
and runs uniffi-bindgen to generate bindings for the given language.

The language is passed to the generator unchanged. Generated files are written
into the output directory directly; if the generator fails part way, files it
already wrote are left in place.`,
		Example: `  aurexgen kotlin
  aurexgen swift -o bindings/swift
  aurexgen python --features alsa --timeout 20m`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, errors.ErrUsage)
	})

	f := cmd.PersistentFlags()
	f.String("config", "", "Config file (default: "+config.FileName+" in the current or a parent directory)")
	f.StringP("manifest-dir", "C", "", "Crate root containing Cargo.toml (default: nearest Cargo.toml)")
	f.StringP("out-dir", "o", "out", "Directory receiving the generated bindings")
	f.String("cargo", "cargo", "Cargo executable")
	f.StringSlice("features", nil, "Crate features to enable for the release build")
	f.Bool("locked", false, "Require Cargo.lock to be up to date")
	f.Duration("timeout", 0, "Time limit for each cargo invocation (0 disables)")
	f.BoolP("verbose", "v", false, "Stream cargo output while it runs")
	f.Bool("log-json", false, "Emit logs as JSON")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newDoctorCmd(), newPlatformCmd(), newInitCmd(), newVersionCmd())
	return cmd
}

// Execute runs the command line and returns the process exit status.
// This is called by main.main().
func Execute(ctx context.Context) int {
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	defer logger.Sync()
	if err != nil && !errors.Is(err, errReported) {
		printFailure(stderr, err)
	}
	return pipeline.ExitCode(err)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || args[0] == "" {
		pterm.Fprintln(cmd.OutOrStdout(), pipeline.NoLanguageMessage)
		return errors.Mark(errors.Usagef(pipeline.NoLanguageMessage), errReported)
	}

	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	p, err := newPipeline(cmd, cfg)
	if err != nil {
		return err
	}
	_, err = p.Run(cmd.Context(), args)
	return err
}

// setup loads the configuration and initializes the logger.
func setup(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: file, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if cfg.Verbose && level == "warn" {
		level = "info"
	}
	if err := logger.Initialize(logger.Options{
		JSON:   cfg.Log.JSON,
		Level:  level,
		Output: cmd.ErrOrStderr(),
	}); err != nil {
		return nil, errors.WrapConfig(err, "invalid log.level")
	}
	logger.Logger.Debugw("config loaded", "file", cfg.File, logger.FieldDir, cfg.ManifestDir, logger.FieldOutDir, cfg.OutDir)
	return cfg, nil
}

func newCargo(cmd *cobra.Command, cfg *config.Config) (*cargo.Cargo, error) {
	env, err := cfg.EnvMap()
	if err != nil {
		return nil, err
	}
	c := cargo.New(cfg.ManifestDir).
		Bin(cfg.Cargo).
		TargetDir(cfg.TargetDir).
		Locked(cfg.Locked).
		Feature(cfg.Features...).
		Timeout(cfg.Timeout)
	for k, v := range env {
		c.Env(k, v)
	}
	if cfg.Verbose {
		c.Stream(cmd.ErrOrStderr())
	}
	return c, nil
}

func newPipeline(cmd *cobra.Command, cfg *config.Config) (*pipeline.Pipeline, error) {
	c, err := newCargo(cmd, cfg)
	if err != nil {
		return nil, err
	}

	buildArgs, err := cfg.BuildArgList()
	if err != nil {
		return nil, err
	}
	builder, err := build.NewBuilder(build.Options{System: c, Args: buildArgs})
	if err != nil {
		return nil, err
	}

	bindgenArgs, err := cfg.BindgenArgList()
	if err != nil {
		return nil, err
	}
	gen, err := bindgen.New(bindgen.Options{Runner: c, Bin: cfg.BindgenBin, Args: bindgenArgs})
	if err != nil {
		return nil, err
	}

	checkManifest(cfg)
	return &pipeline.Pipeline{
		Builder:   builder,
		Generator: gen,
		Resolver:  platform.NewResolver(platform.Detect(runtime.GOOS), cfg.LibName),
		Reporter:  newProgressReporter(cmd.OutOrStdout()),
		OutDir:    cfg.OutDir,
		Languages: cfg.Languages,
	}, nil
}

// checkManifest warns about crates that cannot produce a shared library.
// cargo reports a missing or broken manifest itself, so read errors are
// only logged.
func checkManifest(cfg *config.Config) {
	log := logger.Named("manifest")
	m, err := manifest.Load(cfg.ManifestDir)
	if err != nil {
		log.Debugw("cannot inspect manifest", logger.FieldDir, cfg.ManifestDir, logger.FieldError, err)
		return
	}
	if !m.HasCdylib() {
		log.Warnw("crate-type does not include cdylib, cargo will not build a shared library",
			"crate", m.Package.Name)
	}
	if !m.HasBin(cfg.BindgenBin) {
		log.Warnw("no binary target for the bindings generator", "bin", cfg.BindgenBin, "crate", m.Package.Name)
	}
}
