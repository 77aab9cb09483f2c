package internal

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aurex-audio/aurexgen/internal/env"
	"github.com/aurex-audio/aurexgen/internal/errors"
	"github.com/aurex-audio/aurexgen/internal/manifest"
	"github.com/aurex-audio/aurexgen/internal/platform"
	"github.com/aurex-audio/aurexgen/internal/toolchain"
)

// uniffiCrate provides the scaffolding and the bindings generator.
const uniffiCrate = "uniffi"

// errSkipped is returned by checks whose prerequisite failed.
var errSkipped = errors.New("skipped")

// check is one preflight test. run returns a short description of what it
// found.
type check struct {
	name string
	run  func(ctx context.Context) (string, error)
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the toolchain and crate are ready",
		Long: `Doctor verifies that cargo is installed and recent enough, that the crate
depends on uniffi, builds a cdylib and declares a uniffi-bindgen binary, and that this platform
has a known shared library name.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	c, err := newCargo(cmd, cfg)
	if err != nil {
		return err
	}

	var m *manifest.Manifest
	checks := []check{
		{"platform", func(context.Context) (string, error) {
			p := platform.Detect(runtime.GOOS)
			if _, err := p.SharedLibExt(); err != nil {
				return "", err
			}
			return p.String() + "/" + runtime.GOARCH, nil
		}},
		{"cargo", func(ctx context.Context) (string, error) {
			v, err := toolchain.Check(ctx, c.Version, cfg.MinCargoVersion)
			if err != nil {
				return "", err
			}
			return "cargo " + v, nil
		}},
		{"manifest", func(context.Context) (string, error) {
			var err error
			if m, err = manifest.Load(cfg.ManifestDir); err != nil {
				return "", err
			}
			return filepath.Join(m.Dir, env.ManifestFile) + " (" + m.Package.Name + " " + m.Package.Version + ")", nil
		}},
		{"uniffi", func(context.Context) (string, error) {
			if m == nil {
				return "", errSkipped
			}
			if !m.DependsOn(uniffiCrate) {
				return "", errors.WithHint(
					errors.Newf("%s does not depend on %s", m.Package.Name, uniffiCrate),
					`add uniffi = { version = "0.28", features = ["cli"] } to [dependencies]`)
			}
			if v := m.DependencyVersion(uniffiCrate); v != "" {
				return uniffiCrate + " " + v, nil
			}
			return uniffiCrate, nil
		}},
		{"cdylib", func(context.Context) (string, error) {
			if m == nil {
				return "", errSkipped
			}
			if !m.HasCdylib() {
				return "", errors.WithHint(
					errors.Newf("[lib] crate-type of %s does not include %s", m.Package.Name, manifest.CrateTypeCdylib),
					`add crate-type = ["cdylib"] to the [lib] section`)
			}
			return m.LibName(), nil
		}},
		{"bindgen", func(context.Context) (string, error) {
			if m == nil {
				return "", errSkipped
			}
			if !m.HasBin(cfg.BindgenBin) {
				return "", errors.WithHintf(
					errors.Newf("no binary target %q", cfg.BindgenBin),
					"add src/bin/%s.rs calling uniffi::uniffi_bindgen_main()", cfg.BindgenBin)
			}
			return cfg.BindgenBin, nil
		}},
	}

	failed := runChecks(cmd, checks)
	if failed > 0 {
		return errors.Newf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}

// runChecks prints one line per check and returns the number of failures.
func runChecks(cmd *cobra.Command, checks []check) int {
	out := cmd.OutOrStdout()
	failed := 0
	for _, ck := range checks {
		detail, err := ck.run(cmd.Context())
		switch {
		case err == nil:
			pterm.Success.WithWriter(out).Printfln("%-9s %s", ck.name, detail)
		case errors.Is(err, errSkipped):
			pterm.Warning.WithWriter(out).Printfln("%-9s skipped", ck.name)
		default:
			failed++
			pterm.Error.WithWriter(out).Printfln("%-9s %v", ck.name, err)
			for _, hint := range errors.GetAllHints(err) {
				pterm.Info.WithWriter(out).Println(hint)
			}
		}
	}
	return failed
}
