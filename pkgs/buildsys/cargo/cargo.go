// Package cargo wraps the cargo build workflow.
package cargo

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aurex-audio/aurexgen/pkgs/buildsys"
	"github.com/aurex-audio/aurexgen/pkgs/proc"
)

// ReleaseProfile is the profile the native library is built with.
const ReleaseProfile = "release"

// Cargo drives cargo-based builds.
type Cargo struct {
	bin       string
	sourceDir string
	targetDir string
	profile   string
	locked    bool
	features  map[string]struct{}
	env       map[string]string
	stream    io.Writer
	timeout   time.Duration
}

var _ buildsys.BuildSystem = (*Cargo)(nil)

// New returns a Cargo building the crate rooted at sourceDir in release mode.
func New(sourceDir string) *Cargo {
	return &Cargo{
		bin:       "cargo",
		sourceDir: sourceDir,
		profile:   ReleaseProfile,
		features:  make(map[string]struct{}),
		env:       make(map[string]string),
	}
}

// Bin sets the cargo executable.
func (c *Cargo) Bin(path string) *Cargo {
	if path != "" {
		c.bin = path
	}
	return c
}

// TargetDir overrides the cargo target directory. Relative paths are
// resolved against the crate root.
func (c *Cargo) TargetDir(dir string) *Cargo {
	c.targetDir = dir
	return c
}

// Locked requires Cargo.lock to be up to date.
func (c *Cargo) Locked(v bool) *Cargo {
	c.locked = v
	return c
}

// Feature enables crate features for Build.
func (c *Cargo) Feature(names ...string) *Cargo {
	for _, n := range names {
		for _, f := range strings.FieldsFunc(n, isFeatureSep) {
			c.features[f] = struct{}{}
		}
	}
	return c
}

// Stream copies tool output to w while it runs.
func (c *Cargo) Stream(w io.Writer) *Cargo {
	c.stream = w
	return c
}

// Timeout bounds every cargo invocation.
func (c *Cargo) Timeout(d time.Duration) *Cargo {
	c.timeout = d
	return c
}

// Env sets a variable for cargo invocations only.
func (c *Cargo) Env(key, value string) {
	c.env[key] = value
}

// Build runs "cargo build --release" with the configured options.
// Extra args are appended at the end.
func (c *Cargo) Build(ctx context.Context, args ...string) (*proc.Result, error) {
	cargoArgs := []string{"build", "--" + c.profile}
	cargoArgs = append(cargoArgs, c.commonArgs()...)
	if f := c.featuresArg(); f != "" {
		cargoArgs = append(cargoArgs, "--features", f)
	}
	cargoArgs = append(cargoArgs, args...)
	return c.run(ctx, cargoArgs)
}

// RunBin runs "cargo run --bin <name> -- <args>".
func (c *Cargo) RunBin(ctx context.Context, name string, args ...string) (*proc.Result, error) {
	cargoArgs := []string{"run", "--bin", name}
	cargoArgs = append(cargoArgs, c.commonArgs()...)
	cargoArgs = append(cargoArgs, "--")
	cargoArgs = append(cargoArgs, args...)
	return c.run(ctx, cargoArgs)
}

// Version runs "cargo --version" and returns its trimmed output.
func (c *Cargo) Version(ctx context.Context) (string, error) {
	res, err := c.run(ctx, []string{"--version"})
	if err != nil {
		return "", err
	}
	if err := res.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// OutputDir returns <target>/<profile>, where build artifacts land.
func (c *Cargo) OutputDir() string {
	target := c.targetDir
	if target == "" {
		target = "target"
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(c.sourceDir, target)
	}
	return filepath.Join(target, c.profile)
}

func (c *Cargo) commonArgs() []string {
	var args []string
	if c.locked {
		args = append(args, "--locked")
	}
	if c.targetDir != "" {
		args = append(args, "--target-dir", c.targetDir)
	}
	return args
}

func (c *Cargo) featuresArg() string {
	if len(c.features) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.features))
	for f := range c.features {
		names = append(names, f)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func (c *Cargo) run(ctx context.Context, args []string) (*proc.Result, error) {
	return proc.Run(ctx, &proc.Cmd{
		Name:    c.bin,
		Args:    args,
		Dir:     c.sourceDir,
		Env:     c.env,
		Stream:  c.stream,
		Timeout: c.timeout,
	})
}

func isFeatureSep(r rune) bool {
	return r == ',' || r == ' '
}
