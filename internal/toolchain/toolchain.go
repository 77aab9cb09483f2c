// Package toolchain checks the cargo installation before a build.
package toolchain

import (
	"context"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/aurex-audio/aurexgen/internal/errors"
)

// VersionFunc returns the raw output of "cargo --version".
type VersionFunc func(ctx context.Context) (string, error)

// ParseVersion extracts the version from "cargo 1.79.0 (ffa9cf99a 2024-06-03)".
func ParseVersion(out string) (string, error) {
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "cargo" {
		return "", errors.Newf("unrecognized cargo version output %q", out)
	}
	v := fields[1]
	if !semver.IsValid(canonical(v)) {
		return "", errors.Newf("invalid cargo version %q", v)
	}
	return v, nil
}

// Check queries the cargo version and fails when it is older than min.
// An empty min skips the comparison. The detected version is returned
// either way when it could be read.
func Check(ctx context.Context, version VersionFunc, min string) (string, error) {
	out, err := version(ctx)
	if err != nil {
		return "", errors.WithHint(errors.Wrap(err, "failed to query cargo"),
			"install a Rust toolchain from https://rustup.rs")
	}
	v, err := ParseVersion(out)
	if err != nil {
		return "", err
	}
	if min == "" {
		return v, nil
	}
	if !semver.IsValid(canonical(min)) {
		return v, errors.Newf("invalid minimum version %q", min)
	}
	if semver.Compare(canonical(v), canonical(min)) < 0 {
		return v, errors.WithHintf(errors.Newf("cargo %s is older than %s", v, min),
			"run: rustup update")
	}
	return v, nil
}

func canonical(v string) string {
	return "v" + strings.TrimPrefix(v, "v")
}
