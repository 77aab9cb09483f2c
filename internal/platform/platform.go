// Package platform maps the host operating system to the file name of the
// native shared library produced by the release build.
package platform

import (
	"path/filepath"

	"github.com/aurex-audio/aurexgen/internal/errors"
)

// DefaultLibName is the stem of the native library artifact.
const DefaultLibName = "libaurex"

// Platform is the host operating system family.
type Platform int

const (
	Unknown Platform = iota
	Windows
	Darwin
	Linux
)

var names = [...]string{
	Unknown: "unknown",
	Windows: "windows",
	Darwin:  "darwin",
	Linux:   "linux",
}

func (p Platform) String() string {
	if p < 0 || int(p) >= len(names) {
		return names[Unknown]
	}
	return names[p]
}

// Detect maps a GOOS value to a Platform. Callers pass runtime.GOOS once at
// startup; anything outside the supported set is Unknown.
func Detect(goos string) Platform {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return Darwin
	case "linux":
		return Linux
	}
	return Unknown
}

// SharedLibExt returns the shared library extension without the dot.
func (p Platform) SharedLibExt() (string, error) {
	switch p {
	case Windows:
		return "dll", nil
	case Darwin:
		return "dylib", nil
	case Linux:
		return "so", nil
	}
	return "", errors.WithHint(
		errors.Mark(errors.Newf("no shared library naming for platform %q", p), errors.ErrUnknownPlatform),
		"supported platforms are windows, darwin and linux")
}

// ArtifactName returns stem + "." + the platform's shared library extension,
// e.g. "libaurex.so" on Linux.
func ArtifactName(p Platform, stem string) (string, error) {
	if stem == "" {
		return "", errors.New("library name is empty")
	}
	ext, err := p.SharedLibExt()
	if err != nil {
		return "", err
	}
	return stem + "." + ext, nil
}

// Resolver computes the artifact location for one host.
type Resolver struct {
	Platform Platform
	LibName  string
}

// NewResolver returns a Resolver for p. An empty libName selects
// DefaultLibName.
func NewResolver(p Platform, libName string) *Resolver {
	if libName == "" {
		libName = DefaultLibName
	}
	return &Resolver{Platform: p, LibName: libName}
}

// Resolve returns the artifact file name.
func (r *Resolver) Resolve() (string, error) {
	return ArtifactName(r.Platform, r.LibName)
}

// Path returns the artifact path inside the build output directory.
func (r *Resolver) Path(outputDir string) (string, error) {
	name, err := r.Resolve()
	if err != nil {
		return "", err
	}
	return filepath.Join(outputDir, name), nil
}
