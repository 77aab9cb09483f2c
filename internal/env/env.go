package env

import (
	"os"
	"path/filepath"

	"github.com/aurex-audio/aurexgen/internal/errors"
)

// ManifestFile marks the root of the native library's crate.
const ManifestFile = "Cargo.toml"

// ErrNotFound is returned by FindUp when no directory contains the file.
var ErrNotFound = errors.New("not found")

// FindUp returns the path of the first file called name in start or one of
// its parents.
func FindUp(start, name string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Wrapf(ErrNotFound, "%s in %s or any parent directory", name, start)
		}
		dir = parent
	}
}

// ProjectRoot returns the directory holding the nearest Cargo.toml at or
// above start. Without one it returns start itself. An empty start means
// the working directory.
func ProjectRoot(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = wd
	}
	manifest, err := FindUp(start, ManifestFile)
	if errors.Is(err, ErrNotFound) {
		return start, nil
	}
	if err != nil {
		return "", err
	}
	return filepath.Dir(manifest), nil
}
