// Package digest fingerprints a directory tree by content.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/aurex-audio/aurexgen/internal/errors"
)

// Dir returns the hex sha256 over the sorted relative paths and contents of
// all regular files under root. Timestamps and permissions are ignored, so
// two runs that write identical bindings produce identical digests.
func Dir(root string) (string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "walk %s", root)
	}
	sort.Strings(files)

	h := sha256.New()
	for _, rel := range files {
		if err := hashFile(h, root, rel); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(h io.Writer, root, rel string) error {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return errors.Wrapf(err, "open %s", rel)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	// path NUL size NUL content keeps record boundaries unambiguous.
	io.WriteString(h, rel)
	h.Write([]byte{0})
	io.WriteString(h, strconv.FormatInt(info.Size(), 10))
	h.Write([]byte{0})
	if _, err := io.Copy(h, f); err != nil {
		return errors.Wrapf(err, "read %s", rel)
	}
	return nil
}
