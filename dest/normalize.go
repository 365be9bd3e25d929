package dest

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrOutsideVolume is returned when a destination cannot be expressed
// relative to the output root, e.g. when it is on another Windows volume.
var ErrOutsideVolume = errors.New("destination is not reachable from the output root")

// ErrEmptyKey is returned when a destination denotes the output root itself.
var ErrEmptyKey = errors.New("destination resolves to the output root")

// Normalize maps p to a key relative to outputRoot. Relative paths are
// anchored at the output root, a relative output root is anchored at
// workingDir. Destinations outside of the output root produce keys starting
// with "../". Keys always use forward slashes and never denote the output
// root itself.
func Normalize(p, outputRoot, workingDir string) (string, error) {
	root := filepath.Clean(outputRoot)
	if !filepath.IsAbs(root) {
		root = filepath.Join(workingDir, root)
	}

	abs := filepath.FromSlash(p)
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}

	rel, err := filepath.Rel(root, filepath.Clean(abs))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideVolume, err)
	}
	if rel == "." {
		return "", fmt.Errorf("%w: %q", ErrEmptyKey, p)
	}
	return filepath.ToSlash(rel), nil
}
