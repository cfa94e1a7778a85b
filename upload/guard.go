package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveWithin validates path against an optional sandbox root and
// returns its canonical form.
//
// With root empty the sandbox is disabled: the path is made absolute and
// lexically cleaned, nothing on disk is consulted, and any syntactically
// resolvable path passes.
//
// With root set, both path and root are canonicalized (symlinks resolved,
// relative segments collapsed) before comparison. The path passes only if
// its canonical form equals the canonical root or is a descendant of it.
// A path that cannot be canonicalized because it does not exist is
// classified ErrNotFound; an escape is classified ErrAccessDenied.
func ResolveWithin(path, root string) (string, error) {
	if path == "" {
		return "", newError(ErrNotFound, "resolve", fmt.Errorf("empty path"))
	}

	if root == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", newError(ErrNotFound, "resolve", err)
		}
		return filepath.Clean(abs), nil
	}

	canonRoot, err := canonicalize(root)
	if err != nil {
		return "", newError(ErrConfig, "resolve", fmt.Errorf("sandbox root %q: %w", root, err))
	}

	canonPath, err := canonicalize(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", newError(ErrNotFound, "resolve", err)
		}
		return "", newError(ErrAccessDenied, "resolve", err)
	}

	if !descendantOf(canonPath, canonRoot) {
		return "", &UploadError{
			Kind:   ErrAccessDenied,
			Op:     "resolve",
			Reason: fmt.Sprintf("%s escapes sandbox root %s", path, root),
		}
	}

	return canonPath, nil
}

// canonicalize returns the absolute, symlink-resolved form of path.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// descendantOf reports whether path equals root or lies beneath it.
// Both arguments must already be canonical.
func descendantOf(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
