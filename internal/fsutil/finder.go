// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"path/filepath"
)

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Locate searches for a file referenced as `name`. The directory of the
// referencing file is tried first, then each search path in order. The first
// match wins. The second return value lists every candidate path that was
// tried, for diagnostics when nothing matched.
func Locate(name string, fromDir string, searchPaths []string) (string, []string) {
	var attempted []string

	candidate := name
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(fromDir, name)
	}
	attempted = append(attempted, candidate)
	if FileExists(candidate) {
		return candidate, attempted
	}

	if !filepath.IsAbs(name) {
		for _, dir := range searchPaths {
			candidate = filepath.Join(dir, name)
			attempted = append(attempted, candidate)
			if FileExists(candidate) {
				return candidate, attempted
			}
		}
	}

	return "", attempted
}

// Canonical returns an absolute, cleaned form of path, suitable as a map key
// for visit tracking. Symlinks are resolved when possible so the same file
// reached through two spellings shares one canonical form.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return filepath.Clean(abs), nil
}
