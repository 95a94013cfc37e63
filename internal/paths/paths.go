// Package paths provides canonical helpers for corpus-relative paths.
//
// All planning and reporting uses slash-normalized paths relative to the
// corpus root; only the executor and backup manager touch absolute paths.
package paths

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathOutsideCorpus indicates a path escapes the corpus root.
var ErrPathOutsideCorpus = errors.New("path is outside corpus")

// NormalizeDirRoot normalizes a directory root to have no leading slash and
// exactly one trailing slash (unless empty).
func NormalizeDirRoot(root string) string {
	root = filepath.ToSlash(strings.TrimSpace(root))
	root = strings.Trim(root, "/")
	if root == "" {
		return ""
	}
	return root + "/"
}

// NormalizeRel normalizes a corpus-relative path-like value: OS separators
// become '/', leading "./" and "/" are trimmed, repeated '/' collapse.
func NormalizeRel(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// Identity derives a document identity from a corpus-relative path:
// the filename stem, directory-independent.
func Identity(relPath string) string {
	base := filepath.Base(filepath.ToSlash(relPath))
	return strings.TrimSuffix(base, ".md")
}

// ValidateWithinCorpus verifies target is inside root. The target need not
// exist; its parent chain is checked lexically after Abs cleaning.
func ValidateWithinCorpus(root, target string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if absTarget == absRoot {
		return nil
	}
	if !strings.HasPrefix(absTarget, absRoot+string(filepath.Separator)) {
		return ErrPathOutsideCorpus
	}
	return nil
}

// IsSystemRel reports whether a corpus-relative path is inside system space
// (dot-directories such as .muninn or .git) and must never be planned or moved.
func IsSystemRel(relPath string) bool {
	rel := NormalizeRel(relPath)
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." {
			return true
		}
	}
	return false
}
