// Package corpus models the managed document set as an explicit value:
// a root path plus the parsed documents under it. Components take a *Corpus
// at construction so independent runs (and tests) share no process state.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/okranek/muninn/internal/parser"
)

// SystemDir is the in-corpus directory for engine state (lock, history).
const SystemDir = ".muninn"

// ErrRootNotFound indicates the corpus root does not exist. Fatal pre-flight.
var ErrRootNotFound = errors.New("corpus root not found")

// ReadError records a per-document failure. Read errors are isolated and
// aggregated; they never abort processing of the rest of the corpus.
type ReadError struct {
	RelPath string
	Err     error
}

func (e ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.RelPath, e.Err)
}

// Corpus is the full set of managed documents under one root.
type Corpus struct {
	Root       string
	Documents  []*parser.Document
	ReadErrors []ReadError
}

// Load walks root and parses every markdown document. Dot-directories
// (.muninn, .git, ...) are skipped entirely. Per-file errors are collected
// into ReadErrors.
func Load(root string) (*Corpus, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	c := &Corpus{Root: absRoot}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		relPath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			relPath = path
		}

		if err != nil {
			c.ReadErrors = append(c.ReadErrors, ReadError{RelPath: relPath, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".md") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			c.ReadErrors = append(c.ReadErrors, ReadError{RelPath: relPath, Err: err})
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			c.ReadErrors = append(c.ReadErrors, ReadError{RelPath: relPath, Err: err})
			return nil
		}

		doc, err := parser.ParseDocument(string(content), path, absRoot)
		if err != nil {
			c.ReadErrors = append(c.ReadErrors, ReadError{RelPath: relPath, Err: err})
			return nil
		}
		doc.ModTime = info.ModTime()

		c.Documents = append(c.Documents, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// ByRelPath returns the document at a corpus-relative path, or nil.
func (c *Corpus) ByRelPath(relPath string) *parser.Document {
	for _, doc := range c.Documents {
		if doc.RelPath == relPath {
			return doc
		}
	}
	return nil
}

// SystemPath returns an absolute path inside the corpus system directory,
// creating the directory if needed.
func (c *Corpus) SystemPath(name string) (string, error) {
	dir := filepath.Join(c.Root, SystemDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", SystemDir, err)
	}
	return filepath.Join(dir, name), nil
}
