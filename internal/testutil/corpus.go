// Package testutil provides reusable test utilities for Muninn tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// TestCorpus represents a temporary corpus for testing.
type TestCorpus struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestCorpus creates a new test corpus builder.
// Call Build() to create the actual corpus directory.
func NewTestCorpus(t *testing.T) *TestCorpus {
	t.Helper()
	return &TestCorpus{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the corpus. The path is relative to the root.
func (c *TestCorpus) WithFile(path, content string) *TestCorpus {
	c.files[path] = content
	return c
}

// WithNote adds a markdown note with a type declaration and body.
func (c *TestCorpus) WithNote(path, noteType, body string) *TestCorpus {
	content := body
	if noteType != "" {
		content = fmt.Sprintf("---\ntype: %s\n---\n%s", noteType, body)
	}
	return c.WithFile(path, content)
}

// WithConfig sets the muninn.yaml content for the corpus.
func (c *TestCorpus) WithConfig(yaml string) *TestCorpus {
	return c.WithFile("muninn.yaml", yaml)
}

// Build creates the corpus directory and all configured files.
func (c *TestCorpus) Build() *TestCorpus {
	c.t.Helper()
	c.Path = c.t.TempDir()
	for path, content := range c.files {
		c.writeFile(path, content)
	}
	return c
}

// WriteFile writes a file into the built corpus, creating directories as
// needed.
func (c *TestCorpus) WriteFile(relPath, content string) {
	c.t.Helper()
	c.writeFile(relPath, content)
}

func (c *TestCorpus) writeFile(relPath, content string) {
	c.t.Helper()
	fullPath := filepath.Join(c.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		c.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		c.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}

// ReadFile reads a file from the corpus.
func (c *TestCorpus) ReadFile(relPath string) string {
	c.t.Helper()
	content, err := os.ReadFile(filepath.Join(c.Path, relPath))
	if err != nil {
		c.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the corpus.
func (c *TestCorpus) FileExists(relPath string) bool {
	c.t.Helper()
	_, err := os.Stat(filepath.Join(c.Path, relPath))
	return err == nil
}
