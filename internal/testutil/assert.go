package testutil

import (
	"os"
	"path/filepath"
	"strings"
)

// AssertFileExists fails the test if the file does not exist.
func (c *TestCorpus) AssertFileExists(relPath string) {
	c.t.Helper()
	if _, err := os.Stat(filepath.Join(c.Path, relPath)); os.IsNotExist(err) {
		c.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (c *TestCorpus) AssertFileNotExists(relPath string) {
	c.t.Helper()
	if _, err := os.Stat(filepath.Join(c.Path, relPath)); err == nil {
		c.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (c *TestCorpus) AssertFileContains(relPath, substr string) {
	c.t.Helper()
	content := c.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		c.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}
