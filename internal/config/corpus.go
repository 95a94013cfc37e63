package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/okranek/muninn/internal/parser"
	"github.com/okranek/muninn/internal/paths"
)

// CorpusConfigFile is the corpus-level config filename.
const CorpusConfigFile = "muninn.yaml"

// ErrConfiguration indicates an invalid convention table or corpus config.
// Fatal and pre-flight: nothing is planned or mutated after it.
var ErrConfiguration = errors.New("configuration error")

// CorpusConfig represents corpus-level configuration from muninn.yaml.
type CorpusConfig struct {
	// Directories maps a declared note type to its expected directory.
	// Missing entries fall back to the defaults (type name as directory).
	Directories map[string]string `yaml:"directories,omitempty"`

	// BackupDir overrides where snapshots are stored. Must be an absolute
	// path outside the corpus root; defaults to a "<root>-backups" sibling.
	BackupDir string `yaml:"backup_dir,omitempty"`
}

// LoadCorpusConfig reads muninn.yaml from the corpus root.
// A missing file yields an empty config, not an error.
func LoadCorpusConfig(root string) (*CorpusConfig, error) {
	cfg := &CorpusConfig{}
	path := filepath.Join(root, CorpusConfigFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrConfiguration, CorpusConfigFile, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrConfiguration, CorpusConfigFile, err)
	}

	if cfg.BackupDir != "" {
		if !filepath.IsAbs(cfg.BackupDir) {
			return nil, fmt.Errorf("%w: backup_dir must be an absolute path, got %q", ErrConfiguration, cfg.BackupDir)
		}
		// A backup directory inside the corpus would make a snapshot copy
		// itself into itself.
		if err := paths.ValidateWithinCorpus(root, cfg.BackupDir); err == nil {
			return nil, fmt.Errorf("%w: backup_dir %q is inside the corpus root", ErrConfiguration, cfg.BackupDir)
		}
	}

	return cfg, nil
}

// DefaultDirectories returns the built-in type→directory table.
func DefaultDirectories() map[parser.NoteType]string {
	table := make(map[parser.NoteType]string, len(parser.KnownTypes))
	for _, t := range parser.KnownTypes {
		table[t] = string(t) + "/"
	}
	return table
}

// ConventionTable resolves the effective type→directory table: defaults
// overlaid with the configured entries. Keys that are not a known note type,
// or directories that escape the corpus, are configuration errors.
func (cc *CorpusConfig) ConventionTable() (map[parser.NoteType]string, error) {
	table := DefaultDirectories()

	for key, dir := range cc.Directories {
		t := parser.ParseNoteType(key)
		if t == parser.TypeUnknown {
			return nil, fmt.Errorf("%w: unrecognized type %q in directories table", ErrConfiguration, key)
		}
		norm := paths.NormalizeDirRoot(dir)
		if norm == "" {
			return nil, fmt.Errorf("%w: empty directory for type %q", ErrConfiguration, key)
		}
		if paths.IsSystemRel(norm) {
			return nil, fmt.Errorf("%w: directory %q for type %q is in system space", ErrConfiguration, dir, key)
		}
		table[t] = norm
	}

	return table, nil
}
