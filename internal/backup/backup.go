// Package backup creates, restores, and prunes immutable timestamped
// snapshots of a corpus. Snapshots live in a sibling tree outside the live
// corpus and carry a per-file content-hash manifest; a snapshot either
// completes whole or leaves nothing behind.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/okranek/muninn/internal/corpus"
)

var (
	// ErrBackup covers snapshot creation failures: destination collision,
	// insufficient storage, copy errors. Fatal; raised before any corpus
	// mutation.
	ErrBackup = errors.New("backup error")

	// ErrRollback covers restore failures, including manifest hash
	// mismatches. Fatal and loud: it means the safety net itself is
	// compromised. The live corpus is left untouched.
	ErrRollback = errors.New("rollback error")
)

// treeDir is the subdirectory holding the copied corpus within a snapshot.
const treeDir = "tree"

const handlePrefix = "snap-"

// Handle addresses one immutable snapshot.
type Handle struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager owns snapshot storage for one corpus root.
type Manager struct {
	root string
	dir  string
}

// NewManager creates a backup manager. dir is the snapshot storage
// directory; empty means the "<root>-backups" sibling of the corpus root.
func NewManager(root, dir string) *Manager {
	if dir == "" {
		dir = strings.TrimRight(root, string(filepath.Separator)) + "-backups"
	}
	return &Manager{root: root, dir: dir}
}

// Dir returns the snapshot storage directory.
func (m *Manager) Dir() string { return m.dir }

// CreateSnapshot copies the entire corpus (hidden configuration included,
// engine state under .muninn excluded) into a uniquely timestamped snapshot
// and writes its manifest. Any failure removes the partial snapshot
// entirely; no partial snapshot is ever left behind for restore.
func (m *Manager) CreateSnapshot() (Handle, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Handle{}, fmt.Errorf("%w: failed to create backup directory: %v", ErrBackup, err)
	}

	id, dest, err := m.claimHandle()
	if err != nil {
		return Handle{}, err
	}

	tmp := filepath.Join(m.dir, ".tmp-"+id)
	if err := os.MkdirAll(filepath.Join(tmp, treeDir), 0o755); err != nil {
		return Handle{}, fmt.Errorf("%w: %v", ErrBackup, err)
	}

	discard := func(err error) (Handle, error) {
		_ = os.RemoveAll(tmp)
		return Handle{}, fmt.Errorf("%w: %v", ErrBackup, err)
	}

	if err := copyTree(m.root, filepath.Join(tmp, treeDir)); err != nil {
		return discard(err)
	}

	manifest, err := BuildManifest(filepath.Join(tmp, treeDir))
	if err != nil {
		return discard(fmt.Errorf("failed to hash snapshot: %v", err))
	}
	if err := writeManifest(filepath.Join(tmp, ManifestFile), manifest); err != nil {
		return discard(fmt.Errorf("failed to write manifest: %v", err))
	}

	// Commit. A collision here means someone claimed the handle since we
	// checked; surface it rather than overwrite.
	if _, err := os.Stat(dest); err == nil {
		return discard(fmt.Errorf("snapshot destination %s already exists", dest))
	}
	if err := os.Rename(tmp, dest); err != nil {
		return discard(err)
	}

	return Handle{ID: id, Path: dest, CreatedAt: manifest.CreatedAt}, nil
}

// claimHandle picks a timestamped snapshot id that does not collide.
// Snapshots within the same second get a numeric suffix; exhausting the
// suffix space is a collision failure.
func (m *Manager) claimHandle() (string, string, error) {
	base := handlePrefix + time.Now().UTC().Format("20060102-150405")
	for i := 0; i < 10; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dest := filepath.Join(m.dir, id)
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			return id, dest, nil
		}
	}
	return "", "", fmt.Errorf("%w: snapshot destination collides: %s", ErrBackup, base)
}

// Restore replaces the live corpus with a snapshot's contents. Before
// touching the corpus it re-hashes the snapshot tree against the manifest;
// on mismatch it fails with ErrRollback and leaves the live corpus
// untouched; corruption detection must not itself cause data loss.
func (m *Manager) Restore(h Handle) error {
	tree := filepath.Join(h.Path, treeDir)
	if _, err := os.Stat(tree); err != nil {
		return fmt.Errorf("%w: snapshot %s not found: %v", ErrRollback, h.ID, err)
	}

	manifest, err := readManifest(filepath.Join(h.Path, ManifestFile))
	if err != nil {
		return fmt.Errorf("%w: snapshot %s: %v", ErrRollback, h.ID, err)
	}

	current, err := BuildManifest(tree)
	if err != nil {
		return fmt.Errorf("%w: failed to hash snapshot %s: %v", ErrRollback, h.ID, err)
	}
	if diff := manifest.Diff(current); len(diff) > 0 {
		return fmt.Errorf("%w: snapshot %s manifest mismatch (%s); live corpus untouched",
			ErrRollback, h.ID, strings.Join(diff, ", "))
	}

	// Snapshot verified; replace the live corpus wholesale. Engine state
	// under .muninn (the held corpus lock, run history) is not corpus
	// content and survives the restore.
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRollback, err)
	}
	for _, e := range entries {
		if e.Name() == corpus.SystemDir {
			continue
		}
		if err := os.RemoveAll(filepath.Join(m.root, e.Name())); err != nil {
			return fmt.Errorf("%w: %v", ErrRollback, err)
		}
	}
	if err := copyTree(tree, m.root); err != nil {
		return fmt.Errorf("%w: %v", ErrRollback, err)
	}

	return nil
}

// ListSnapshots returns handles newest-first.
func (m *Manager) ListSnapshots() ([]Handle, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var handles []Handle
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), handlePrefix) {
			continue
		}
		h := Handle{ID: e.Name(), Path: filepath.Join(m.dir, e.Name())}
		if manifest, err := readManifest(filepath.Join(h.Path, ManifestFile)); err == nil {
			h.CreatedAt = manifest.CreatedAt
		}
		handles = append(handles, h)
	}

	// Handle ids embed their UTC timestamp, so lexical order is creation
	// order; same-second suffixes sort after the bare id.
	sort.Slice(handles, func(i, j int) bool {
		return handles[i].ID > handles[j].ID
	})
	return handles, nil
}

// Snapshot returns the handle with the given id.
func (m *Manager) Snapshot(id string) (Handle, error) {
	handles, err := m.ListSnapshots()
	if err != nil {
		return Handle{}, err
	}
	for _, h := range handles {
		if h.ID == id {
			return h, nil
		}
	}
	return Handle{}, fmt.Errorf("snapshot not found: %s", id)
}

// Prune deletes all but the keepN most recent snapshots and returns the
// deleted handles. With dryRun it only reports what would be deleted.
func (m *Manager) Prune(keepN int, dryRun bool) ([]Handle, error) {
	if keepN < 0 {
		keepN = 0
	}
	handles, err := m.ListSnapshots()
	if err != nil {
		return nil, err
	}
	if len(handles) <= keepN {
		return nil, nil
	}

	victims := handles[keepN:]
	if dryRun {
		return victims, nil
	}
	for _, h := range victims {
		if err := os.RemoveAll(h.Path); err != nil {
			return nil, fmt.Errorf("failed to prune snapshot %s: %w", h.ID, err)
		}
	}
	return victims, nil
}

// copyTree copies every file under src into dst, preserving relative paths
// and file modes. dst must exist. The .muninn engine directory is never
// copied in either direction.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() && d.Name() == corpus.SystemDir {
			return filepath.SkipDir
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
