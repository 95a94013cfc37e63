package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/okranek/muninn/internal/atomicfile"
	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/paths"
)

// ManifestFile is the per-snapshot manifest filename, stored beside (not
// inside) the copied tree so it can never collide with a corpus file.
const ManifestFile = "manifest.json"

// Manifest records a per-file content hash for every file in a snapshot.
type Manifest struct {
	CreatedAt time.Time         `json:"created_at"`
	Files     map[string]string `json:"files"` // rel path -> sha256 hex
}

// BuildManifest hashes every file under dir (hidden files included, engine
// state under .muninn excluded to match what snapshots carry).
func BuildManifest(dir string) (*Manifest, error) {
	m := &Manifest{
		CreatedAt: time.Now().UTC(),
		Files:     make(map[string]string),
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == corpus.SystemDir {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		sum, err := hashFile(path)
		if err != nil {
			return err
		}
		m.Files[paths.NormalizeRel(rel)] = sum
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Diff returns the rel paths whose hash differs, is missing, or is extra in
// other, sorted. Empty means the trees are byte-identical.
func (m *Manifest) Diff(other *Manifest) []string {
	var out []string
	for rel, sum := range m.Files {
		osum, ok := other.Files[rel]
		if !ok || osum != sum {
			out = append(out, rel)
		}
	}
	for rel := range other.Files {
		if _, ok := m.Files[rel]; !ok {
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out
}

func writeManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(path, data, 0o644)
}

func readManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Files == nil {
		m.Files = map[string]string{}
	}
	return m, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
