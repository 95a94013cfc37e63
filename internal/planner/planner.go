// Package planner computes deterministic move plans from the gap between a
// document's declared type and the directory it lives in. Planning is pure
// and read-only; only the executor mutates the corpus.
package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/parser"
	"github.com/okranek/muninn/internal/paths"
)

// Entry is one planned move: a document whose current directory disagrees
// with the convention table for its declared type.
type Entry struct {
	Identity string          `json:"identity"`
	Type     parser.NoteType `json:"type"`
	FromPath string          `json:"from"` // corpus-relative
	ToPath   string          `json:"to"`   // corpus-relative
	Reason   string          `json:"reason"`

	// Blocked marks a move withheld from execution because its destination
	// conflicts. Blocked entries still appear in every report.
	Blocked bool `json:"blocked,omitempty"`
}

// Skipped records a document excluded from planning, with why.
type Skipped struct {
	Identity string `json:"identity"`
	Path     string `json:"path"`
	RawType  string `json:"raw_type,omitempty"`
	Reason   string `json:"reason"`
}

// Plan is the full move plan for one corpus snapshot. Ephemeral: recomputed
// per run, never persisted.
type Plan struct {
	Root    string    `json:"root"`
	Entries []Entry   `json:"entries"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// MoveCount returns the number of executable (non-blocked) entries.
func (p *Plan) MoveCount() int {
	n := 0
	for _, e := range p.Entries {
		if !e.Blocked {
			n++
		}
	}
	return n
}

// BlockedCount returns the number of blocked entries.
func (p *Plan) BlockedCount() int {
	return len(p.Entries) - p.MoveCount()
}

// Empty reports whether the plan has no entries at all. Re-planning an
// already-organized corpus must yield an empty plan.
func (p *Plan) Empty() bool {
	return len(p.Entries) == 0
}

// Compute builds the move plan for a corpus against a type→directory table.
//
// Documents with an unknown type are skipped and reported, never moved on a
// guess. Entries are sorted by current path so identical input always yields
// an identical plan. A target that collides with a file not itself being
// moved, or that two entries share, marks the entries blocked.
func Compute(c *corpus.Corpus, table map[parser.NoteType]string) (*Plan, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("empty convention table")
	}

	plan := &Plan{Root: c.Root}

	for _, doc := range c.Documents {
		if paths.IsSystemRel(doc.RelPath) {
			continue
		}

		if doc.Type == parser.TypeUnknown {
			reason := "missing type declaration"
			if doc.RawType != "" {
				reason = fmt.Sprintf("unrecognized type %q", doc.RawType)
			}
			plan.Skipped = append(plan.Skipped, Skipped{
				Identity: doc.Identity,
				Path:     doc.RelPath,
				RawType:  doc.RawType,
				Reason:   reason,
			})
			continue
		}

		dir, ok := table[doc.Type]
		if !ok {
			plan.Skipped = append(plan.Skipped, Skipped{
				Identity: doc.Identity,
				Path:     doc.RelPath,
				RawType:  doc.RawType,
				Reason:   fmt.Sprintf("no directory configured for type %q", doc.Type),
			})
			continue
		}

		want := paths.NormalizeRel(dir + filepath.Base(doc.RelPath))
		if err := paths.ValidateWithinCorpus(c.Root, filepath.Join(c.Root, filepath.FromSlash(want))); err != nil {
			return nil, fmt.Errorf("target %s for type %q: %w", want, doc.Type, err)
		}
		if doc.RelPath == want {
			continue
		}

		plan.Entries = append(plan.Entries, Entry{
			Identity: doc.Identity,
			Type:     doc.Type,
			FromPath: doc.RelPath,
			ToPath:   want,
			Reason:   fmt.Sprintf("declared %s, filed under %s", doc.Type, displayDir(doc.RelPath)),
		})
	}

	sort.Slice(plan.Entries, func(i, j int) bool {
		return plan.Entries[i].FromPath < plan.Entries[j].FromPath
	})
	sort.Slice(plan.Skipped, func(i, j int) bool {
		return plan.Skipped[i].Path < plan.Skipped[j].Path
	})

	markBlocked(plan)
	return plan, nil
}

// markBlocked flags destination conflicts. Two kinds: a target shared by
// multiple entries (all of them blocked), and a target occupied by a file
// that is not itself being moved away in this plan.
func markBlocked(plan *Plan) {
	targets := make(map[string][]int)
	vacating := make(map[string]bool)
	for i, e := range plan.Entries {
		targets[e.ToPath] = append(targets[e.ToPath], i)
		vacating[e.FromPath] = true
	}

	for to, idxs := range targets {
		if len(idxs) > 1 {
			for _, i := range idxs {
				plan.Entries[i].Blocked = true
				plan.Entries[i].Reason = fmt.Sprintf("target %s claimed by %d planned moves", to, len(idxs))
			}
			continue
		}

		i := idxs[0]
		abs := filepath.Join(plan.Root, filepath.FromSlash(to))
		if _, err := os.Stat(abs); err == nil && !vacating[to] {
			plan.Entries[i].Blocked = true
			plan.Entries[i].Reason = fmt.Sprintf("target %s already exists", to)
		}
	}
}

func displayDir(relPath string) string {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	if dir == "." {
		return "corpus root"
	}
	return dir + "/"
}
