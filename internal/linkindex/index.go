// Package linkindex builds the resolvable reference graph over a corpus.
//
// Because moves are directory-only and identities are filename stems,
// identity-based references stay valid across a move; the index's principal
// job is verification: resolved/unresolved counts before and after a run.
// The index is rebuilt wholesale after structural change, never mutated in
// place.
package linkindex

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"

	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/parser"
)

// Status is the resolution state of a reference.
type Status string

const (
	StatusResolved   Status = "resolved"
	StatusUnresolved Status = "unresolved"

	// StatusAmbiguous means the target matched more than one document.
	// Ambiguous references are reported, never fuzzily guessed.
	StatusAmbiguous Status = "ambiguous"
)

// Reference is one resolved-or-not outgoing reference.
type Reference struct {
	Source     string `json:"source"`      // source document identity
	SourcePath string `json:"source_path"` // corpus-relative
	Line       int    `json:"line"`
	Target     string `json:"target"`
	Anchor     string `json:"anchor,omitempty"`
	Kind       string `json:"kind"`
	Literal    string `json:"literal"`
	Status     Status `json:"status"`
	TargetPath string `json:"target_path,omitempty"` // set when resolved

	// AnchorMissing is set when the target resolved but has no matching
	// heading. A warning, not a resolution failure: directory moves cannot
	// change headings.
	AnchorMissing bool `json:"anchor_missing,omitempty"`
}

// Index is the reference graph for one corpus snapshot.
type Index struct {
	docs       map[string][]*parser.Document // lowercased identity -> documents
	References []Reference
}

// Build scans every document's references and resolves them against the
// corpus. Per-document resolution has no ordering dependency, so it fans
// out across a worker group and merges per-document lists afterward; the
// identity map is read-only during the parallel phase.
func Build(ctx context.Context, c *corpus.Corpus) (*Index, error) {
	ix := &Index{docs: make(map[string][]*parser.Document)}
	for _, doc := range c.Documents {
		key := strings.ToLower(doc.Identity)
		ix.docs[key] = append(ix.docs[key], doc)
	}

	perDoc := make([][]Reference, len(c.Documents))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, doc := range c.Documents {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perDoc[i] = ix.resolveDocument(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, refs := range perDoc {
		ix.References = append(ix.References, refs...)
	}
	sort.SliceStable(ix.References, func(a, b int) bool {
		ra, rb := ix.References[a], ix.References[b]
		if ra.SourcePath != rb.SourcePath {
			return ra.SourcePath < rb.SourcePath
		}
		return ra.Line < rb.Line
	})

	return ix, nil
}

func (ix *Index) resolveDocument(doc *parser.Document) []Reference {
	refs := make([]Reference, 0, len(doc.Refs))
	for _, r := range doc.Refs {
		ref := Reference{
			Source:     doc.Identity,
			SourcePath: doc.RelPath,
			Line:       r.Line,
			Target:     r.Target,
			Anchor:     r.Anchor,
			Kind:       string(r.Kind),
			Literal:    r.Literal,
		}

		target, status := ix.Resolve(r.Target)
		ref.Status = status
		if target != nil {
			ref.TargetPath = target.RelPath
			if r.Anchor != "" && !parser.HasHeading(target.Headings, r.Anchor) {
				ref.AnchorMissing = true
			}
		}

		refs = append(refs, ref)
	}
	return refs
}

// Resolve resolves a target identity case-insensitively. Exact match only:
// zero matches is unresolved, more than one is ambiguous.
func (ix *Index) Resolve(target string) (*parser.Document, Status) {
	key := strings.ToLower(strings.TrimSpace(target))
	matches := ix.docs[key]
	switch len(matches) {
	case 0:
		return nil, StatusUnresolved
	case 1:
		return matches[0], StatusResolved
	default:
		return nil, StatusAmbiguous
	}
}

// ResolvedCount returns the number of resolvable references.
func (ix *Index) ResolvedCount() int {
	n := 0
	for _, r := range ix.References {
		if r.Status == StatusResolved {
			n++
		}
	}
	return n
}

// UnresolvedCount returns the number of references that did not resolve,
// ambiguous ones included.
func (ix *Index) UnresolvedCount() int {
	return len(ix.References) - ix.ResolvedCount()
}

// Suggestions returns identities whose slugified form matches the target,
// for "did you mean" hints on unresolved references. Never used for
// resolution itself.
func (ix *Index) Suggestions(target string) []string {
	want := slug.Make(target)
	var out []string
	for _, docs := range ix.docs {
		for _, doc := range docs {
			if slug.Make(doc.Identity) == want && !strings.EqualFold(doc.Identity, target) {
				out = append(out, doc.Identity)
			}
		}
	}
	sort.Strings(out)
	return out
}
