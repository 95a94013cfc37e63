package linkindex

import (
	"context"
	"testing"

	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/testutil"
)

func buildIndex(t *testing.T, tc *testutil.TestCorpus) (*corpus.Corpus, *Index) {
	t.Helper()
	c, err := corpus.Load(tc.Path)
	if err != nil {
		t.Fatalf("failed to load corpus: %v", err)
	}
	ix, err := Build(context.Background(), c)
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	return c, ix
}

func TestBuildResolves(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("fleeting/Inbox Capture.md", "fleeting", "see [[Evergreen Notes]] and [[evergreen notes]]").
		WithNote("Evergreen Notes.md", "permanent", "body").
		Build()

	_, ix := buildIndex(t, tc)

	if len(ix.References) != 2 {
		t.Fatalf("expected 2 references, got %d", len(ix.References))
	}
	for _, r := range ix.References {
		if r.Status != StatusResolved {
			t.Fatalf("reference %q status=%q, want resolved", r.Literal, r.Status)
		}
		if r.TargetPath != "Evergreen Notes.md" {
			t.Fatalf("target path=%q", r.TargetPath)
		}
	}
	if ix.ResolvedCount() != 2 || ix.UnresolvedCount() != 0 {
		t.Fatalf("counts resolved=%d unresolved=%d", ix.ResolvedCount(), ix.UnresolvedCount())
	}
}

func TestBuildUnresolved(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("a.md", "permanent", "[[Nowhere To Be Found]]").
		Build()

	_, ix := buildIndex(t, tc)
	if len(ix.References) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(ix.References))
	}
	if ix.References[0].Status != StatusUnresolved {
		t.Fatalf("status=%q, want unresolved", ix.References[0].Status)
	}
	if ix.UnresolvedCount() != 1 {
		t.Fatalf("unresolved=%d", ix.UnresolvedCount())
	}
}

func TestBuildAmbiguous(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("fleeting/Project Plan.md", "fleeting", "x").
		WithNote("permanent/project plan.md", "permanent", "y").
		WithNote("moc/Index.md", "moc", "[[Project Plan]]").
		Build()

	_, ix := buildIndex(t, tc)

	var found bool
	for _, r := range ix.References {
		if r.Target == "Project Plan" {
			found = true
			if r.Status != StatusAmbiguous {
				t.Fatalf("status=%q, want ambiguous", r.Status)
			}
			if r.TargetPath != "" {
				t.Fatalf("ambiguous reference must not pick a target, got %q", r.TargetPath)
			}
		}
	}
	if !found {
		t.Fatal("reference to Project Plan not indexed")
	}
}

func TestBuildAnchorMissing(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("Deep Work.md", "literature", "## Chapter 2\n").
		WithNote("notes.md", "permanent", "[[Deep Work#Chapter 2]] and [[Deep Work#Chapter 9]]").
		Build()

	_, ix := buildIndex(t, tc)

	byAnchor := make(map[string]Reference)
	for _, r := range ix.References {
		byAnchor[r.Anchor] = r
	}

	ok := byAnchor["Chapter 2"]
	if ok.Status != StatusResolved || ok.AnchorMissing {
		t.Fatalf("Chapter 2: %+v", ok)
	}

	missing := byAnchor["Chapter 9"]
	if missing.Status != StatusResolved {
		t.Fatalf("missing anchor must not break resolution: %+v", missing)
	}
	if !missing.AnchorMissing {
		t.Fatalf("expected AnchorMissing for Chapter 9: %+v", missing)
	}
}

func TestBuildDeterministicOrder(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("b.md", "permanent", "[[a]]\n[[c]]").
		WithNote("a.md", "permanent", "[[b]]").
		WithNote("c.md", "permanent", "x").
		Build()

	_, first := buildIndex(t, tc)
	for i := 0; i < 5; i++ {
		_, again := buildIndex(t, tc)
		if len(again.References) != len(first.References) {
			t.Fatalf("reference count changed between builds")
		}
		for j := range first.References {
			if first.References[j] != again.References[j] {
				t.Fatalf("ordering not deterministic at %d: %+v vs %+v", j, first.References[j], again.References[j])
			}
		}
	}
	for i := 1; i < len(first.References); i++ {
		prev, cur := first.References[i-1], first.References[i]
		if prev.SourcePath > cur.SourcePath {
			t.Fatalf("references not sorted by source path: %q after %q", cur.SourcePath, prev.SourcePath)
		}
	}
}

func TestSuggestions(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("Smart Notes.md", "permanent", "x").
		WithNote("other.md", "permanent", "[[smart-notes]]").
		Build()

	_, ix := buildIndex(t, tc)

	got := ix.Suggestions("smart-notes")
	if len(got) != 1 || got[0] != "Smart Notes" {
		t.Fatalf("suggestions=%v", got)
	}

	// An exact (case-insensitive) hit is not a suggestion.
	if s := ix.Suggestions("smart notes"); len(s) != 0 {
		t.Fatalf("expected no suggestions for resolvable target, got %v", s)
	}
}
