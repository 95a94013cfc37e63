package validator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/linkindex"
	"github.com/okranek/muninn/internal/testutil"
)

func index(t *testing.T, root string) *linkindex.Index {
	t.Helper()
	c, err := corpus.Load(root)
	if err != nil {
		t.Fatalf("failed to load corpus: %v", err)
	}
	ix, err := linkindex.Build(context.Background(), c)
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	return ix
}

func TestValidatePass(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("a.md", "permanent", "[[b]]").
		WithNote("b.md", "permanent", "x").
		Build()

	before := index(t, tc.Path)

	// Move b within the corpus; identity resolution is unaffected.
	tc.WriteFile("permanent/b.md", tc.ReadFile("b.md"))
	if err := os.Remove(filepath.Join(tc.Path, "b.md")); err != nil {
		t.Fatalf("failed to move: %v", err)
	}

	rep := Validate(before, index(t, tc.Path))
	if !rep.Pass {
		t.Fatalf("expected pass: %+v", rep)
	}
	if rep.ResolvedBefore != 1 || rep.ResolvedAfter != 1 {
		t.Fatalf("counts=%+v", rep)
	}
	if len(rep.NewlyBroken) != 0 {
		t.Fatalf("newly broken=%v", rep.NewlyBroken)
	}
	if !strings.Contains(rep.Summary(), "passed") {
		t.Fatalf("summary=%q", rep.Summary())
	}
}

func TestValidateToleratesPreexistingDangling(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("a.md", "permanent", "[[never existed]]").
		Build()

	before := index(t, tc.Path)
	rep := Validate(before, index(t, tc.Path))
	if !rep.Pass {
		t.Fatalf("pre-existing dangling references must not fail validation: %+v", rep)
	}
	if rep.ResolvedBefore != 0 || rep.ResolvedAfter != 0 {
		t.Fatalf("counts=%+v", rep)
	}
}

func TestValidateFailsOnRegression(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("a.md", "permanent", "[[b]]").
		WithNote("b.md", "permanent", "x").
		Build()

	before := index(t, tc.Path)

	if err := os.Remove(filepath.Join(tc.Path, "b.md")); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}

	rep := Validate(before, index(t, tc.Path))
	if rep.Pass {
		t.Fatalf("expected failure: %+v", rep)
	}
	if len(rep.NewlyBroken) != 1 {
		t.Fatalf("newly broken=%v", rep.NewlyBroken)
	}
	if !strings.Contains(rep.Summary(), "failed") {
		t.Fatalf("summary=%q", rep.Summary())
	}
}

func TestValidateAllowsImprovement(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("a.md", "permanent", "[[b]]").
		Build()

	before := index(t, tc.Path)
	tc.WriteFile("b.md", "---\ntype: permanent\n---\nnow exists")

	rep := Validate(before, index(t, tc.Path))
	if !rep.Pass {
		t.Fatalf("more resolved after is a pass: %+v", rep)
	}
	if rep.ResolvedAfter != 1 || rep.ResolvedBefore != 0 {
		t.Fatalf("counts=%+v", rep)
	}
}
