package planner

import (
	"errors"
	"testing"

	"github.com/okranek/muninn/internal/config"
	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/parser"
	"github.com/okranek/muninn/internal/paths"
	"github.com/okranek/muninn/internal/testutil"
)

func computePlan(t *testing.T, tc *testutil.TestCorpus) *Plan {
	t.Helper()
	c, err := corpus.Load(tc.Path)
	if err != nil {
		t.Fatalf("failed to load corpus: %v", err)
	}
	plan, err := Compute(c, config.DefaultDirectories())
	if err != nil {
		t.Fatalf("failed to compute plan: %v", err)
	}
	return plan
}

func TestComputeMisfiled(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("fleeting/Evergreen Notes.md", "permanent", "body").
		WithNote("fleeting/Inbox Capture.md", "fleeting", "in place").
		Build()

	plan := computePlan(t, tc)

	if len(plan.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %+v", plan.Entries)
	}
	e := plan.Entries[0]
	if e.FromPath != "fleeting/Evergreen Notes.md" {
		t.Fatalf("from=%q", e.FromPath)
	}
	if e.ToPath != "permanent/Evergreen Notes.md" {
		t.Fatalf("to=%q", e.ToPath)
	}
	if e.Blocked {
		t.Fatal("entry should not be blocked")
	}
	if plan.MoveCount() != 1 || plan.BlockedCount() != 0 {
		t.Fatalf("counts moves=%d blocked=%d", plan.MoveCount(), plan.BlockedCount())
	}
}

func TestComputeOrganizedCorpusIsEmpty(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("permanent/a.md", "permanent", "x").
		WithNote("fleeting/b.md", "fleeting", "y").
		WithNote("literature/c.md", "literature", "z").
		WithNote("moc/d.md", "moc", "w").
		Build()

	plan := computePlan(t, tc)
	if !plan.Empty() {
		t.Fatalf("expected empty plan, got %+v", plan.Entries)
	}
}

func TestComputeDeterministicOrder(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("z-last.md", "permanent", "x").
		WithNote("a-first.md", "permanent", "y").
		WithNote("middle/m.md", "moc", "z").
		Build()

	for i := 0; i < 3; i++ {
		plan := computePlan(t, tc)
		if len(plan.Entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(plan.Entries))
		}
		if plan.Entries[0].FromPath != "a-first.md" ||
			plan.Entries[1].FromPath != "middle/m.md" ||
			plan.Entries[2].FromPath != "z-last.md" {
			t.Fatalf("entries not sorted by source path: %+v", plan.Entries)
		}
	}
}

func TestComputeSkipsUnknownType(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("untyped.md", "", "no frontmatter").
		WithNote("odd.md", "evergreen", "unrecognized").
		Build()

	plan := computePlan(t, tc)
	if len(plan.Entries) != 0 {
		t.Fatalf("unknown types must never be moved: %+v", plan.Entries)
	}
	if len(plan.Skipped) != 2 {
		t.Fatalf("expected 2 skipped, got %+v", plan.Skipped)
	}
	if plan.Skipped[0].Path != "odd.md" || plan.Skipped[0].RawType != "evergreen" {
		t.Fatalf("skipped[0]=%+v", plan.Skipped[0])
	}
	if plan.Skipped[1].Path != "untyped.md" || plan.Skipped[1].Reason != "missing type declaration" {
		t.Fatalf("skipped[1]=%+v", plan.Skipped[1])
	}
}

func TestComputeBlocksSharedTarget(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("fleeting/Project Plan.md", "permanent", "x").
		WithNote("literature/Project Plan.md", "permanent", "y").
		Build()

	plan := computePlan(t, tc)
	if len(plan.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", plan.Entries)
	}
	for _, e := range plan.Entries {
		if !e.Blocked {
			t.Fatalf("expected both entries blocked, got %+v", e)
		}
	}
	if plan.MoveCount() != 0 || plan.BlockedCount() != 2 {
		t.Fatalf("counts moves=%d blocked=%d", plan.MoveCount(), plan.BlockedCount())
	}
}

func TestComputeBlocksOccupiedTarget(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("fleeting/duplicate.md", "permanent", "mover").
		WithFile("permanent/duplicate.md", "squatter, no frontmatter").
		Build()

	plan := computePlan(t, tc)
	if len(plan.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %+v", plan.Entries)
	}
	if !plan.Entries[0].Blocked {
		t.Fatalf("expected blocked entry, got %+v", plan.Entries[0])
	}
}

func TestComputeAllowsVacatedTarget(t *testing.T) {
	// Each target is occupied on disk, but its occupant is itself moving
	// away in the same plan, so neither entry is blocked.
	tc := testutil.NewTestCorpus(t).
		WithNote("permanent/swap.md", "fleeting", "going to fleeting").
		WithNote("fleeting/swap.md", "permanent", "going to permanent").
		Build()

	plan := computePlan(t, tc)
	if len(plan.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", plan.Entries)
	}
	for _, e := range plan.Entries {
		if e.Blocked {
			t.Fatalf("vacated target must not block: %+v", e)
		}
	}
}

func TestComputeRejectsEscapingTarget(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("moc/Index.md", "moc", "x").
		Build()

	c, err := corpus.Load(tc.Path)
	if err != nil {
		t.Fatalf("failed to load corpus: %v", err)
	}

	table := config.DefaultDirectories()
	table[parser.TypeMOC] = "../elsewhere/"
	if _, err := Compute(c, table); !errors.Is(err, paths.ErrPathOutsideCorpus) {
		t.Fatalf("expected ErrPathOutsideCorpus, got %v", err)
	}
}

func TestComputeCustomTable(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("literature/Deep Work.md", "literature", "x").
		Build()

	cfg := &config.CorpusConfig{Directories: map[string]string{"literature": "sources"}}
	table, err := cfg.ConventionTable()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, err := corpus.Load(tc.Path)
	if err != nil {
		t.Fatalf("failed to load corpus: %v", err)
	}
	plan, err := Compute(c, table)
	if err != nil {
		t.Fatalf("failed to compute plan: %v", err)
	}
	if len(plan.Entries) != 1 || plan.Entries[0].ToPath != "sources/Deep Work.md" {
		t.Fatalf("entries=%+v", plan.Entries)
	}
}
