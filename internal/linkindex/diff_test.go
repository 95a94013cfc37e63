package linkindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okranek/muninn/internal/testutil"
)

func TestDiffNoChange(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("a.md", "permanent", "[[b]]").
		WithNote("b.md", "permanent", "x").
		Build()

	_, before := buildIndex(t, tc)
	_, after := buildIndex(t, tc)

	if ch := Diff(before, after); len(ch) != 0 {
		t.Fatalf("expected empty diff, got %v", ch)
	}
}

func TestDiffSurvivesMove(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("Inbox Capture.md", "fleeting", "see [[Evergreen Notes]]").
		WithNote("Evergreen Notes.md", "permanent", "x").
		Build()

	_, before := buildIndex(t, tc)

	// Relocate the target; identity resolution is path-independent.
	tc.WriteFile("permanent/Evergreen Notes.md", tc.ReadFile("Evergreen Notes.md"))
	if err := removeFile(tc.Path, "Evergreen Notes.md"); err != nil {
		t.Fatalf("failed to move note: %v", err)
	}

	_, after := buildIndex(t, tc)

	changes := Diff(before, after)
	if len(changes) != 0 {
		t.Fatalf("move must not change resolution: %v", changes)
	}
	if broken := NewlyBroken(changes); len(broken) != 0 {
		t.Fatalf("unexpected regressions: %v", broken)
	}
}

func TestDiffDetectsRegression(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("a.md", "permanent", "[[Target Note]]").
		WithNote("Target Note.md", "permanent", "x").
		Build()

	_, before := buildIndex(t, tc)

	if err := removeFile(tc.Path, "Target Note.md"); err != nil {
		t.Fatalf("failed to remove note: %v", err)
	}

	_, after := buildIndex(t, tc)

	changes := Diff(before, after)
	broken := NewlyBroken(changes)
	if len(broken) != 1 {
		t.Fatalf("expected 1 regression, got %v", broken)
	}
	if broken[0].Source != "a" || broken[0].Before != StatusResolved || broken[0].After != StatusUnresolved {
		t.Fatalf("regression=%+v", broken[0])
	}
}

func TestDiffRepeatedLiteral(t *testing.T) {
	tc := testutil.NewTestCorpus(t).
		WithNote("a.md", "permanent", "[[b]] once\n[[b]] twice").
		WithNote("b.md", "permanent", "x").
		Build()

	_, before := buildIndex(t, tc)
	_, after := buildIndex(t, tc)

	// Occurrence indexing keeps the two identical literals distinct.
	if ch := Diff(before, after); len(ch) != 0 {
		t.Fatalf("expected empty diff, got %v", ch)
	}
}

func removeFile(root, rel string) error {
	return os.Remove(filepath.Join(root, rel))
}
