package history

import (
	"testing"
	"time"

	"github.com/okranek/muninn/internal/testutil"
)

func TestRecordAndRecent(t *testing.T) {
	tc := testutil.NewTestCorpus(t).Build()

	store, err := Open(tc.Path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	started := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	id, err := store.Record(Run{
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Planned:    3,
		Executed:   2,
		Blocked:    1,
		BackupID:   "snap-20260314-092653",
		Outcome:    "validated-pass",
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a row id")
	}

	if _, err := store.Record(Run{
		StartedAt:  started.Add(time.Hour),
		FinishedAt: started.Add(time.Hour + time.Second),
		Planned:    1,
		Outcome:    "rolled-back",
		Detail:     "move failed",
	}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	runs, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Outcome != "rolled-back" || runs[1].Outcome != "validated-pass" {
		t.Fatalf("not newest-first: %+v", runs)
	}
	if runs[1].Planned != 3 || runs[1].Executed != 2 || runs[1].Blocked != 1 {
		t.Fatalf("counts=%+v", runs[1])
	}
	if !runs[1].StartedAt.Equal(started) {
		t.Fatalf("started=%v, want %v", runs[1].StartedAt, started)
	}
	if runs[1].BackupID != "snap-20260314-092653" {
		t.Fatalf("backup id=%q", runs[1].BackupID)
	}
}

func TestRecentLimit(t *testing.T) {
	tc := testutil.NewTestCorpus(t).Build()

	store, err := Open(tc.Path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	for i := 0; i < 5; i++ {
		if _, err := store.Record(Run{
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
			Outcome:    "validated-pass",
		}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	runs, err := store.Recent(2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}

func TestOpenIsReentrant(t *testing.T) {
	tc := testutil.NewTestCorpus(t).Build()

	store, err := Open(tc.Path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if _, err := store.Record(Run{StartedAt: time.Now(), FinishedAt: time.Now(), Outcome: "validated-pass"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	store.Close()

	// Reopening sees the existing rows.
	store, err = Open(tc.Path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer store.Close()

	runs, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run after reopen, got %d", len(runs))
	}
}
