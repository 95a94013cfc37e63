// Package executor performs move runs. It exclusively owns filesystem
// mutation sequencing: planning and validation stay pure, and every mutation
// here happens between a verified snapshot and a post-move validation, so no
// state exists where mutation occurred and validation failed without a
// rollback having been attempted.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okranek/muninn/internal/backup"
	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/history"
	"github.com/okranek/muninn/internal/linkindex"
	"github.com/okranek/muninn/internal/planner"
	"github.com/okranek/muninn/internal/validator"
)

// State is the run state machine:
//
//	Planned -> Previewed                                  (terminal, dry-run)
//	        -> Backed-Up -> Applied -> Validated-Pass     (terminal)
//	                                -> Validated-Fail -> Rolled-Back (terminal)
type State string

const (
	StatePlanned       State = "planned"
	StatePreviewed     State = "previewed"
	StateBackedUp      State = "backed-up"
	StateApplied       State = "applied"
	StateValidatedPass State = "validated-pass"
	StateValidatedFail State = "validated-fail"
	StateRolledBack    State = "rolled-back"
)

// Result is the outcome of one executor run.
type Result struct {
	State State `json:"state"`

	Plan *planner.Plan `json:"plan"`

	// Executed are the entries actually moved (apply only).
	Executed []planner.Entry `json:"executed,omitempty"`

	// Blocked are entries withheld: planned blocks plus conflicts that
	// appeared between planning and execution.
	Blocked []planner.Entry `json:"blocked,omitempty"`

	// Backup is the snapshot created before mutation. Retained on success
	// for manual rollback; consumed by restore on failure.
	Backup backup.Handle `json:"backup,omitempty"`

	Validation validator.Report `json:"validation"`

	RolledBack    bool   `json:"rolled_back,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// Executor drives preview and apply runs over one corpus root.
type Executor struct {
	root    string
	backups *backup.Manager

	// validate gates the post-move state. Replaceable so the
	// validation-failure path stays testable; directory-only moves
	// cannot regress identity resolution on their own.
	validate func(before, after *linkindex.Index) validator.Report
}

// New creates an executor for a corpus root.
func New(root string, backups *backup.Manager) *Executor {
	return &Executor{root: root, backups: backups, validate: validator.Validate}
}

// Preview computes the full effect of a plan with zero mutation: the
// operations that would run and the link verification that would result.
// Unlocked and read-only; the result is a snapshot-in-time view.
func (e *Executor) Preview(ctx context.Context, plan *planner.Plan) (*Result, error) {
	c, err := corpus.Load(e.root)
	if err != nil {
		return nil, err
	}
	ix, err := linkindex.Build(ctx, c)
	if err != nil {
		return nil, err
	}

	// Moves are directory-only and resolution is identity-based, so the
	// post-move index is the pre-move index by construction.
	res := &Result{
		State:      StatePreviewed,
		Plan:       plan,
		Validation: e.validate(ix, ix),
	}
	for _, entry := range plan.Entries {
		if entry.Blocked {
			res.Blocked = append(res.Blocked, entry)
		}
	}
	return res, nil
}

// Apply commits a plan: lock, snapshot, move, rebuild, validate, and on
// validation failure restore the snapshot. Cancellation is honored only
// before the snapshot begins; once copying starts the run completes or
// fails outright.
func (e *Executor) Apply(ctx context.Context, plan *planner.Plan) (*Result, error) {
	started := time.Now()
	res := &Result{State: StatePlanned, Plan: plan}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	lock, err := acquireCorpusLock(e.root)
	if err != nil {
		return res, err
	}
	defer func() {
		_ = lock.Release()
	}()

	for _, entry := range plan.Entries {
		if entry.Blocked {
			res.Blocked = append(res.Blocked, entry)
		}
	}

	// An already-organized corpus plans no moves; nothing to back up,
	// mutate, or verify.
	if plan.MoveCount() == 0 {
		res.State = StateValidatedPass
		res.Validation.Pass = true
		e.record(started, res)
		return res, nil
	}

	c, err := corpus.Load(e.root)
	if err != nil {
		return res, err
	}
	before, err := linkindex.Build(ctx, c)
	if err != nil {
		return res, err
	}

	// Last cancellation point: a partially written snapshot must never be
	// offered for restore, so the copy runs to completion once started.
	if err := ctx.Err(); err != nil {
		return res, err
	}

	snap, err := e.backups.CreateSnapshot()
	if err != nil {
		return res, err
	}
	res.Backup = snap
	res.State = StateBackedUp

	if err := e.executeMoves(plan, res); err != nil {
		return e.rollback(started, res, fmt.Sprintf("move failed: %v", err))
	}
	res.State = StateApplied

	after, err := e.rebuild(ctx)
	if err != nil {
		return e.rollback(started, res, fmt.Sprintf("post-move index rebuild failed: %v", err))
	}

	res.Validation = e.validate(before, after)
	if !res.Validation.Pass {
		res.State = StateValidatedFail
		return e.rollback(started, res, res.Validation.Summary())
	}

	res.State = StateValidatedPass
	e.record(started, res)
	return res, nil
}

// Restore replaces the corpus with a snapshot's contents under the same
// exclusive lock apply runs take, so a manual restore can never interleave
// with a concurrent apply's move phase.
func (e *Executor) Restore(h backup.Handle) error {
	lock, err := acquireCorpusLock(e.root)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	return e.backups.Restore(h)
}

// executeMoves performs the non-blocked moves. Entries whose target is
// occupied by a file another entry is about to vacate run after it; entries
// whose target never frees up are blocked at execution time rather than
// overwritten.
func (e *Executor) executeMoves(plan *planner.Plan, res *Result) error {
	var pending []planner.Entry
	for _, entry := range plan.Entries {
		if !entry.Blocked {
			pending = append(pending, entry)
		}
	}

	for len(pending) > 0 {
		progressed := false
		var deferred []planner.Entry

		for _, entry := range pending {
			from := filepath.Join(e.root, filepath.FromSlash(entry.FromPath))
			to := filepath.Join(e.root, filepath.FromSlash(entry.ToPath))

			if _, err := os.Stat(from); err != nil {
				entry.Blocked = true
				entry.Reason = "source disappeared since planning"
				res.Blocked = append(res.Blocked, entry)
				progressed = true
				continue
			}
			if _, err := os.Stat(to); err == nil {
				deferred = append(deferred, entry)
				continue
			}

			if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
				return err
			}
			if err := os.Rename(from, to); err != nil {
				return err
			}
			res.Executed = append(res.Executed, entry)
			progressed = true
		}

		if !progressed {
			for _, entry := range deferred {
				entry.Blocked = true
				entry.Reason = fmt.Sprintf("target %s still occupied at execution time", entry.ToPath)
				res.Blocked = append(res.Blocked, entry)
			}
			return nil
		}
		pending = deferred
	}
	return nil
}

// rebuild constructs the post-move index over the new corpus state. The
// index is rebuilt wholesale rather than patched in place.
func (e *Executor) rebuild(ctx context.Context) (*linkindex.Index, error) {
	c, err := corpus.Load(e.root)
	if err != nil {
		return nil, err
	}
	return linkindex.Build(ctx, c)
}

// rollback restores the pre-apply snapshot. A restore failure is surfaced
// loudly with the backup handle, since it means the safety net itself is
// compromised and a human must re-inspect.
func (e *Executor) rollback(started time.Time, res *Result, reason string) (*Result, error) {
	res.FailureReason = reason

	if err := e.backups.Restore(res.Backup); err != nil {
		e.record(started, res)
		return res, fmt.Errorf("run failed (%s) and restore of snapshot %s also failed: %w", reason, res.Backup.ID, err)
	}

	res.State = StateRolledBack
	res.RolledBack = true
	e.record(started, res)
	return res, nil
}

// record appends the run to the corpus history. Best-effort: the store is
// opened after all corpus mutation has settled so a rollback cannot erase
// the row, and a history failure never fails the run.
func (e *Executor) record(started time.Time, res *Result) {
	store, err := history.Open(e.root)
	if err != nil {
		return
	}
	defer store.Close()

	_, _ = store.Record(history.Run{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Planned:    len(res.Plan.Entries),
		Executed:   len(res.Executed),
		Blocked:    len(res.Blocked),
		BackupID:   res.Backup.ID,
		Outcome:    string(res.State),
		Detail:     res.FailureReason,
	})
}
