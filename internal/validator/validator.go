// Package validator decides pass/rollback after a move run. It is a pure
// function of two link-index snapshots and never touches the filesystem.
package validator

import (
	"fmt"

	"github.com/okranek/muninn/internal/linkindex"
)

// Report is the verdict over a pre/post index pair.
type Report struct {
	ResolvedBefore int `json:"resolved_before"`
	ResolvedAfter  int `json:"resolved_after"`

	// NewlyBroken lists references that resolved before the run and do not
	// resolve after it.
	NewlyBroken []linkindex.Change `json:"newly_broken,omitempty"`

	// Pass is false only when resolution regressed. Pre-existing dangling
	// references are tolerated: the gate is strict non-regression, not
	// "zero dangling links".
	Pass bool `json:"pass"`
}

// Summary renders a one-line human verdict.
func (r Report) Summary() string {
	if r.Pass {
		return fmt.Sprintf("validation passed: %d resolved before, %d after", r.ResolvedBefore, r.ResolvedAfter)
	}
	return fmt.Sprintf("validation failed: resolved references dropped %d -> %d (%d newly broken)",
		r.ResolvedBefore, r.ResolvedAfter, len(r.NewlyBroken))
}

// Validate compares reference resolution before and after a structural
// change. It fails only if the count of resolvable references decreased.
func Validate(before, after *linkindex.Index) Report {
	rep := Report{
		ResolvedBefore: before.ResolvedCount(),
		ResolvedAfter:  after.ResolvedCount(),
		NewlyBroken:    linkindex.NewlyBroken(linkindex.Diff(before, after)),
	}
	rep.Pass = rep.ResolvedAfter >= rep.ResolvedBefore
	return rep
}
