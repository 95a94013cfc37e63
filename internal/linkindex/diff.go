package linkindex

import "sort"

// Change records a per-reference resolution status change between two index
// snapshots. References are keyed by (source identity, literal, occurrence)
// so the pairing survives directory moves, which change paths but not
// identities or content.
type Change struct {
	Source  string `json:"source"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
	Before  Status `json:"before"`
	After   Status `json:"after"`
}

type refKey struct {
	source  string
	literal string
	n       int // occurrence index within the source document
}

func keyed(ix *Index) map[refKey]Reference {
	seen := make(map[refKey]int)
	out := make(map[refKey]Reference, len(ix.References))
	for _, r := range ix.References {
		base := refKey{source: r.Source, literal: r.Literal}
		k := base
		k.n = seen[base]
		seen[base]++
		out[k] = r
	}
	return out
}

// Diff compares two index snapshots and returns every reference whose
// resolution status changed. References present only on one side are
// reported with the missing side's status empty.
func Diff(before, after *Index) []Change {
	b := keyed(before)
	a := keyed(after)

	var changes []Change
	for k, br := range b {
		ar, ok := a[k]
		if !ok {
			changes = append(changes, Change{Source: br.Source, Literal: br.Literal, Line: br.Line, Before: br.Status})
			continue
		}
		if br.Status != ar.Status {
			changes = append(changes, Change{Source: br.Source, Literal: br.Literal, Line: ar.Line, Before: br.Status, After: ar.Status})
		}
	}
	for k, ar := range a {
		if _, ok := b[k]; !ok {
			changes = append(changes, Change{Source: ar.Source, Literal: ar.Literal, Line: ar.Line, After: ar.Status})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Source != changes[j].Source {
			return changes[i].Source < changes[j].Source
		}
		if changes[i].Line != changes[j].Line {
			return changes[i].Line < changes[j].Line
		}
		return changes[i].Literal < changes[j].Literal
	})
	return changes
}

// NewlyBroken filters a diff down to references that were resolved before
// and are not resolved after, the regressions a move run must never cause.
func NewlyBroken(changes []Change) []Change {
	var broken []Change
	for _, ch := range changes {
		if ch.Before == StatusResolved && ch.After != StatusResolved {
			broken = append(broken, ch)
		}
	}
	return broken
}
