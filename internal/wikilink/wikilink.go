// Package wikilink provides canonical parsing/scanning of Muninn wikilinks.
//
// Wikilink grammar:
//
//	[[target]]
//	[[target|display text]]
//	[[target#heading]]
//	![[target]]            (embed/transclusion)
//
// Targets may contain spaces and punctuation, but not '[', ']', '|' or '#'.
// This package intentionally does NOT understand markdown code fences;
// higher-level parsers decide whether scanning is enabled for a given region.
package wikilink

import (
	"regexp"
	"strings"
)

// Kind classifies the shape of a reference.
type Kind string

const (
	KindSimple  Kind = "simple"
	KindAliased Kind = "aliased"
	KindHeading Kind = "heading"
	KindEmbed   Kind = "embed"
)

// Match represents a wikilink found in a string (typically a single line).
type Match struct {
	Target  string
	Anchor  string // heading anchor, without '#'
	Display string // alias display text
	Kind    Kind
	Start   int
	End     int
	Literal string
}

// re matches [[target]], [[target#anchor]], [[target|display]] and the
// embed form with a leading '!'. The target cannot contain brackets to
// avoid matching array syntax like [[[ref]]].
var re = regexp.MustCompile(`(!?)\[\[([^\]\[|#]+)(?:#([^\]\[|]+))?(?:\|([^\]]+))?\]\]`)

// classify derives the reference kind. Embed wins over the other shapes;
// alias wins over anchor so [[t#h|d]] reports as aliased.
func classify(embed bool, anchor, display string) Kind {
	switch {
	case embed:
		return KindEmbed
	case display != "":
		return KindAliased
	case anchor != "":
		return KindHeading
	default:
		return KindSimple
	}
}

// ParseExact parses a string that is exactly a wikilink literal.
func ParseExact(s string) (Match, bool) {
	s = strings.TrimSpace(s)
	m := re.FindStringSubmatchIndex(s)
	if m == nil || m[0] != 0 || m[1] != len(s) {
		return Match{}, false
	}
	return matchAt(s, m, 0), true
}

// FindAllInLine finds wikilinks in a single line.
//
// Matches preceded by '[' are skipped to avoid array syntax like [[[ref]]].
func FindAllInLine(line string) []Match {
	var out []Match
	for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
		start := m[0]
		if start > 0 && line[start-1] == '[' {
			continue
		}
		match := matchAt(line, m, start)
		if match.Target == "" {
			continue
		}
		out = append(out, match)
	}
	return out
}

func matchAt(s string, m []int, start int) Match {
	embed := m[3] > m[2] // '!' group non-empty
	target := strings.TrimSpace(s[m[4]:m[5]])

	var anchor, display string
	if m[6] >= 0 {
		anchor = strings.TrimSpace(s[m[6]:m[7]])
	}
	if m[8] >= 0 {
		display = strings.TrimSpace(s[m[8]:m[9]])
	}

	return Match{
		Target:  target,
		Anchor:  anchor,
		Display: display,
		Kind:    classify(embed, anchor, display),
		Start:   start,
		End:     m[1],
		Literal: s[start:m[1]],
	}
}
