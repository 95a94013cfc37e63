package parser

import (
	"strings"

	"github.com/okranek/muninn/internal/wikilink"
)

// Reference is one outgoing reference found in a document's body.
type Reference struct {
	wikilink.Match

	// Line is the 1-indexed line in the full document.
	Line int
}

// ExtractRefs scans body content for wikilink references, skipping fenced
// code blocks and inline code spans. References inside code are never
// indexed and never rewritten. startLine is the 1-indexed line the body
// begins at in the full document.
func ExtractRefs(body string, startLine int) []Reference {
	var refs []Reference
	var fence FenceState

	for i, line := range strings.Split(body, "\n") {
		if fence.UpdateFenceState(line) {
			continue
		}
		if fence.InFence {
			continue
		}

		scannable := RemoveInlineCode(line)
		for _, m := range wikilink.FindAllInLine(scannable) {
			// Restore the literal from the original line; RemoveInlineCode
			// preserves positions.
			m.Literal = line[m.Start:m.End]
			refs = append(refs, Reference{
				Match: m,
				Line:  startLine + i,
			})
		}
	}

	return refs
}
