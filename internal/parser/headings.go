package parser

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading represents a parsed heading.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-indexed
}

// ExtractHeadings extracts headings from markdown content using goldmark.
// startLine is the 1-indexed line the content begins at in the full document
// (after frontmatter).
func ExtractHeadings(content string, startLine int) []Heading {
	var headings []Heading

	md := goldmark.New()
	reader := text.NewReader([]byte(content))
	doc := md.Parser().Parse(reader)

	lineStarts := computeLineStarts(content)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var textBuilder strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				textBuilder.Write(textNode.Segment.Value([]byte(content)))
			}
		}

		headingText := strings.TrimSpace(textBuilder.String())
		if headingText == "" {
			return ast.WalkContinue, nil
		}

		line := startLine
		if heading.Lines().Len() > 0 {
			offset := heading.Lines().At(0).Start
			line = startLine + offsetToLine(lineStarts, offset)
		}

		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  headingText,
			Line:  line,
		})
		return ast.WalkContinue, nil
	})

	return headings
}

// HasHeading reports whether any heading matches anchor, case-insensitively.
func HasHeading(headings []Heading, anchor string) bool {
	want := strings.ToLower(strings.TrimSpace(anchor))
	for _, h := range headings {
		if strings.ToLower(h.Text) == want {
			return true
		}
	}
	return false
}

func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, ch := range content {
		if ch == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func offsetToLine(lineStarts []int, offset int) int {
	// First line start greater than offset; the line index is one before it.
	i := sort.SearchInts(lineStarts, offset+1)
	return i - 1
}
