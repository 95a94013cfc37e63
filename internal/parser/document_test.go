package parser

import (
	"testing"
)

func TestParseDocument(t *testing.T) {
	content := `---
type: permanent
---
# Evergreen Notes

Links to [[Zettelkasten]] and [[Deep Work#Chapter 2|the focus book]].

` + "```" + `
[[inside a fence]]
` + "```" + `

And ` + "`[[inline code]]`" + ` does not count.
`
	doc, err := ParseDocument(content, "/corpus/permanent/Evergreen Notes.md", "/corpus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Identity != "Evergreen Notes" {
		t.Fatalf("identity=%q", doc.Identity)
	}
	if doc.RelPath != "permanent/Evergreen Notes.md" {
		t.Fatalf("rel path=%q", doc.RelPath)
	}
	if doc.Type != TypePermanent {
		t.Fatalf("type=%q", doc.Type)
	}

	if len(doc.Refs) != 2 {
		t.Fatalf("expected 2 refs, got %d: %+v", len(doc.Refs), doc.Refs)
	}
	if doc.Refs[0].Target != "Zettelkasten" {
		t.Fatalf("ref[0] target=%q", doc.Refs[0].Target)
	}
	if doc.Refs[1].Target != "Deep Work" || doc.Refs[1].Anchor != "Chapter 2" {
		t.Fatalf("ref[1]=%+v", doc.Refs[1])
	}
}

func TestParseDocumentRefLines(t *testing.T) {
	content := "---\ntype: fleeting\n---\nfirst body line\nsee [[Target]]\n"
	doc, err := ParseDocument(content, "/c/note.md", "/c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(doc.Refs))
	}
	// Frontmatter occupies lines 1-3, body starts at line 4.
	if doc.Refs[0].Line != 5 {
		t.Fatalf("ref line=%d, want 5", doc.Refs[0].Line)
	}
}

func TestParseDocumentNoFrontmatter(t *testing.T) {
	doc, err := ParseDocument("# Inbox\n\n[[Someday]]\n", "/c/Inbox.md", "/c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Frontmatter != nil {
		t.Fatal("expected nil frontmatter")
	}
	if doc.Type != TypeUnknown {
		t.Fatalf("type=%q, want unknown", doc.Type)
	}
	if len(doc.Refs) != 1 || doc.Refs[0].Line != 3 {
		t.Fatalf("refs=%+v", doc.Refs)
	}
}

func TestParseDocumentHeadings(t *testing.T) {
	content := "---\ntype: literature\n---\n# Deep Work\n\n## Chapter 2\n"
	doc, err := ParseDocument(content, "/c/Deep Work.md", "/c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !HasHeading(doc.Headings, "Chapter 2") {
		t.Fatalf("expected Chapter 2 heading, got %+v", doc.Headings)
	}
	if !HasHeading(doc.Headings, "chapter 2") {
		t.Fatal("heading lookup should be case-insensitive")
	}
	if HasHeading(doc.Headings, "Chapter 3") {
		t.Fatal("unexpected heading match")
	}
}
