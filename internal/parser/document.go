package parser

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/okranek/muninn/internal/paths"
)

// Document is one parsed corpus document. Identity is the filename stem and
// is directory-independent; moves change RelPath but never Identity.
type Document struct {
	// Identity is the stable resolution key (filename stem).
	Identity string

	// Path is the absolute file path.
	Path string

	// RelPath is the corpus-relative, slash-normalized path.
	RelPath string

	// Type is the declared note type (TypeUnknown when undeclared).
	Type NoteType

	// RawType is the literal declared value, for reporting.
	RawType string

	// Frontmatter is nil when the document has none.
	Frontmatter *Frontmatter

	// Content is the full raw content.
	Content string

	// Refs are the outgoing references found in the body.
	Refs []Reference

	// Headings are the body headings, used to verify heading anchors.
	Headings []Heading

	// ModTime is the file's last-modified time.
	ModTime time.Time
}

// ParseDocument parses a document's content. path is absolute, root is the
// corpus root; both are only used to derive RelPath and Identity.
func ParseDocument(content, path, root string) (*Document, error) {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		relPath = path
	}
	relPath = paths.NormalizeRel(relPath)

	doc := &Document{
		Identity: paths.Identity(relPath),
		Path:     path,
		RelPath:  relPath,
		Type:     TypeUnknown,
		Content:  content,
	}

	fm, err := ParseFrontmatter(content)
	if err != nil {
		return nil, err
	}

	body := content
	bodyStart := 1
	if fm != nil {
		doc.Frontmatter = fm
		doc.Type = fm.Type
		doc.RawType = fm.RawType
		lines := strings.Split(content, "\n")
		if fm.EndLine < len(lines) {
			body = strings.Join(lines[fm.EndLine:], "\n")
		} else {
			body = ""
		}
		bodyStart = fm.EndLine + 1
	}

	doc.Refs = ExtractRefs(body, bodyStart)
	doc.Headings = ExtractHeadings(body, bodyStart)

	return doc, nil
}
