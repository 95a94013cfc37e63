// Package parser handles parsing markdown documents: frontmatter metadata,
// reference extraction, and heading extraction.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// NoteType is the declared classification of a document.
type NoteType string

const (
	TypePermanent  NoteType = "permanent"
	TypeFleeting   NoteType = "fleeting"
	TypeLiterature NoteType = "literature"
	TypeMOC        NoteType = "moc"

	// TypeUnknown covers missing, malformed, and unrecognized declarations.
	// Unknown documents are reported but never moved on a guess.
	TypeUnknown NoteType = "unknown"
)

// KnownTypes lists every movable note type.
var KnownTypes = []NoteType{TypePermanent, TypeFleeting, TypeLiterature, TypeMOC}

// ParseNoteType maps a raw frontmatter value to a NoteType.
// Anything unrecognized becomes TypeUnknown, an explicit testable branch
// rather than a silent fallthrough.
func ParseNoteType(raw string) NoteType {
	switch NoteType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypePermanent:
		return TypePermanent
	case TypeFleeting:
		return TypeFleeting
	case TypeLiterature:
		return TypeLiterature
	case TypeMOC:
		return TypeMOC
	default:
		return TypeUnknown
	}
}

// Frontmatter represents parsed frontmatter data.
type Frontmatter struct {
	// Type is the declared note type, TypeUnknown if missing or unrecognized.
	Type NoteType

	// RawType is the literal type value as written, for reporting.
	RawType string

	// Fields are all other frontmatter fields, passed through untyped.
	Fields map[string]interface{}

	// Raw is the raw frontmatter content.
	Raw string

	// EndLine is the line where frontmatter ends (1-indexed).
	EndLine int
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}
	return 0, -1, true
}

// ParseFrontmatter parses YAML frontmatter from markdown content.
// Returns nil if no (closed) frontmatter is found.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	lines := strings.Split(content, "\n")

	_, endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return nil, nil
	}

	raw := strings.Join(lines[1:endLine], "\n")

	var yamlData map[string]interface{}
	if err := yaml.Unmarshal([]byte(raw), &yamlData); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}

	// YAML can decode an empty document (or comments/whitespace only) into a
	// nil map. We still consider this "frontmatter present" because it affects
	// body line offsets.
	if yamlData == nil {
		yamlData = map[string]interface{}{}
	}

	fm := &Frontmatter{
		Type:    TypeUnknown,
		Raw:     raw,
		EndLine: endLine + 1, // +1 for 1-indexed lines
		Fields:  make(map[string]interface{}),
	}

	for key, value := range yamlData {
		if key == "type" {
			if s, ok := value.(string); ok {
				fm.RawType = s
				fm.Type = ParseNoteType(s)
			}
			continue
		}
		fm.Fields[key] = value
	}

	return fm, nil
}
