package collection

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Slugify converts a single path segment the way GitHub anchors headings:
// lowercased, punctuation and symbols removed, spaces replaced by hyphens.
// Letters outside ASCII are kept.
func Slugify(segment string) string {
	var sb strings.Builder
	for _, r := range lower.String(segment) {
		switch {
		case r == ' ':
			sb.WriteByte('-')
		case r == '-' || r == '_':
			sb.WriteRune(r)
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// DefaultSlug derives the slug of an entry from its ID. The extension is
// dropped, each segment is slugified and a trailing "/index" is removed so
// that "guides/index.md" and "guides.md" share the slug "guides".
func DefaultSlug(id string) string {
	id = strings.TrimSuffix(id, path.Ext(id))
	segments := strings.Split(id, "/")
	for i, s := range segments {
		segments[i] = Slugify(s)
	}
	return strings.TrimSuffix(strings.Join(segments, "/"), "/index")
}
