package navtree

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
)

// fallbackSlug is used when heading text has no letters or digits.
const fallbackSlug = "heading"

// Slugify folds text into a URL-safe anchor id without deduplication.
func Slugify(text string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingDash = true
		}
	}
	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

// Slugger generates unique slugs for one document. Calling Slug twice with
// the same text yields "text" and then "text-1".
//
// A Slugger also satisfies goldmark's parser.IDs, so the ids goldmark writes
// on rendered headings follow the same scheme as the sidebar anchors.
type Slugger struct {
	occurrences map[string]int
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{occurrences: make(map[string]int)}
}

// Slug returns the next unique slug for text.
func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	slug := base
	for {
		if _, taken := s.occurrences[slug]; !taken {
			break
		}
		s.occurrences[base]++
		slug = base + "-" + strconv.Itoa(s.occurrences[base])
	}
	s.occurrences[slug] = 0
	return slug
}

// Generate implements parser.IDs.
func (s *Slugger) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(s.Slug(string(value)))
}

// Put implements parser.IDs. Explicit ids are reserved so later headings
// cannot collide with them.
func (s *Slugger) Put(value []byte) {
	if _, taken := s.occurrences[string(value)]; !taken {
		s.occurrences[string(value)] = 0
	}
}
