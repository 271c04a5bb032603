package navtree

import "strings"

// HeadingType is the node type heading descriptors carry for real headings.
const HeadingType = "heading"

// anchorDepth is the heading level listed under the active page.
const anchorDepth = 2

// Heading describes one heading of a document.
type Heading struct {
	Depth int    `json:"depth"`
	Type  string `json:"type"`
	Text  string `json:"text"`
}

// AnchorEntry is one in-page link target.
type AnchorEntry struct {
	Text string `json:"text"`
	Slug string `json:"slug"`
}

// AnchorState is the scroll tracker's view of one anchor.
type AnchorState struct {
	IsActive bool `json:"isActive"`
}

// ActiveAnchors maps slugs to their scroll state. It is supplied from
// outside and only read here.
type ActiveAnchors map[string]AnchorState

// ActiveAnchorsOf marks the given slugs active.
func ActiveAnchorsOf(slugs ...string) ActiveAnchors {
	out := make(ActiveAnchors, len(slugs))
	for _, s := range slugs {
		out[s] = AnchorState{IsActive: true}
	}
	return out
}

// AnchorTexts keeps the level-2 headings with non-empty text, in order.
func AnchorTexts(headings []Heading) []string {
	var texts []string
	for _, h := range headings {
		if h.Depth != anchorDepth || h.Type != HeadingType {
			continue
		}
		text := strings.TrimSpace(h.Text)
		if text == "" {
			continue
		}
		texts = append(texts, text)
	}
	return texts
}

// ResolvedAnchors is the anchor list of the active page.
type ResolvedAnchors struct {
	Entries     []AnchorEntry `json:"entries"`
	ActiveIndex int           `json:"active_index"`
}

// ResolveAnchors slugs texts with a fresh Slugger and finds the highlighted
// entry. If several entries report active the last one wins; if none does,
// the first entry is highlighted.
func ResolveAnchors(texts []string, signal ActiveAnchors) ResolvedAnchors {
	slugger := NewSlugger()
	res := ResolvedAnchors{Entries: make([]AnchorEntry, 0, len(texts))}
	for i, text := range texts {
		slug := slugger.Slug(text)
		if signal[slug].IsActive {
			res.ActiveIndex = i
		}
		res.Entries = append(res.Entries, AnchorEntry{Text: text, Slug: slug})
	}
	return res
}
