package content

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// ParseHeadings returns every heading of src in document order.
func ParseHeadings(md goldmark.Markdown, src []byte) []navtree.Heading {
	doc := md.Parser().Parse(text.NewReader(src))

	var headings []navtree.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, navtree.Heading{
			Depth: h.Level,
			Type:  navtree.HeadingType,
			Text:  HeadingText(h, src),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// Title returns the text of the first level-1 heading.
func Title(headings []navtree.Heading) string {
	for _, h := range headings {
		if h.Depth == 1 && h.Text != "" {
			return h.Text
		}
	}
	return ""
}

// HeadingText flattens inline content to plain text: emphasis, code spans
// and link labels keep their text, raw HTML is dropped.
func HeadingText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
