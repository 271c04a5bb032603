package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"path"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/navtree"
)

// PageRenderer converts page markdown to HTML. Heading ids are produced by
// the same slugger the sidebar anchors use.
type PageRenderer struct {
	md             goldmark.Markdown
	policy         *bluemonday.Policy
	highlightStyle string
}

// NewPageRenderer returns a PageRenderer. sanitize strips markup that is
// not safe for user-generated content.
func NewPageRenderer(highlightStyle string, sanitize bool) *PageRenderer {
	if highlightStyle == "" {
		highlightStyle = "github"
	}
	r := &PageRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle(highlightStyle),
					highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
				),
			),
			goldmark.WithParserOptions(
				parser.WithASTTransformers(
					util.Prioritized(headingIDs{}, 100),
					util.Prioritized(mdLinks{}, 100),
				),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		highlightStyle: highlightStyle,
	}
	if sanitize {
		r.policy = newPolicy()
	}
	return r
}

// newPolicy allows user-generated content plus the ids and classes the
// heading anchors and code highlighting rely on.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
}

// Render converts src to HTML. links, if non-nil, rewrites the
// destination of every link to a markdown file.
func (r *PageRenderer) Render(src []byte, links func(dest string) string) (template.HTML, error) {
	ctx := parser.NewContext(parser.WithIDs(navtree.NewSlugger()))
	if links != nil {
		ctx.Set(linksKey, links)
	}

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	out := buf.Bytes()
	if r.policy != nil {
		out = r.policy.SanitizeBytes(out)
	}
	return template.HTML(out), nil
}

// WriteHighlightCSS writes the stylesheet for highlighted code blocks.
func (r *PageRenderer) WriteHighlightCSS(w io.Writer) error {
	style := styles.Get(r.highlightStyle)
	return chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, style)
}

// headingIDs gives every heading an id derived from its flattened text.
// Level-2 headings are slugged in a run of their own, the same run the
// sidebar anchors come from (navtree.AnchorTexts, navtree.ResolveAnchors),
// so the two always agree. Other levels are slugged afterwards around the
// ids already taken.
type headingIDs struct{}

func (headingIDs) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	src := reader.Source()

	var anchors, others []*ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if _, has := h.AttributeString("id"); has {
			return ast.WalkSkipChildren, nil
		}
		if h.Level == 2 && content.HeadingText(h, src) != "" {
			anchors = append(anchors, h)
		} else {
			others = append(others, h)
		}
		return ast.WalkSkipChildren, nil
	})

	ids := pc.IDs()
	slugger := navtree.NewSlugger()
	for _, h := range anchors {
		id := slugger.Slug(content.HeadingText(h, src))
		ids.Put([]byte(id))
		h.SetAttribute([]byte("id"), []byte(id))
	}
	for _, h := range others {
		h.SetAttribute([]byte("id"), ids.Generate([]byte(content.HeadingText(h, src)), ast.KindHeading))
	}
}

var linksKey = parser.NewContextKey()

// mdLinks points links to markdown files at the pages generated from them.
type mdLinks struct{}

func (mdLinks) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	links, ok := pc.Get(linksKey).(func(string) string)
	if !ok {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if l, ok := n.(*ast.Link); ok && entering {
			l.Destination = []byte(links(string(l.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

// PageLinks resolves markdown links found in the page at relPath to the
// routes they render at, then hands them to link. Other destinations are
// returned unchanged.
func PageLinks(relPath string, link LinkFunc) func(dest string) string {
	return func(dest string) string {
		if isExternal(dest) {
			return dest
		}
		target, fragment := dest, ""
		if i := strings.IndexByte(dest, '#'); i >= 0 {
			target, fragment = dest[:i], dest[i:]
		}
		if !strings.HasSuffix(target, ".md") {
			return dest
		}
		route := target
		if !strings.HasPrefix(route, "/") {
			route = path.Join("/", path.Dir(relPath), route)
		}
		route = strings.TrimSuffix(route, ".md")
		if route == "/index" {
			route = "/"
		}
		route = strings.TrimSuffix(route, "/index")
		return link(route + fragment)
	}
}
