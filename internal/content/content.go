// Package content loads a directory of markdown pages into the node tree
// the sidebar is rendered from, together with each page's headings.
package content

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/text/language"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

var (
	// ErrNotFound is returned when no page exists for a route.
	ErrNotFound = errors.New("page not found")
	// ErrNoPages is returned when a docs directory holds no markdown.
	ErrNoPages = errors.New("no markdown pages found")
)

// Page is one markdown document.
type Page struct {
	Route      string            `json:"route"`
	RelPath    string            `json:"rel_path"`
	SourcePath string            `json:"-"`
	Title      string            `json:"title"`
	Headings   []navtree.Heading `json:"headings,omitempty"`
	Locale     language.Tag      `json:"-"`
}

// Source reads the page's markdown.
func (p *Page) Source() ([]byte, error) {
	data, err := os.ReadFile(p.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p.RelPath, err)
	}
	return data, nil
}

// Anchors returns the heading texts listed under the page in the sidebar.
func (p *Page) Anchors() []string {
	return navtree.AnchorTexts(p.Headings)
}

// Site is the loaded content of one locale.
type Site struct {
	Locale language.Tag
	Dirs   navtree.Directories

	pages map[string]*Page
	order []*Page
}

func newSite(tag language.Tag) *Site {
	return &Site{Locale: tag, pages: make(map[string]*Page)}
}

func (s *Site) add(p *Page) {
	key := navtree.NormalizeRoute(p.Route)
	if _, dup := s.pages[key]; dup {
		return
	}
	s.pages[key] = p
	s.order = append(s.order, p)
}

// Page returns the page displayed at route. Fragments are ignored.
func (s *Site) Page(route string) (*Page, error) {
	p, ok := s.pages[navtree.NormalizeRoute(navtree.StripFragment(route))]
	if !ok {
		return nil, fmt.Errorf("%s: %w", route, ErrNotFound)
	}
	return p, nil
}

// Pages lists every page in tree order.
func (s *Site) Pages() []*Page {
	return append([]*Page(nil), s.order...)
}

// Frame builds the render frame for currentPath. Unknown paths yield a
// frame without anchors, which renders a tree with nothing active.
func (s *Site) Frame(currentPath string, active navtree.ActiveAnchors) navtree.Frame {
	f := navtree.Frame{CurrentPath: currentPath, ActiveAnchors: active}
	if p, err := s.Page(currentPath); err == nil {
		f.Anchors = p.Anchors()
	}
	return f
}
