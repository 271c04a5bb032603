package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/ziadkadry99/docnav/internal/content"
	"github.com/ziadkadry99/docnav/internal/navtree"
)

// Rendering modes of the client script.
const (
	ModeStatic = "static"
	ModeServer = "server"
)

// LocaleLink is one entry of the language switcher.
type LocaleLink struct {
	Name    string
	Href    string
	Current bool
}

// PageRequest describes one page to lay out.
type PageRequest struct {
	Site     *content.Site
	Page     *content.Page
	Renderer *navtree.Renderer
	Frame    navtree.Frame

	Mode     string
	BasePath string
	APIBase  string
	Link     LinkFunc
	Locales  []LocaleLink
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title            string
	ProjectName      string
	Lang             string
	Content          template.HTML
	Route            string
	Mode             string
	BasePath         string
	APIBase          string
	HomeHref         string
	DefaultCollapsed bool
	Desktop          []*sidebarItem
	Mobile           []*sidebarItem
	TOC              *navtree.ResolvedAnchors
	Locales          []LocaleLink
}

// Layout renders full pages and sidebar fragments.
type Layout struct {
	ProjectName string

	pages   *PageRenderer
	page    *template.Template
	sidebar *template.Template
}

// NewLayout parses the page templates.
func NewLayout(projectName string, pages *PageRenderer) (*Layout, error) {
	sidebar, err := template.New("sidebar").Parse(sidebarTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing sidebar template: %w", err)
	}
	page, err := template.Must(sidebar.Clone()).New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Layout{ProjectName: projectName, pages: pages, page: page, sidebar: sidebar}, nil
}

// Pages returns the markdown renderer.
func (l *Layout) Pages() *PageRenderer { return l.pages }

// Assets returns the files every page links to, keyed by file name.
func (l *Layout) Assets() (map[string][]byte, error) {
	var css bytes.Buffer
	if err := l.pages.WriteHighlightCSS(&css); err != nil {
		return nil, fmt.Errorf("writing highlight css: %w", err)
	}
	return map[string][]byte{
		"style.css":     []byte(cssContent),
		"script.js":     []byte(jsContent),
		"highlight.css": css.Bytes(),
	}, nil
}

// RenderPage writes the full HTML page for req.
func (l *Layout) RenderPage(w io.Writer, req PageRequest) error {
	src, err := req.Page.Source()
	if err != nil {
		return err
	}
	body, err := l.pages.Render(src, PageLinks(req.Page.RelPath, req.Link))
	if err != nil {
		return err
	}

	desktop, mobile := l.items(req)
	data := pageData{
		Title:            req.Page.Title,
		ProjectName:      l.ProjectName,
		Lang:             langOf(req.Site),
		Content:          body,
		Route:            req.Page.Route,
		Mode:             req.Mode,
		BasePath:         req.BasePath,
		APIBase:          req.APIBase,
		HomeHref:         req.Link("/"),
		DefaultCollapsed: req.Renderer.Options().DefaultMenuCollapsed,
		Desktop:          desktop,
		Mobile:           mobile,
		Locales:          req.Locales,
	}
	if req.Renderer.Options().FloatTOC && len(req.Frame.Anchors) > 0 {
		toc := navtree.ResolveAnchors(req.Frame.Anchors, req.Frame.ActiveAnchors)
		data.TOC = &toc
	}
	return l.page.ExecuteTemplate(w, "page", data)
}

// RenderSidebar writes the sidebar markup of one view.
func (l *Layout) RenderSidebar(w io.Writer, view navtree.View, req PageRequest) error {
	desktop, mobile := l.items(req)
	items := desktop
	if view == navtree.ViewMobile {
		items = mobile
	}
	return l.sidebar.ExecuteTemplate(w, "items", items)
}

func (l *Layout) items(req PageRequest) (desktop, mobile []*sidebarItem) {
	sb := req.Renderer.Sidebar(req.Site.Dirs, req.Frame)

	desktopAnchors := req.Frame.Anchors
	if req.Renderer.Options().FloatTOC {
		desktopAnchors = nil
	}
	desktop = sidebarItems(req.Site.Dirs.Pruned, sb.Desktop, req.Frame, desktopAnchors, req.Renderer, req.Link)
	mobile = sidebarItems(req.Site.Dirs.Full, sb.Mobile, req.Frame, req.Frame.Anchors, req.Renderer, req.Link)
	return desktop, mobile
}

func langOf(s *content.Site) string {
	if s == nil || s.Locale.IsRoot() {
		return "en"
	}
	return s.Locale.String()
}
