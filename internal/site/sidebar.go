package site

import (
	"strings"

	"github.com/ziadkadry99/docnav/internal/navtree"
)

// LinkFunc turns a node link into an href for the page being rendered.
type LinkFunc func(link string) string

// sidebarItem is one entry of the HTML sidebar. Folders the walk left
// closed still carry their subtree, marked Collapsed, so the client can
// reveal it without another round trip.
type sidebarItem struct {
	*navtree.RenderedNode
	Href      string
	Collapsed bool
	Items     []*sidebarItem
}

// sidebarItems pairs the source nodes with the result of the walk. Nodes the
// walk did not reach are annotated read-only from the store, so building
// the markup never opens a folder.
func sidebarItems(src []*navtree.Node, walked []*navtree.RenderedNode, f navtree.Frame, anchors []string, r *navtree.Renderer, link LinkFunc) []*sidebarItem {
	byRoute := make(map[string]*navtree.RenderedNode, len(walked))
	for _, rn := range walked {
		byRoute[rn.Route] = rn
	}

	items := make([]*sidebarItem, 0, len(src))
	for _, n := range src {
		if n == nil {
			continue
		}
		rn, reached := byRoute[n.Route]
		if !reached {
			rn = detached(n, f, anchors, r)
		}
		it := &sidebarItem{RenderedNode: rn, Href: link(rn.Link), Collapsed: !reached}
		if n.IsFolder() {
			it.Items = sidebarItems(n.Children, rn.Children, f, anchors, r, link)
		}
		items = append(items, it)
	}
	return items
}

// detached annotates a node outside the walked part of the tree.
func detached(n *navtree.Node, f navtree.Frame, anchors []string, r *navtree.Renderer) *navtree.RenderedNode {
	rn := &navtree.RenderedNode{
		Name:       n.Name,
		Route:      n.Route,
		Title:      n.DisplayTitle(),
		Link:       n.Link(),
		NewWindow:  n.NewWindow,
		Folder:     n.IsFolder(),
		HasOwnPage: n.HasOwnPage,
		Active:     navtree.IsActive(f.CurrentPath, n.Route),
	}
	if rn.Folder {
		rn.Link = n.Route
		rn.Ancestor = navtree.IsAncestor(f.CurrentPath, n.Route)
		rn.Open = r.Store().Resolve(n.Route, r.Options().DefaultMenuCollapsed)
	} else if rn.Active && len(anchors) > 0 {
		resolved := navtree.ResolveAnchors(anchors, f.ActiveAnchors)
		rn.Anchors = &resolved
	}
	return rn
}

// isExternal reports whether link leaves the site.
func isExternal(link string) bool {
	return strings.Contains(link, "://") || strings.HasPrefix(link, "//") ||
		strings.HasPrefix(link, "mailto:") || strings.HasPrefix(link, "#")
}

// staticPath is the output file of route under the locale prefix.
func staticPath(prefix, route string) string {
	r := strings.Trim(navtree.StripFragment(route), "/")
	if r == "" {
		r = "index"
	}
	p := r + ".html"
	if prefix != "" {
		p = strings.TrimPrefix(prefix, "/") + "/" + p
	}
	return p
}

// basePathFor returns the "../" prefix leading from the output file rel
// back to the output root.
func basePathFor(rel string) string {
	return strings.Repeat("../", strings.Count(rel, "/"))
}

// StaticLinker links to the .html files of a generated site.
func StaticLinker(prefix, basePath string) LinkFunc {
	return func(link string) string {
		if isExternal(link) {
			return link
		}
		route, fragment := link, ""
		if i := strings.IndexByte(link, '#'); i >= 0 {
			route, fragment = link[:i], link[i:]
		}
		return basePath + staticPath(prefix, route) + fragment
	}
}

// ServerLinker links to routes served under the locale prefix.
func ServerLinker(prefix string) LinkFunc {
	return func(link string) string {
		if isExternal(link) {
			return link
		}
		if link == "/" && prefix != "" {
			return prefix
		}
		return prefix + link
	}
}
