package navtree

// View selects which sidebar walk is produced.
type View string

const (
	ViewDesktop View = "desktop"
	ViewMobile  View = "mobile"
)

// ParseView maps a query or flag value to a View, defaulting to desktop.
func ParseView(s string) View {
	if View(s) == ViewMobile {
		return ViewMobile
	}
	return ViewDesktop
}

// Options are the configuration toggles read by the walk.
type Options struct {
	// DefaultMenuCollapsed closes folders that have no stored state.
	DefaultMenuCollapsed bool
	// FloatTOC moves the anchor list out of the desktop sidebar.
	FloatTOC bool
}

// Frame is what the walk needs to know about the page being displayed.
type Frame struct {
	// CurrentPath is the locale-resolved path, possibly with a fragment.
	CurrentPath string
	// Anchors are the heading texts of the displayed page (see AnchorTexts).
	Anchors []string
	// ActiveAnchors is the scroll tracker's signal.
	ActiveAnchors ActiveAnchors
	// Navigated marks the first render after arriving at CurrentPath. The
	// active folder is then forced open even if the visitor collapsed it
	// during an earlier visit to the same path.
	Navigated bool
}

// RenderedNode is a node annotated for display.
type RenderedNode struct {
	Name       string `json:"name"`
	Route      string `json:"route"`
	Title      string `json:"title"`
	Link       string `json:"link"`
	NewWindow  bool   `json:"new_window,omitempty"`
	Folder     bool   `json:"folder"`
	HasOwnPage bool   `json:"has_own_page,omitempty"`
	Active     bool   `json:"active"`
	// Ancestor marks a folder the displayed page lives under. It only
	// affects styling; ancestors are never forced open.
	Ancestor bool `json:"ancestor,omitempty"`
	Open     bool `json:"open,omitempty"`

	// Children is only filled for open folders. The source node keeps the
	// full subtree, so a later toggle can reveal it.
	Children []*RenderedNode `json:"children,omitempty"`

	// Anchors is only set on the active page.
	Anchors *ResolvedAnchors `json:"anchors,omitempty"`
}

// Renderer walks node trees against a shared Store.
type Renderer struct {
	store *Store
	opts  Options
}

// NewRenderer returns a Renderer reading and writing store.
func NewRenderer(store *Store, opts Options) *Renderer {
	return &Renderer{store: store, opts: opts}
}

// Store returns the store the renderer works against.
func (r *Renderer) Store() *Store { return r.store }

// Options returns the renderer configuration.
func (r *Renderer) Options() Options { return r.opts }

// Render walks nodes for the displayed page.
func (r *Renderer) Render(nodes []*Node, f Frame) []*RenderedNode {
	return r.renderList(nodes, f, f.Anchors)
}

func (r *Renderer) renderList(nodes []*Node, f Frame, anchors []string) []*RenderedNode {
	out := make([]*RenderedNode, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.IsFolder() {
			out = append(out, r.renderFolder(n, f, anchors))
		} else {
			out = append(out, r.renderFile(n, f, anchors))
		}
	}
	return out
}

func (r *Renderer) renderFolder(n *Node, f Frame, anchors []string) *RenderedNode {
	active := IsActive(f.CurrentPath, n.Route)
	if active {
		r.store.Activate(n.Route, f.CurrentPath, f.Navigated)
	}
	open := r.store.Resolve(n.Route, r.opts.DefaultMenuCollapsed)

	rn := &RenderedNode{
		Name:       n.Name,
		Route:      n.Route,
		Title:      n.DisplayTitle(),
		Link:       n.Route,
		Folder:     true,
		HasOwnPage: n.HasOwnPage,
		Active:     active,
		Ancestor:   IsAncestor(f.CurrentPath, n.Route),
		Open:       open,
	}
	if open && len(n.Children) > 0 {
		rn.Children = r.renderList(n.Children, f, anchors)
	}
	return rn
}

func (r *Renderer) renderFile(n *Node, f Frame, anchors []string) *RenderedNode {
	active := IsActive(f.CurrentPath, n.Route)
	rn := &RenderedNode{
		Name:      n.Name,
		Route:     n.Route,
		Title:     n.DisplayTitle(),
		Link:      n.Link(),
		NewWindow: n.NewWindow,
		Active:    active,
	}
	if active && len(anchors) > 0 {
		resolved := ResolveAnchors(anchors, f.ActiveAnchors)
		rn.Anchors = &resolved
	}
	return rn
}

// RenderView walks nodes with the anchor policy of the given view: the
// desktop view drops anchors when the floating TOC is enabled, the mobile
// view always shows them.
func (r *Renderer) RenderView(view View, nodes []*Node, f Frame) []*RenderedNode {
	if view == ViewDesktop && r.opts.FloatTOC {
		f.Anchors = nil
	}
	return r.Render(nodes, f)
}

// Sidebar holds both walks of one page.
type Sidebar struct {
	Desktop []*RenderedNode `json:"desktop"`
	Mobile  []*RenderedNode `json:"mobile"`
}

// Sidebar renders the desktop walk over the pruned directories and the
// mobile walk over the full set.
func (r *Renderer) Sidebar(dirs Directories, f Frame) Sidebar {
	return Sidebar{
		Desktop: r.RenderView(ViewDesktop, dirs.Pruned, f),
		Mobile:  r.RenderView(ViewMobile, dirs.Full, f),
	}
}

// Click applies the folder click policy to the folder at route within
// nodes. Clicking a page, or a route that is not in the tree, does nothing
// except request navigation to the page.
func (r *Renderer) Click(nodes []*Node, currentPath, route string, clickedOnDisclosureControl bool) ClickResult {
	n := Find(nodes, route)
	if n == nil {
		return ClickResult{Action: ActionNone}
	}
	if !n.IsFolder() {
		return ClickResult{Action: ActionNone, Navigate: n.Link()}
	}
	active := IsActive(currentPath, n.Route)
	return r.store.Toggle(n.Route, r.opts.DefaultMenuCollapsed, n.HasOwnPage, active, clickedOnDisclosureControl)
}
