// Package navtree is the state engine behind the documentation sidebar:
// it decides which node is active, which folders are open, which in-page
// anchor is highlighted, and how a click changes expansion state.
package navtree

// Node is one entry of the content tree.
type Node struct {
	Name  string `json:"name"`
	Route string `json:"route"`
	Title string `json:"title"`

	// Children is nil for a page. A non-nil slice, even an empty one, makes
	// the node a folder.
	Children []*Node `json:"children,omitempty"`

	// HasOwnPage is set on folders that have an index page of their own.
	HasOwnPage bool `json:"has_own_page,omitempty"`

	// Href and NewWindow override the link of a page.
	Href      string `json:"href,omitempty"`
	NewWindow bool   `json:"new_window,omitempty"`
}

// IsFolder reports whether n groups other nodes.
func (n *Node) IsFolder() bool {
	return n.Children != nil
}

// Link returns the target a page should link to.
func (n *Node) Link() string {
	if n.Href != "" {
		return n.Href
	}
	return n.Route
}

// DisplayTitle falls back to the node name when no title was found.
func (n *Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.Name
}

// Find returns the node with the given route, searching depth-first.
func Find(nodes []*Node, route string) *Node {
	key := NormalizeRoute(route)
	for _, n := range nodes {
		if NormalizeRoute(n.Route) == key {
			return n
		}
		if found := Find(n.Children, route); found != nil {
			return found
		}
	}
	return nil
}

// Directories is the pair of node sets a sidebar is built from. Pruned
// feeds the desktop view and Full feeds the mobile view.
type Directories struct {
	Pruned []*Node
	Full   []*Node
}
