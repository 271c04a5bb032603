package navtree

import "strings"

// StripFragment drops an in-page anchor ("#section") from a path.
func StripFragment(p string) string {
	if i := strings.IndexByte(p, '#'); i >= 0 {
		return p[:i]
	}
	return p
}

// NormalizeRoute returns p with exactly one trailing slash.
// "/guide", "/guide/" and "/guide//" all normalize to "/guide/"; "" becomes "/".
func NormalizeRoute(p string) string {
	return strings.TrimRight(p, "/") + "/"
}

// IsActive reports whether nodeRoute is the page currently displayed.
// currentPath must already be locale-resolved. Only exact equality counts:
// a node is never active because the current path lives below it.
func IsActive(currentPath, nodeRoute string) bool {
	return NormalizeRoute(StripFragment(currentPath)) == NormalizeRoute(nodeRoute)
}

// IsAncestor reports whether currentPath lies strictly below nodeRoute.
// It is a softer relation than IsActive and never makes a node active; the
// walk uses it to mark the folders on the way to the displayed page.
func IsAncestor(currentPath, nodeRoute string) bool {
	cur := NormalizeRoute(StripFragment(currentPath))
	route := NormalizeRoute(nodeRoute)
	return cur != route && strings.HasPrefix(cur, route)
}
