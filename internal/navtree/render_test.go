package navtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guideTree() []*Node {
	return []*Node{
		{
			Name:  "guide",
			Route: "/guide",
			Title: "Guide",
			Children: []*Node{
				{Name: "intro", Route: "/guide/intro", Title: "Intro"},
				{
					Name:  "setup",
					Route: "/guide/setup",
					Title: "Setup",
					Children: []*Node{
						{Name: "a", Route: "/guide/setup/a", Title: "A"},
					},
				},
			},
		},
	}
}

func TestRenderActiveDescendantWithDefaults(t *testing.T) {
	store := NewStore()
	r := NewRenderer(store, Options{})

	out := r.Render(guideTree(), Frame{CurrentPath: "/guide/setup/a/"})
	require.Len(t, out, 1)

	guide := out[0]
	assert.False(t, guide.Active, "ancestors are never active")
	assert.True(t, guide.Ancestor)
	assert.True(t, guide.Open)
	require.Len(t, guide.Children, 2)

	setup := guide.Children[1]
	assert.False(t, setup.Active)
	assert.True(t, setup.Ancestor)
	assert.True(t, setup.Open)
	require.Len(t, setup.Children, 1)

	leaf := setup.Children[0]
	assert.True(t, leaf.Active)
	assert.False(t, leaf.Folder)

	// Ancestors open from the default policy only; nothing was written.
	_, ok := store.Get("/guide")
	assert.False(t, ok)
	_, ok = store.Get("/guide/setup")
	assert.False(t, ok)
}

func TestRenderActiveDescendantCollapsedDefault(t *testing.T) {
	store := NewStore()
	r := NewRenderer(store, Options{DefaultMenuCollapsed: true})

	out := r.Render(guideTree(), Frame{CurrentPath: "/guide/setup/a/"})
	guide := out[0]
	assert.False(t, guide.Active)
	assert.True(t, guide.Ancestor)
	assert.False(t, guide.Open, "no ancestor forcing")
	assert.Nil(t, guide.Children)

	// Once the visitor opens the ancestors themselves, the active leaf shows.
	store.Set("/guide", true)
	store.Set("/guide/setup", true)
	out = r.Render(guideTree(), Frame{CurrentPath: "/guide/setup/a/"})
	leaf := out[0].Children[1].Children[0]
	assert.True(t, leaf.Active)
	assert.False(t, out[0].Children[1].Active)
}

func TestRenderActiveFolderIsForcedOpen(t *testing.T) {
	store := NewStore()
	store.Set("/guide/setup", false)
	store.Set("/guide", true)
	r := NewRenderer(store, Options{DefaultMenuCollapsed: true})

	out := r.Render(guideTree(), Frame{CurrentPath: "/guide/setup"})
	setup := out[0].Children[1]
	assert.True(t, setup.Active)
	assert.True(t, setup.Open)
	require.Len(t, setup.Children, 1)

	// A manual collapse on the same page survives the next render.
	res := r.Click(guideTree(), "/guide/setup", "/guide/setup", false)
	assert.Equal(t, ActionNone, res.Action, "folder without a page, already active")

	store.Set("/guide/setup", false)
	out = r.Render(guideTree(), Frame{CurrentPath: "/guide/setup"})
	assert.False(t, out[0].Children[1].Open)

	// Visiting another page and landing here again forces it open again.
	r.Render(guideTree(), Frame{CurrentPath: "/guide/intro", Navigated: true})
	out = r.Render(guideTree(), Frame{CurrentPath: "/guide/setup", Navigated: true})
	assert.True(t, out[0].Children[1].Open)
}

func TestMountedTreeKeepsCollapseAfterNavigation(t *testing.T) {
	store := NewStore()
	r := NewRenderer(store, Options{})

	tree := r.Mount(ViewDesktop, guideTree(), Frame{CurrentPath: "/guide/intro"}, nil)
	defer tree.Close()

	NavigateAll(Frame{CurrentPath: "/guide/setup"}, tree)
	require.True(t, tree.Nodes()[0].Children[1].Open)

	// The collapse triggers a refresh, which must not force the folder back.
	store.Set("/guide/setup", false)
	assert.False(t, tree.Nodes()[0].Children[1].Open)
}

func TestRenderClosedFolderKeepsSubtree(t *testing.T) {
	store := NewStore()
	r := NewRenderer(store, Options{})
	nodes := guideTree()

	store.Set("/guide", false)
	out := r.Render(nodes, Frame{CurrentPath: "/"})
	assert.Nil(t, out[0].Children)

	store.Set("/guide", true)
	out = r.Render(nodes, Frame{CurrentPath: "/"})
	assert.Len(t, out[0].Children, 2)
}

func TestRenderEmptyFolder(t *testing.T) {
	r := NewRenderer(NewStore(), Options{})
	nodes := []*Node{{Name: "empty", Route: "/empty", Children: []*Node{}}, nil}

	out := r.Render(nodes, Frame{CurrentPath: "/empty"})
	require.Len(t, out, 1)
	assert.True(t, out[0].Folder)
	assert.True(t, out[0].Active)
	assert.True(t, out[0].Open)
	assert.Empty(t, out[0].Children)
	assert.Equal(t, "empty", out[0].Title)
}

func TestRenderNoMatch(t *testing.T) {
	r := NewRenderer(NewStore(), Options{})
	out := r.Render(guideTree(), Frame{CurrentPath: "/missing"})

	var walk func([]*RenderedNode)
	walk = func(nodes []*RenderedNode) {
		for _, n := range nodes {
			assert.False(t, n.Active, n.Route)
			walk(n.Children)
		}
	}
	walk(out)
}

func TestRenderAnchorsOnlyOnActivePage(t *testing.T) {
	r := NewRenderer(NewStore(), Options{})
	f := Frame{
		CurrentPath:   "/guide/intro#usage",
		Anchors:       []string{"Install", "Usage"},
		ActiveAnchors: ActiveAnchorsOf("usage"),
	}
	out := r.Render(guideTree(), f)

	intro := out[0].Children[0]
	require.NotNil(t, intro.Anchors)
	assert.Equal(t, 1, intro.Anchors.ActiveIndex)
	assert.Len(t, intro.Anchors.Entries, 2)

	leaf := out[0].Children[1].Children[0]
	assert.Nil(t, leaf.Anchors)
}

func TestRenderLinkOverrides(t *testing.T) {
	r := NewRenderer(NewStore(), Options{})
	nodes := []*Node{{Name: "gh", Route: "/gh", Title: "GitHub", Href: "https://github.com", NewWindow: true}}

	out := r.Render(nodes, Frame{CurrentPath: "/"})
	assert.Equal(t, "https://github.com", out[0].Link)
	assert.True(t, out[0].NewWindow)
}

func TestSidebarViews(t *testing.T) {
	full := guideTree()
	full = append(full, &Node{Name: "blog", Route: "/blog", Title: "Blog"})
	dirs := Directories{Pruned: guideTree(), Full: full}
	f := Frame{CurrentPath: "/guide/intro", Anchors: []string{"Install"}}

	sb := NewRenderer(NewStore(), Options{FloatTOC: true}).Sidebar(dirs, f)
	assert.Len(t, sb.Desktop, 1)
	assert.Len(t, sb.Mobile, 2)
	assert.Nil(t, sb.Desktop[0].Children[0].Anchors, "desktop hides anchors with floating TOC")
	assert.NotNil(t, sb.Mobile[0].Children[0].Anchors, "mobile always shows anchors")

	sb = NewRenderer(NewStore(), Options{}).Sidebar(dirs, f)
	assert.NotNil(t, sb.Desktop[0].Children[0].Anchors)
}

func TestClickPage(t *testing.T) {
	r := NewRenderer(NewStore(), Options{})
	res := r.Click(guideTree(), "/", "/guide/intro", false)
	assert.Equal(t, ActionNone, res.Action)
	assert.Equal(t, "/guide/intro", res.Navigate)

	res = r.Click(guideTree(), "/", "/nope", false)
	assert.Equal(t, ActionNone, res.Action)
	assert.Empty(t, res.Navigate)
}

func TestClickIndexFolder(t *testing.T) {
	nodes := []*Node{{
		Name: "guide", Route: "/guide", HasOwnPage: true,
		Children: []*Node{{Name: "intro", Route: "/guide/intro"}},
	}}
	store := NewStore()
	store.Set("/guide", false)
	r := NewRenderer(store, Options{})

	res := r.Click(nodes, "/", "/guide", false)
	assert.Equal(t, ActionOpen, res.Action)
	assert.Equal(t, "/guide", res.Navigate)
	assert.True(t, store.Resolve("/guide", true))

	res = r.Click(nodes, "/guide", "/guide", false)
	assert.Equal(t, ActionToggle, res.Action)
	assert.False(t, res.Expanded)
}

func TestMountedTreesStayInSync(t *testing.T) {
	store := NewStore()
	r := NewRenderer(store, Options{})
	dirs := Directories{Pruned: guideTree(), Full: guideTree()}
	f := Frame{CurrentPath: "/guide/intro"}

	var mobileUpdates int
	desktop := r.Mount(ViewDesktop, dirs.Pruned, f, nil)
	mobile := r.Mount(ViewMobile, dirs.Full, f, func([]*RenderedNode) { mobileUpdates++ })
	defer desktop.Close()
	defer mobile.Close()

	require.True(t, mobile.Nodes()[0].Open)
	before := mobileUpdates

	res := r.Click(dirs.Pruned, f.CurrentPath, "/guide", true)
	assert.Equal(t, ActionToggle, res.Action)

	assert.False(t, desktop.Nodes()[0].Open)
	assert.False(t, mobile.Nodes()[0].Open, "mobile tree follows desktop toggle")
	assert.Greater(t, mobileUpdates, before)

	mobile.Close()
	r.Click(dirs.Pruned, f.CurrentPath, "/guide", true)
	assert.True(t, desktop.Nodes()[0].Open)
	assert.False(t, mobile.Nodes()[0].Open, "closed tree stops updating")
}

func TestNavigateAllForcesActiveFolder(t *testing.T) {
	store := NewStore()
	store.Set("/guide/setup", false)
	r := NewRenderer(store, Options{})

	desktop := r.Mount(ViewDesktop, guideTree(), Frame{CurrentPath: "/guide/intro"}, nil)
	mobile := r.Mount(ViewMobile, guideTree(), Frame{CurrentPath: "/guide/intro"}, nil)
	defer desktop.Close()
	defer mobile.Close()
	assert.False(t, mobile.Nodes()[0].Children[1].Open)

	NavigateAll(Frame{CurrentPath: "/guide/setup"}, desktop, mobile)
	assert.True(t, desktop.Nodes()[0].Children[1].Open)
	assert.True(t, mobile.Nodes()[0].Children[1].Open)
}

func TestFind(t *testing.T) {
	nodes := guideTree()
	n := Find(nodes, "/guide/setup/a/")
	require.NotNil(t, n)
	assert.Equal(t, "a", n.Name)
	assert.Nil(t, Find(nodes, "/guide/none"))
}
