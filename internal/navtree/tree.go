package navtree

import "sync"

// Tree is a long-lived rendering of one view. It re-walks its nodes after
// every write to the shared store, so two trees over the same store (the
// desktop and mobile sidebars, or two browser tabs) never disagree.
type Tree struct {
	r     *Renderer
	view  View
	nodes []*Node

	mu       sync.Mutex
	frame    Frame
	rendered []*RenderedNode
	onUpdate func([]*RenderedNode)

	cancel func()
}

// Mount renders nodes for view and keeps the result current. onUpdate, if
// non-nil, receives every new rendering, including the initial one.
// f.Navigated only applies to the initial rendering.
func (r *Renderer) Mount(view View, nodes []*Node, f Frame, onUpdate func([]*RenderedNode)) *Tree {
	t := &Tree{r: r, view: view, nodes: nodes, frame: f, onUpdate: onUpdate}
	t.cancel = r.store.Subscribe(func(Change) { t.refresh() })
	t.refresh()
	return t
}

// NavigateAll moves several trees sharing one store to the same page, with
// its folder forced open as on a page load. All frames are switched before
// any tree re-renders, so no tree walks against a stale path while the
// others are being updated.
func NavigateAll(f Frame, trees ...*Tree) {
	f.Navigated = true
	for _, t := range trees {
		t.mu.Lock()
		t.frame = f
		t.mu.Unlock()
	}
	for _, t := range trees {
		t.refresh()
	}
}

// Nodes returns the latest rendering.
func (t *Tree) Nodes() []*RenderedNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rendered
}

// Close stops listening to the store.
func (t *Tree) Close() {
	t.cancel()
}

// refresh walks outside the lock: the walk itself may write the store, and
// that write re-enters refresh through the subscription. A navigation is
// consumed by the first walk, so later refreshes respect a manual collapse.
func (t *Tree) refresh() {
	t.mu.Lock()
	f := t.frame
	t.frame.Navigated = false
	t.mu.Unlock()

	rendered := t.r.RenderView(t.view, t.nodes, f)

	t.mu.Lock()
	t.rendered = rendered
	onUpdate := t.onUpdate
	t.mu.Unlock()

	if onUpdate != nil {
		onUpdate(rendered)
	}
}
