package navtree

import (
	"sort"
	"sync"
)

// Change describes one write to a Store.
type Change struct {
	Route    string `json:"route"`
	Expanded bool   `json:"expanded"`
}

// Listener is called after every write to the store it is subscribed to.
type Listener func(Change)

// Store maps folder routes to their expanded state. It outlives any single
// rendering of the tree, which is what lets expansion survive navigation.
// Routes are keyed in their normalized form.
//
// Listeners run synchronously on the writing goroutine, after the store's
// lock has been released, so a listener may read or write the store.
type Store struct {
	mu       sync.RWMutex
	expanded map[string]bool

	// activated maps a folder route to the path it was last forced open for.
	// Several tabs share one store, so this is kept per route rather than as
	// a single current path.
	activated map[string]string

	listeners map[int]Listener
	nextID    int
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		expanded:  make(map[string]bool),
		activated: make(map[string]string),
		listeners: make(map[int]Listener),
	}
}

// Get returns the stored state for route and whether one exists.
func (s *Store) Get(route string) (expanded, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expanded, ok = s.expanded[NormalizeRoute(route)]
	return expanded, ok
}

// Set stores the expanded state for route and notifies listeners.
func (s *Store) Set(route string, expanded bool) {
	key := NormalizeRoute(route)
	s.mu.Lock()
	s.expanded[key] = expanded
	s.mu.Unlock()
	s.notify(Change{Route: key, Expanded: expanded})
}

// Resolve returns the stored state for route, or !defaultCollapsed when the
// route has never been written. It never writes.
func (s *Store) Resolve(route string, defaultCollapsed bool) bool {
	if expanded, ok := s.Get(route); ok {
		return expanded
	}
	return !defaultCollapsed
}

// ForceExpand opens route unless it is already open. It reports whether the
// store was written.
func (s *Store) ForceExpand(route string) bool {
	key := NormalizeRoute(route)
	s.mu.Lock()
	if s.expanded[key] {
		s.mu.Unlock()
		return false
	}
	s.expanded[key] = true
	s.mu.Unlock()
	s.notify(Change{Route: key, Expanded: true})
	return true
}

// Activate is called whenever route is found to be the active node while
// currentPath is displayed. It forces route open the first time it is
// active for currentPath; later renders of the same path leave a manual
// collapse alone. navigated re-arms it: the caller has just navigated to
// currentPath (a page load), so the folder opens even if it was forced for
// this path before.
func (s *Store) Activate(route, currentPath string, navigated bool) bool {
	key := NormalizeRoute(route)
	path := NormalizeRoute(StripFragment(currentPath))
	s.mu.Lock()
	if !navigated && s.activated[key] == path {
		s.mu.Unlock()
		return false
	}
	s.activated[key] = path
	s.mu.Unlock()
	return s.ForceExpand(key)
}

// Subscribe registers fn for every subsequent write. The returned func
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Snapshot copies the stored states.
func (s *Store) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.expanded))
	for k, v := range s.expanded {
		out[k] = v
	}
	return out
}

// Restore loads previously saved states without notifying listeners.
func (s *Store) Restore(states map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for route, expanded := range states {
		s.expanded[NormalizeRoute(route)] = expanded
	}
}

// Listeners returns the number of subscribed listeners.
func (s *Store) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
