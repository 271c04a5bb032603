package server

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"

	"github.com/ziadkadry99/docnav/internal/content"
)

// Sites holds the loaded content of every locale and swaps it atomically
// on reload.
type Sites struct {
	loader *content.Loader

	mu    sync.RWMutex
	sites map[language.Tag]*content.Site
}

// NewSites loads the docs behind loader.
func NewSites(loader *content.Loader) (*Sites, error) {
	s := &Sites{loader: loader}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reads the docs again. The previous content stays in place when
// loading fails.
func (s *Sites) Reload() error {
	sites, err := s.loader.LoadAll()
	if err != nil {
		return fmt.Errorf("loading docs: %w", err)
	}
	s.mu.Lock()
	s.sites = sites
	s.mu.Unlock()
	return nil
}

// Get returns the site of tag.
func (s *Sites) Get(tag language.Tag) (*content.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sites[tag]
	if !ok {
		return nil, fmt.Errorf("locale %s: %w", tag, content.ErrNotFound)
	}
	return st, nil
}

// DocsDir returns the directory the sites are loaded from.
func (s *Sites) DocsDir() string { return s.loader.DocsDir() }
