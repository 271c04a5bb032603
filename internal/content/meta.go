package content

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// metaFiles are the per-directory metadata file names, in lookup order.
var metaFiles = []string{"_meta.yaml", "_meta.yml"}

// MetaTypePage marks an entry that belongs in the top navigation bar. Such
// entries are left out of the desktop sidebar but kept on mobile.
const MetaTypePage = "page"

// MetaItem configures one entry of a directory.
//
//	intro: Introduction
//	guide:
//	  title: Guide
//	  hidden: true
//	github:
//	  title: GitHub
//	  href: https://github.com/example
//	  newWindow: true
type MetaItem struct {
	Name      string `yaml:"-"`
	Title     string `yaml:"title"`
	Type      string `yaml:"type"`
	Hidden    bool   `yaml:"hidden"`
	Href      string `yaml:"href"`
	NewWindow bool   `yaml:"newWindow"`
}

// Pruned reports whether the entry is left out of the desktop sidebar.
func (m MetaItem) Pruned() bool {
	return m.Hidden || m.Type == MetaTypePage
}

// Meta is the parsed metadata of one directory. Items keep file order.
type Meta struct {
	Items  []MetaItem
	byName map[string]int
}

// Lookup returns the entry for name.
func (m *Meta) Lookup(name string) (MetaItem, bool) {
	if m == nil {
		return MetaItem{Name: name}, false
	}
	i, ok := m.byName[name]
	if !ok {
		return MetaItem{Name: name}, false
	}
	return m.Items[i], true
}

// ParseMeta decodes a _meta.yaml document. Values are either a title string
// or a mapping of MetaItem fields.
func ParseMeta(data []byte) (*Meta, error) {
	m := &Meta{byName: make(map[string]int)}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing meta: %w", err)
	}
	if len(doc.Content) == 0 {
		return m, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing meta: line %d: expected a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		item := MetaItem{Name: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			item.Title = val.Value
		case yaml.MappingNode:
			if err := val.Decode(&item); err != nil {
				return nil, fmt.Errorf("parsing meta entry %q: %w", key.Value, err)
			}
			item.Name = key.Value
		default:
			return nil, fmt.Errorf("parsing meta entry %q: line %d: expected a title or a mapping", key.Value, val.Line)
		}
		if _, dup := m.byName[item.Name]; dup {
			continue
		}
		m.byName[item.Name] = len(m.Items)
		m.Items = append(m.Items, item)
	}
	return m, nil
}

// readMeta loads the metadata file of dir, if there is one.
func readMeta(dir string) (*Meta, error) {
	for _, name := range metaFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		m, err := ParseMeta(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Join(dir, name), err)
		}
		return m, nil
	}
	return nil, nil
}
