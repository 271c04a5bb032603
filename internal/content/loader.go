package content

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/docnav/internal/locale"
	"github.com/ziadkadry99/docnav/internal/navtree"
)

// indexName is the page that gives a folder a page of its own.
const indexName = "index"

// Loader reads a docs directory into Sites.
type Loader struct {
	docsDir string
	include []string
	exclude []string
	locales *locale.Resolver
	md      goldmark.Markdown
}

// NewLoader returns a Loader for docsDir. include and exclude are doublestar
// patterns matched against slash-separated paths relative to docsDir.
// locales may be nil for a single-language site.
func NewLoader(docsDir string, include, exclude []string, locales *locale.Resolver) *Loader {
	return &Loader{
		docsDir: docsDir,
		include: include,
		exclude: exclude,
		locales: locales,
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// DocsDir returns the directory the loader reads.
func (l *Loader) DocsDir() string { return l.docsDir }

// Load builds the Site of one locale. Pages named "<name>.<locale>.md"
// replace "<name>.md" for that locale and are ignored for the others.
func (l *Loader) Load(tag language.Tag) (*Site, error) {
	if _, err := os.Stat(l.docsDir); err != nil {
		return nil, fmt.Errorf("accessing docs dir: %w", err)
	}
	site := newSite(tag)
	full, pruned, _, err := l.loadDir(site, "", tag)
	if err != nil {
		return nil, err
	}
	if len(site.order) == 0 {
		return nil, fmt.Errorf("%s: %w", l.docsDir, ErrNoPages)
	}
	site.Dirs = navtree.Directories{Pruned: pruned, Full: full}
	return site, nil
}

// LoadAll loads every configured locale, or a single site tagged
// language.Und when none is configured.
func (l *Loader) LoadAll() (map[language.Tag]*Site, error) {
	tags := l.locales.Locales()
	if len(tags) == 0 {
		tags = []language.Tag{language.Und}
	}
	sites := make(map[language.Tag]*Site, len(tags))
	for _, tag := range tags {
		site, err := l.Load(tag)
		if err != nil {
			return nil, fmt.Errorf("loading locale %s: %w", tag, err)
		}
		sites[tag] = site
	}
	return sites, nil
}

type item struct {
	name string
	dir  bool
	link bool
}

// loadDir returns the full and pruned children of the directory rel, plus
// its index page. The index page of the root directory is listed as a
// regular page instead.
func (l *Loader) loadDir(site *Site, rel string, tag language.Tag) (full, pruned []*navtree.Node, index *Page, err error) {
	absDir := filepath.Join(l.docsDir, filepath.FromSlash(rel))
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", absDir, err)
	}
	meta, err := readMeta(absDir)
	if err != nil {
		return nil, nil, nil, err
	}

	files := make(map[string]string)
	localized := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if shouldExcludeDir(name) || MatchesExclude(path.Join(rel, name), l.exclude) {
				continue
			}
			dirs[name] = true
			continue
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || !strings.HasSuffix(name, ".md") {
			continue
		}
		relFile := path.Join(rel, name)
		if !MatchesInclude(relFile, l.include) || MatchesExclude(relFile, l.exclude) {
			continue
		}
		stem := strings.TrimSuffix(name, ".md")
		if base, fileTag, ok := l.splitLocale(stem); ok {
			if fileTag == tag {
				files[base] = name
				localized[base] = true
			}
			continue
		}
		if !localized[stem] {
			files[stem] = name
		}
	}

	if rel != "" {
		if name, ok := files[indexName]; ok {
			if index, err = l.loadPage(site, rel, name, routeFor(rel, indexName), tag); err != nil {
				return nil, nil, nil, err
			}
			delete(files, indexName)
		}
	}

	var items []item
	for name := range dirs {
		items = append(items, item{name: name, dir: true})
	}
	for stem := range files {
		if !dirs[stem] {
			items = append(items, item{name: stem})
		}
	}

	for _, it := range orderItems(items, meta) {
		mi, _ := meta.Lookup(it.name)
		switch {
		case it.link:
			n := &navtree.Node{
				Name:      it.name,
				Route:     "/" + path.Join(rel, it.name),
				Title:     firstNonEmpty(mi.Title, it.name),
				Href:      mi.Href,
				NewWindow: mi.NewWindow,
			}
			full = append(full, n)
			if !mi.Pruned() {
				pruned = append(pruned, n)
			}

		case it.dir:
			childRel := path.Join(rel, it.name)
			childFull, childPruned, own, err := l.loadDir(site, childRel, tag)
			if err != nil {
				return nil, nil, nil, err
			}
			if own == nil {
				if name, ok := files[it.name]; ok {
					if own, err = l.loadPage(site, rel, name, routeFor(childRel, indexName), tag); err != nil {
						return nil, nil, nil, err
					}
				}
			}
			if len(childFull) == 0 && own == nil {
				continue
			}
			var ownTitle string
			if own != nil {
				ownTitle = Title(own.Headings)
			}
			title := firstNonEmpty(mi.Title, ownTitle, formatDirName(it.name))
			folder := &navtree.Node{
				Name:       it.name,
				Route:      "/" + childRel,
				Title:      title,
				Children:   nonNil(childFull),
				HasOwnPage: own != nil,
			}
			full = append(full, folder)
			if !mi.Pruned() {
				p := *folder
				p.Children = nonNil(childPruned)
				pruned = append(pruned, &p)
			}

		default:
			page, err := l.loadPage(site, rel, files[it.name], routeFor(rel, it.name), tag)
			if err != nil {
				return nil, nil, nil, err
			}
			n := &navtree.Node{
				Name:      it.name,
				Route:     page.Route,
				Title:     firstNonEmpty(mi.Title, page.Title),
				Href:      mi.Href,
				NewWindow: mi.NewWindow,
			}
			full = append(full, n)
			if !mi.Pruned() {
				pruned = append(pruned, n)
			}
		}
	}
	return full, pruned, index, nil
}

func (l *Loader) loadPage(site *Site, rel, fileName, route string, tag language.Tag) (*Page, error) {
	relPath := path.Join(rel, fileName)
	abs := filepath.Join(l.docsDir, filepath.FromSlash(relPath))
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", relPath, err)
	}
	headings := ParseHeadings(l.md, src)
	p := &Page{
		Route:      route,
		RelPath:    relPath,
		SourcePath: abs,
		Title:      Title(headings),
		Headings:   headings,
		Locale:     tag,
	}
	if p.Title == "" {
		p.Title = cleanDisplayName(fileName)
	}
	site.add(p)
	return p, nil
}

// splitLocale recognizes "<name>.<locale>" stems.
func (l *Loader) splitLocale(stem string) (string, language.Tag, bool) {
	dot := strings.LastIndexByte(stem, '.')
	if dot <= 0 {
		return "", language.Und, false
	}
	tag, ok := l.locales.Lookup(stem[dot+1:])
	if !ok {
		return "", language.Und, false
	}
	return stem[:dot], tag, true
}

// orderItems puts entries listed in _meta.yaml first, in their listed
// order, followed by the rest: the root index page, then directories, then
// files, each alphabetically.
func orderItems(items []item, meta *Meta) []item {
	byName := make(map[string]item, len(items))
	for _, it := range items {
		byName[it.name] = it
	}

	var out []item
	used := make(map[string]bool)
	if meta != nil {
		for _, mi := range meta.Items {
			if it, ok := byName[mi.Name]; ok {
				out = append(out, it)
				used[mi.Name] = true
			} else if mi.Href != "" {
				out = append(out, item{name: mi.Name, link: true})
				used[mi.Name] = true
			}
		}
	}

	var rest []item
	for _, it := range items {
		if !used[it.name] {
			rest = append(rest, it)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		a, b := rest[i], rest[j]
		if (a.name == indexName) != (b.name == indexName) {
			return a.name == indexName
		}
		if a.dir != b.dir {
			return a.dir
		}
		return a.name < b.name
	})
	return append(out, rest...)
}

func routeFor(rel, stem string) string {
	if stem == indexName {
		return "/" + rel
	}
	return "/" + path.Join(rel, stem)
}

func nonNil(nodes []*navtree.Node) []*navtree.Node {
	if nodes == nil {
		return []*navtree.Node{}
	}
	return nodes
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// cleanDisplayName strips the .md extension.
func cleanDisplayName(name string) string {
	return strings.TrimSuffix(name, ".md")
}

// formatDirName converts a directory name to a human-readable display name.
func formatDirName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
