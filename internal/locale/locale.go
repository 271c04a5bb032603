// Package locale turns request paths into the locale-free routes the
// navigation tree is keyed by.
package locale

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"
)

// Resolver knows the configured locales of a site. The zero value has no
// locales and only cleans paths.
type Resolver struct {
	tags    []language.Tag
	byName  map[string]language.Tag
	def     language.Tag
	matcher language.Matcher
}

// NewResolver parses the configured locale names. def must be one of them
// unless locales is empty.
func NewResolver(locales []string, def string) (*Resolver, error) {
	r := &Resolver{byName: make(map[string]language.Tag)}
	for _, name := range locales {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parsing locale %q: %w", name, err)
		}
		r.tags = append(r.tags, tag)
		r.byName[strings.ToLower(tag.String())] = tag
	}
	if len(r.tags) == 0 {
		return r, nil
	}

	r.def = r.tags[0]
	if def != "" {
		tag, ok := r.Lookup(def)
		if !ok {
			return nil, fmt.Errorf("default locale %q is not one of %v", def, locales)
		}
		r.def = tag
	}
	// The matcher prefers the first tag, so put the default there.
	ordered := []language.Tag{r.def}
	for _, t := range r.tags {
		if t != r.def {
			ordered = append(ordered, t)
		}
	}
	r.matcher = language.NewMatcher(ordered)
	return r, nil
}

// Enabled reports whether any locale is configured.
func (r *Resolver) Enabled() bool { return r != nil && len(r.tags) > 0 }

// Default returns the default locale, or language.Und when none is set.
func (r *Resolver) Default() language.Tag {
	if !r.Enabled() {
		return language.Und
	}
	return r.def
}

// Locales returns the configured locales in configuration order.
func (r *Resolver) Locales() []language.Tag {
	if r == nil {
		return nil
	}
	return append([]language.Tag(nil), r.tags...)
}

// Lookup returns the configured tag named s, matched case-insensitively.
func (r *Resolver) Lookup(s string) (language.Tag, bool) {
	if !r.Enabled() || s == "" {
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	t, ok := r.byName[strings.ToLower(tag.String())]
	return t, ok
}

// Match picks the best configured locale for an Accept-Language header.
func (r *Resolver) Match(acceptLanguage string) language.Tag {
	if !r.Enabled() {
		return language.Und
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return r.def
	}
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return r.def
	}
	return r.orderedTag(idx)
}

func (r *Resolver) orderedTag(idx int) language.Tag {
	if idx == 0 {
		return r.def
	}
	i := 0
	for _, t := range r.tags {
		if t == r.def {
			continue
		}
		i++
		if i == idx {
			return t
		}
	}
	return r.def
}

// Resolve strips the locale from rawPath and returns the route the
// navigation tree understands together with the locale found. The locale
// may be the first segment ("/de/guide") or a suffix on the last one
// ("/guide.de"). Query strings and a trailing "/index" are removed; the
// fragment is kept for the route matcher. When no locale is present the
// default locale is reported.
func (r *Resolver) Resolve(rawPath string) (route string, tag language.Tag) {
	p, fragment := rawPath, ""
	if i := strings.IndexByte(p, '#'); i >= 0 {
		p, fragment = p[:i], p[i:]
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	trailing := strings.HasSuffix(p, "/")
	p = path.Clean("/" + p)

	tag = r.Default()
	if r.Enabled() {
		segs := strings.Split(strings.TrimPrefix(p, "/"), "/")
		if t, ok := r.Lookup(segs[0]); ok && segs[0] != "" {
			tag = t
			segs = segs[1:]
		} else if last := segs[len(segs)-1]; strings.Contains(last, ".") {
			dot := strings.LastIndexByte(last, '.')
			if t, ok := r.Lookup(last[dot+1:]); ok {
				tag = t
				segs[len(segs)-1] = last[:dot]
			}
		}
		p = "/" + strings.Join(segs, "/")
	}

	if p == "/index" {
		p = "/"
	}
	p = strings.TrimSuffix(p, "/index")
	if trailing && p != "/" {
		p += "/"
	}
	return p + fragment, tag
}

// Prefix returns the URL prefix for tag: empty for the default locale and
// "/<tag>" for the others.
func (r *Resolver) Prefix(tag language.Tag) string {
	if !r.Enabled() || tag == r.def || tag == language.Und {
		return ""
	}
	return "/" + tag.String()
}
