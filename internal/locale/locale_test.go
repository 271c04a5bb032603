package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver([]string{"en", "de", "pt-BR"}, "en")
	require.NoError(t, err)
	return r
}

func TestResolvePrefix(t *testing.T) {
	r := newResolver(t)

	route, tag := r.Resolve("/de/guide/setup")
	assert.Equal(t, "/guide/setup", route)
	assert.Equal(t, language.German, tag)

	route, tag = r.Resolve("/pt-br/guide/")
	assert.Equal(t, "/guide/", route)
	assert.Equal(t, "pt-BR", tag.String())

	route, tag = r.Resolve("/de")
	assert.Equal(t, "/", route)
	assert.Equal(t, language.German, tag)
}

func TestResolveSuffix(t *testing.T) {
	r := newResolver(t)

	route, tag := r.Resolve("/guide/setup.de")
	assert.Equal(t, "/guide/setup", route)
	assert.Equal(t, language.German, tag)
}

func TestResolveDefaultAndCleanup(t *testing.T) {
	r := newResolver(t)

	tests := map[string]string{
		"/guide":                 "/guide",
		"/guide/?tab=1":          "/guide/",
		"/guide/index":           "/guide",
		"/index":                 "/",
		"/guide#install":         "/guide#install",
		"/de/guide/#install":     "/guide/#install",
		"":                       "/",
		"/guide//setup/../intro": "/guide/intro",
	}
	for in, want := range tests {
		route, _ := r.Resolve(in)
		assert.Equal(t, want, route, "Resolve(%q)", in)
	}

	_, tag := r.Resolve("/guide")
	assert.Equal(t, language.English, tag)
}

func TestResolveWithoutLocales(t *testing.T) {
	var r Resolver
	route, tag := r.Resolve("/de/guide")
	assert.Equal(t, "/de/guide", route)
	assert.Equal(t, language.Und, tag)
	assert.False(t, r.Enabled())
}

func TestNewResolverErrors(t *testing.T) {
	_, err := NewResolver([]string{"en", "not a tag"}, "")
	assert.Error(t, err)

	_, err = NewResolver([]string{"en"}, "fr")
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	r := newResolver(t)
	assert.Equal(t, language.German, r.Match("de-CH,de;q=0.9,en;q=0.5"))
	assert.Equal(t, language.English, r.Match("ja"))
	assert.Equal(t, language.English, r.Match(""))
}

func TestPrefix(t *testing.T) {
	r := newResolver(t)
	assert.Equal(t, "", r.Prefix(language.English))
	assert.Equal(t, "/de", r.Prefix(language.German))
}
