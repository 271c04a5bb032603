package navtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsActiveNormalization(t *testing.T) {
	routes := []string{"/guide", "/guide/setup", "/", "/a/b/c"}
	for _, r := range routes {
		assert.True(t, IsActive(r, r), "plain %q", r)
		assert.True(t, IsActive(r+"/", r), "trailing slash %q", r)
		assert.True(t, IsActive(r+"/#anything", r), "fragment %q", r)
		assert.True(t, IsActive(r+"#anything", r), "fragment without slash %q", r)
	}
}

func TestIsActiveNodeRouteWithSlash(t *testing.T) {
	assert.True(t, IsActive("/guide", "/guide/"))
}

func TestIsActiveNoPrefixMatch(t *testing.T) {
	assert.False(t, IsActive("/guide/intro", "/guide"))
	assert.False(t, IsActive("/guide", "/guide/intro"))
	assert.False(t, IsActive("/guidebook", "/guide"))
	assert.False(t, IsActive("/", "/guide"))
}

func TestStripFragment(t *testing.T) {
	assert.Equal(t, "/guide/", StripFragment("/guide/#setup"))
	assert.Equal(t, "/guide", StripFragment("/guide"))
	assert.Equal(t, "", StripFragment("#top"))
}

func TestNormalizeRoute(t *testing.T) {
	tests := map[string]string{
		"":         "/",
		"/":        "/",
		"/guide":   "/guide/",
		"/guide/":  "/guide/",
		"/guide//": "/guide/",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeRoute(in), "NormalizeRoute(%q)", in)
	}
}

func TestIsAncestor(t *testing.T) {
	assert.True(t, IsAncestor("/guide/setup/a/", "/guide"))
	assert.True(t, IsAncestor("/guide/setup/a#x", "/guide/setup"))
	assert.False(t, IsAncestor("/guide", "/guide"))
	assert.False(t, IsAncestor("/guidebook/a", "/guide"))
	assert.False(t, IsAncestor("/guide", "/guide/setup"))
}
