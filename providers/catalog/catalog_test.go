package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	Register(LanguageInfo{ID: "starlark", Extensions: []string{".star", ".BZL", "sky"}})

	for _, ext := range []string{".star", ".bzl", ".sky", ".STAR"} {
		info, ok := LookupByExtension(ext)
		require.True(t, ok, ext)
		assert.Equal(t, "starlark", info.ID)
	}

	info, ok := Lookup("Starlark")
	require.True(t, ok)
	assert.Equal(t, []string{".star", ".bzl", ".sky"}, info.Extensions)
}

func TestRegisterReplacesExtensions(t *testing.T) {
	Register(LanguageInfo{ID: "cfg", Extensions: []string{".cfg", ".ini"}})
	Register(LanguageInfo{ID: "cfg", Extensions: []string{".cfg"}})

	_, ok := LookupByExtension(".ini")
	assert.False(t, ok)
	_, ok = LookupByExtension(".cfg")
	assert.True(t, ok)
}

func TestRegisterIgnoresEmptyID(t *testing.T) {
	Register(LanguageInfo{Extensions: []string{".nothing"}})
	_, ok := LookupByExtension(".nothing")
	assert.False(t, ok)
}

func TestDetect(t *testing.T) {
	Register(LanguageInfo{ID: "toml", Extensions: []string{".toml"}})

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"pyproject.toml", "toml", true},
		{"dir/nested/Config.TOML", "toml", true},
		{"Makefile", "", false},
		{"archive.unknown", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			info, ok := Detect(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, info.ID)
		})
	}
}

func TestCatalogIsolated(t *testing.T) {
	c := New()
	c.Register(LanguageInfo{ID: "a", Extensions: []string{".x", ".y"}})
	c.Register(LanguageInfo{ID: "b", Extensions: []string{"Y", "."}})

	info, ok := c.LookupByExtension("y")
	require.True(t, ok)
	assert.Equal(t, "b", info.ID)
	assert.Equal(t, []string{".y"}, info.Extensions)

	// Re-registering a keeps b's claim on .y.
	c.Register(LanguageInfo{ID: "a", Extensions: []string{".x"}})
	info, ok = c.Detect("file.Y")
	require.True(t, ok)
	assert.Equal(t, "b", info.ID)

	_, ok = Lookup("a")
	assert.False(t, ok)
}
