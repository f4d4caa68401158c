// Package catalog maps file extensions to the languages that can be checked.
package catalog

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// LanguageInfo describes a checkable language.
type LanguageInfo struct {
	ID         string
	Extensions []string
}

// Catalog is a concurrency-safe set of languages indexed by ID and extension.
type Catalog struct {
	mu    sync.RWMutex
	langs map[string]LanguageInfo
	exts  map[string]string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		langs: make(map[string]LanguageInfo),
		exts:  make(map[string]string),
	}
}

var std = New()

// Register adds info to the package catalog.
func Register(info LanguageInfo) { std.Register(info) }

// Lookup finds a language of the package catalog by ID.
func Lookup(id string) (LanguageInfo, bool) { return std.Lookup(id) }

// LookupByExtension finds a language of the package catalog by extension.
func LookupByExtension(ext string) (LanguageInfo, bool) { return std.LookupByExtension(ext) }

// Detect finds the language of path in the package catalog.
func Detect(path string) (LanguageInfo, bool) { return std.Detect(path) }

// Register stores info. Registering an ID again replaces its extensions.
// Entries without an ID are ignored.
func (c *Catalog) Register(info LanguageInfo) {
	id := strings.ToLower(info.ID)
	if id == "" {
		return
	}
	info.Extensions = normalizeExtensions(info.Extensions)

	c.mu.Lock()
	defer c.mu.Unlock()

	for ext, owner := range c.exts {
		if owner == id {
			delete(c.exts, ext)
		}
	}
	c.langs[id] = info
	for _, ext := range info.Extensions {
		c.exts[ext] = id
	}
}

// Lookup is case-insensitive.
func (c *Catalog) Lookup(id string) (LanguageInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.langs[strings.ToLower(id)]
	return info, ok
}

// LookupByExtension accepts extensions with or without the leading dot.
func (c *Catalog) LookupByExtension(ext string) (LanguageInfo, bool) {
	exts := normalizeExtensions([]string{ext})
	if len(exts) == 0 {
		return LanguageInfo{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.exts[exts[0]]
	if !ok {
		return LanguageInfo{}, false
	}
	return c.langs[id], true
}

// Detect returns the language of path based on its extension.
func (c *Catalog) Detect(path string) (LanguageInfo, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return LanguageInfo{}, false
	}
	return c.LookupByExtension(ext)
}

// normalizeExtensions lowercases, dot-prefixes and dedupes exts, keeping
// their order.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}
