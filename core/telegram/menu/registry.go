package menu

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMenu reports a goto reference that matches no registered menu.
// Stale and tampered tokens produce it; callers degrade to the fallback
// screen instead of crashing.
var ErrUnknownMenu = errors.New("menu: unknown menu")

type entry struct {
	short  string
	render Renderer
}

// Registry maps menu names and their short aliases to renderers. It is built
// once at startup and read-only afterwards, so lookups take no lock.
type Registry struct {
	byName  map[string]entry
	byShort map[string]string
}

// NewRegistry creates an empty menu registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]entry),
		byShort: make(map[string]string),
	}
}

// Register adds a menu under its full name and short alias. Duplicates of
// either are a startup-time failure, never a silent overwrite.
func (r *Registry) Register(name, short string, render Renderer) error {
	if name == "" || short == "" || render == nil {
		return fmt.Errorf("menu: invalid registration %q/%q", name, short)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("menu: duplicate name %q", name)
	}
	if prev, exists := r.byShort[short]; exists {
		return fmt.Errorf("menu: short name %q already used by %q", short, prev)
	}
	r.byName[name] = entry{short: short, render: render}
	r.byShort[short] = name
	return nil
}

// Resolve looks a menu up by short name, falling back to the full name so
// tokens minted before an alias change keep working.
func (r *Registry) Resolve(ref string) (Renderer, string, bool) {
	if name, ok := r.byShort[ref]; ok {
		return r.byName[name].render, name, true
	}
	if e, ok := r.byName[ref]; ok {
		return e.render, ref, true
	}
	return nil, "", false
}

// ShortOf returns the short alias of a registered menu name.
func (r *Registry) ShortOf(name string) (string, bool) {
	e, ok := r.byName[name]
	return e.short, ok
}

// Names returns registered menu names, sorted, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
