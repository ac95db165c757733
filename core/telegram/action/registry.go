// Package action runs the multi-step guided flows. Exactly one action can be
// active per user; starting a second one stops the first to completion before
// the new start runs, and a cancel from any screen funnels through the same
// stop path.
package action

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownAction reports a start or stop against a name that is not
// registered. Stale tokens and tampered payloads produce it.
var ErrUnknownAction = errors.New("action: unknown action")

// StartFunc begins a flow. The session already records the action when it
// runs; a returned error reverts the session to idle.
type StartFunc func(ctx context.Context, f *Flow) error

// MessageFunc consumes one free-text message while the flow is active.
type MessageFunc func(ctx context.Context, f *Flow, text string) error

// StopFunc ends a flow, on completion as well as on cancel. It still sees
// the flow's args and is expected to leave the user on a sensible menu.
// Stop handlers must not call Flow.Finish.
type StopFunc func(ctx context.Context, f *Flow) error

// Handler is the capability record of one action. Start and Stop are
// mandatory; OnMessage is optional for flows driven purely by buttons.
type Handler struct {
	Start     StartFunc
	OnMessage MessageFunc
	Stop      StopFunc
}

type entry struct {
	short   string
	handler Handler
}

// Registry maps action names and short aliases to handlers. Built at
// startup, read-only afterwards.
type Registry struct {
	byName  map[string]entry
	byShort map[string]string
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]entry),
		byShort: make(map[string]string),
	}
}

// Register adds an action under its full name and short alias. Duplicate
// names and incomplete handlers fail registration so wiring bugs surface at
// startup.
func (r *Registry) Register(name, short string, h Handler) error {
	if name == "" || short == "" {
		return fmt.Errorf("action: invalid registration %q/%q", name, short)
	}
	if h.Start == nil || h.Stop == nil {
		return fmt.Errorf("action %q: start and stop handlers are required", name)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("action: duplicate name %q", name)
	}
	if prev, exists := r.byShort[short]; exists {
		return fmt.Errorf("action: short name %q already used by %q", short, prev)
	}
	r.byName[name] = entry{short: short, handler: h}
	r.byShort[short] = name
	return nil
}

// Resolve looks an action up by short name, falling back to the full name.
func (r *Registry) Resolve(ref string) (Handler, string, bool) {
	if name, ok := r.byShort[ref]; ok {
		return r.byName[name].handler, name, true
	}
	if e, ok := r.byName[ref]; ok {
		return e.handler, ref, true
	}
	return Handler{}, "", false
}

// Names returns registered action names, sorted, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
