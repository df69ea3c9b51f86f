// Package style owns the output side of the engine: the element model, the
// stable-id registry animations resolve their targets through, transform
// channel composition, and the applicator that routes interpolated values
// onto elements.
package style

import (
	"sync"

	"github.com/matt-g-everett/motive/interp"
)

// Element is the visual-state holder animations write to. Geometry fields
// feed unit conversion; the style map is the mutation target. The style map
// is guarded because the MQTT streamer snapshots it from its own goroutine.
type Element struct {
	ID       string
	Width    float64
	Height   float64
	FontSize float64
	Parent   *Element

	mu     sync.RWMutex
	styles map[string]string
}

// NewElement creates an element with the given id and box size.
func NewElement(id string, width, height float64) *Element {
	e := new(Element)
	e.ID = id
	e.Width = width
	e.Height = height
	e.FontSize = 16
	e.styles = make(map[string]string)
	return e
}

// Style returns the current value of a style property, or "" if unset.
func (e *Element) Style(name string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.styles[name]
}

// SetStyle writes one style property. This is the single visible mutation
// the applicator performs per call.
func (e *Element) SetStyle(name, value string) {
	e.mu.Lock()
	e.styles[name] = value
	e.mu.Unlock()
}

// Styles returns a copy of the element's style map.
func (e *Element) Styles() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]string, len(e.styles))
	for k, v := range e.styles {
		out[k] = v
	}
	return out
}

// Registry is the indirection table from stable element ids to live
// elements. Animations hold only ids and resolve them here once per tick,
// so an element detached and reattached between ticks keeps its animation,
// while a permanently detached one makes the animation self-terminate.
type Registry struct {
	ViewportW    float64
	ViewportH    float64
	RootFontSize float64

	mu       sync.RWMutex
	elements map[string]*Element
}

// NewRegistry creates a registry with the given viewport geometry.
func NewRegistry(viewportW, viewportH float64) *Registry {
	r := new(Registry)
	r.ViewportW = viewportW
	r.ViewportH = viewportH
	r.RootFontSize = 16
	r.elements = make(map[string]*Element)
	return r
}

// Attach makes an element resolvable under its id, replacing any previous
// holder of that id.
func (r *Registry) Attach(e *Element) {
	r.mu.Lock()
	r.elements[e.ID] = e
	r.mu.Unlock()
}

// Detach removes the element with the given id. Resolution for that id
// fails until a new element is attached under it.
func (r *Registry) Detach(id string) {
	r.mu.Lock()
	delete(r.elements, id)
	r.mu.Unlock()
}

// Resolve looks up a live element by id. Absence is a normal state, not an
// error.
func (r *Registry) Resolve(id string) (*Element, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.elements[id]
	return e, ok
}

// Each calls fn for every attached element.
func (r *Registry) Each(fn func(*Element)) {
	r.mu.RLock()
	snapshot := make([]*Element, 0, len(r.elements))
	for _, e := range r.elements {
		snapshot = append(snapshot, e)
	}
	r.mu.RUnlock()
	for _, e := range snapshot {
		fn(e)
	}
}

// Len reports the number of attached elements.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.elements)
}

// ContextFor builds the unit-conversion context for an element from its own
// box, its parent's box and the registry's viewport.
func (r *Registry) ContextFor(e *Element) interp.Context {
	ctx := interp.Context{
		ElementW:     e.Width,
		ElementH:     e.Height,
		ViewportW:    r.ViewportW,
		ViewportH:    r.ViewportH,
		FontSize:     e.FontSize,
		RootFontSize: r.RootFontSize,
	}
	if e.Parent != nil {
		ctx.ParentW = e.Parent.Width
		ctx.ParentH = e.Parent.Height
	}
	return ctx
}
