package runtime

import (
	"maps"
	"slices"

	"github.com/relaxui/relax/pkg/arraydiff"
	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/vdom"
)

// addListeners registers one host listener per event name in v.On.
func (r *Renderer) addListeners(v *vdom.VNode, el host.Element, owner *Component) {
	if len(v.On) == 0 {
		return
	}
	v.Listeners = make(map[string]*vdom.Binding, len(v.On))
	for _, name := range slices.Sorted(maps.Keys(v.On)) {
		v.Listeners[name] = bind(el, name, v.On[name], owner)
	}
}

// bind registers a listener that forwards to the binding's current handler,
// so the handler can be replaced without touching the host registration.
func bind(el host.Element, event string, h vdom.Handler, owner *Component) *vdom.Binding {
	b := &vdom.Binding{Handler: h}
	o := ownerOf(owner)
	b.ID = el.AddEventListener(event, func(e host.Event) {
		if b.Handler != nil {
			b.Handler(o, e)
		}
	})
	return b
}

// patchListeners unregisters removed event names, registers added ones and
// rebinds handlers of kept names in place.
func patchListeners(old, next *vdom.VNode, el host.Element, owner *Component) {
	keys := arraydiff.KeysDiff(old.On, next.On, func(vdom.Handler, vdom.Handler) bool { return true })
	listeners := old.Listeners
	for _, name := range keys.Removed {
		if b, ok := listeners[name]; ok {
			el.RemoveEventListener(b.ID)
			delete(listeners, name)
		}
	}
	if len(keys.Added) > 0 && listeners == nil {
		listeners = make(map[string]*vdom.Binding, len(keys.Added))
	}
	for _, name := range keys.Added {
		listeners[name] = bind(el, name, next.On[name], owner)
	}
	for name, b := range listeners {
		b.Handler = next.On[name]
	}
	if len(listeners) == 0 {
		listeners = nil
	}
	old.Listeners = nil
	next.Listeners = listeners
}

// removeListeners unregisters every listener bound on v.
func removeListeners(v *vdom.VNode, el host.Element) {
	for _, name := range slices.Sorted(maps.Keys(v.Listeners)) {
		el.RemoveEventListener(v.Listeners[name].ID)
	}
	v.Listeners = nil
}
