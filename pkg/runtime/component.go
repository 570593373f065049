package runtime

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/tracing"
	"github.com/relaxui/relax/pkg/vdom"
)

// MaxRerenders bounds the renders one patch may run when updates keep
// arriving while the component is patching.
const MaxRerenders = 100

// Component is a live instance of a Definition.
type Component struct {
	def    *Definition
	r      *Renderer
	parent *Component

	props    vdom.Props
	state    vdom.State
	handlers vdom.On
	external []*vdom.VNode

	dispatcher *Dispatcher
	subs       map[string]Subscription

	vnode     *vdom.VNode
	host      host.Element
	anchor    int
	mounted   bool
	usesSlots bool
	patching  bool
	dirty     bool
}

var _ vdom.Instance = (*Component)(nil)

// Name returns the component's definition name.
func (c *Component) Name() string { return c.def.opts.Name }

// Props returns the current props. Callers must not modify the map.
func (c *Component) Props() vdom.Props { return c.props }

// State returns the current state. Callers must not modify the map.
func (c *Component) State() vdom.State { return c.state }

// Parent returns the component whose tree contains this one, or nil.
func (c *Component) Parent() *Component { return c.parent }

// Dispatcher returns the component's event dispatcher.
func (c *Component) Dispatcher() *Dispatcher { return c.dispatcher }

// VNode returns the last rendered tree, or nil when unmounted.
func (c *Component) VNode() *vdom.VNode { return c.vnode }

// IsMounted reports whether the component is mounted.
func (c *Component) IsMounted() bool { return c.mounted }

// Elements returns the top-level host nodes the component occupies.
func (c *Component) Elements() []host.Node {
	if c.vnode == nil {
		return nil
	}
	return hostNodes(c.vnode)
}

// FirstElement returns the first host node the component occupies, or nil.
func (c *Component) FirstElement() host.Node {
	if nodes := c.Elements(); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// Offset returns the index in the host container where the component's
// content starts. For a component that currently shows nothing it is the
// last known position.
func (c *Component) Offset() int {
	if c.host == nil {
		return 0
	}
	if first := c.FirstElement(); first != nil {
		if i := host.IndexOf(c.host, first); i >= 0 {
			return i
		}
	}
	return min(c.anchor, len(c.host.ChildNodes()))
}

// Mount renders the component into parent at index.
func (c *Component) Mount(parent host.Element, index int) error {
	if c.mounted {
		return errors.New(errors.CodeAlreadyMounted).WithDetailf("component %s", c.Name())
	}
	if err := checkPlacement(parent, index); err != nil {
		return err
	}

	v := c.render()
	c.anchor = index
	if index == host.End || index > len(parent.ChildNodes()) {
		c.anchor = len(parent.ChildNodes())
	}
	if err := c.r.mount(v, parent, index, c); err != nil {
		return err
	}
	c.vnode = v
	c.host = parent
	c.mounted = true
	c.wireHandlers()
	return nil
}

// Unmount destroys the component's tree and drops its event subscriptions.
func (c *Component) Unmount() error {
	if !c.mounted {
		return errors.New(errors.CodeNotMounted).WithDetailf("component %s", c.Name())
	}
	if err := c.r.destroy(c.vnode); err != nil {
		return err
	}
	for _, s := range c.subs {
		c.dispatcher.Unsubscribe(s)
	}
	c.subs = nil
	c.vnode = nil
	c.host = nil
	c.mounted = false
	return nil
}

// UpdateProps merges partial into the props and re-renders, unless the
// merged props equal the current ones.
func (c *Component) UpdateProps(partial vdom.Props) error {
	if !c.mounted {
		return errors.New(errors.CodeNotMounted).WithDetailf("component %s", c.Name())
	}
	merged := maps.Clone(c.props)
	if merged == nil {
		merged = vdom.Props{}
	}
	maps.Copy(merged, partial)
	if vdom.PropsEqual(c.props, merged) {
		return nil
	}
	c.props = merged
	return c.patch()
}

// UpdateState merges partial into the state and re-renders.
func (c *Component) UpdateState(partial vdom.State) error {
	if !c.mounted {
		return errors.New(errors.CodeNotMounted).WithDetailf("component %s", c.Name())
	}
	merged := maps.Clone(c.state)
	if merged == nil {
		merged = vdom.State{}
	}
	maps.Copy(merged, partial)
	c.state = merged
	return c.patch()
}

// Emit calls the handlers the parent attached for event. Handlers receive
// the parent component as owner. An event nobody handles is logged.
func (c *Component) Emit(event string, payload any) {
	if err := c.dispatcher.Dispatch(event, payload); err != nil {
		c.r.logger.Warn("unhandled event",
			"component", c.Name(),
			"event", event,
			"error", err)
	}
}

// Call invokes a user-defined method.
func (c *Component) Call(method string, args ...any) (any, error) {
	m, ok := c.def.opts.Methods[method]
	if !ok {
		return nil, errors.New(errors.CodeInvalidArgument).
			WithDetailf("component %s has no method %q", c.Name(), method)
	}
	return m(c, args...)
}

// render runs the render function and fills slots when it produced any.
func (c *Component) render() *vdom.VNode {
	gen := vdom.SlotGeneration()
	v := c.def.opts.Render(c)
	if v == nil {
		v = vdom.Fragment()
	}
	c.usesSlots = vdom.SlotGeneration() != gen
	if c.usesSlots {
		v = fillSlots(v, c.external)
	}
	return v
}

// patch re-renders and patches the mounted tree. Updates requested while a
// patch is running are folded into it.
func (c *Component) patch() error {
	if !c.mounted {
		return errors.New(errors.CodeNotMounted).WithDetailf("component %s", c.Name())
	}
	if c.patching {
		c.dirty = true
		return nil
	}
	c.patching = true
	defer func() { c.patching = false }()

	start := time.Now()
	_, span := c.r.tracer.Start(context.Background(), tracing.SpanComponentPatch,
		tracing.AttrComponent.String(c.Name()))

	var err error
	renders := 0
	for {
		if renders == MaxRerenders {
			err = errors.New(errors.CodeReentrantUpdate).
				WithDetailf("component %s re-rendered %d times in one patch", c.Name(), renders)
			break
		}
		renders++
		c.dirty = false

		var next *vdom.VNode
		next, err = c.r.patch(c.vnode, c.render(), c.host, c, c.Offset())
		if err != nil {
			break
		}
		c.vnode = next
		if !c.dirty || !c.mounted {
			break
		}
	}
	c.dirty = false

	span.SetAttributes(tracing.AttrRenders.Int(renders))
	span.End(err)
	c.r.metrics.ObservePatch(time.Since(start))
	if err != nil {
		c.r.logger.Error("component patch failed", "component", c.Name(), "error", err)
	}
	return err
}

// wireHandlers subscribes to every event the parent attached a handler for.
func (c *Component) wireHandlers() {
	c.subs = make(map[string]Subscription, len(c.handlers))
	for _, event := range slices.Sorted(maps.Keys(c.handlers)) {
		c.subscribe(event)
	}
}

func (c *Component) subscribe(event string) {
	c.subs[event] = c.dispatcher.Subscribe(event, func(payload any) {
		if h := c.handlers[event]; h != nil {
			h(ownerOf(c.parent), payload)
		}
	})
}

// setHandlers replaces the parent's handlers, adjusting subscriptions for
// added and removed event names.
func (c *Component) setHandlers(on vdom.On) {
	c.handlers = on
	if !c.mounted {
		return
	}
	for event, s := range c.subs {
		if _, ok := on[event]; !ok {
			c.dispatcher.Unsubscribe(s)
			delete(c.subs, event)
		}
	}
	for _, event := range slices.Sorted(maps.Keys(on)) {
		if _, ok := c.subs[event]; !ok {
			c.subscribe(event)
		}
	}
}
