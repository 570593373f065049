package runtime

import (
	"strings"

	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/vdom"
)

// Method is a user-defined component method.
type Method func(c *Component, args ...any) (any, error)

// Options describe a component.
type Options struct {
	// Name identifies the component in logs, spans and job names.
	Name string

	// Render returns the component's tree. It must not be nil. A nil tree
	// renders nothing.
	Render func(c *Component) *vdom.VNode

	// State computes the initial state from the initial props.
	State func(props vdom.Props) vdom.State

	// OnMounted runs at the scheduler flush after the component mounts.
	OnMounted func(c *Component) error

	// OnUnmounted runs at the scheduler flush after the component unmounts.
	OnUnmounted func(c *Component) error

	// Methods are callable through Component.Call.
	Methods map[string]Method
}

// reservedMethods collide with operations every component has.
var reservedMethods = []string{
	"mount", "unmount", "render", "updateProps", "updateState", "emit",
	"props", "state", "parent", "elements", "firstElement", "offset",
	"vnode", "call", "onMounted", "onUnmounted", "setExternalContent",
	"isMounted", "name",
}

// Definition is a defined component. It is the vdom.ComponentType placed in
// trees with vdom.C.
type Definition struct {
	opts Options
}

// Define validates opts and returns a component definition.
func Define(opts Options) (*Definition, error) {
	if opts.Render == nil {
		return nil, errors.New(errors.CodeInvalidArgument).WithDetail("component has no render function")
	}
	if opts.Name == "" {
		opts.Name = "Component"
	}
	for name := range opts.Methods {
		for _, reserved := range reservedMethods {
			if strings.EqualFold(name, reserved) {
				return nil, errors.New(errors.CodeReservedMethodName).
					WithDetailf("%s.%s", opts.Name, name).
					WithSuggestion("Rename the method; " + reserved + " is a component operation.")
			}
		}
	}
	return &Definition{opts: opts}, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(opts Options) *Definition {
	def, err := Define(opts)
	if err != nil {
		panic(err)
	}
	return def
}

// ComponentName implements vdom.ComponentType.
func (d *Definition) ComponentName() string { return d.opts.Name }

// New creates an unmounted instance. parent may be nil.
func (d *Definition) New(r *Renderer, props vdom.Props, on vdom.On, parent *Component) *Component {
	if props == nil {
		props = vdom.Props{}
	}
	c := &Component{
		def:        d,
		r:          r,
		props:      props,
		parent:     parent,
		handlers:   on,
		dispatcher: NewDispatcher(),
	}
	if d.opts.State != nil {
		c.state = d.opts.State(props)
	}
	if c.state == nil {
		c.state = vdom.State{}
	}
	return c
}
