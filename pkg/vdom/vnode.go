package vdom

import "github.com/relaxui/relax/pkg/host"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindText      Kind = iota // Plain text node
	KindElement               // <div>, <button>, etc.
	KindFragment              // Grouping without wrapper
	KindComponent             // Nested component
	KindSlot                  // Placeholder for external content
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindSlot:
		return "Slot"
	default:
		return "Unknown"
	}
}

// VNode is the virtual node.
type VNode struct {
	Kind      Kind          // Node type
	Tag       string        // Element tag name (e.g., "div")
	Props     Props         // Attributes, or component props
	On        On            // Event handlers
	Children  []*VNode      // Child nodes, or a component's external content
	Key       string        // Reconciliation key
	Text      string        // For KindText
	Component ComponentType // For KindComponent

	El        host.Node           // Host handle while mounted
	Instance  Instance            // Live component while mounted
	Listeners map[string]*Binding // Registered element listeners while mounted
}

// IsMounted reports whether the runtime currently owns host resources for v.
func (v *VNode) IsMounted() bool {
	return v != nil && (v.El != nil || v.Instance != nil)
}

// Clone returns an unmounted copy of v and its subtree. Props and handler
// maps are shared with v.
func Clone(v *VNode) *VNode {
	if v == nil {
		return nil
	}
	return &VNode{
		Kind:      v.Kind,
		Tag:       v.Tag,
		Props:     v.Props,
		On:        v.On,
		Children:  CloneAll(v.Children),
		Key:       v.Key,
		Text:      v.Text,
		Component: v.Component,
	}
}

// CloneAll clones each node of nodes.
func CloneAll(nodes []*VNode) []*VNode {
	if nodes == nil {
		return nil
	}
	out := make([]*VNode, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

// Props holds attributes for elements and props for components. The "class"
// entry may be a string or a []string, "style" a Style or map[string]string.
type Props map[string]any

// State is a component's local state.
type State map[string]any

// Style holds inline style properties.
type Style map[string]string

// On maps event names to handlers.
type On map[string]Handler

// Handler receives an event. owner is the component the handler runs on
// behalf of, or nil when there is none. For host events payload is a
// host.Event; for component events it is whatever Emit was given.
type Handler func(owner Owner, payload any)

// Binding is an event registration on a mounted element. Handler may be
// swapped while the host registration stays in place.
type Binding struct {
	ID      host.ListenerID
	Handler Handler
}

// ComponentType is the identity of a defined component. Two component nodes
// refer to the same component when their ComponentType values are equal.
type ComponentType interface {
	ComponentName() string
}

// Owner is the surface of a component instance available to handlers.
type Owner interface {
	Name() string
	Props() Props
	State() State
	UpdateProps(partial Props) error
	UpdateState(partial State) error
	Emit(event string, payload any)
	Call(method string, args ...any) (any, error)
}

// Instance is a live component bound to a component node.
type Instance interface {
	Owner
	// Elements returns the top-level host nodes the component occupies.
	Elements() []host.Node
}
