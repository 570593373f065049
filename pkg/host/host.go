// Package host defines the presentation-tree capability the engine mounts
// into. Implementations wrap a real platform tree (a browser DOM through
// syscall/js, a terminal widget tree) or keep the tree in memory, as
// package memhost does.
package host

// End is the insertion index meaning "append after the last child".
const End = -1

// Node is any node of the host tree.
type Node interface {
	// Parent returns the element the node is attached to, or nil.
	Parent() Element
	// Remove detaches the node and its descendants from the tree.
	Remove()
}

// Text is a leaf node holding a string value.
type Text interface {
	Node
	Value() string
	SetValue(value string)
}

// Element is a node with a tag, attributes, inline styles, classes, event
// listeners and children.
type Element interface {
	Node
	Tag() string

	SetAttribute(name string, value any)
	RemoveAttribute(name string)

	SetStyle(name, value string)
	RemoveStyle(name string)

	AddClass(names ...string)
	RemoveClass(names ...string)

	// AddEventListener registers fn for event and returns the token used to
	// unregister it.
	AddEventListener(event string, fn Listener) ListenerID
	RemoveEventListener(id ListenerID)

	// ChildNodes returns the current children in order. The slice must not
	// be modified by callers.
	ChildNodes() []Node
	// InsertBefore inserts child immediately before ref. A nil ref appends.
	// A child already attached elsewhere is moved.
	InsertBefore(child, ref Node)
}

// Document creates host nodes.
type Document interface {
	CreateText(value string) Text
	CreateElement(tag string) Element
}

// ListenerID identifies a registered listener.
type ListenerID uint64

// Listener receives host events.
type Listener func(e Event)

// Event is delivered to listeners.
type Event struct {
	Type    string
	Target  Element
	Payload any
}

// Insert places child at index among parent's children: immediately before
// the child currently at index, or at the end when index is End or at least
// the number of children. Negative indices other than End are rejected by
// callers before reaching here.
func Insert(parent Element, child Node, index int) {
	if index == End {
		parent.InsertBefore(child, nil)
		return
	}
	children := parent.ChildNodes()
	if index >= len(children) {
		parent.InsertBefore(child, nil)
		return
	}
	parent.InsertBefore(child, children[index])
}

// IndexOf returns the position of n among parent's children, or -1.
func IndexOf(parent Element, n Node) int {
	if parent == nil || n == nil {
		return -1
	}
	for i, c := range parent.ChildNodes() {
		if c == n {
			return i
		}
	}
	return -1
}

// ChildAt returns the child at index, or nil when out of range.
func ChildAt(parent Element, index int) Node {
	children := parent.ChildNodes()
	if index < 0 || index >= len(children) {
		return nil
	}
	return children[index]
}
