package memhost

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/relaxui/relax/pkg/host"
)

type node struct {
	id     uint64
	doc    *Document
	parent *Element
}

func (n *node) init(d *Document) {
	n.doc = d
	n.id = d.newID()
}

// ID returns the document-unique node id.
func (n *node) ID() uint64 { return n.id }

// OwnerDocument returns the document that created the node.
func (n *node) OwnerDocument() host.Document { return n.doc }

// Parent implements host.Node.
func (n *node) Parent() host.Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Text is an in-memory text node.
type Text struct {
	node
	value string
}

// Value implements host.Text.
func (t *Text) Value() string { return t.value }

// SetValue implements host.Text.
func (t *Text) SetValue(value string) {
	t.value = value
	t.doc.record(Mutation{Op: MutSetText, Target: t.id, Value: value})
}

// Remove implements host.Node.
func (t *Text) Remove() {
	detach(t, t.parent)
	t.parent = nil
	delete(t.doc.nodes, t.id)
}

type listenerEntry struct {
	id    host.ListenerID
	event string
	fn    host.Listener
}

// Element is an in-memory element.
type Element struct {
	node
	tag       string
	attrs     map[string]any
	styles    map[string]string
	classes   []string
	listeners []listenerEntry
	children  []host.Node
}

// Tag implements host.Element.
func (e *Element) Tag() string { return e.tag }

// SetAttribute implements host.Element. A nil value removes the attribute.
func (e *Element) SetAttribute(name string, value any) {
	if value == nil {
		e.RemoveAttribute(name)
		return
	}
	e.attrs[name] = value
	e.doc.record(Mutation{Op: MutSetAttr, Target: e.id, Name: name, Value: attrString(value)})
}

// RemoveAttribute implements host.Element.
func (e *Element) RemoveAttribute(name string) {
	delete(e.attrs, name)
	e.doc.record(Mutation{Op: MutRemoveAttr, Target: e.id, Name: name})
}

// Attribute returns the attribute value.
func (e *Element) Attribute(name string) (any, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetStyle implements host.Element.
func (e *Element) SetStyle(name, value string) {
	e.styles[name] = value
	e.doc.record(Mutation{Op: MutSetStyle, Target: e.id, Name: name, Value: value})
}

// RemoveStyle implements host.Element.
func (e *Element) RemoveStyle(name string) {
	delete(e.styles, name)
	e.doc.record(Mutation{Op: MutRemoveStyle, Target: e.id, Name: name})
}

// Style returns an inline style property.
func (e *Element) Style(name string) (string, bool) {
	v, ok := e.styles[name]
	return v, ok
}

// AddClass implements host.Element.
func (e *Element) AddClass(names ...string) {
	for _, name := range names {
		if !slices.Contains(e.classes, name) {
			e.classes = append(e.classes, name)
		}
		e.doc.record(Mutation{Op: MutAddClass, Target: e.id, Name: name})
	}
}

// RemoveClass implements host.Element.
func (e *Element) RemoveClass(names ...string) {
	for _, name := range names {
		e.classes = slices.DeleteFunc(e.classes, func(c string) bool { return c == name })
		e.doc.record(Mutation{Op: MutRemoveClass, Target: e.id, Name: name})
	}
}

// Classes returns the class list in insertion order.
func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

// HasClass reports whether the class is present.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.classes, name)
}

// AddEventListener implements host.Element.
func (e *Element) AddEventListener(event string, fn host.Listener) host.ListenerID {
	e.doc.nextListener++
	id := host.ListenerID(e.doc.nextListener)
	e.listeners = append(e.listeners, listenerEntry{id: id, event: event, fn: fn})
	e.doc.record(Mutation{Op: MutAddListener, Target: e.id, Name: event})
	return id
}

// RemoveEventListener implements host.Element.
func (e *Element) RemoveEventListener(id host.ListenerID) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			e.doc.record(Mutation{Op: MutRemoveListener, Target: e.id, Name: l.event})
			return
		}
	}
}

// ListenerCount returns the number of listeners for event, or for all events
// when event is empty.
func (e *Element) ListenerCount(event string) int {
	n := 0
	for _, l := range e.listeners {
		if event == "" || l.event == event {
			n++
		}
	}
	return n
}

// Dispatch invokes every listener registered for event in registration
// order and returns how many ran.
func (e *Element) Dispatch(event string, payload any) int {
	var fns []host.Listener
	for _, l := range e.listeners {
		if l.event == event {
			fns = append(fns, l.fn)
		}
	}
	for _, fn := range fns {
		fn(host.Event{Type: event, Target: e, Payload: payload})
	}
	return len(fns)
}

// ChildNodes implements host.Element.
func (e *Element) ChildNodes() []host.Node {
	return e.children
}

// InsertBefore implements host.Element.
func (e *Element) InsertBefore(child, ref host.Node) {
	if child == ref {
		return
	}
	switch c := child.(type) {
	case *Text:
		detach(c, c.parent)
		c.parent = e
	case *Element:
		detach(c, c.parent)
		c.parent = e
	default:
		panic(fmt.Sprintf("memhost: foreign node %T", child))
	}

	idx := len(e.children)
	if ref != nil {
		if i := slices.Index(e.children, ref); i >= 0 {
			idx = i
		}
	}
	e.children = slices.Insert(e.children, idx, child)

	m := Mutation{Op: MutInsert, Target: nodeID(child), Parent: e.id}
	if ref != nil {
		m.Value = strconv.FormatUint(nodeID(ref), 10)
	}
	e.doc.record(m)
}

// Remove implements host.Node.
func (e *Element) Remove() {
	detach(e, e.parent)
	e.parent = nil
	delete(e.doc.nodes, e.id)
}

// Children returns child elements, skipping text nodes.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// TextContent concatenates all descendant text.
func (e *Element) TextContent() string {
	var b strings.Builder
	var walk func(n host.Node)
	walk = func(n host.Node) {
		switch v := n.(type) {
		case *Text:
			b.WriteString(v.value)
		case *Element:
			for _, c := range v.children {
				walk(c)
			}
		}
	}
	walk(e)
	return b.String()
}

// Find returns the first descendant element (depth first) matching pred.
func (e *Element) Find(pred func(*Element) bool) *Element {
	for _, c := range e.Children() {
		if pred(c) {
			return c
		}
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant element matching pred in document order.
func (e *Element) FindAll(pred func(*Element) bool) []*Element {
	var out []*Element
	for _, c := range e.Children() {
		if pred(c) {
			out = append(out, c)
		}
		out = append(out, c.FindAll(pred)...)
	}
	return out
}

// ByTag matches elements with tag.
func ByTag(tag string) func(*Element) bool {
	return func(e *Element) bool { return e.tag == tag }
}

// ByAttr matches elements whose attribute name stringifies to value.
func ByAttr(name, value string) func(*Element) bool {
	return func(e *Element) bool {
		v, ok := e.attrs[name]
		return ok && attrString(v) == value
	}
}

// CountListeners returns the listeners registered on e and its descendants.
func (e *Element) CountListeners() int {
	n := len(e.listeners)
	for _, c := range e.Children() {
		n += c.CountListeners()
	}
	return n
}

func detach(child host.Node, parent *Element) {
	if parent == nil {
		return
	}
	if i := slices.Index(parent.children, child); i >= 0 {
		parent.children = slices.Delete(parent.children, i, i+1)
		parent.doc.record(Mutation{Op: MutRemove, Target: nodeID(child), Parent: parent.id})
	}
}

func nodeID(n host.Node) uint64 {
	switch v := n.(type) {
	case *Text:
		return v.id
	case *Element:
		return v.id
	}
	return 0
}

// attrString converts an attribute value to its string form.
func attrString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
