// Package vdom provides the virtual node model.
//
// A VNode is a tagged variant: text, element, fragment, component or slot.
// Trees are built with the H, C, Fragment, Text and Slot builders, which
// normalize children: nils are dropped, nested slices are flattened and
// primitive values become text nodes.
//
//	H("ul", Props{"class": "todos"},
//	    H("li", Props{"key": "a"}, "Buy milk"),
//	    C(TodoItem, Props{"key": "b", "title": "Walk dog"}),
//	    Fragment("done: ", 3),
//	)
//
// # Mount state
//
// El, Instance and Listeners are written by the runtime while a node is
// mounted and cleared when it is destroyed. A node is either fully mounted
// or fully unmounted.
//
// # Slots
//
// Slot marks where a component's external content goes. Producing a slot
// bumps a process-wide generation counter; the component runtime compares
// the counter before and after calling a render function to decide whether
// slot filling is needed.
package vdom
