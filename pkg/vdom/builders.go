package vdom

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/relaxui/relax/internal/errors"
)

// H creates an element node. The "key" prop becomes the node's Key and an
// "on" prop of type On becomes its event handlers. It panics with
// ErrInvalidArgument on children of unsupported types.
func H(tag string, props Props, children ...any) *VNode {
	attrs, on, key := splitProps(props, "H")
	return &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    attrs,
		On:       on,
		Key:      key,
		Children: normalizeChildren(children, "H"),
	}
}

// C creates a component node. children become the component's external
// content for slot filling.
func C(component ComponentType, props Props, children ...any) *VNode {
	if component == nil {
		panic(errors.New(errors.CodeInvalidArgument).WithDetail("C: nil component"))
	}
	attrs, on, key := splitProps(props, "C")
	return &VNode{
		Kind:      KindComponent,
		Component: component,
		Props:     attrs,
		On:        on,
		Key:       key,
		Children:  normalizeChildren(children, "C"),
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	return &VNode{
		Kind:     KindFragment,
		Children: normalizeChildren(children, "Fragment"),
	}
}

// Text creates a text node.
func Text(value string) *VNode {
	return &VNode{Kind: KindText, Text: value}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

var slotGeneration atomic.Uint64

// Slot creates a slot node whose children are the default content.
func Slot(defaults ...any) *VNode {
	slotGeneration.Add(1)
	return &VNode{
		Kind:     KindSlot,
		Children: normalizeChildren(defaults, "Slot"),
	}
}

// SlotGeneration returns the number of slot nodes created so far.
func SlotGeneration() uint64 {
	return slotGeneration.Load()
}

// If returns node when cond holds, nil otherwise. Builders drop the nil.
func If(cond bool, node *VNode) *VNode {
	if cond {
		return node
	}
	return nil
}

// Map builds one node per item.
func Map[T any](items []T, fn func(int, T) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		out = append(out, fn(i, item))
	}
	return out
}

func splitProps(props Props, builder string) (Props, On, string) {
	attrs := make(Props, len(props))
	var on On
	var key string
	for k, v := range props {
		switch k {
		case "key":
			if v != nil {
				key = fmt.Sprint(v)
			}
		case "on":
			switch h := v.(type) {
			case nil:
			case On:
				on = h
			case map[string]Handler:
				on = On(h)
			default:
				panic(errors.New(errors.CodeInvalidArgument).
					WithDetailf("%s: \"on\" prop must be vdom.On, got %T", builder, v))
			}
		default:
			attrs[k] = v
		}
	}
	return attrs, on, key
}

// normalizeChildren flattens slices, drops nils and wraps primitives.
func normalizeChildren(args []any, builder string) []*VNode {
	out := make([]*VNode, 0, len(args))
	var add func(arg any)
	add = func(arg any) {
		switch v := arg.(type) {
		case nil:
		case *VNode:
			if v != nil {
				out = append(out, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					out = append(out, c)
				}
			}
		case []any:
			for _, c := range v {
				add(c)
			}
		case string:
			out = append(out, Text(v))
		case bool:
			out = append(out, Text(strconv.FormatBool(v)))
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			out = append(out, Text(fmt.Sprint(v)))
		case float32:
			out = append(out, Text(strconv.FormatFloat(float64(v), 'g', -1, 32)))
		case float64:
			out = append(out, Text(strconv.FormatFloat(v, 'g', -1, 64)))
		case fmt.Stringer:
			out = append(out, Text(v.String()))
		default:
			panic(errors.New(errors.CodeInvalidArgument).
				WithDetailf("%s: unsupported child of type %T", builder, arg))
		}
	}
	for _, arg := range args {
		add(arg)
	}
	return out
}
