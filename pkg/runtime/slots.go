package runtime

import "github.com/relaxui/relax/pkg/vdom"

// fillSlots replaces the slots in v with external content, or with their
// default content when external is empty. Slots with nothing to show are
// dropped. Component children are not searched; their slots belong to that
// component. It returns the filled tree, which differs from v only when v
// is itself a slot.
//
// The first slot showing external content gets the external nodes
// themselves; every later one gets a clone, since a vnode is mounted at
// most once.
func fillSlots(v *vdom.VNode, external []*vdom.VNode) *vdom.VNode {
	f := &slotFiller{external: external}
	if v.Kind == vdom.KindSlot {
		if content := f.content(v); content != nil {
			return content
		}
		return vdom.Fragment()
	}
	f.fillChildren(v)
	return v
}

type slotFiller struct {
	external []*vdom.VNode
	used     bool
}

func (f *slotFiller) fillChildren(v *vdom.VNode) {
	if v.Kind == vdom.KindComponent || len(v.Children) == 0 {
		return
	}
	var out []*vdom.VNode
	for i, c := range v.Children {
		if c.Kind != vdom.KindSlot {
			f.fillChildren(c)
			if out != nil {
				out = append(out, c)
			}
			continue
		}
		if out == nil {
			out = make([]*vdom.VNode, i, len(v.Children))
			copy(out, v.Children[:i])
		}
		if content := f.content(c); content != nil {
			out = append(out, content)
		}
	}
	if out != nil {
		v.Children = out
	}
}

// content returns a fragment of what slot s shows, or nil.
func (f *slotFiller) content(s *vdom.VNode) *vdom.VNode {
	views := s.Children
	if len(f.external) > 0 {
		views = f.external
		if f.used {
			views = vdom.CloneAll(f.external)
		}
		f.used = true
	}
	if len(views) == 0 {
		return nil
	}
	return &vdom.VNode{Kind: vdom.KindFragment, Children: views}
}
