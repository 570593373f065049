package runtime

import (
	"slices"

	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/arraydiff"
	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/vdom"
)

// Patch updates the host nodes of the mounted tree old so they match next,
// and returns the live tree, which is next unless old was reused. old must
// not be used afterwards.
func (r *Renderer) Patch(old, next *vdom.VNode, parent host.Element, owner *Component) (*vdom.VNode, error) {
	if old == nil || next == nil {
		return nil, errors.New(errors.CodeInvalidArgument).WithDetail("nil vnode")
	}
	if parent == nil {
		return nil, errors.New(errors.CodeInvalidMountTarget).WithDetail("nil parent")
	}
	if !old.IsMounted() {
		return nil, errors.New(errors.CodeNotMounted).WithDetailf("%s vnode", old.Kind)
	}
	if old == next {
		return old, nil
	}
	if next.IsMounted() {
		return nil, errors.New(errors.CodeAlreadyMounted).WithDetailf("%s vnode", next.Kind)
	}
	return r.patch(old, next, parent, owner, positionOf(old, parent))
}

// patch reconciles old into next. at is the index in parent where old's
// host nodes start, or host.End when unknown.
func (r *Renderer) patch(old, next *vdom.VNode, parent host.Element, owner *Component, at int) (*vdom.VNode, error) {
	if old == next {
		return old, nil
	}
	if !vdom.Equal(old, next) {
		if err := r.destroy(old); err != nil {
			return nil, err
		}
		if err := r.mount(next, parent, at, owner); err != nil {
			return nil, err
		}
		return next, nil
	}

	switch next.Kind {
	case vdom.KindText:
		next.El = old.El
		if old.Text != next.Text {
			next.El.(host.Text).SetValue(next.Text)
		}

	case vdom.KindElement:
		next.El = old.El
		el := next.El.(host.Element)
		patchProps(el, old.Props, next.Props)
		patchListeners(old, next, el, owner)
		if err := r.patchChildren(old, next, el, owner, 0); err != nil {
			return nil, err
		}

	case vdom.KindFragment:
		next.El = old.El
		offset := at
		if offset == host.End {
			offset = len(parent.ChildNodes())
		}
		if err := r.patchChildren(old, next, parent, owner, offset); err != nil {
			return nil, err
		}

	case vdom.KindComponent:
		if err := r.patchComponent(old, next, at); err != nil {
			return nil, err
		}

	default:
		return nil, errors.New(errors.CodeUnknownNodeType).WithDetailf("kind %s", next.Kind)
	}

	old.El = nil
	old.Instance = nil
	return next, nil
}

// patchChildren reconciles the flattened children of old into those of
// next. The children occupy parent starting at offset.
func (r *Renderer) patchChildren(old, next *vdom.VNode, parent host.Element, owner *Component, offset int) error {
	oldKids := vdom.ExtractChildren(old)
	newKids := vdom.ExtractChildren(next)
	ops := arraydiff.Sequence(oldKids, newKids, vdom.Equal)

	// live mirrors the working copy: patched or added nodes before the
	// cursor, old nodes after it.
	live := slices.Clone(oldKids)
	for _, op := range ops {
		switch op.Op {
		case arraydiff.OpAdd:
			at := offset + widthOf(live[:op.Index])
			if err := r.mount(op.Item, parent, at, owner); err != nil {
				return err
			}
			live = slices.Insert(live, op.Index, op.Item)

		case arraydiff.OpRemove:
			if err := r.destroy(live[op.Index]); err != nil {
				return err
			}
			live = slices.Delete(live, op.Index, op.Index+1)

		case arraydiff.OpMove:
			item := live[op.From]
			at := offset + widthOf(live[:op.Index])
			ref := host.ChildAt(parent, at)
			if nodes := hostNodes(item); len(nodes) > 0 && nodes[0] != ref {
				for _, n := range nodes {
					parent.InsertBefore(n, ref)
				}
			}
			live = slices.Delete(live, op.From, op.From+1)
			live = slices.Insert(live, op.Index, item)
			patched, err := r.patch(item, newKids[op.Index], parent, owner, at)
			if err != nil {
				return err
			}
			live[op.Index] = patched

		case arraydiff.OpNoop:
			at := offset + widthOf(live[:op.Index])
			patched, err := r.patch(live[op.Index], newKids[op.Index], parent, owner, at)
			if err != nil {
				return err
			}
			live[op.Index] = patched
		}
	}

	if r.metrics != nil {
		for op, n := range arraydiff.Count(ops) {
			r.metrics.EditOps(op.String(), n)
		}
	}
	return nil
}

// patchComponent reuses the live instance for next. It re-renders only when
// the props changed or the component fills slots from external content.
func (r *Renderer) patchComponent(old, next *vdom.VNode, at int) error {
	c, ok := old.Instance.(*Component)
	if !ok {
		return errors.New(errors.CodeUnknownNodeType).WithDetailf("component instance %T", old.Instance)
	}
	next.Instance = c
	if at >= 0 {
		c.anchor = at
	}
	c.setHandlers(next.On)

	hadExternal := len(c.external) > 0
	c.external = next.Children

	rerender := !vdom.PropsEqual(c.props, next.Props) ||
		(c.usesSlots && (hadExternal || len(next.Children) > 0))
	if rerender {
		c.props = next.Props
		if err := c.patch(); err != nil {
			return err
		}
	}
	next.El = c.FirstElement()
	return nil
}
