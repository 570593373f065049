package runtime

import (
	"context"

	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/vdom"
)

// Mount creates host nodes for v and inserts them into parent at index, or
// appends them when index is host.End. Handlers in v run with owner as their
// owner; owner also becomes the parent of components in v.
func (r *Renderer) Mount(v *vdom.VNode, parent host.Element, index int, owner *Component) error {
	if v == nil {
		return errors.New(errors.CodeInvalidArgument).WithDetail("nil vnode")
	}
	if err := checkPlacement(parent, index); err != nil {
		return err
	}
	if v.IsMounted() {
		return errors.New(errors.CodeAlreadyMounted).WithDetailf("%s vnode", v.Kind)
	}
	return r.mount(v, parent, index, owner)
}

func (r *Renderer) mount(v *vdom.VNode, parent host.Element, index int, owner *Component) error {
	switch v.Kind {
	case vdom.KindText:
		t := r.doc.CreateText(v.Text)
		v.El = t
		host.Insert(parent, t, index)

	case vdom.KindElement:
		el := r.doc.CreateElement(v.Tag)
		v.El = el
		setProps(el, v.Props)
		r.addListeners(v, el, owner)
		for _, c := range v.Children {
			if err := r.mount(c, el, host.End, owner); err != nil {
				return err
			}
		}
		host.Insert(parent, el, index)

	case vdom.KindFragment:
		v.El = parent
		at := index
		for _, c := range v.Children {
			if err := r.mount(c, parent, at, owner); err != nil {
				return err
			}
			if at != host.End {
				at += width(c)
			}
		}

	case vdom.KindComponent:
		if err := r.mountComponent(v, parent, index, owner); err != nil {
			return err
		}

	case vdom.KindSlot:
		return errors.New(errors.CodeUnknownNodeType).WithDetail("unfilled slot")

	default:
		return errors.New(errors.CodeUnknownNodeType).WithDetailf("kind %s", v.Kind)
	}

	r.metrics.Mount(v.Kind.String())
	return nil
}

func (r *Renderer) mountComponent(v *vdom.VNode, parent host.Element, index int, owner *Component) error {
	def, ok := v.Component.(*Definition)
	if !ok {
		return errors.New(errors.CodeUnknownNodeType).
			WithDetailf("component type %T was not created by Define", v.Component)
	}

	c := def.New(r, v.Props, v.On, owner)
	c.external = v.Children
	if err := c.Mount(parent, index); err != nil {
		return err
	}
	v.Instance = c
	v.El = c.FirstElement()

	r.logger.Debug("component mounted", "component", c.Name())
	if hook := def.opts.OnMounted; hook != nil {
		r.sched.Enqueue(c.Name()+".onMounted", func(context.Context) error {
			return hook(c)
		})
	}
	return nil
}
