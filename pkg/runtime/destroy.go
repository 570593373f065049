package runtime

import (
	"context"

	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/vdom"
)

// Destroy removes v's host nodes, unregisters its listeners and unmounts its
// components. v is left unmounted.
func (r *Renderer) Destroy(v *vdom.VNode) error {
	if v == nil {
		return errors.New(errors.CodeInvalidArgument).WithDetail("nil vnode")
	}
	if !v.IsMounted() {
		return errors.New(errors.CodeNotMounted).WithDetailf("%s vnode", v.Kind)
	}
	return r.destroy(v)
}

func (r *Renderer) destroy(v *vdom.VNode) error {
	switch v.Kind {
	case vdom.KindText:
		if v.El != nil {
			v.El.Remove()
		}

	case vdom.KindElement:
		for _, c := range v.Children {
			if err := r.destroy(c); err != nil {
				return err
			}
		}
		if el, ok := v.El.(host.Element); ok {
			removeListeners(v, el)
			el.Remove()
		}

	case vdom.KindFragment:
		for _, c := range v.Children {
			if err := r.destroy(c); err != nil {
				return err
			}
		}

	case vdom.KindComponent:
		c, ok := v.Instance.(*Component)
		if !ok {
			return errors.New(errors.CodeUnknownNodeType).
				WithDetailf("component instance %T", v.Instance)
		}
		if err := c.Unmount(); err != nil {
			return err
		}
		r.logger.Debug("component unmounted", "component", c.Name())
		if hook := c.def.opts.OnUnmounted; hook != nil {
			r.sched.Enqueue(c.Name()+".onUnmounted", func(context.Context) error {
				return hook(c)
			})
		}

	default:
		return errors.New(errors.CodeUnknownNodeType).WithDetailf("kind %s", v.Kind)
	}

	v.El = nil
	v.Instance = nil
	v.Listeners = nil
	r.metrics.Destroy(v.Kind.String())
	return nil
}
