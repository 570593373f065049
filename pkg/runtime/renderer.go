package runtime

import (
	"log/slog"

	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/metrics"
	"github.com/relaxui/relax/pkg/scheduler"
	"github.com/relaxui/relax/pkg/tracing"
	"github.com/relaxui/relax/pkg/vdom"
)

// Renderer applies virtual trees to a host document.
type Renderer struct {
	doc     host.Document
	sched   *scheduler.Scheduler
	logger  *slog.Logger
	metrics *metrics.Recorder
	tracer  *tracing.Tracer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records mounts, destroys, edit operations and patch times.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// WithTracer traces component patches.
func WithTracer(t *tracing.Tracer) Option {
	return func(r *Renderer) {
		r.tracer = t
	}
}

// NewRenderer creates a Renderer. Lifecycle hooks are queued on sched.
func NewRenderer(doc host.Document, sched *scheduler.Scheduler, opts ...Option) *Renderer {
	if doc == nil {
		panic(errors.New(errors.CodeInvalidArgument).WithDetail("runtime: nil document"))
	}
	if sched == nil {
		panic(errors.New(errors.CodeInvalidArgument).WithDetail("runtime: nil scheduler"))
	}
	r := &Renderer{
		doc:    doc,
		sched:  sched,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the host document.
func (r *Renderer) Document() host.Document { return r.doc }

// Scheduler returns the scheduler lifecycle hooks are queued on.
func (r *Renderer) Scheduler() *scheduler.Scheduler { return r.sched }

// checkPlacement validates a mount target and index.
func checkPlacement(parent host.Element, index int) error {
	if parent == nil {
		return errors.New(errors.CodeInvalidMountTarget).WithDetail("nil parent")
	}
	if index < 0 && index != host.End {
		return errors.New(errors.CodeInvalidIndex).WithDetailf("index %d", index)
	}
	return nil
}

// hostNodes returns the top-level host nodes v occupies, in order.
func hostNodes(v *vdom.VNode) []host.Node {
	var out []host.Node
	appendHostNodes(&out, v)
	return out
}

func appendHostNodes(out *[]host.Node, v *vdom.VNode) {
	switch v.Kind {
	case vdom.KindText, vdom.KindElement:
		if v.El != nil {
			*out = append(*out, v.El)
		}
	case vdom.KindFragment:
		for _, c := range v.Children {
			appendHostNodes(out, c)
		}
	case vdom.KindComponent:
		if v.Instance != nil {
			*out = append(*out, v.Instance.Elements()...)
		}
	}
}

// width returns the number of top-level host nodes v occupies.
func width(v *vdom.VNode) int {
	switch v.Kind {
	case vdom.KindText, vdom.KindElement:
		if v.El != nil {
			return 1
		}
	case vdom.KindFragment:
		n := 0
		for _, c := range v.Children {
			n += width(c)
		}
		return n
	case vdom.KindComponent:
		if v.Instance != nil {
			return len(v.Instance.Elements())
		}
	}
	return 0
}

func widthOf(nodes []*vdom.VNode) int {
	n := 0
	for _, v := range nodes {
		n += width(v)
	}
	return n
}

// positionOf returns the index of v's first host node in parent, or
// host.End when v occupies none.
func positionOf(v *vdom.VNode, parent host.Element) int {
	nodes := hostNodes(v)
	if len(nodes) == 0 {
		return host.End
	}
	if i := host.IndexOf(parent, nodes[0]); i >= 0 {
		return i
	}
	return host.End
}

// ownerOf converts a possibly nil component into a handler owner, keeping
// the interface nil when there is no component.
func ownerOf(c *Component) vdom.Owner {
	if c == nil {
		return nil
	}
	return c
}
