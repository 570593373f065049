package relax

import (
	"context"
	"log/slog"

	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/metrics"
	"github.com/relaxui/relax/pkg/runtime"
	"github.com/relaxui/relax/pkg/scheduler"
	"github.com/relaxui/relax/pkg/tracing"
	"github.com/relaxui/relax/pkg/vdom"
)

// =============================================================================
// Configuration
// =============================================================================

// Config configures an App. The zero value is usable.
type Config struct {
	// Document creates host nodes. If nil, Mount asks the container for its
	// owner document (see DocumentOwner).
	Document host.Document

	// Scheduler receives lifecycle hooks. If nil, the App creates one backed
	// by its own microtask queue and drains it at the end of Mount, Unmount
	// and Flush.
	Scheduler *scheduler.Scheduler

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records engine metrics. Optional.
	Metrics *metrics.Recorder

	// Tracer traces mounts, unmounts, patches and jobs. Optional.
	Tracer *tracing.Tracer
}

// DocumentOwner is implemented by host elements that know the document
// they belong to.
type DocumentOwner interface {
	OwnerDocument() host.Document
}

// =============================================================================
// App
// =============================================================================

// App mounts a root component into a host container.
type App struct {
	root   *runtime.Definition
	props  vdom.Props
	config Config
	logger *slog.Logger

	sched *scheduler.Scheduler
	tasks *scheduler.Microtasks // nil with an injected scheduler

	renderer  *runtime.Renderer
	vnode     *vdom.VNode
	container host.Element
}

// New creates an App for root with the given initial props. It panics with
// ErrInvalidArgument if root is nil.
func New(root *runtime.Definition, props vdom.Props, cfg Config) *App {
	if root == nil {
		panic(errors.New(errors.CodeInvalidArgument).WithDetail("relax: nil root component"))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	a := &App{
		root:   root,
		props:  props,
		config: cfg,
		logger: cfg.Logger,
		sched:  cfg.Scheduler,
	}
	if a.sched == nil {
		a.tasks = scheduler.NewMicrotasks()
		a.sched = scheduler.New(a.tasks,
			scheduler.WithLogger(cfg.Logger),
			scheduler.WithMetrics(cfg.Metrics),
			scheduler.WithTracer(cfg.Tracer),
		)
	}
	return a
}

// CreateApp is an alias for New.
func CreateApp(root *runtime.Definition, props vdom.Props, cfg Config) *App {
	return New(root, props, cfg)
}

// Mount builds the root component's tree and appends it to container.
// It returns ErrAlreadyMounted if the App is mounted.
//
// With the App's own scheduler, every OnMounted hook has already run when
// Mount returns. With an injected scheduler, hooks run when its poster
// drains.
func (a *App) Mount(container host.Element) (err error) {
	if a.vnode != nil {
		return errors.New(errors.CodeAlreadyMounted).WithDetailf("app %s", a.root.ComponentName())
	}
	if container == nil {
		return errors.New(errors.CodeInvalidMountTarget).WithDetail("nil container")
	}
	doc, err := a.document(container)
	if err != nil {
		return err
	}

	_, span := a.config.Tracer.Start(context.Background(), tracing.SpanAppMount,
		tracing.AttrComponent.String(a.root.ComponentName()))
	defer func() { span.End(err) }()

	if a.renderer == nil || a.renderer.Document() != doc {
		a.renderer = runtime.NewRenderer(doc, a.sched,
			runtime.WithLogger(a.logger),
			runtime.WithMetrics(a.config.Metrics),
			runtime.WithTracer(a.config.Tracer),
		)
	}

	v := vdom.C(a.root, a.props)
	if err := a.renderer.Mount(v, container, host.End, nil); err != nil {
		return err
	}
	a.vnode = v
	a.container = container
	a.logger.Debug("app mounted", "component", a.root.ComponentName(), "queued_hooks", a.sched.Pending())
	a.Flush()
	return nil
}

// Unmount tears the tree down. The App can be mounted again afterwards.
// It returns ErrNotMounted if the App is not mounted. As with Mount, the
// OnUnmounted hooks have already run on return unless a scheduler was
// injected.
func (a *App) Unmount() (err error) {
	if a.vnode == nil {
		return errors.New(errors.CodeNotMounted).WithDetailf("app %s", a.root.ComponentName())
	}

	_, span := a.config.Tracer.Start(context.Background(), tracing.SpanAppUnmount,
		tracing.AttrComponent.String(a.root.ComponentName()))
	defer func() { span.End(err) }()

	if err := a.renderer.Destroy(a.vnode); err != nil {
		return err
	}
	a.vnode = nil
	a.container = nil
	a.logger.Debug("app unmounted", "component", a.root.ComponentName(), "queued_hooks", a.sched.Pending())
	a.Flush()
	return nil
}

// Flush runs the lifecycle hooks queued so far and returns how many queued
// callbacks ran. With an injected scheduler it does nothing and returns 0;
// the scheduler's poster decides when hooks run.
func (a *App) Flush() int {
	if a.tasks == nil {
		return 0
	}
	return a.tasks.Drain()
}

// Mounted reports whether the App is mounted.
func (a *App) Mounted() bool { return a.vnode != nil }

// Root returns the live root component, or nil when the App is not mounted.
func (a *App) Root() *runtime.Component {
	if a.vnode == nil {
		return nil
	}
	c, _ := a.vnode.Instance.(*runtime.Component)
	return c
}

// Container returns the element the App is mounted into, or nil.
func (a *App) Container() host.Element { return a.container }

// Scheduler returns the scheduler lifecycle hooks are queued on.
func (a *App) Scheduler() *scheduler.Scheduler { return a.sched }

func (a *App) document(container host.Element) (host.Document, error) {
	if a.config.Document != nil {
		return a.config.Document, nil
	}
	if owner, ok := container.(DocumentOwner); ok {
		if doc := owner.OwnerDocument(); doc != nil {
			return doc, nil
		}
	}
	return nil, errors.New(errors.CodeInvalidMountTarget).
		WithDetail("container has no owner document").
		WithSuggestion("Set Config.Document")
}
