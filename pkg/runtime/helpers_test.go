package runtime

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/host/memhost"
	"github.com/relaxui/relax/pkg/scheduler"
	"github.com/relaxui/relax/pkg/vdom"
)

type testEnv struct {
	doc    *memhost.Document
	tasks  *scheduler.Microtasks
	r      *Renderer
	root   *memhost.Element
	logs   *bytes.Buffer
	failed []error
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	e := &testEnv{
		doc:   memhost.NewDocument(),
		tasks: scheduler.NewMicrotasks(),
		logs:  &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(e.logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	sched := scheduler.New(e.tasks,
		scheduler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		scheduler.WithOnError(func(_ string, err error) { e.failed = append(e.failed, err) }),
	)
	e.r = NewRenderer(e.doc, sched, append([]Option{WithLogger(logger)}, opts...)...)
	e.root = e.doc.NewElement("main")
	return e
}

func (e *testEnv) mount(t *testing.T, v *vdom.VNode) {
	t.Helper()
	if err := e.r.Mount(v, e.root, host.End, nil); err != nil {
		t.Fatalf("Mount: %v", err)
	}
}

func (e *testEnv) patch(t *testing.T, old, next *vdom.VNode) *vdom.VNode {
	t.Helper()
	live, err := e.r.Patch(old, next, e.root, nil)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	return live
}

func (e *testEnv) html() string { return e.root.InnerHTML() }

// freshHTML renders v into a new document, for comparison with a patched tree.
func freshHTML(t *testing.T, v *vdom.VNode) string {
	t.Helper()
	env := newTestEnv(t)
	env.mount(t, v)
	return env.html()
}

func mustDefine(t *testing.T, opts Options) *Definition {
	t.Helper()
	def, err := Define(opts)
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	return def
}

func elementByID(t *testing.T, root *memhost.Element, id string) *memhost.Element {
	t.Helper()
	el := root.Find(memhost.ByAttr("id", id))
	if el == nil {
		t.Fatalf("no element with id %q in %s", id, root.InnerHTML())
	}
	return el
}
