package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	relaxerrors "github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/host/memhost"
	"github.com/relaxui/relax/pkg/metrics"
	"github.com/relaxui/relax/pkg/runtime"
	"github.com/relaxui/relax/pkg/scheduler"
	"github.com/relaxui/relax/pkg/vdom"
)

type fixture struct {
	doc    *memhost.Document
	root   *memhost.Element
	loop   *scheduler.Loop
	srv    *Server
	rec    *metrics.Recorder
	button uint64
}

var counter = runtime.MustDefine(runtime.Options{
	Name:  "Counter",
	State: func(vdom.Props) vdom.State { return vdom.State{"n": 0} },
	Render: func(c *runtime.Component) *vdom.VNode {
		return vdom.H("div", nil,
			vdom.H("span", vdom.Props{"id": "count"}, c.State()["n"]),
			vdom.H("button", vdom.Props{"on": vdom.On{"click": func(o vdom.Owner, _ any) {
				_ = o.UpdateState(vdom.State{"n": o.State()["n"].(int) + 1})
			}}}, "+"),
		)
	},
})

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := &fixture{
		doc:  memhost.NewDocument(),
		loop: scheduler.NewLoop(0, logger),
		rec:  metrics.New(metrics.WithNamespace("test")),
	}
	f.root = f.doc.NewElement("main")
	go f.loop.Run(ctx)

	srv, err := New(Config{
		Document:  f.doc,
		Container: f.root,
		Loop:      f.loop,
		Logger:    logger,
		Metrics:   f.rec,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(srv.Close)
	f.srv = srv

	r := runtime.NewRenderer(f.doc, scheduler.New(f.loop, scheduler.WithLogger(logger)),
		runtime.WithLogger(logger))
	var mountErr error
	err = f.loop.Do(ctx, func() {
		mountErr = r.Mount(vdom.C(counter, nil), f.root, host.End, nil)
		f.button = f.root.Find(memhost.ByTag("button")).ID()
	})
	if err != nil || mountErr != nil {
		t.Fatalf("mount: %v, %v", err, mountErr)
	}
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresDependencies(t *testing.T) {
	doc := memhost.NewDocument()
	tests := []Config{
		{},
		{Document: doc},
		{Document: doc, Container: doc.NewElement("main")},
	}
	for i, cfg := range tests {
		if _, err := New(cfg); !errors.Is(err, relaxerrors.ErrInvalidArgument) {
			t.Errorf("case %d: New = %v, want ErrInvalidArgument", i, err)
		}
	}
}

func TestSnapshotAndTree(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/snapshot", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := `<div><span id="count">0</span><button>+</button></div>`
	if rec.Body.String() != want {
		t.Errorf("snapshot = %s, want %s", rec.Body, want)
	}

	rec = f.do(t, http.MethodGet, "/tree", "")
	if !strings.Contains(rec.Body.String(), fmt.Sprintf(`data-relax-id="%d"`, f.button)) {
		t.Errorf("tree lacks the button id:\n%s", rec.Body)
	}

	rec = f.do(t, http.MethodGet, "/", "")
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("page content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `<span data-relax-id=`) {
		t.Errorf("page does not embed the tree:\n%s", rec.Body)
	}
}

func TestDispatchEvent(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/nodes/%d/events/click", f.button), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var res EventResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Handled != 1 || res.Event != "click" || res.Node != f.button {
		t.Errorf("result = %+v", res)
	}

	rec = f.do(t, http.MethodGet, "/snapshot", "")
	if !strings.Contains(rec.Body.String(), `<span id="count">1</span>`) {
		t.Errorf("snapshot after click = %s", rec.Body)
	}
}

func TestDispatchEventErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"bad id", "/nodes/abc/events/click", "", http.StatusBadRequest},
		{"unknown node", "/nodes/99999/events/click", "", http.StatusNotFound},
		{"bad payload", fmt.Sprintf("/nodes/%d/events/click", f.button), "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
		})
	}
}

func TestMutationsAndMetrics(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/mutations?reset", "")

	f.do(t, http.MethodPost, fmt.Sprintf("/nodes/%d/events/click", f.button), "")

	rec := f.do(t, http.MethodGet, "/mutations", "")
	var log []memhost.Mutation
	if err := json.Unmarshal(rec.Body.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if len(log) != 1 || log[0].Op != memhost.MutSetText || log[0].Value != "1" {
		t.Errorf("mutations = %+v, want one set-text", log)
	}

	rec = f.do(t, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), `test_host_mutations_total{op="set-text"} 1`) {
		t.Errorf("metrics lack the set-text mutation:\n%s", rec.Body)
	}
}

func TestMutationKindFilter(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		kind string
		keep func(memhost.Mutation) bool
	}{
		{"structural", memhost.Mutation.IsStructural},
		{"creation", memhost.Mutation.IsCreation},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/mutations?kind="+tt.kind, "")
			var log []memhost.Mutation
			if err := json.Unmarshal(rec.Body.Bytes(), &log); err != nil {
				t.Fatal(err)
			}
			if len(log) == 0 {
				t.Fatal("mounting recorded no matching mutations")
			}
			for _, m := range log {
				if !tt.keep(m) {
					t.Errorf("unfiltered mutation %+v", m)
				}
			}
		})
	}

	if rec := f.do(t, http.MethodGet, "/mutations?kind=bogus", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown kind status = %d", rec.Code)
	}
}

func TestMutationLogIsCapped(t *testing.T) {
	doc := memhost.NewDocument()
	srv, err := New(Config{
		Document:      doc,
		Container:     doc.NewElement("main"),
		Loop:          scheduler.NewLoop(0, slog.New(slog.NewTextHandler(io.Discard, nil))),
		MutationLimit: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()
	for range 5 {
		doc.CreateText("x")
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mutations", nil))
	var log []memhost.Mutation
	if err := json.Unmarshal(rec.Body.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if len(log) != 2 {
		t.Errorf("log has %d entries, want 2", len(log))
	}
	// main plus three of the five texts were evicted.
	if got := rec.Header().Get("X-Mutations-Dropped"); got != "4" {
		t.Errorf("X-Mutations-Dropped = %q, want 4", got)
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(t, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}

	doc := memhost.NewDocument()
	srv, err := New(Config{
		Document:  doc,
		Container: doc.NewElement("main"),
		Loop:      scheduler.NewLoop(0, slog.New(slog.NewTextHandler(io.Discard, nil))),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status with a stopped loop = %d, want 503", rec.Code)
	}
}

func TestStream(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello Message
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatal(err)
	}
	if hello.Type != MessageSnapshot || !strings.Contains(hello.HTML, "<button") {
		t.Errorf("hello = %+v", hello)
	}

	resp, err := http.Post(fmt.Sprintf("%s/nodes/%d/events/click", ts.URL, f.button), "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != MessageMutation || msg.Mutation == nil || msg.Mutation.Op != memhost.MutSetText {
		t.Errorf("message = %+v", msg)
	}
	if f.srv.Hub().ClientCount() != 1 {
		t.Errorf("ClientCount = %d, want 1", f.srv.Hub().ClientCount())
	}
}
