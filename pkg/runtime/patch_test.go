package runtime

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/relaxui/relax/pkg/host/memhost"
	"github.com/relaxui/relax/pkg/vdom"
)

func keyedList(keys []string, version int) *vdom.VNode {
	items := vdom.Map(keys, func(_ int, k string) *vdom.VNode {
		return vdom.H("li", vdom.Props{"key": k, "id": k}, fmt.Sprintf("%s%d", k, version))
	})
	return vdom.H("ul", nil, items)
}

func listElements(root *memhost.Element) map[string]*memhost.Element {
	out := make(map[string]*memhost.Element)
	for _, li := range root.FindAll(memhost.ByTag("li")) {
		id, _ := li.Attribute("id")
		out[id.(string)] = li
	}
	return out
}

func TestPatchIdenticalTreeIsNoop(t *testing.T) {
	env := newTestEnv(t)

	childRenders := 0
	child := mustDefine(t, Options{
		Name: "Child",
		Render: func(c *Component) *vdom.VNode {
			childRenders++
			return vdom.H("em", vdom.Props{"title": c.Props()["title"]})
		},
	})
	card := mustDefine(t, Options{
		Name: "Card",
		Render: func(c *Component) *vdom.VNode {
			return vdom.H("section", nil, vdom.Slot("empty"))
		},
	})

	var clicked []int
	build := func(version int) *vdom.VNode {
		return vdom.H("div", vdom.Props{
			"id":    "root",
			"class": []string{"a", "b"},
			"style": vdom.Style{"color": "red"},
			"data":  map[string]any{"n": []int{1, 2}},
			"on": vdom.On{"click": func(vdom.Owner, any) {
				clicked = append(clicked, version)
			}},
		},
			"text",
			keyedList([]string{"x", "y"}, 0),
			vdom.Fragment(vdom.H("hr", nil), "tail"),
			vdom.C(child, vdom.Props{"title": "t", "opts": map[string]any{"deep": []string{"v"}}}),
			vdom.C(card, nil, vdom.H("p", nil, "slotted")),
		)
	}

	old := build(1)
	env.mount(t, old)
	before := env.html()
	env.doc.ResetMutations()

	next := build(2)
	live := env.patch(t, old, next)

	if muts := env.doc.Mutations(); len(muts) != 0 {
		t.Errorf("identical patch produced mutations: %+v", muts)
	}
	if env.html() != before {
		t.Errorf("html changed:\n%s\n%s", before, env.html())
	}
	if childRenders != 1 {
		t.Errorf("child rendered %d times, want 1 (memoized)", childRenders)
	}
	if live != next || old.IsMounted() {
		t.Error("patch must hand ownership to the new tree")
	}

	root := elementByID(t, env.root, "root")
	root.Dispatch("click", nil)
	if diff := cmp.Diff([]int{2}, clicked); diff != "" {
		t.Errorf("handler not rebound (-want +got):\n%s", diff)
	}
	if n := root.ListenerCount("click"); n != 1 {
		t.Errorf("click listeners = %d, want 1", n)
	}
}

func TestPatchText(t *testing.T) {
	env := newTestEnv(t)
	old := vdom.Text("a")
	env.mount(t, old)
	node := old.El
	env.doc.ResetMutations()

	next := env.patch(t, old, vdom.Text("b"))
	if next.El != node {
		t.Error("text node must be reused")
	}
	if got := env.doc.CountMutations(); got[memhost.MutSetText] != 1 || len(got) != 1 {
		t.Errorf("mutations = %v", got)
	}
	if env.html() != "b" {
		t.Errorf("html = %s", env.html())
	}
}

func TestPatchAttributesClassesStyles(t *testing.T) {
	env := newTestEnv(t)
	old := vdom.H("div", vdom.Props{
		"id":     "d",
		"title":  "t",
		"data-x": nil,
		"class":  "a b",
		"style":  vdom.Style{"color": "red", "margin": "0"},
	})
	env.mount(t, old)
	env.doc.ResetMutations()

	env.patch(t, old, vdom.H("div", vdom.Props{
		"id":     "d2",
		"data-x": "1",
		"class":  []string{"b", "c"},
		"style":  map[string]string{"color": "blue"},
	}))

	want := `<div id="d2" class="b c" style="color: blue" data-x="1"></div>`
	if got := env.html(); got != want {
		t.Errorf("html = %s\nwant  %s", got, want)
	}
	wantCounts := map[memhost.MutationOp]int{
		memhost.MutSetAttr:     2,
		memhost.MutRemoveAttr:  1,
		memhost.MutRemoveClass: 1,
		memhost.MutAddClass:    1,
		memhost.MutRemoveStyle: 1,
		memhost.MutSetStyle:    1,
	}
	if diff := cmp.Diff(wantCounts, env.doc.CountMutations()); diff != "" {
		t.Errorf("mutation counts (-want +got):\n%s", diff)
	}
}

func TestPatchListeners(t *testing.T) {
	env := newTestEnv(t)
	var calls []string
	on := func(name string) vdom.Handler {
		return func(vdom.Owner, any) { calls = append(calls, name) }
	}
	old := vdom.H("input", vdom.Props{"id": "i", "on": vdom.On{"click": on("click1"), "input": on("input")}})
	env.mount(t, old)
	env.doc.ResetMutations()

	env.patch(t, old, vdom.H("input", vdom.Props{"id": "i", "on": vdom.On{"click": on("click2"), "change": on("change")}}))

	counts := env.doc.CountMutations()
	if counts[memhost.MutRemoveListener] != 1 || counts[memhost.MutAddListener] != 1 {
		t.Errorf("listener mutations = %v", counts)
	}
	el := elementByID(t, env.root, "i")
	for _, ev := range []string{"click", "input", "change"} {
		el.Dispatch(ev, nil)
	}
	if diff := cmp.Diff([]string{"click2", "change"}, calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	if n := el.ListenerCount(""); n != 2 {
		t.Errorf("listeners = %d, want 2", n)
	}
}

func TestPatchListenersRemovedEntirely(t *testing.T) {
	env := newTestEnv(t)
	old := vdom.H("a", vdom.Props{"id": "a", "on": vdom.On{"click": func(vdom.Owner, any) {}}})
	env.mount(t, old)
	next := env.patch(t, old, vdom.H("a", vdom.Props{"id": "a"}))
	if n := elementByID(t, env.root, "a").ListenerCount(""); n != 0 {
		t.Errorf("listeners = %d", n)
	}
	if next.Listeners != nil {
		t.Error("bindings left on the vnode")
	}
}

func TestPatchReplacesMismatchedNode(t *testing.T) {
	env := newTestEnv(t)
	old := vdom.H("div", nil, "a", vdom.H("p", nil, "old"), "c")
	env.mount(t, old)

	env.patch(t, old, vdom.H("div", nil, "a", vdom.H("section", nil, "new"), "c"))
	if got, want := env.html(), "<div>a<section>new</section>c</div>"; got != want {
		t.Errorf("html = %s, want %s", got, want)
	}

	// Same tag, different key.
	old2 := vdom.H("b", vdom.Props{"key": 1}, "one")
	env2 := newTestEnv(t)
	env2.mount(t, vdom.Text("before"))
	env2.mount(t, old2)
	env2.mount(t, vdom.Text("after"))
	node := old2.El
	next := env2.patch(t, old2, vdom.H("b", vdom.Props{"key": 2}, "two"))
	if next.El == node {
		t.Error("a key change must replace the element")
	}
	if got, want := env2.html(), "before<b>two</b>after"; got != want {
		t.Errorf("html = %s, want %s", got, want)
	}
}

func TestPatchKeyedSwap(t *testing.T) {
	env := newTestEnv(t)
	old := keyedList([]string{"a", "b", "c"}, 0)
	env.mount(t, old)
	before := listElements(env.root)
	env.doc.ResetMutations()

	env.patch(t, old, keyedList([]string{"b", "a", "c"}, 0))

	if got, want := env.html(), `<ul><li id="b">b0</li><li id="a">a0</li><li id="c">c0</li></ul>`; got != want {
		t.Errorf("html = %s\nwant  %s", got, want)
	}
	counts := env.doc.CountMutations()
	if counts[memhost.MutInsert] != 1 || counts[memhost.MutCreateElement] != 0 || counts[memhost.MutCreateText] != 0 {
		t.Errorf("mutations = %v, want a single move", counts)
	}
	for k, el := range listElements(env.root) {
		if before[k] != el {
			t.Errorf("element %s was recreated", k)
		}
	}
}

func TestPatchKeyedLists(t *testing.T) {
	tests := []struct {
		name     string
		old, new []string
	}{
		{"reverse", []string{"a", "b", "c", "d"}, []string{"d", "c", "b", "a"}},
		{"clear", []string{"a", "b", "c"}, nil},
		{"fill", nil, []string{"a", "b"}},
		{"replace middle", []string{"a", "b", "c"}, []string{"a", "x", "c"}},
		{"mixed", []string{"a", "b", "c", "d", "e"}, []string{"e", "a", "c", "x"}},
		{"append", []string{"a"}, []string{"a", "b", "c"}},
		{"prepend", []string{"c"}, []string{"a", "b", "c"}},
		{"rotate", []string{"a", "b", "c", "d"}, []string{"b", "c", "d", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			old := keyedList(tt.old, 0)
			env.mount(t, old)
			before := listElements(env.root)

			env.patch(t, old, keyedList(tt.new, 1))

			if got, want := env.html(), freshHTML(t, keyedList(tt.new, 1)); got != want {
				t.Errorf("html = %s\nwant  %s", got, want)
			}
			for k, el := range listElements(env.root) {
				if prev, ok := before[k]; ok && prev != el {
					t.Errorf("element %s was recreated", k)
				}
			}
		})
	}
}

func TestPatchRandomKeyedLists(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := strings.Split("abcdefgh", "")
	randomKeys := func() []string {
		keys := append([]string(nil), alphabet...)
		rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		return keys[:rng.Intn(len(keys)+1)]
	}
	build := func(keys []string, version int) *vdom.VNode {
		return vdom.H("div", nil,
			"head",
			vdom.Fragment(keyedList(keys[:len(keys)/2], version).Children),
			vdom.H("hr", nil),
			vdom.Fragment(keyedList(keys[len(keys)/2:], version).Children),
			"tail",
		)
	}

	env := newTestEnv(t)
	keys := randomKeys()
	tree := build(keys, 0)
	env.mount(t, tree)
	for round := 1; round <= 200; round++ {
		keys = randomKeys()
		tree = env.patch(t, tree, build(keys, round))
		if got, want := env.html(), freshHTML(t, build(keys, round)); got != want {
			t.Fatalf("round %d keys %v:\n got %s\nwant %s", round, keys, got, want)
		}
	}
}

func TestPatchFragmentRegionAmongSiblings(t *testing.T) {
	env := newTestEnv(t)
	env.mount(t, vdom.H("i", nil, "x"))
	old := vdom.Fragment(vdom.H("b", vdom.Props{"key": "a"}, "a"), vdom.H("b", vdom.Props{"key": "b"}, "b"))
	env.mount(t, old)
	env.mount(t, vdom.H("i", nil, "y"))

	env.patch(t, old, vdom.Fragment(
		vdom.H("b", vdom.Props{"key": "b"}, "b"),
		vdom.H("b", vdom.Props{"key": "a"}, "a"),
		vdom.H("b", vdom.Props{"key": "c"}, "c"),
	))
	if got, want := env.html(), "<i>x</i><b>b</b><b>a</b><b>c</b><i>y</i>"; got != want {
		t.Errorf("html = %s, want %s", got, want)
	}
}

func TestPatchMovesComponentsAsUnits(t *testing.T) {
	env := newTestEnv(t)
	pair := mustDefine(t, Options{
		Name: "Pair",
		Render: func(c *Component) *vdom.VNode {
			label := c.Props()["label"].(string)
			return vdom.Fragment(vdom.H("b", nil, label+"1"), vdom.H("b", nil, label+"2"))
		},
	})
	build := func(labels ...string) *vdom.VNode {
		return vdom.H("div", nil, vdom.Map(labels, func(_ int, l string) *vdom.VNode {
			return vdom.C(pair, vdom.Props{"key": l, "label": l})
		}))
	}

	old := build("a", "b", "c")
	env.mount(t, old)
	env.patch(t, old, build("c", "a", "b"))

	want := "<div><b>c1</b><b>c2</b><b>a1</b><b>a2</b><b>b1</b><b>b2</b></div>"
	if got := env.html(); got != want {
		t.Errorf("html = %s\nwant  %s", got, want)
	}
}

func TestPatchErrors(t *testing.T) {
	env := newTestEnv(t)
	mounted := vdom.Text("m")
	env.mount(t, mounted)
	other := vdom.Text("o")
	env.mount(t, other)

	tests := []struct {
		name      string
		old, next *vdom.VNode
		want      error
	}{
		{"nil old", nil, vdom.Text("x"), ErrInvalidArgument},
		{"nil next", mounted, nil, ErrInvalidArgument},
		{"unmounted old", vdom.Text("x"), vdom.Text("y"), ErrNotMounted},
		{"mounted next", mounted, other, ErrAlreadyMounted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.r.Patch(tt.old, tt.next, env.root, nil); !errors.Is(err, tt.want) {
				t.Errorf("Patch() error = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := env.r.Patch(mounted, vdom.Text("x"), nil, nil); !errors.Is(err, ErrInvalidMountTarget) {
		t.Errorf("nil parent error = %v", err)
	}
}
