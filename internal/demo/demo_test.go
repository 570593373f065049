package demo

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/host/memhost"
)

func newDemo(t *testing.T, items ...string) (*Demo, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	d := New(Options{
		Title:  "Chores",
		Items:  items,
		Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	if err := d.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return d, &logs
}

func (d *Demo) texts() []string {
	var out []string
	for _, span := range d.Container.FindAll(byClass("text")) {
		out = append(out, span.TextContent())
	}
	return out
}

func (d *Demo) count() string {
	return d.Container.Find(byClass("count")).TextContent()
}

func apply(t *testing.T, d *Demo, lines ...string) {
	t.Helper()
	for _, line := range lines {
		s, err := ParseStep(line)
		if err != nil {
			t.Fatalf("ParseStep(%q): %v", line, err)
		}
		if err := d.Apply(s); err != nil {
			t.Fatalf("Apply(%q): %v", line, err)
		}
	}
}

func TestInitialRender(t *testing.T) {
	d, logs := newDemo(t, "Sweep", "Dust")

	if diff := cmp.Diff([]string{"Sweep", "Dust"}, d.texts()); diff != "" {
		t.Errorf("todos (-want +got):\n%s", diff)
	}
	if got := d.count(); got != "2 left" {
		t.Errorf("count = %q", got)
	}
	if h2 := d.Container.Find(memhost.ByTag("h2")); h2 == nil || h2.TextContent() != "Chores" {
		t.Error("card title missing")
	}
	if d.Container.Find(byClass("clear")) != nil {
		t.Error("clear button shown with nothing done")
	}
	if !strings.Contains(logs.String(), "todo app mounted") {
		t.Errorf("OnMounted did not log:\n%s", logs)
	}
}

func TestEmptyListShowsCardDefault(t *testing.T) {
	d, _ := newDemo(t)

	if empty := d.Container.Find(byClass("empty")); empty == nil || empty.TextContent() != "Nothing here" {
		t.Fatalf("empty placeholder missing: %s", d.HTML(false))
	}

	apply(t, d, "add First")
	if d.Container.Find(byClass("empty")) != nil {
		t.Error("placeholder still shown after adding")
	}
	apply(t, d, "remove 1")
	if d.Container.Find(byClass("empty")) == nil {
		t.Error("placeholder not restored after removing the last todo")
	}
}

func TestToggleKeepsOtherItems(t *testing.T) {
	d, _ := newDemo(t, "a", "b", "c")
	before := d.Container.FindAll(memhost.ByTag("li"))

	apply(t, d, "toggle 2")

	after := d.Container.FindAll(memhost.ByTag("li"))
	if len(after) != 3 {
		t.Fatalf("items = %d", len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("item %d was recreated", i)
		}
	}
	if !after[1].HasClass("done") || after[0].HasClass("done") {
		t.Error("done class not applied to the toggled item only")
	}
	if checked, _ := after[1].Find(memhost.ByTag("input")).Attribute("checked"); checked != true {
		t.Errorf("checked = %v", checked)
	}
	if d.count() != "2 left" || d.Container.Find(byClass("clear")) == nil {
		t.Errorf("footer not updated: %s", d.HTML(false))
	}
}

func TestFilters(t *testing.T) {
	d, _ := newDemo(t, "a", "b", "c")
	apply(t, d, "toggle 1", "toggle 3")

	tests := []struct {
		filter string
		want   []string
	}{
		{FilterActive, []string{"b"}},
		{FilterDone, []string{"a", "c"}},
		{FilterAll, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		apply(t, d, "filter "+tt.filter)
		if diff := cmp.Diff(tt.want, d.texts()); diff != "" {
			t.Errorf("filter %s (-want +got):\n%s", tt.filter, diff)
		}
		selected := d.Container.Find(byClass("selected"))
		if selected == nil || selected.TextContent() != tt.filter {
			t.Errorf("filter %s: wrong button selected", tt.filter)
		}
	}
}

func TestDefaultScript(t *testing.T) {
	d, logs := newDemo(t)
	steps, err := ParseScript(strings.NewReader(DefaultScript))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := d.Run(&out, steps, false); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if diff := cmp.Diff([]string{"Call mom", "Walk the dog"}, d.texts()); diff != "" {
		t.Errorf("final todos (-want +got):\n%s", diff)
	}
	if d.count() != "2 left" {
		t.Errorf("count = %q", d.count())
	}
	if !strings.Contains(out.String(), "## 1. add Buy milk  [") {
		t.Errorf("report lacks the first step:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "## 5. filter active  [") {
		t.Errorf("report lacks the filter step:\n%s", out.String())
	}
	// Filtering unmounts hidden items: 1 for active, 2 for done, then one
	// remove and one clear.
	if n := strings.Count(logs.String(), "todo removed"); n != 5 {
		t.Errorf("TodoItem OnUnmounted ran %d times, want 5", n)
	}
}

func TestUnmount(t *testing.T) {
	d, logs := newDemo(t, "a")
	if err := d.Unmount(); err != nil {
		t.Fatal(err)
	}
	if d.HTML(false) != "" {
		t.Errorf("container not empty: %s", d.HTML(false))
	}
	if !strings.Contains(logs.String(), "todo app unmounted") {
		t.Error("OnUnmounted did not log")
	}
}

func TestApplyErrors(t *testing.T) {
	d, _ := newDemo(t, "a")
	steps := []Step{
		{Action: "toggle", Arg: "9"},
		{Action: "clear"},
		{Action: "dance"},
	}
	for _, s := range steps {
		if err := d.Apply(s); err == nil {
			t.Errorf("Apply(%v) succeeded", s)
		}
	}
}

func TestParseScript(t *testing.T) {
	steps, err := ParseScript(strings.NewReader("# comment\n\nadd  milk \n toggle 1\nclear\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Step{{"add", "milk"}, {"toggle", "1"}, {"clear", ""}}
	if diff := cmp.Diff(want, steps); diff != "" {
		t.Errorf("steps (-want +got):\n%s", diff)
	}

	_, err = ParseScript(strings.NewReader("add x\nfly away\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ParseScript error = %v", err)
	}
	var re *errors.RelaxError
	if !stderrors.As(err, &re) || re.Category != errors.CategoryArgument || re.Suggestion == "" {
		t.Errorf("ParseScript error is not a usable argument error: %#v", err)
	}
	if _, err := ParseStep("toggle"); err == nil {
		t.Error("toggle without id accepted")
	}
}

func TestMethods(t *testing.T) {
	d, _ := newDemo(t)
	app := d.App.Root()

	id, err := app.Call("add", "  Groceries ")
	if err != nil || id != 1 {
		t.Fatalf("add = %v, %v", id, err)
	}
	if _, err := app.Call("add", "   "); err == nil {
		t.Error("empty todo accepted")
	}
	if done, err := app.Call("toggle", 1); err != nil || done != true {
		t.Errorf("toggle = %v, %v", done, err)
	}
	if _, err := app.Call("toggle", "x"); err == nil {
		t.Error("toggle with a bad id accepted")
	}
	if _, err := app.Call("filter", "someday"); err == nil {
		t.Error("unknown filter accepted")
	}
	if n, err := app.Call("clearDone"); err != nil || n != 1 {
		t.Errorf("clearDone = %v, %v", n, err)
	}
	d.App.Flush()
	if len(d.texts()) != 0 {
		t.Errorf("todos = %v", d.texts())
	}
}

func TestRunStopsAtFailingStep(t *testing.T) {
	d, _ := newDemo(t)
	err := d.Run(io.Discard, []Step{{Action: "add", Arg: "x"}, {Action: "remove", Arg: "5"}}, true)
	if err == nil || !strings.Contains(err.Error(), "step 2") {
		t.Errorf("Run = %v", err)
	}
}

func TestFailedActionsLogToDemoLogger(t *testing.T) {
	d, logs := newDemo(t)
	apply(t, d, "add")

	if !strings.Contains(logs.String(), `msg="todo action failed" method=add`) {
		t.Errorf("failed add was not logged:\n%s", logs)
	}
	if len(d.texts()) != 0 {
		t.Errorf("empty todo was added: %v", d.texts())
	}
}
