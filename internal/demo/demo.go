package demo

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/relaxui/relax"
	"github.com/relaxui/relax/internal/errors"
	"github.com/relaxui/relax/pkg/host/memhost"
	"github.com/relaxui/relax/pkg/metrics"
	"github.com/relaxui/relax/pkg/scheduler"
	"github.com/relaxui/relax/pkg/tracing"
	"github.com/relaxui/relax/pkg/vdom"
)

// DefaultScript is run by the demo command when no script is given.
const DefaultScript = `# Build a list, reorder it through filters and clean up.
add Buy milk
add Write report
add Call mom
toggle 2
filter active
filter done
filter all
remove 1
clear
add Walk the dog
`

// Options configures a Demo.
type Options struct {
	Title     string
	Items     []string
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
	Tracer    *tracing.Tracer
	Scheduler *scheduler.Scheduler
}

// Demo is the todo application mounted on an in-memory document.
type Demo struct {
	Doc       *memhost.Document
	Container *memhost.Element
	App       *relax.App
}

// New creates the demo application. Call Mount to render it.
func New(opts Options) *Demo {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	doc := memhost.NewDocument()
	container := doc.NewElement("main")
	container.SetAttribute("id", "app")

	defs := NewComponents(opts.Logger)
	app := relax.New(defs.App, vdom.Props{"title": opts.Title, "items": opts.Items}, relax.Config{
		Document:  doc,
		Scheduler: opts.Scheduler,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
		Tracer:    opts.Tracer,
	})
	return &Demo{Doc: doc, Container: container, App: app}
}

// Mount renders the application into the container.
func (d *Demo) Mount() error { return d.App.Mount(d.Container) }

// Unmount tears the application down.
func (d *Demo) Unmount() error { return d.App.Unmount() }

// HTML renders the container's content.
func (d *Demo) HTML(pretty bool) string {
	return memhost.NewRenderer(memhost.RenderConfig{Pretty: pretty}).InnerHTML(d.Container)
}

// =============================================================================
// Scripted actions
// =============================================================================

// Step is one scripted user action.
type Step struct {
	Action string
	Arg    string
}

func (s Step) String() string {
	if s.Arg == "" {
		return s.Action
	}
	return s.Action + " " + s.Arg
}

var actions = []string{"type", "add", "toggle", "remove", "filter", "clear"}

// ParseStep parses a line such as "add Buy milk" or "toggle 2".
func ParseStep(line string) (Step, error) {
	action, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	s := Step{Action: action, Arg: strings.TrimSpace(arg)}
	if !slices.Contains(actions, s.Action) {
		return Step{}, fmt.Errorf("unknown action %q", s.Action)
	}
	switch s.Action {
	case "toggle", "remove", "filter":
		if s.Arg == "" {
			return Step{}, fmt.Errorf("%s needs an argument", s.Action)
		}
	}
	return s, nil
}

// ParseScript reads one step per line. Blank lines and lines starting with
// '#' are skipped.
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s, err := ParseStep(line)
		if err != nil {
			return nil, errors.Newf(errors.CategoryArgument, "script line %d: %v", n, err).
				WithSuggestion("Actions are: " + strings.Join(actions, ", "))
		}
		steps = append(steps, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}

// Apply performs s by dispatching host events, the way a user would, and
// runs queued lifecycle hooks.
func (d *Demo) Apply(s Step) error {
	defer d.App.Flush()

	switch s.Action {
	case "type":
		return d.dispatch(byClass("new-todo"), "input", s.Arg, s)
	case "add":
		if s.Arg != "" {
			if err := d.dispatch(byClass("new-todo"), "input", s.Arg, s); err != nil {
				return err
			}
		}
		return d.dispatch(byClass("add"), "click", nil, s)
	case "toggle":
		return d.dispatchInItem(s.Arg, memhost.ByTag("input"), s)
	case "remove":
		return d.dispatchInItem(s.Arg, byClass("remove"), s)
	case "filter":
		return d.dispatch(memhost.ByAttr("data-filter", s.Arg), "click", nil, s)
	case "clear":
		return d.dispatch(byClass("clear"), "click", nil, s)
	}
	return fmt.Errorf("unknown action %q", s.Action)
}

func (d *Demo) dispatch(pred func(*memhost.Element) bool, event string, payload any, s Step) error {
	el := d.Container.Find(pred)
	if el == nil {
		return fmt.Errorf("%s: nothing to %s", s, event)
	}
	el.Dispatch(event, payload)
	return nil
}

func (d *Demo) dispatchInItem(id string, pred func(*memhost.Element) bool, s Step) error {
	li := d.Container.Find(memhost.ByAttr("data-id", id))
	if li == nil {
		return fmt.Errorf("%s: no visible todo %s", s, id)
	}
	el := li.Find(pred)
	if el == nil {
		return fmt.Errorf("%s: todo %s has no target", s, id)
	}
	el.Dispatch("click", nil)
	return nil
}

func byClass(name string) func(*memhost.Element) bool {
	return func(e *memhost.Element) bool { return e.HasClass(name) }
}

// Run applies steps in order and writes, for each, the host mutations it
// caused and the resulting HTML.
func (d *Demo) Run(w io.Writer, steps []Step, pretty bool) error {
	for i, s := range steps {
		d.Doc.ResetMutations()
		if err := d.Apply(s); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintf(w, "## %d. %s  [%s]\n%s\n", i+1, s, formatCounts(d.Doc.CountMutations()), d.HTML(pretty)); err != nil {
			return err
		}
	}
	return nil
}

func formatCounts(counts map[memhost.MutationOp]int) string {
	if len(counts) == 0 {
		return "no mutations"
	}
	ops := make([]string, 0, len(counts))
	for op := range counts {
		ops = append(ops, string(op))
	}
	slices.Sort(ops)
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%s=%d", op, counts[memhost.MutationOp(op)])
	}
	return strings.Join(parts, " ")
}
