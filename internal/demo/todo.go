package demo

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/runtime"
	"github.com/relaxui/relax/pkg/vdom"
)

// Todo is one entry of the list.
type Todo struct {
	ID   int
	Text string
	Done bool
}

// Filters accepted by the filter method.
const (
	FilterAll    = "all"
	FilterActive = "active"
	FilterDone   = "done"
)

var filters = []string{FilterAll, FilterActive, FilterDone}

// Components holds the demo's component definitions.
type Components struct {
	App  *runtime.Definition
	Item *runtime.Definition
	Card *runtime.Definition

	logger *slog.Logger
}

// NewComponents defines the demo components. Lifecycle hooks log to logger.
func NewComponents(logger *slog.Logger) *Components {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Components{logger: logger}
	c.Card = runtime.MustDefine(runtime.Options{
		Name:   "Card",
		Render: renderCard,
	})
	c.Item = runtime.MustDefine(runtime.Options{
		Name:   "TodoItem",
		Render: renderItem,
		OnUnmounted: func(item *runtime.Component) error {
			logger.Debug("todo removed", "id", item.Props()["id"])
			return nil
		},
	})
	c.App = runtime.MustDefine(runtime.Options{
		Name:  "TodoApp",
		State: initialState,
		Render: func(app *runtime.Component) *vdom.VNode {
			return renderApp(c, app)
		},
		OnMounted: func(app *runtime.Component) error {
			logger.Info("todo app mounted", "todos", len(todos(app)))
			return nil
		},
		OnUnmounted: func(app *runtime.Component) error {
			logger.Info("todo app unmounted")
			return nil
		},
		Methods: map[string]runtime.Method{
			"add":       addTodo,
			"toggle":    toggleTodo,
			"remove":    removeTodo,
			"filter":    setFilter,
			"clearDone": clearDone,
		},
	})
	return c
}

// initialState builds todos from the "items" prop.
func initialState(props vdom.Props) vdom.State {
	items, _ := props["items"].([]string)
	list := make([]Todo, 0, len(items))
	for i, text := range items {
		list = append(list, Todo{ID: i + 1, Text: text})
	}
	return vdom.State{
		"todos":  list,
		"nextID": len(items) + 1,
		"filter": FilterAll,
		"draft":  "",
	}
}

func todos(c *runtime.Component) []Todo {
	list, _ := c.State()["todos"].([]Todo)
	return list
}

// =============================================================================
// Rendering
// =============================================================================

func renderCard(c *runtime.Component) *vdom.VNode {
	return vdom.H("section", vdom.Props{"class": "card"},
		vdom.H("h2", nil, c.Props()["title"]),
		vdom.H("div", vdom.Props{"class": "card-body"},
			vdom.Slot(vdom.H("p", vdom.Props{"class": "empty"}, "Nothing here")),
		),
	)
}

func renderItem(c *runtime.Component) *vdom.VNode {
	done, _ := c.Props()["done"].(bool)
	id := c.Props()["id"]
	return vdom.H("li", vdom.Props{
		"class":   []string{"todo", doneClass(done)},
		"data-id": id,
	},
		vdom.H("input", vdom.Props{
			"type":    "checkbox",
			"checked": done,
			"on": vdom.On{"click": func(o vdom.Owner, _ any) {
				o.Emit("toggle", o.Props()["id"])
			}},
		}),
		vdom.H("span", vdom.Props{"class": "text"}, c.Props()["text"]),
		vdom.H("button", vdom.Props{
			"class": "remove",
			"on": vdom.On{"click": func(o vdom.Owner, _ any) {
				o.Emit("remove", o.Props()["id"])
			}},
		}, "x"),
	)
}

func doneClass(done bool) string {
	if done {
		return "done"
	}
	return ""
}

func renderApp(defs *Components, app *runtime.Component) *vdom.VNode {
	list := todos(app)
	filter, _ := app.State()["filter"].(string)
	draft, _ := app.State()["draft"].(string)

	var visible []Todo
	left := 0
	for _, t := range list {
		if !t.Done {
			left++
		}
		if filter == FilterAll || (filter == FilterDone) == t.Done {
			visible = append(visible, t)
		}
	}

	// Handlers close over app: slot content runs with the card as owner.
	itemHandlers := vdom.On{
		"toggle": func(_ vdom.Owner, id any) { defs.call(app, "toggle", id) },
		"remove": func(_ vdom.Owner, id any) { defs.call(app, "remove", id) },
	}

	var body *vdom.VNode
	if len(visible) > 0 {
		body = vdom.H("ul", vdom.Props{"class": "todo-list"},
			vdom.Map(visible, func(_ int, t Todo) *vdom.VNode {
				return vdom.C(defs.Item, vdom.Props{
					"key":  fmt.Sprint(t.ID),
					"id":   t.ID,
					"text": t.Text,
					"done": t.Done,
					"on":   itemHandlers,
				})
			}))
	}

	return vdom.H("div", vdom.Props{"class": "todo-app"},
		vdom.H("header", nil,
			vdom.H("input", vdom.Props{
				"class":       "new-todo",
				"placeholder": "What needs doing?",
				"value":       draft,
				"on": vdom.On{"input": func(_ vdom.Owner, payload any) {
					text, _ := payload.(host.Event).Payload.(string)
					if err := app.UpdateState(vdom.State{"draft": text}); err != nil {
						defs.logger.Warn("todo draft update failed", "error", err)
					}
				}},
			}),
			vdom.H("button", vdom.Props{
				"class": "add",
				"on": vdom.On{"click": func(vdom.Owner, any) {
					defs.call(app, "add", app.State()["draft"])
				}},
			}, "Add"),
		),
		vdom.C(defs.Card, vdom.Props{"title": app.Props()["title"]}, body),
		vdom.H("footer", nil,
			vdom.H("span", vdom.Props{"class": "count"}, vdom.Textf("%d left", left)),
			vdom.Map(filters, func(_ int, name string) *vdom.VNode {
				return vdom.H("button", vdom.Props{
					"key":         name,
					"class":       []string{"filter", selectedClass(name == filter)},
					"data-filter": name,
					"on": vdom.On{"click": func(vdom.Owner, any) {
						defs.call(app, "filter", name)
					}},
				}, name)
			}),
			vdom.If(len(list) > left, vdom.H("button", vdom.Props{
				"class": "clear",
				"on": vdom.On{"click": func(vdom.Owner, any) {
					defs.call(app, "clearDone")
				}},
			}, "Clear done")),
		),
	)
}

func selectedClass(selected bool) string {
	if selected {
		return "selected"
	}
	return ""
}

// call invokes a method from an event handler, where errors have no caller
// to return to.
func (defs *Components) call(c *runtime.Component, method string, args ...any) {
	if _, err := c.Call(method, args...); err != nil {
		defs.logger.Warn("todo action failed", "method", method, "error", err)
	}
}

// =============================================================================
// Methods
// =============================================================================

func addTodo(c *runtime.Component, args ...any) (any, error) {
	text := strings.TrimSpace(argString(args))
	if text == "" {
		return nil, fmt.Errorf("add: empty todo")
	}
	id, _ := c.State()["nextID"].(int)
	list := append(slices.Clone(todos(c)), Todo{ID: id, Text: text})
	return id, c.UpdateState(vdom.State{"todos": list, "nextID": id + 1, "draft": ""})
}

func toggleTodo(c *runtime.Component, args ...any) (any, error) {
	id, err := argID(args)
	if err != nil {
		return nil, fmt.Errorf("toggle: %w", err)
	}
	list := slices.Clone(todos(c))
	i := slices.IndexFunc(list, func(t Todo) bool { return t.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("toggle: no todo %d", id)
	}
	list[i].Done = !list[i].Done
	return list[i].Done, c.UpdateState(vdom.State{"todos": list})
}

func removeTodo(c *runtime.Component, args ...any) (any, error) {
	id, err := argID(args)
	if err != nil {
		return nil, fmt.Errorf("remove: %w", err)
	}
	list := slices.DeleteFunc(slices.Clone(todos(c)), func(t Todo) bool { return t.ID == id })
	if len(list) == len(todos(c)) {
		return nil, fmt.Errorf("remove: no todo %d", id)
	}
	return nil, c.UpdateState(vdom.State{"todos": list})
}

func setFilter(c *runtime.Component, args ...any) (any, error) {
	name := argString(args)
	if !slices.Contains(filters, name) {
		return nil, fmt.Errorf("filter: unknown filter %q", name)
	}
	return nil, c.UpdateState(vdom.State{"filter": name})
}

func clearDone(c *runtime.Component, _ ...any) (any, error) {
	list := slices.DeleteFunc(slices.Clone(todos(c)), func(t Todo) bool { return t.Done })
	return len(todos(c)) - len(list), c.UpdateState(vdom.State{"todos": list})
}

func argString(args []any) string {
	if len(args) == 0 {
		return ""
	}
	s, _ := args[0].(string)
	return s
}

func argID(args []any) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing id")
	}
	switch v := args[0].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("invalid id %v", args[0])
}
