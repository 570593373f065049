package runtime

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/relaxui/relax/pkg/arraydiff"
	"github.com/relaxui/relax/pkg/host"
	"github.com/relaxui/relax/pkg/vdom"
)

// setProps applies attributes, classes and styles to a new element.
func setProps(el host.Element, props vdom.Props) {
	attrs := attributes(props)
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		el.SetAttribute(name, attrs[name])
	}
	if classes := classList(props["class"]); len(classes) > 0 {
		el.AddClass(classes...)
	}
	styles := styleMap(props["style"])
	for _, name := range slices.Sorted(maps.Keys(styles)) {
		el.SetStyle(name, styles[name])
	}
}

// patchProps reconciles attributes, classes and styles of a mounted element.
func patchProps(el host.Element, old, next vdom.Props) {
	oldAttrs, newAttrs := attributes(old), attributes(next)
	attrs := arraydiff.KeysDiff(oldAttrs, newAttrs, vdom.ValueEqual)
	for _, name := range attrs.Removed {
		el.RemoveAttribute(name)
	}
	for _, name := range attrs.Added {
		el.SetAttribute(name, newAttrs[name])
	}
	for _, name := range attrs.Updated {
		el.SetAttribute(name, newAttrs[name])
	}

	added, removed := arraydiff.Diff(classList(old["class"]), classList(next["class"]))
	if len(removed) > 0 {
		el.RemoveClass(removed...)
	}
	if len(added) > 0 {
		el.AddClass(added...)
	}

	oldStyles, newStyles := styleMap(old["style"]), styleMap(next["style"])
	styles := arraydiff.KeysDiff(oldStyles, newStyles, func(a, b string) bool { return a == b })
	for _, name := range styles.Removed {
		el.RemoveStyle(name)
	}
	for _, name := range styles.Added {
		el.SetStyle(name, newStyles[name])
	}
	for _, name := range styles.Updated {
		el.SetStyle(name, newStyles[name])
	}
}

// attributes returns props without class, style and nil values.
func attributes(props vdom.Props) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		if k == "class" || k == "style" || v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// classList reads a class prop given as a space separated string or a list.
func classList(v any) []string {
	switch c := v.(type) {
	case nil:
		return nil
	case string:
		return strings.Fields(c)
	case []string:
		out := make([]string, 0, len(c))
		for _, name := range c {
			out = append(out, strings.Fields(name)...)
		}
		return out
	case []any:
		out := make([]string, 0, len(c))
		for _, name := range c {
			if name != nil {
				out = append(out, strings.Fields(fmt.Sprint(name))...)
			}
		}
		return out
	default:
		return strings.Fields(fmt.Sprint(c))
	}
}

// styleMap reads a style prop given as a mapping or a "name: value; ..."
// string.
func styleMap(v any) map[string]string {
	switch s := v.(type) {
	case nil:
		return nil
	case vdom.Style:
		return s
	case map[string]string:
		return s
	case map[string]any:
		out := make(map[string]string, len(s))
		for k, val := range s {
			if val != nil {
				out[k] = fmt.Sprint(val)
			}
		}
		return out
	case string:
		out := make(map[string]string)
		for _, decl := range strings.Split(s, ";") {
			name, value, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			name, value = strings.TrimSpace(name), strings.TrimSpace(value)
			if name != "" {
				out[name] = value
			}
		}
		return out
	default:
		return nil
	}
}
