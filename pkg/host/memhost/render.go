package memhost

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/relaxui/relax/pkg/host"
)

// voidElements cannot have children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// RenderConfig configures HTML serialization.
type RenderConfig struct {
	// Pretty enables indented output.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces.
	Indent string

	// IncludeIDs adds a data-relax-id attribute carrying each element's node
	// id, so inspectors can address elements.
	IncludeIDs bool
}

// Renderer serializes host trees built by this package.
type Renderer struct {
	config RenderConfig
}

// NewRenderer creates a Renderer.
func NewRenderer(config RenderConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// InnerHTML renders the children of e.
func (r *Renderer) InnerHTML(e *Element) string {
	var buf bytes.Buffer
	for _, c := range e.children {
		// bytes.Buffer writes never fail
		_ = r.renderNode(&buf, c, 0)
	}
	return buf.String()
}

// OuterHTML renders e itself.
func (r *Renderer) OuterHTML(e *Element) string {
	var buf bytes.Buffer
	_ = r.renderNode(&buf, e, 0)
	return buf.String()
}

// RenderToWriter streams e and its descendants to w.
func (r *Renderer) RenderToWriter(w io.Writer, e *Element) error {
	return r.renderNode(w, e, 0)
}

// InnerHTML renders the children of e compactly.
func (e *Element) InnerHTML() string {
	return NewRenderer(RenderConfig{}).InnerHTML(e)
}

// OuterHTML renders e compactly.
func (e *Element) OuterHTML() string {
	return NewRenderer(RenderConfig{}).OuterHTML(e)
}

func (r *Renderer) renderNode(w io.Writer, n host.Node, depth int) error {
	switch v := n.(type) {
	case *Text:
		if r.config.Pretty && depth > 0 {
			r.writeIndent(w, depth)
		}
		if _, err := io.WriteString(w, escapeHTML(v.value)); err != nil {
			return err
		}
		if r.config.Pretty {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	case *Element:
		return r.renderElement(w, v, depth)
	default:
		return fmt.Errorf("memhost: unknown node %T", n)
	}
}

func (r *Renderer) renderElement(w io.Writer, e *Element, depth int) error {
	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, "<%s", e.tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, e); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if voidElements[e.tag] {
		if r.config.Pretty {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}

	if r.config.Pretty && len(e.children) > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	for _, c := range e.children {
		if err := r.renderNode(w, c, depth+1); err != nil {
			return err
		}
	}
	if r.config.Pretty && len(e.children) > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", e.tag); err != nil {
		return err
	}
	if r.config.Pretty {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// renderAttributes writes attributes in a stable order: id, class, style,
// then the rest alphabetically.
func (r *Renderer) renderAttributes(w io.Writer, e *Element) error {
	if r.config.IncludeIDs {
		if _, err := fmt.Fprintf(w, ` data-relax-id="%d"`, e.id); err != nil {
			return err
		}
	}
	if id, ok := e.attrs["id"]; ok {
		if _, err := fmt.Fprintf(w, ` id="%s"`, escapeAttr(attrString(id))); err != nil {
			return err
		}
	}
	if len(e.classes) > 0 {
		if _, err := fmt.Fprintf(w, ` class="%s"`, escapeAttr(strings.Join(e.classes, " "))); err != nil {
			return err
		}
	}
	if len(e.styles) > 0 {
		names := make([]string, 0, len(e.styles))
		for name := range e.styles {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = name + ": " + e.styles[name]
		}
		if _, err := fmt.Fprintf(w, ` style="%s"`, escapeAttr(strings.Join(parts, "; "))); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(e.attrs))
	for name := range e.attrs {
		if name != "id" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		switch v := e.attrs[name].(type) {
		case bool:
			if !v {
				continue
			}
			if _, err := fmt.Fprintf(w, " %s", name); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, ` %s="%s"`, name, escapeAttr(attrString(v))); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat(r.config.Indent, depth))
}
