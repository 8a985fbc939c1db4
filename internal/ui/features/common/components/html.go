// Package components provides the shared markup of the UI pages.
package components

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// HTML writes escaped markup and remembers the first write error.
type HTML struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewHTML wraps w.
func NewHTML(ctx context.Context, w io.Writer) *HTML {
	return &HTML{ctx: ctx, w: w}
}

// Raw writes s unescaped.
func (h *HTML) Raw(s ...string) {
	for _, part := range s {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, part)
	}
}

// Text writes s as escaped text.
func (h *HTML) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Open writes a start tag. attrs are name/value pairs; an empty value writes a
// boolean attribute.
func (h *HTML) Open(tag string, attrs ...string) {
	h.Raw("<", tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		h.Attr(attrs[i], attrs[i+1])
	}
	h.Raw(">")
}

// Close writes an end tag.
func (h *HTML) Close(tag string) {
	h.Raw("</", tag, ">")
}

// Element writes a complete element with escaped text content.
func (h *HTML) Element(tag, text string, attrs ...string) {
	h.Open(tag, attrs...)
	h.Text(text)
	h.Close(tag)
}

// Attr writes one attribute.
func (h *HTML) Attr(name, value string) {
	if value == "" {
		h.Raw(" ", name)
		return
	}
	h.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// Render writes a nested component.
func (h *HTML) Render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// Err returns the first write error.
func (h *HTML) Err() error {
	return h.err
}

// Component adapts a markup function to templ.Component.
func Component(fn func(h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(ctx, w)
		fn(h)
		return h.Err()
	})
}

// Classes joins the non-empty class names.
func Classes(names ...string) string {
	out := names[:0:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

// JSString quotes s for a single-quoted JavaScript string inside a datastar expression.
func JSString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "<", `\x3c`)
	return "'" + r.Replace(s) + "'"
}
