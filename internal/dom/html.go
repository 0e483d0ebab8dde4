package dom

import (
	"html"
	"strings"
)

// HTML serializes e and its descendants. Text and attribute values are
// escaped.
func (e *Element) HTML() string {
	var b strings.Builder
	e.writeHTML(&b)
	return b.String()
}

// InnerHTML serializes the children of e.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for _, c := range e.children {
		c.writeHTML(&b)
	}
	return b.String()
}

func (e *Element) writeHTML(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.Tag)
	if len(e.classes) > 0 {
		writeAttr(b, "class", e.ClassName())
	}
	for _, a := range e.attrs {
		writeAttr(b, a.name, a.value)
	}
	if len(e.style) > 0 {
		writeAttr(b, "style", e.StyleText())
	}
	b.WriteByte('>')

	b.WriteString(html.EscapeString(e.text))
	for _, c := range e.children {
		c.writeHTML(b)
	}

	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteByte('>')
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}
