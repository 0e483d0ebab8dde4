package dom

import "strings"

// Event types dispatched by the toast renderer.
const (
	EventPointerEnter = "pointerenter"
	EventPointerLeave = "pointerleave"
	EventClick        = "click"
	EventAnimationEnd = "animationend"
)

type property struct {
	name  string
	value string
}

type listener struct {
	fn   func()
	once bool
}

// Element is a node in the document tree.
type Element struct {
	Tag string

	parent   *Element
	children []*Element

	classes []string
	attrs   []property
	style   []property
	text    string

	listeners map[string][]*listener
}

// NewElement creates a detached element.
func NewElement(tag string, classes ...string) *Element {
	e := &Element{Tag: tag}
	for _, c := range classes {
		e.AddClass(c)
	}
	return e
}

// Parent returns the parent element, or nil if detached.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the child elements in document order.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// AppendChild attaches c as the last child, moving it from any previous parent.
func (e *Element) AppendChild(c *Element) {
	c.Remove()
	c.parent = e
	e.children = append(e.children, c)
}

// PrependChild attaches c as the first child, moving it from any previous parent.
func (e *Element) PrependChild(c *Element) {
	c.Remove()
	c.parent = e
	e.children = append([]*Element{c}, e.children...)
}

// Remove detaches e from its parent. It reports whether e was attached.
func (e *Element) Remove() bool {
	p := e.parent
	if p == nil {
		return false
	}
	for i, c := range p.children {
		if c == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
	return true
}

// ClassName returns the space separated class list.
func (e *Element) ClassName() string {
	return strings.Join(e.classes, " ")
}

// HasClass reports whether e carries class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class. It reports whether the list changed.
func (e *Element) AddClass(class string) bool {
	if class == "" || e.HasClass(class) {
		return false
	}
	e.classes = append(e.classes, class)
	return true
}

// RemoveClass removes class. It reports whether the list changed.
func (e *Element) RemoveClass(class string) bool {
	for i, c := range e.classes {
		if c == class {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			return true
		}
	}
	return false
}

// SetAttr sets an attribute, keeping first-set order.
func (e *Element) SetAttr(name, value string) {
	e.attrs = setProperty(e.attrs, name, value)
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	return getProperty(e.attrs, name)
}

// SetStyle sets an inline style property. An empty value removes it.
func (e *Element) SetStyle(name, value string) {
	if value == "" {
		e.style = deleteProperty(e.style, name)
		return
	}
	e.style = setProperty(e.style, name, value)
}

// Style returns an inline style property, or "" if unset.
func (e *Element) Style(name string) string {
	v, _ := getProperty(e.style, name)
	return v
}

// StyleText returns the inline style attribute value.
func (e *Element) StyleText() string {
	parts := make([]string, 0, len(e.style))
	for _, p := range e.style {
		parts = append(parts, p.name+": "+p.value)
	}
	return strings.Join(parts, "; ")
}

// SetText sets the element's text content.
func (e *Element) SetText(text string) {
	e.text = text
}

// Text returns the element's own text content.
func (e *Element) Text() string {
	return e.text
}

// AddEventListener registers fn for events of typ.
func (e *Element) AddEventListener(typ string, fn func()) {
	e.addListener(typ, fn, false)
}

// AddOnceListener registers fn to run on the next event of typ only.
func (e *Element) AddOnceListener(typ string, fn func()) {
	e.addListener(typ, fn, true)
}

func (e *Element) addListener(typ string, fn func(), once bool) {
	if fn == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	e.listeners[typ] = append(e.listeners[typ], &listener{fn: fn, once: once})
}

// Dispatch invokes the listeners for typ in registration order and returns how
// many ran. One-shot listeners are dropped before any listener runs, so a
// listener registered during dispatch waits for the next event.
func (e *Element) Dispatch(typ string) int {
	current := e.listeners[typ]
	if len(current) == 0 {
		return 0
	}

	kept := current[:0:0]
	for _, l := range current {
		if !l.once {
			kept = append(kept, l)
		}
	}
	e.listeners[typ] = kept

	for _, l := range current {
		l.fn()
	}
	return len(current)
}

// Find returns the first descendant, depth first, matching fn.
func (e *Element) Find(fn func(*Element) bool) *Element {
	for _, c := range e.children {
		if fn(c) {
			return c
		}
		if found := c.Find(fn); found != nil {
			return found
		}
	}
	return nil
}

// FindByClass returns the first descendant carrying class.
func (e *Element) FindByClass(class string) *Element {
	return e.Find(func(el *Element) bool { return el.HasClass(class) })
}

// FindAllByClass returns every descendant carrying class, in document order.
func (e *Element) FindAllByClass(class string) []*Element {
	var out []*Element
	for _, c := range e.children {
		if c.HasClass(class) {
			out = append(out, c)
		}
		out = append(out, c.FindAllByClass(class)...)
	}
	return out
}

func setProperty(props []property, name, value string) []property {
	for i := range props {
		if props[i].name == name {
			props[i].value = value
			return props
		}
	}
	return append(props, property{name: name, value: value})
}

func getProperty(props []property, name string) (string, bool) {
	for _, p := range props {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

func deleteProperty(props []property, name string) []property {
	for i, p := range props {
		if p.name == name {
			return append(props[:i], props[i+1:]...)
		}
	}
	return props
}
