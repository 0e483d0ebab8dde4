package dom

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Class names of the toast markup.
const (
	ClassContainer = "toast-container"
	ClassToast     = "toast"
	ClassIcon      = "icon"
	ClassContent   = "content"
	ClassTitle     = "title"
	ClassMessage   = "message"
	ClassCloseBtn  = "close-btn"
	ClassProgress  = "progress"
)

// AttrToastID carries the toast ID on the toast element.
const AttrToastID = "data-toast-id"

// Document is a toast.Renderer backed by an in-memory element tree.
type Document struct {
	Body *Element

	sched      toast.Scheduler
	animations map[string]time.Duration
	logger     *slog.Logger

	containers map[toast.Position]*Element
}

// Option configures a Document.
type Option func(*Document)

// WithScheduler sets the clock used for progress sampling and for emulated
// animation end events.
func WithScheduler(s toast.Scheduler) Option {
	return func(d *Document) {
		d.sched = s
	}
}

// WithAnimation declares that adding class to a toast starts an animation
// lasting dur. An animationend event is dispatched when it finishes, provided
// a scheduler is configured.
func WithAnimation(class string, dur time.Duration) Option {
	return func(d *Document) {
		if dur < 0 {
			dur = 0
		}
		d.animations[class] = dur
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		Body:       NewElement("body"),
		animations: make(map[string]time.Duration),
		logger:     slog.Default(),
		containers: make(map[toast.Position]*Element),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetAnimation changes the duration of an animation class. Running animations
// keep their original duration.
func (d *Document) SetAnimation(class string, dur time.Duration) {
	if dur < 0 {
		dur = 0
	}
	d.animations[class] = dur
}

func (d *Document) now() time.Time {
	if d.sched != nil {
		return d.sched.Now()
	}
	return time.Now()
}

// Container returns the container element created for position, if any.
func (d *Document) Container(position toast.Position) (*Element, bool) {
	c, ok := d.containers[position]
	return c, ok
}

// HTML serializes the body contents.
func (d *Document) HTML() string {
	return d.Body.InnerHTML()
}

// NewContainer implements toast.Renderer. The container is appended to the
// body immediately.
func (d *Document) NewContainer(position toast.Position) toast.Container {
	el := NewElement("div", ClassContainer, string(position))
	d.Body.AppendChild(el)
	d.containers[position] = el
	return &Container{el: el}
}

// NewNode implements toast.Renderer.
func (d *Document) NewNode(view toast.View) toast.Node {
	root := NewElement("div", view.Classes...)
	root.SetAttr(AttrToastID, view.ID)
	for _, name := range slices.Sorted(maps.Keys(view.Attributes)) {
		root.SetAttr(name, view.Attributes[name])
	}

	icon := NewElement("div", ClassIcon)
	icon.SetText(view.Icon)

	content := NewElement("div", ClassContent)
	title := NewElement("div", ClassTitle)
	title.SetText(view.Title)
	message := NewElement("div", ClassMessage)
	message.SetText(view.Message)
	content.AppendChild(title)
	content.AppendChild(message)

	closeBtn := NewElement("button", ClassCloseBtn)
	closeBtn.SetText("×")

	wrap := NewElement("div", ClassProgress)
	bar := NewElement("i")
	wrap.AppendChild(bar)

	root.AppendChild(icon)
	root.AppendChild(content)
	root.AppendChild(closeBtn)
	root.AppendChild(wrap)

	n := &ToastNode{
		doc:      d,
		view:     view,
		root:     root,
		closeBtn: closeBtn,
		wrap:     wrap,
		bar:      bar,
		pending:  make(map[string]toast.Timer),
		progress: progressState{from: 1, to: 1},
		visible:  true,
	}
	for _, c := range view.Classes {
		n.startAnimation(c)
	}
	return n
}

// Container is a stacking container element.
type Container struct {
	el *Element
}

// Element returns the container element.
func (c *Container) Element() *Element {
	return c.el
}

// Prepend implements toast.Container.
func (c *Container) Prepend(node toast.Node) {
	if n, ok := node.(*ToastNode); ok {
		c.el.PrependChild(n.root)
	}
}

// Append implements toast.Container.
func (c *Container) Append(node toast.Node) {
	if n, ok := node.(*ToastNode); ok {
		c.el.AppendChild(n.root)
	}
}

// progressState is the linear animation the progress bar is running.
type progressState struct {
	from, to float64
	start    time.Time
	dur      time.Duration
}

func (p progressState) at(t time.Time) float64 {
	if p.dur <= 0 || !t.Before(p.start.Add(p.dur)) {
		return p.to
	}
	if t.Before(p.start) {
		return p.from
	}
	f := float64(t.Sub(p.start)) / float64(p.dur)
	return p.from + (p.to-p.from)*f
}

// ToastNode is the element tree of a single toast. It implements toast.Node.
type ToastNode struct {
	doc  *Document
	view toast.View

	root     *Element
	closeBtn *Element
	wrap     *Element
	bar      *Element

	pending  map[string]toast.Timer
	progress progressState
	visible  bool
}

// Root returns the toast element.
func (n *ToastNode) Root() *Element {
	return n.root
}

// View returns the view the node was built from.
func (n *ToastNode) View() toast.View {
	return n.view
}

// Attached reports whether the toast is still in a container.
func (n *ToastNode) Attached() bool {
	return n.root.Parent() != nil
}

// ProgressAt samples the progress bar at t. It returns false when the bar is
// hidden.
func (n *ToastNode) ProgressAt(t time.Time) (float64, bool) {
	if !n.visible {
		return 0, false
	}
	return n.progress.at(t), true
}

// Progress samples the progress bar now.
func (n *ToastNode) Progress() (float64, bool) {
	return n.ProgressAt(n.doc.now())
}

// PointerEnter simulates the pointer entering the toast.
func (n *ToastNode) PointerEnter() {
	n.root.Dispatch(EventPointerEnter)
}

// PointerLeave simulates the pointer leaving the toast.
func (n *ToastNode) PointerLeave() {
	n.root.Dispatch(EventPointerLeave)
}

// Click simulates a click on the close button.
func (n *ToastNode) Click() {
	n.closeBtn.Dispatch(EventClick)
}

// EndAnimation dispatches animationend on the toast element.
func (n *ToastNode) EndAnimation() {
	n.root.Dispatch(EventAnimationEnd)
}

// SetClass implements toast.Node.
func (n *ToastNode) SetClass(name string, on bool) {
	if on {
		if n.root.AddClass(name) {
			n.startAnimation(name)
		}
		return
	}
	if n.root.RemoveClass(name) {
		n.cancelAnimation(name)
	}
}

// SetProgress implements toast.Node.
func (n *ToastNode) SetProgress(ratio float64, transition time.Duration) {
	now := n.doc.now()
	current := n.progress.at(now)

	if transition <= 0 {
		n.bar.SetStyle("transition", "")
		n.progress = progressState{from: ratio, to: ratio, start: now}
	} else {
		n.bar.SetStyle("transition", "transform "+strconv.FormatInt(transition.Milliseconds(), 10)+"ms linear")
		n.progress = progressState{from: current, to: ratio, start: now, dur: transition}
	}
	n.bar.SetStyle("transform", "scaleX("+strconv.FormatFloat(ratio, 'f', -1, 64)+")")
}

// HideProgress implements toast.Node.
func (n *ToastNode) HideProgress() {
	n.visible = false
	n.bar.SetStyle("display", "none")
}

// OnPointer implements toast.Node.
func (n *ToastNode) OnPointer(enter, leave func()) {
	n.root.AddEventListener(EventPointerEnter, enter)
	n.root.AddEventListener(EventPointerLeave, leave)
}

// OnClose implements toast.Node.
func (n *ToastNode) OnClose(fn func()) {
	n.closeBtn.AddEventListener(EventClick, fn)
}

// OnceAnimationEnd implements toast.Node.
func (n *ToastNode) OnceAnimationEnd(fn func()) {
	n.root.AddOnceListener(EventAnimationEnd, fn)
}

// Detach implements toast.Node.
func (n *ToastNode) Detach() {
	for class := range n.pending {
		n.cancelAnimation(class)
	}
	n.root.Remove()
}

func (n *ToastNode) startAnimation(class string) {
	dur, ok := n.doc.animations[class]
	if !ok || n.doc.sched == nil {
		return
	}
	n.cancelAnimation(class)
	n.pending[class] = n.doc.sched.AfterFunc(dur, func() {
		delete(n.pending, class)
		if n.root.HasClass(class) {
			n.doc.logger.Debug("animation ended", "toast", n.view.ID, "class", class)
			n.EndAnimation()
		}
	})
}

func (n *ToastNode) cancelAnimation(class string) {
	if t, ok := n.pending[class]; ok {
		t.Stop()
		delete(n.pending, class)
	}
}
