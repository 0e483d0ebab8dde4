package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/diamondburned/gotk4/pkg/pango"

	"github.com/jmylchreest/toastui/internal/toast"
)

// progressFrame is how often an animated progress bar is redrawn.
const progressFrame = 33 * time.Millisecond

// Node is a toast.Node made of GTK widgets.
type Node struct {
	renderer  *Renderer
	container *Container
	view      toast.View

	root     *gtk.Box
	progress *gtk.ProgressBar
	closeBtn *gtk.Button

	anim      progressAnim
	frame     toast.Timer
	pending   map[string]toast.Timer
	onAnimEnd []func()
	detached  bool
}

var _ toast.Node = (*Node)(nil)

func newNode(r *Renderer, view toast.View) *Node {
	n := &Node{
		renderer: r,
		view:     view,
		pending:  make(map[string]toast.Timer),
	}

	n.root = gtk.NewBox(gtk.OrientationVertical, 6)
	n.root.SetSizeRequest(r.cfg.Display.Width, -1)
	n.root.SetName(view.ID)
	for _, class := range view.Classes {
		n.addClass(class)
	}

	row := gtk.NewBox(gtk.OrientationHorizontal, 10)

	icon := gtk.NewLabel(view.Icon)
	icon.AddCSSClass("icon")
	icon.SetVAlign(gtk.AlignStart)
	row.Append(icon)

	content := gtk.NewBox(gtk.OrientationVertical, 2)
	content.AddCSSClass("content")
	content.SetHExpand(true)

	title := gtk.NewLabel(view.Title)
	title.AddCSSClass("title")
	title.SetXAlign(0)
	title.SetEllipsize(pango.EllipsizeEnd)
	content.Append(title)

	message := gtk.NewLabel(view.Message)
	message.AddCSSClass("message")
	message.SetXAlign(0)
	message.SetWrap(true)
	message.SetWrapMode(pango.WrapWordChar)
	message.SetMaxWidthChars(50)
	content.Append(message)
	row.Append(content)

	n.closeBtn = gtk.NewButtonWithLabel("×")
	n.closeBtn.AddCSSClass("close-btn")
	n.closeBtn.AddCSSClass("flat")
	n.closeBtn.SetVAlign(gtk.AlignStart)
	n.closeBtn.SetTooltipText("Close")
	row.Append(n.closeBtn)

	n.root.Append(row)

	n.progress = gtk.NewProgressBar()
	n.progress.AddCSSClass("progress")
	n.progress.SetFraction(1)
	n.root.Append(n.progress)

	return n
}

func (n *Node) addClass(name string) {
	n.root.AddCSSClass(name)
	if d := n.renderer.animation(name); d > 0 {
		n.startAnimation(name, d)
	}
}

// SetClass adds or removes a CSS class. Adding an animated class starts its
// animation; removing it cancels a pending animation end.
func (n *Node) SetClass(name string, on bool) {
	if n.detached {
		return
	}
	if on {
		n.addClass(name)
		return
	}
	n.root.RemoveCSSClass(name)
	if t, ok := n.pending[name]; ok {
		t.Stop()
		delete(n.pending, name)
	}
}

func (n *Node) startAnimation(class string, d time.Duration) {
	if t, ok := n.pending[class]; ok {
		t.Stop()
	}
	n.pending[class] = n.renderer.sched.AfterFunc(d, func() {
		delete(n.pending, class)
		if n.detached || !n.root.HasCSSClass(class) {
			return
		}
		n.animationEnd()
	})
}

func (n *Node) animationEnd() {
	fns := n.onAnimEnd
	n.onAnimEnd = nil
	for _, fn := range fns {
		fn()
	}
}

// SetProgress moves the bar to ratio, animating linearly over transition.
func (n *Node) SetProgress(ratio float64, transition time.Duration) {
	if n.detached {
		return
	}
	n.stopFrame()

	now := n.renderer.sched.Now()
	n.anim = progressAnim{from: n.progress.Fraction(), to: ratio, start: now, dur: transition}
	n.progress.SetFraction(n.anim.at(now))
	if !n.anim.finished(now) {
		n.scheduleFrame()
	}
}

func (n *Node) scheduleFrame() {
	n.frame = n.renderer.sched.AfterFunc(progressFrame, func() {
		n.frame = nil
		if n.detached {
			return
		}
		now := n.renderer.sched.Now()
		n.progress.SetFraction(n.anim.at(now))
		if !n.anim.finished(now) {
			n.scheduleFrame()
		}
	})
}

func (n *Node) stopFrame() {
	if n.frame != nil {
		n.frame.Stop()
		n.frame = nil
	}
}

// HideProgress hides the bar of a persistent toast.
func (n *Node) HideProgress() {
	n.stopFrame()
	n.progress.SetVisible(false)
}

// OnPointer calls enter and leave as the pointer crosses the toast.
func (n *Node) OnPointer(enter, leave func()) {
	motion := gtk.NewEventControllerMotion()
	motion.ConnectEnter(func(x, y float64) {
		if enter != nil {
			enter()
		}
	})
	motion.ConnectLeave(func() {
		if leave != nil {
			leave()
		}
	})
	n.root.AddController(motion)
}

// OnClose calls fn when the close button is clicked.
func (n *Node) OnClose(fn func()) {
	n.closeBtn.ConnectClicked(fn)
}

// OnceAnimationEnd registers fn for the next animation end.
func (n *Node) OnceAnimationEnd(fn func()) {
	n.onAnimEnd = append(n.onAnimEnd, fn)
}

// Detach removes the toast from its window and stops its timers.
func (n *Node) Detach() {
	if n.detached {
		return
	}
	n.detached = true
	n.stopFrame()
	for class, t := range n.pending {
		t.Stop()
		delete(n.pending, class)
	}
	n.onAnimEnd = nil
	if n.container != nil {
		n.container.detached(n)
		n.container = nil
	}
}
