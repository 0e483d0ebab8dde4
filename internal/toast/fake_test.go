package toast

import (
	"time"
)

// fakeRenderer records every side effect so lifecycle tests can run without a
// display surface.
type fakeRenderer struct {
	containers map[Position]*fakeContainer
	created    int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{containers: make(map[Position]*fakeContainer)}
}

func (r *fakeRenderer) NewContainer(position Position) Container {
	c := &fakeContainer{position: position}
	r.containers[position] = c
	r.created++
	return c
}

func (r *fakeRenderer) NewNode(view View) Node {
	classes := make(map[string]bool, len(view.Classes))
	for _, c := range view.Classes {
		classes[c] = true
	}
	return &fakeNode{view: view, classes: classes, progress: 1, progressVisible: true}
}

type fakeContainer struct {
	position Position
	nodes    []*fakeNode
}

func (c *fakeContainer) Prepend(n Node) {
	fn := n.(*fakeNode)
	fn.parent = c
	c.nodes = append([]*fakeNode{fn}, c.nodes...)
}

func (c *fakeContainer) Append(n Node) {
	fn := n.(*fakeNode)
	fn.parent = c
	c.nodes = append(c.nodes, fn)
}

func (c *fakeContainer) ids() []string {
	out := make([]string, 0, len(c.nodes))
	for _, n := range c.nodes {
		out = append(out, n.view.ID)
	}
	return out
}

type progressCall struct {
	ratio      float64
	transition time.Duration
}

type fakeNode struct {
	view            View
	parent          *fakeContainer
	classes         map[string]bool
	progress        float64
	progressVisible bool
	progressCalls   []progressCall

	enter, leave func()
	close        func()
	animationEnd []func()

	classChanges int
	detachCount  int
}

func (n *fakeNode) SetClass(name string, on bool) {
	n.classes[name] = on
	n.classChanges++
}

func (n *fakeNode) SetProgress(ratio float64, transition time.Duration) {
	n.progress = ratio
	n.progressCalls = append(n.progressCalls, progressCall{ratio: ratio, transition: transition})
}

func (n *fakeNode) HideProgress() {
	n.progressVisible = false
}

func (n *fakeNode) OnPointer(enter, leave func()) {
	n.enter, n.leave = enter, leave
}

func (n *fakeNode) OnClose(fn func()) {
	n.close = fn
}

func (n *fakeNode) OnceAnimationEnd(fn func()) {
	n.animationEnd = append(n.animationEnd, fn)
}

// endAnimation fires and clears the pending animation listeners.
func (n *fakeNode) endAnimation() {
	fns := n.animationEnd
	n.animationEnd = nil
	for _, fn := range fns {
		fn()
	}
}

func (n *fakeNode) Detach() {
	n.detachCount++
	if n.parent == nil {
		return
	}
	for i, sib := range n.parent.nodes {
		if sib == n {
			n.parent.nodes = append(n.parent.nodes[:i], n.parent.nodes[i+1:]...)
			break
		}
	}
	n.parent = nil
}

var testEpoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestManager(opts ...ManagerOption) (*Manager, *fakeRenderer, *ManualClock) {
	r := newFakeRenderer()
	clock := NewManualClock(testEpoch)
	return NewManager(r, clock, opts...), r, clock
}

func nodeOf(h *Handle) *fakeNode {
	return h.Node().(*fakeNode)
}
