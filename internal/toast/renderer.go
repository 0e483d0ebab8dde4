package toast

import "time"

// Animation hook classes.
const (
	ClassEnter = "toast-enter"
	ClassLeave = "toast-leave"
)

// View describes the element to build for a toast.
type View struct {
	ID         string
	Type       Type
	Title      string
	Message    string
	Icon       string
	Classes    []string
	Attributes map[string]string
}

// Renderer isolates display side effects from the toast lifecycle.
type Renderer interface {
	// NewContainer creates a stacking container for position and attaches
	// it to the display surface.
	NewContainer(position Position) Container
	// NewNode creates the element for a single toast.
	NewNode(view View) Node
}

// Container is a stacking area holding toast nodes.
type Container interface {
	Prepend(node Node)
	Append(node Node)
}

// Node is a rendered toast element.
type Node interface {
	SetClass(name string, on bool)
	// SetProgress moves the progress bar to ratio (0..1). A zero transition
	// snaps to ratio; otherwise the bar animates linearly over transition.
	SetProgress(ratio float64, transition time.Duration)
	HideProgress()
	OnPointer(enter, leave func())
	OnClose(fn func())
	// OnceAnimationEnd registers fn to run the next time an animation on
	// the node finishes.
	OnceAnimationEnd(fn func())
	Detach()
}
