package display

import (
	"math"
	"time"

	"github.com/jmylchreest/toastui/internal/toast"
)

// edges describes which screen edges a window is anchored to.
type edges struct {
	Top, Bottom, Left, Right bool
}

// anchorsFor returns the layer-shell anchors for position. Center positions
// anchor vertically only, which the compositor centers horizontally.
func anchorsFor(position toast.Position) edges {
	var e edges
	switch position {
	case toast.PositionTopLeft:
		e.Top, e.Left = true, true
	case toast.PositionTopCenter:
		e.Top = true
	case toast.PositionTopRight:
		e.Top, e.Right = true, true
	case toast.PositionBottomLeft:
		e.Bottom, e.Left = true, true
	case toast.PositionBottomCenter:
		e.Bottom = true
	case toast.PositionBottomRight:
		e.Bottom, e.Right = true, true
	}
	return e
}

// progressAnim is a linear move of the progress bar from one fraction to
// another, started at start and lasting dur.
type progressAnim struct {
	from, to float64
	start    time.Time
	dur      time.Duration
}

func (p progressAnim) at(t time.Time) float64 {
	if p.dur <= 0 {
		return p.to
	}
	f := float64(t.Sub(p.start)) / float64(p.dur)
	f = math.Max(0, math.Min(1, f))
	return p.from + (p.to-p.from)*f
}

func (p progressAnim) finished(t time.Time) bool {
	return p.dur <= 0 || !t.Before(p.start.Add(p.dur))
}
