package vinemotion

import (
	"fmt"
	"time"
)

// Vec2 is a 2D vector used for positions, offsets, and spring outputs.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left of the page content, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Element is anything with a layout box that animations can be bound to.
// Bounds returns the element's rectangle in content coordinates and false
// once the element is no longer mounted.
type Element interface {
	Bounds() (Rect, bool)
}

// ElementFunc adapts a function to the Element interface.
type ElementFunc func() (Rect, bool)

// Bounds calls f.
func (f ElementFunc) Bounds() (Rect, bool) { return f() }

// Disposer releases a registration. Every Disposer returned by this package
// is safe to call more than once.
type Disposer func()

// once wraps fn so that only the first call has any effect.
func once(fn func()) Disposer {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		fn()
	}
}

// Frame describes a single clock tick.
type Frame struct {
	Seq   uint64        // monotonically increasing tick number, starting at 1
	Delta time.Duration // wall time since the previous tick
}

// Seconds returns Delta in seconds.
func (f Frame) Seconds() float64 {
	return f.Delta.Seconds()
}

// TriggerMode selects how a scroll trigger reports activity.
type TriggerMode uint8

const (
	ModeToggle TriggerMode = iota // discrete OnEnter / OnLeave
	ModeScrub                     // continuous OnProgress while active
)

func (m TriggerMode) String() string {
	switch m {
	case ModeToggle:
		return "toggle"
	case ModeScrub:
		return "scrub"
	default:
		return fmt.Sprintf("TriggerMode(%d)", uint8(m))
	}
}

// Phase is the state of a page transition.
type Phase uint8

const (
	PhaseIdle      Phase = iota // no navigation in flight
	PhaseLeaving                // outgoing view torn down, exit animation running
	PhaseRendering              // incoming view mounted, entry animation running
	PhaseDone                   // session finished; only seen on a completed Session
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLeaving:
		return "leaving"
	case PhaseRendering:
		return "rendering"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
