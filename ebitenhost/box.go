package ebitenhost

import (
	"image/color"

	"github.com/phanxgames/vinemotion"
)

// Box is a solid rectangle laid out in content coordinates. It is the
// host's stand-in for a DOM element: triggers and magnetic springs bind to
// it, and views animate its Offset and Alpha.
type Box struct {
	Name  string
	Rect  vinemotion.Rect
	Color color.RGBA
	Label string

	// Offset is added to the layout position when drawing. Magnetic springs
	// write here.
	Offset vinemotion.Vec2
	// Alpha multiplies Color's alpha. Zero is fully transparent.
	Alpha float64
	// Hidden removes the box from layout. Triggers bound to a hidden box see
	// a missing element.
	Hidden bool
}

// NewBox returns a visible, opaque box.
func NewBox(name string, x, y, w, h float64, c color.RGBA) *Box {
	return &Box{
		Name:  name,
		Rect:  vinemotion.Rect{X: x, Y: y, Width: w, Height: h},
		Color: c,
		Alpha: 1,
	}
}

// Bounds implements vinemotion.Element.
func (b *Box) Bounds() (vinemotion.Rect, bool) {
	return b.Rect, !b.Hidden
}

// ScreenRect returns where the box is drawn for the given scroll offset.
func (b *Box) ScreenRect(scroll float64) vinemotion.Rect {
	return vinemotion.Rect{
		X:      b.Rect.X + b.Offset.X,
		Y:      b.Rect.Y - scroll + b.Offset.Y,
		Width:  b.Rect.Width,
		Height: b.Rect.Height,
	}
}

// Page is a view whose content the host draws.
type Page interface {
	vinemotion.View
	Boxes() []*Box
}

// contentHeight returns the bottom edge of the lowest visible box plus
// padding, and at least viewportH.
func contentHeight(boxes []*Box, viewportH, padding float64) float64 {
	bottom := 0.0
	for _, b := range boxes {
		if b.Hidden {
			continue
		}
		bottom = max(bottom, b.Rect.Y+b.Rect.Height)
	}
	return max(bottom+padding, viewportH)
}
