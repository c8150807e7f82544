package vinemotion

import "time"

// Handle is a pointer-reactive element attached to a PointerEngine. Its
// value is a damped 2-axis offset that chases the pointer while it hovers
// the element and springs back to rest when it leaves.
type Handle struct {
	engine  *PointerEngine
	el      Element
	owner   string
	scale   Vec2
	x, y    Spring
	hovered bool
	removed bool

	// Apply, when set, receives the new value after every integration step.
	// It is the render-side consumer; the engine never writes to a surface
	// itself.
	Apply func(Vec2)
}

// OnPointerMove retargets the springs toward the pointer offset from the
// element center, normalized to [-1, 1] over the element's half extents and
// multiplied by the configured scale. x and y are in the same space as
// Element.Bounds. A missing element is treated as a pointer leave.
func (h *Handle) OnPointerMove(x, y float64) {
	if h.removed {
		return
	}
	box, ok := h.el.Bounds()
	if !ok {
		h.OnPointerLeave()
		return
	}
	h.hovered = true
	c := box.Center()
	var nx, ny float64
	if box.Width > 0 {
		nx = clamp((x-c.X)/(box.Width/2), -1, 1)
	}
	if box.Height > 0 {
		ny = clamp((y-c.Y)/(box.Height/2), -1, 1)
	}
	h.x.Target = nx * h.scale.X
	h.y.Target = ny * h.scale.Y
}

// OnPointerLeave resets both targets to zero.
func (h *Handle) OnPointerLeave() {
	h.hovered = false
	h.x.Target = 0
	h.y.Target = 0
}

// CurrentValue returns the current spring positions.
func (h *Handle) CurrentValue() Vec2 {
	return Vec2{X: h.x.Position, Y: h.y.Position}
}

// Target returns the current spring targets.
func (h *Handle) Target() Vec2 {
	return Vec2{X: h.x.Target, Y: h.y.Target}
}

// Settled reports whether both axes are at rest within eps of their targets.
func (h *Handle) Settled(eps float64) bool {
	return h.x.Settled(eps) && h.y.Settled(eps)
}

// Attached reports whether the handle is still integrated by its engine.
func (h *Handle) Attached() bool {
	return !h.removed
}

// Detach removes the handle from the tick loop. Safe to call more than once.
func (h *Handle) Detach() {
	if h.removed {
		return
	}
	h.removed = true
	h.engine.remove(h)
}

// PointerEngine integrates every attached Handle once per tick.
//
// PointerEngine is not safe for concurrent use.
type PointerEngine struct {
	handles   []*Handle
	snap      []*Handle
	hoverSnap []*Handle
	maxStep   time.Duration
}

func newPointerEngine(maxStep time.Duration) *PointerEngine {
	return &PointerEngine{maxStep: maxStep}
}

// Attach creates a Handle for el. The configuration is validated; zero,
// negative, or non-finite stiffness or damping is rejected with
// ErrInvalidSpring.
func (p *PointerEngine) Attach(el Element, cfg SpringConfig) (*Handle, error) {
	return p.attach(el, cfg, "")
}

func (p *PointerEngine) attach(el Element, cfg SpringConfig, owner string) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if el == nil {
		el = ElementFunc(func() (Rect, bool) { return Rect{}, false })
	}
	h := &Handle{
		engine: p,
		el:     el,
		owner:  owner,
		scale:  cfg.Scale,
		x:      Spring{Stiffness: cfg.Stiffness, Damping: cfg.Damping},
		y:      Spring{Stiffness: cfg.Stiffness, Damping: cfg.Damping},
	}
	p.handles = append(p.handles, h)
	return h, nil
}

func (p *PointerEngine) remove(h *Handle) {
	for i, o := range p.handles {
		if o == h {
			copy(p.handles[i:], p.handles[i+1:])
			p.handles[len(p.handles)-1] = nil
			p.handles = p.handles[:len(p.handles)-1]
			return
		}
	}
}

// Len returns the number of attached handles.
func (p *PointerEngine) Len() int {
	return len(p.handles)
}

// CountOwned returns the number of attached handles with the given owner.
func (p *PointerEngine) CountOwned(owner string) int {
	n := 0
	for _, h := range p.handles {
		if h.owner == owner {
			n++
		}
	}
	return n
}

// DetachOwned detaches every handle with the given owner and returns how
// many were detached.
func (p *PointerEngine) DetachOwned(owner string) int {
	var owned []*Handle
	for _, h := range p.handles {
		if h.owner == owner {
			owned = append(owned, h)
		}
	}
	for _, h := range owned {
		h.Detach()
	}
	return len(owned)
}

// PointerMove routes a pointer position to the handles under it. Handles the
// pointer has left since the last call receive OnPointerLeave.
func (p *PointerEngine) PointerMove(x, y float64) {
	p.hoverSnap = append(p.hoverSnap[:0], p.handles...)
	for _, h := range p.hoverSnap {
		if h.removed {
			continue
		}
		box, ok := h.el.Bounds()
		over := ok && box.Contains(x, y)
		switch {
		case over:
			h.hovered = true
			h.OnPointerMove(x, y)
		case h.hovered:
			h.OnPointerLeave()
		}
	}
	clear(p.hoverSnap)
	p.hoverSnap = p.hoverSnap[:0]
}

// PointerExit releases every hovered handle, e.g. when the pointer leaves the
// window.
func (p *PointerEngine) PointerExit() {
	for _, h := range p.handles {
		if h.hovered {
			h.OnPointerLeave()
		}
	}
}

// update integrates all attached springs with the frame's elapsed time.
func (p *PointerEngine) update(f Frame) {
	p.snap = append(p.snap[:0], p.handles...)
	for _, h := range p.snap {
		if h.removed {
			continue
		}
		h.x.Step(f.Delta, p.maxStep)
		h.y.Step(f.Delta, p.maxStep)
		if h.Apply != nil {
			h.Apply(h.CurrentValue())
		}
	}
	clear(p.snap)
	p.snap = p.snap[:0]
}
