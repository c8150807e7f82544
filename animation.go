package vinemotion

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animation is anything advanced by elapsed time that eventually finishes.
// Page views return them for their exit and entry motion.
type Animation interface {
	// Update advances by dt and reports whether the animation has finished.
	Update(dt time.Duration) (done bool)
}

// AnimationFunc adapts a function to the Animation interface.
type AnimationFunc func(dt time.Duration) bool

// Update calls f.
func (f AnimationFunc) Update(dt time.Duration) bool { return f(dt) }

// Tween animates a single value and hands every new value to apply.
type Tween struct {
	tween *gween.Tween
	apply func(float64)
	done  bool
}

// NewTween creates a tween from begin to end over d using fn. apply may be
// nil when only completion matters.
func NewTween(begin, end float64, d time.Duration, fn ease.TweenFunc, apply func(float64)) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{
		tween: gween.New(float32(begin), float32(end), float32(d.Seconds()), fn),
		apply: apply,
	}
}

// Update implements Animation.
func (t *Tween) Update(dt time.Duration) bool {
	if t.done {
		return true
	}
	val, finished := t.tween.Update(float32(dt.Seconds()))
	if t.apply != nil {
		t.apply(float64(val))
	}
	t.done = finished
	return finished
}

// Done reports whether the tween has finished.
func (t *Tween) Done() bool {
	return t.done
}

// TweenGroup runs animations in parallel. It is done when all members are.
// Members that finish early are not updated again.
type TweenGroup struct {
	members []Animation
	done    []bool
	Done    bool
}

// Parallel groups animations to run side by side. Nil entries are skipped.
func Parallel(anims ...Animation) *TweenGroup {
	g := &TweenGroup{}
	for _, a := range anims {
		if a != nil {
			g.members = append(g.members, a)
		}
	}
	g.done = make([]bool, len(g.members))
	return g
}

// Update implements Animation.
func (g *TweenGroup) Update(dt time.Duration) bool {
	if g.Done {
		return true
	}
	allDone := true
	for i, a := range g.members {
		if g.done[i] {
			continue
		}
		if a.Update(dt) {
			g.done[i] = true
		} else {
			allDone = false
		}
	}
	g.Done = allDone
	return allDone
}

// Sequence runs animations one after another. Time left over when one
// member finishes is not carried into the next.
type Sequence struct {
	steps []Animation
	index int
}

// Sequential builds a Sequence. Nil entries are skipped.
func Sequential(anims ...Animation) *Sequence {
	s := &Sequence{}
	for _, a := range anims {
		if a != nil {
			s.steps = append(s.steps, a)
		}
	}
	return s
}

// Update implements Animation.
func (s *Sequence) Update(dt time.Duration) bool {
	if s.index >= len(s.steps) {
		return true
	}
	if s.steps[s.index].Update(dt) {
		s.index++
	}
	return s.index >= len(s.steps)
}

// Wait returns an animation that finishes after d.
func Wait(d time.Duration) Animation {
	var elapsed time.Duration
	return AnimationFunc(func(dt time.Duration) bool {
		elapsed += dt
		return elapsed >= d
	})
}

// TweenAlpha fades *alpha to the given value. Convenience for views that
// keep their opacity in a plain field.
func TweenAlpha(alpha *float64, to float64, d time.Duration, fn ease.TweenFunc) *Tween {
	return NewTween(*alpha, to, d, fn, func(v float64) { *alpha = v })
}

// TweenOffset slides a Vec2 to the given value.
func TweenOffset(v *Vec2, to Vec2, d time.Duration, fn ease.TweenFunc) *TweenGroup {
	return Parallel(
		NewTween(v.X, to.X, d, fn, func(x float64) { v.X = x }),
		NewTween(v.Y, to.Y, d, fn, func(y float64) { v.Y = y }),
	)
}
