package vinemotion

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ScrollState is the one shared notion of scroll position. It is written once
// per tick by the Virtualizer and read by everything else.
type ScrollState struct {
	RawOffset      float64 // target offset from user input
	SmoothedOffset float64 // interpolated offset every consumer should use
	Velocity       float64 // smoothed pixels per second
	ContentHeight  float64
	ViewportHeight float64
}

// MaxOffset returns the largest reachable scroll offset.
func (s ScrollState) MaxOffset() float64 {
	return math.Max(0, s.ContentHeight-s.ViewportHeight)
}

// Surface is the native scroll surface the Virtualizer takes over. It is
// optional; hosts without native scrolling don't provide one.
type Surface interface {
	SetSnapEnabled(enabled bool)
	SetNativeOffset(y float64)
}

// scrollAnim holds an active ScrollTo tween.
type scrollAnim struct {
	tween *gween.Tween
}

// Virtualizer converts discrete scroll input into a smoothed, continuously
// interpolated offset.
type Virtualizer struct {
	state   ScrollState
	surface Surface

	smoothTime  time.Duration
	snapEpsilon float64
	easeFn      ease.TweenFunc

	ready    bool
	locked   bool
	lastSeq  uint64
	scrollTo *scrollAnim

	// Target of a ScrollTo issued before Init, applied once the geometry
	// is known.
	initial    float64
	hasInitial bool
}

func newVirtualizer(cfg ScrollConfig, surface Surface) *Virtualizer {
	return &Virtualizer{
		surface:     surface,
		smoothTime:  cfg.SmoothTime,
		snapEpsilon: cfg.SnapEpsilon,
		easeFn:      ease.OutExpo,
	}
}

// Init takes ownership of the scroll surface and sets the initial geometry.
// It returns false without doing anything if the Virtualizer is already
// initialized.
func (v *Virtualizer) Init(viewportH, contentH float64) bool {
	if v.ready {
		return false
	}
	v.ready = true
	if v.surface != nil {
		v.surface.SetSnapEnabled(false)
	}
	v.Resize(viewportH, contentH)
	if v.hasInitial {
		v.hasInitial = false
		v.jump(v.clampOffset(v.initial))
	}
	return true
}

// Ready reports whether Init has run.
func (v *Virtualizer) Ready() bool {
	return v.ready
}

// State returns a copy of the current scroll state.
func (v *Virtualizer) State() ScrollState {
	return v.state
}

// Resize updates the viewport and content heights and re-clamps offsets.
func (v *Virtualizer) Resize(viewportH, contentH float64) {
	v.state.ViewportHeight = math.Max(0, viewportH)
	v.state.ContentHeight = math.Max(0, contentH)
	v.state.RawOffset = v.clampOffset(v.state.RawOffset)
	v.state.SmoothedOffset = v.clampOffset(v.state.SmoothedOffset)
}

func (v *Virtualizer) clampOffset(y float64) float64 {
	if math.IsNaN(y) {
		return 0
	}
	if !v.ready {
		return math.Max(0, y)
	}
	return clamp(y, 0, v.state.MaxOffset())
}

// ScrollBy adds user input to the raw offset. Ignored while locked. Any
// running ScrollTo is cancelled.
func (v *Virtualizer) ScrollBy(delta float64) {
	if v.locked || delta == 0 {
		return
	}
	v.scrollTo = nil
	v.state.RawOffset = v.clampOffset(v.state.RawOffset + delta)
}

// SetRawOffset sets the raw offset absolutely. Ignored while locked.
func (v *Virtualizer) SetRawOffset(y float64) {
	if v.locked {
		return
	}
	v.scrollTo = nil
	v.state.RawOffset = v.clampOffset(y)
}

// ScrollTo animates to target over duration with an ease-out curve. Ignored
// while locked. Before Init the target only reaches the native surface; the
// state jumps to it, clamped, when Init runs.
func (v *Virtualizer) ScrollTo(target float64, duration time.Duration) {
	if v.locked {
		return
	}
	target = v.clampOffset(target)
	if !v.ready {
		v.initial, v.hasInitial = target, true
		if v.surface != nil {
			v.surface.SetNativeOffset(target)
		}
		return
	}
	if duration <= 0 {
		v.jump(target)
		return
	}
	v.scrollTo = &scrollAnim{
		tween: gween.New(float32(v.state.SmoothedOffset), float32(target), float32(duration.Seconds()), v.easeFn),
	}
	v.state.RawOffset = target
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (v *Virtualizer) Scrolling() bool {
	return v.scrollTo != nil
}

func (v *Virtualizer) jump(y float64) {
	v.scrollTo = nil
	v.state.RawOffset = y
	v.state.SmoothedOffset = y
	v.state.Velocity = 0
	if v.surface != nil {
		v.surface.SetNativeOffset(y)
	}
}

// Reset jumps to the top, cancelling any animation. Used when a new page is
// mounted.
func (v *Virtualizer) Reset() {
	v.hasInitial = false
	v.jump(0)
}

// Lock stops user input from moving the raw offset.
func (v *Virtualizer) Lock() { v.locked = true }

// Unlock re-enables user input.
func (v *Virtualizer) Unlock() { v.locked = false }

// Locked reports whether user input is ignored.
func (v *Virtualizer) Locked() bool { return v.locked }

// update advances the smoothed offset. Calls with the same frame sequence
// number as the previous call are coalesced.
func (v *Virtualizer) update(f Frame) {
	if f.Seq != 0 && f.Seq == v.lastSeq {
		return
	}
	v.lastSeq = f.Seq
	if !v.ready {
		return
	}

	prev := v.state.SmoothedOffset
	dt := f.Seconds()

	if v.scrollTo != nil {
		val, done := v.scrollTo.tween.Update(float32(dt))
		v.state.SmoothedOffset = v.clampOffset(float64(val))
		if done {
			v.state.SmoothedOffset = v.state.RawOffset
			v.scrollTo = nil
		}
	} else {
		v.state.SmoothedOffset = v.follow(prev, v.state.RawOffset, dt)
	}

	if dt > 0 {
		v.state.Velocity = (v.state.SmoothedOffset - prev) / dt
	} else {
		v.state.Velocity = 0
	}
}

// follow moves cur toward target with an exponential decay. The step factor
// is in [0, 1], so the result never passes target.
func (v *Virtualizer) follow(cur, target, dt float64) float64 {
	diff := target - cur
	if math.Abs(diff) <= v.snapEpsilon {
		return target
	}
	tau := v.smoothTime.Seconds()
	if tau <= 0 {
		return target
	}
	k := 1 - math.Exp(-dt/tau)
	next := cur + diff*k
	if math.Abs(target-next) <= v.snapEpsilon {
		return target
	}
	return v.clampOffset(next)
}
