package vinemotion

import (
	"math/rand/v2"
	"testing"
	"time"
)

type fakeSurface struct {
	snap   bool
	native []float64
}

func (s *fakeSurface) SetSnapEnabled(enabled bool) { s.snap = enabled }
func (s *fakeSurface) SetNativeOffset(y float64)   { s.native = append(s.native, y) }

func newTestVirtualizer() *Virtualizer {
	return newVirtualizer(DefaultConfig().Scroll, nil)
}

func TestVirtualizerInitOnce(t *testing.T) {
	surf := &fakeSurface{snap: true}
	v := newVirtualizer(DefaultConfig().Scroll, surf)

	if !v.Init(600, 3000) {
		t.Fatal("first Init returned false")
	}
	if surf.snap {
		t.Error("native snapping still enabled after Init")
	}
	v.SetRawOffset(400)
	if v.Init(100, 100) {
		t.Error("second Init returned true")
	}
	s := v.State()
	if s.ViewportHeight != 600 || s.ContentHeight != 3000 || s.RawOffset != 400 {
		t.Errorf("second Init changed state: %+v", s)
	}
}

func TestVirtualizerScrollToBeforeInitDefers(t *testing.T) {
	surf := &fakeSurface{}
	v := newVirtualizer(DefaultConfig().Scroll, surf)

	v.ScrollTo(2500, time.Second)

	if s := v.State(); s.RawOffset != 0 || s.SmoothedOffset != 0 {
		t.Errorf("state = %+v before Init, want untouched", s)
	}
	if v.Scrolling() {
		t.Error("Scrolling = true before Init")
	}
	if len(surf.native) != 1 || surf.native[0] != 2500 {
		t.Errorf("native offsets = %v, want [2500]", surf.native)
	}

	v.Init(600, 1600)
	s := v.State()
	if s.RawOffset != 1000 || s.SmoothedOffset != 1000 {
		t.Errorf("state after Init = %+v, want offsets clamped to 1000", s)
	}
	if v.Scrolling() {
		t.Error("deferred ScrollTo animated instead of jumping")
	}
}

func TestVirtualizerResetDropsDeferredScrollTo(t *testing.T) {
	v := newTestVirtualizer()
	v.ScrollTo(300, 0)
	v.Reset()
	v.Init(600, 5000)
	if s := v.State(); s.RawOffset != 0 || s.SmoothedOffset != 0 {
		t.Errorf("state = %+v, want the reset to win", s)
	}
}

func TestVirtualizerClampsRaw(t *testing.T) {
	v := newTestVirtualizer()
	v.Init(600, 2000)

	v.ScrollBy(-100)
	if v.State().RawOffset != 0 {
		t.Errorf("RawOffset = %v, want 0", v.State().RawOffset)
	}
	v.ScrollBy(10000)
	if v.State().RawOffset != 1400 {
		t.Errorf("RawOffset = %v, want 1400", v.State().RawOffset)
	}
}

func TestVirtualizerSmoothsTowardRaw(t *testing.T) {
	v := newTestVirtualizer()
	v.Init(600, 5000)
	v.SetRawOffset(1000)

	v.update(Frame{Seq: 1, Delta: frame60})
	first := v.State().SmoothedOffset
	if first <= 0 || first >= 1000 {
		t.Fatalf("SmoothedOffset after one tick = %v, want in (0, 1000)", first)
	}
	if v.State().Velocity <= 0 {
		t.Errorf("Velocity = %v, want > 0", v.State().Velocity)
	}

	for seq := uint64(2); seq < 200; seq++ {
		v.update(Frame{Seq: seq, Delta: frame60})
	}
	if v.State().SmoothedOffset != 1000 {
		t.Errorf("SmoothedOffset = %v, want 1000 after settling", v.State().SmoothedOffset)
	}
}

func TestVirtualizerCoalescesSameFrame(t *testing.T) {
	v := newTestVirtualizer()
	v.Init(600, 5000)
	v.SetRawOffset(1000)

	v.update(Frame{Seq: 7, Delta: frame60})
	once := v.State().SmoothedOffset
	v.update(Frame{Seq: 7, Delta: frame60})
	if v.State().SmoothedOffset != once {
		t.Errorf("second update in frame 7 moved offset %v -> %v", once, v.State().SmoothedOffset)
	}
}

func TestVirtualizerInvariantsRandomInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	v := newTestVirtualizer()
	v.Init(700, 4000)
	maxOff := v.State().MaxOffset()

	seq := uint64(0)
	for i := 0; i < 400; i++ {
		v.ScrollBy(rng.Float64()*600 - 300)
		frames := 1 + rng.IntN(5)
		for j := 0; j < frames; j++ {
			before := v.State()
			seq++
			dt := time.Duration(4+rng.IntN(40)) * time.Millisecond
			v.update(Frame{Seq: seq, Delta: dt})
			after := v.State()

			if after.SmoothedOffset < 0 || after.SmoothedOffset > after.ContentHeight || after.SmoothedOffset > maxOff {
				t.Fatalf("step %d: SmoothedOffset %v out of [0, %v]", i, after.SmoothedOffset, maxOff)
			}
			moved := after.SmoothedOffset - before.SmoothedOffset
			toward := before.RawOffset - before.SmoothedOffset
			if moved*toward < 0 {
				t.Fatalf("step %d: moved %v away from raw (distance %v)", i, moved, toward)
			}
			if (toward > 0 && after.SmoothedOffset > before.RawOffset) ||
				(toward < 0 && after.SmoothedOffset < before.RawOffset) {
				t.Fatalf("step %d: overshot raw %v -> %v", i, before.RawOffset, after.SmoothedOffset)
			}
		}
	}
}

func TestVirtualizerScrollToAnimates(t *testing.T) {
	v := newTestVirtualizer()
	v.Init(600, 5000)
	v.ScrollTo(2000, 500*time.Millisecond)

	if !v.Scrolling() {
		t.Fatal("Scrolling = false after ScrollTo")
	}
	prev := 0.0
	for seq := uint64(1); seq <= 40; seq++ {
		v.update(Frame{Seq: seq, Delta: frame60})
		cur := v.State().SmoothedOffset
		if cur < prev {
			t.Fatalf("frame %d: offset went backwards %v -> %v", seq, prev, cur)
		}
		prev = cur
	}
	if v.Scrolling() {
		t.Error("Scrolling = true after duration elapsed")
	}
	if v.State().SmoothedOffset != 2000 {
		t.Errorf("SmoothedOffset = %v, want 2000", v.State().SmoothedOffset)
	}
}

func TestVirtualizerInputCancelsScrollTo(t *testing.T) {
	v := newTestVirtualizer()
	v.Init(600, 5000)
	v.ScrollTo(2000, time.Second)
	v.update(Frame{Seq: 1, Delta: frame60})

	v.ScrollBy(-50)
	if v.Scrolling() {
		t.Error("ScrollTo still running after user input")
	}
}

func TestVirtualizerLockIgnoresInput(t *testing.T) {
	v := newTestVirtualizer()
	v.Init(600, 5000)
	v.Lock()
	v.ScrollBy(300)
	v.SetRawOffset(900)
	if v.State().RawOffset != 0 {
		t.Errorf("RawOffset = %v while locked, want 0", v.State().RawOffset)
	}
	v.Unlock()
	v.ScrollBy(300)
	if v.State().RawOffset != 300 {
		t.Errorf("RawOffset = %v after unlock, want 300", v.State().RawOffset)
	}
}

func TestVirtualizerScrollToIgnoredWhileLocked(t *testing.T) {
	surf := &fakeSurface{}
	v := newVirtualizer(DefaultConfig().Scroll, surf)
	v.Init(600, 5000)
	v.Lock()

	v.ScrollTo(900, time.Second)
	v.ScrollTo(1200, 0)
	if s := v.State(); s.RawOffset != 0 || s.SmoothedOffset != 0 {
		t.Errorf("state = %+v while locked, want offsets at 0", s)
	}
	if v.Scrolling() || len(surf.native) != 0 {
		t.Errorf("locked ScrollTo took effect: scrolling=%v native=%v", v.Scrolling(), surf.native)
	}

	v.Unlock()
	v.ScrollTo(900, time.Second)
	if !v.Scrolling() {
		t.Error("ScrollTo ignored after Unlock")
	}
}

func TestVirtualizerResizeReclamps(t *testing.T) {
	v := newTestVirtualizer()
	v.Init(600, 5000)
	v.ScrollTo(4000, 0)

	v.Resize(600, 1600)
	s := v.State()
	if s.RawOffset != 1000 || s.SmoothedOffset != 1000 {
		t.Errorf("after shrink: %+v, want offsets clamped to 1000", s)
	}

	v.Reset()
	if v.State().SmoothedOffset != 0 || v.State().RawOffset != 0 {
		t.Errorf("Reset left %+v", v.State())
	}
}
