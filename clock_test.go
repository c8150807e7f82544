package vinemotion

import (
	"testing"
	"time"
)

func TestClockSingleFrameRequest(t *testing.T) {
	src := &ManualSource{}
	c := NewClock(src)

	var a, b, d int
	c.Subscribe(func(Frame) { a++ })
	c.Subscribe(func(Frame) { b++ })
	c.Subscribe(func(Frame) { d++ })

	if src.Pending() != 1 {
		t.Fatalf("Pending = %d with 3 subscribers, want 1", src.Pending())
	}
	src.Step(frame60)
	if a != 1 || b != 1 || d != 1 {
		t.Errorf("calls = %d/%d/%d, want 1 each", a, b, d)
	}
	if src.Pending() != 1 {
		t.Errorf("Pending after tick = %d, want 1", src.Pending())
	}
}

func TestClockDeltaFromSource(t *testing.T) {
	src := &ManualSource{}
	c := NewClock(src)

	var deltas []time.Duration
	c.Subscribe(func(f Frame) { deltas = append(deltas, f.Delta) })

	src.Step(frame60)
	src.Step(frame60)
	src.Step(33 * time.Millisecond)

	want := []time.Duration{0, frame60, 33 * time.Millisecond}
	if len(deltas) != len(want) {
		t.Fatalf("got %d ticks, want %d", len(deltas), len(want))
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Errorf("delta[%d] = %v, want %v", i, deltas[i], want[i])
		}
	}
}

func TestClockSuspendsAndResumes(t *testing.T) {
	src := &ManualSource{}
	c := NewClock(src)

	dispose := c.Subscribe(func(Frame) {})
	dispose()
	src.Step(frame60) // drains the request made while subscribed

	if src.Pending() != 0 {
		t.Errorf("Pending = %d with no subscribers, want 0", src.Pending())
	}
	if !c.Suspended() {
		t.Error("Suspended = false, want true")
	}

	ticks := 0
	c.Subscribe(func(Frame) { ticks++ })
	if c.Suspended() || src.Pending() != 1 {
		t.Fatalf("clock did not resume: suspended=%v pending=%d", c.Suspended(), src.Pending())
	}
	src.Step(frame60)
	if ticks != 1 {
		t.Errorf("ticks after resume = %d, want 1", ticks)
	}
}

func TestClockUnsubscribeOtherMidTick(t *testing.T) {
	c := NewClock(nil)

	var bCalls int
	var disposeB Disposer
	c.Subscribe(func(Frame) { disposeB() })
	disposeB = c.Subscribe(func(Frame) { bCalls++ })

	c.Tick(frame60)
	c.Tick(frame60)

	if bCalls != 0 {
		t.Errorf("removed subscriber ran %d times, want 0", bCalls)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestClockSelfUnsubscribeDoesNotSkipOthers(t *testing.T) {
	c := NewClock(nil)

	var a, b, d int
	var disposeA Disposer
	disposeA = c.Subscribe(func(Frame) {
		a++
		disposeA()
	})
	c.Subscribe(func(Frame) { b++ })
	c.Subscribe(func(Frame) { d++ })

	c.Tick(frame60)
	c.Tick(frame60)

	if a != 1 {
		t.Errorf("a = %d, want 1", a)
	}
	if b != 2 || d != 2 {
		t.Errorf("b, d = %d, %d, want 2, 2", b, d)
	}
}

func TestClockSubscribeMidTickRunsNextTick(t *testing.T) {
	c := NewClock(nil)

	late := 0
	added := false
	c.Subscribe(func(Frame) {
		if !added {
			added = true
			c.Subscribe(func(Frame) { late++ })
		}
	})

	c.Tick(frame60)
	if late != 0 {
		t.Errorf("late subscriber ran in the tick it was added (%d)", late)
	}
	c.Tick(frame60)
	if late != 1 {
		t.Errorf("late = %d after second tick, want 1", late)
	}
}

func TestClockDisposeTwice(t *testing.T) {
	c := NewClock(nil)
	d1 := c.Subscribe(func(Frame) {})
	c.Subscribe(func(Frame) {})

	d1()
	d1()
	if c.Len() != 1 {
		t.Errorf("Len = %d after double dispose, want 1", c.Len())
	}
}

func TestClockReentrantTickIgnored(t *testing.T) {
	c := NewClock(nil)
	calls := 0
	c.Subscribe(func(Frame) {
		calls++
		c.Tick(frame60)
	})
	c.Tick(frame60)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if c.Seq() != 1 {
		t.Errorf("Seq = %d, want 1", c.Seq())
	}
}
