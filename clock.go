package vinemotion

import "time"

// FrameSource is the platform's per-frame callback facility (the equivalent
// of requestAnimationFrame). Each requested callback fires exactly once with
// a monotonic timestamp.
type FrameSource interface {
	RequestFrame(fn func(now time.Duration))
}

type subscriber struct {
	id    uint32
	fn    func(Frame)
	alive bool
}

// Clock is the single tick source for every animation system. It holds at
// most one outstanding request with its FrameSource regardless of how many
// subscribers exist; fan-out happens here.
//
// Clock is not safe for concurrent use. All calls are expected on the host's
// update goroutine.
type Clock struct {
	src     FrameSource
	subs    []*subscriber
	snap    []*subscriber
	nextID  uint32
	seq     uint64
	pending bool
	lastNow time.Duration
	hasLast bool
	ticking bool
}

// NewClock creates a clock driven by src. A nil src means the clock is only
// advanced through Tick.
func NewClock(src FrameSource) *Clock {
	return &Clock{src: src}
}

// Subscribe adds fn to the fan-out list. Subscribers run in subscription
// order. A subscriber added during a tick first runs on the next tick.
func (c *Clock) Subscribe(fn func(Frame)) Disposer {
	c.nextID++
	s := &subscriber{id: c.nextID, fn: fn, alive: true}
	c.subs = append(c.subs, s)
	c.request()
	return once(func() { c.unsubscribe(s) })
}

func (c *Clock) unsubscribe(s *subscriber) {
	s.alive = false
	for i, sub := range c.subs {
		if sub == s {
			copy(c.subs[i:], c.subs[i+1:])
			c.subs[len(c.subs)-1] = nil
			c.subs = c.subs[:len(c.subs)-1]
			break
		}
	}
	if len(c.subs) == 0 {
		// Forget the timestamp so a resumed loop doesn't see one huge delta.
		c.hasLast = false
	}
}

// Len returns the number of live subscribers.
func (c *Clock) Len() int {
	return len(c.subs)
}

// Suspended reports whether the clock has stopped requesting frames because
// nothing is subscribed.
func (c *Clock) Suspended() bool {
	return len(c.subs) == 0 && !c.pending
}

// Seq returns the sequence number of the most recent tick.
func (c *Clock) Seq() uint64 {
	return c.seq
}

func (c *Clock) request() {
	if c.src == nil || c.pending || len(c.subs) == 0 {
		return
	}
	c.pending = true
	c.src.RequestFrame(c.onFrame)
}

func (c *Clock) onFrame(now time.Duration) {
	c.pending = false
	var dt time.Duration
	if c.hasLast && now > c.lastNow {
		dt = now - c.lastNow
	}
	c.lastNow = now
	c.hasLast = true
	c.Tick(dt)
	c.request()
}

// Tick advances the clock by dt and notifies every subscriber once.
// Re-entrant calls from inside a subscriber are ignored.
func (c *Clock) Tick(dt time.Duration) {
	if c.ticking {
		return
	}
	if dt < 0 {
		dt = 0
	}
	c.ticking = true
	c.seq++
	f := Frame{Seq: c.seq, Delta: dt}

	c.snap = append(c.snap[:0], c.subs...)
	for _, s := range c.snap {
		if s.alive {
			s.fn(f)
		}
	}
	clear(c.snap)
	c.snap = c.snap[:0]
	c.ticking = false
}

// ManualSource is a FrameSource driven by the caller, for headless hosts and
// tests.
type ManualSource struct {
	now     time.Duration
	pending []func(time.Duration)
}

// RequestFrame implements FrameSource.
func (m *ManualSource) RequestFrame(fn func(now time.Duration)) {
	m.pending = append(m.pending, fn)
}

// Pending returns the number of outstanding frame requests.
func (m *ManualSource) Pending() int {
	return len(m.pending)
}

// Step advances time by dt and fires every request made before the call.
func (m *ManualSource) Step(dt time.Duration) {
	m.now += dt
	fns := m.pending
	m.pending = nil
	for _, fn := range fns {
		fn(m.now)
	}
}
