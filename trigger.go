package vinemotion

import (
	"fmt"
	"math"
)

// Condition locates the scroll offset at which a trigger boundary is reached:
// the point where the element edge at fraction Edge (0 = top, 1 = bottom)
// meets the viewport line at fraction Line (0 = top, 1 = bottom), shifted by
// Offset pixels.
type Condition struct {
	Edge   float64
	Line   float64
	Offset float64
}

// scrollOffset resolves the condition against an element box and viewport.
func (c Condition) scrollOffset(box Rect, viewportH float64) float64 {
	return box.Y + c.Edge*box.Height - c.Line*viewportH + c.Offset
}

// TriggerSpec describes a scroll trigger to register.
type TriggerSpec struct {
	Element    Element
	Start      Condition
	End        Condition
	Mode       TriggerMode
	OnEnter    func()
	OnProgress func(p float64)
	OnLeave    func()
	// Owner groups triggers for bulk disposal, usually a view id.
	Owner string
}

// TriggerID identifies a registered trigger.
type TriggerID uint32

// Trigger is a registered scroll trigger. Only the Scheduler mutates it.
type Trigger struct {
	id       TriggerID
	spec     TriggerSpec
	active   bool
	dead     bool
	removed  bool
	progress float64
}

// ID returns the trigger's id.
func (t *Trigger) ID() TriggerID { return t.id }

// Mode returns the trigger's mode.
func (t *Trigger) Mode() TriggerMode { return t.spec.Mode }

// Owner returns the owner tag given at registration.
func (t *Trigger) Owner() string { return t.spec.Owner }

// Active reports whether the scroll offset is currently inside the range.
func (t *Trigger) Active() bool { return t.active }

// Progress returns the last computed progress in [0, 1].
func (t *Trigger) Progress() float64 { return t.progress }

// Scheduler owns every scroll trigger and evaluates them once per tick.
//
// Scheduler is not safe for concurrent use.
type Scheduler struct {
	byID   map[TriggerID]*Trigger
	order  []*Trigger
	snap   []*Trigger
	nextID TriggerID
	warn   *warnOnce
}

func newScheduler(warn *warnOnce) *Scheduler {
	return &Scheduler{
		byID: make(map[TriggerID]*Trigger),
		warn: warn,
	}
}

// Register adds a trigger. It is evaluated starting with the next tick.
func (s *Scheduler) Register(spec TriggerSpec) *Trigger {
	s.nextID++
	t := &Trigger{id: s.nextID, spec: spec}
	s.byID[t.id] = t
	s.order = append(s.order, t)
	return t
}

// Unregister removes a trigger. Unknown or already removed ids are ignored;
// the return value reports whether anything was removed.
func (s *Scheduler) Unregister(id TriggerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	t.removed = true
	t.active = false
	for i, o := range s.order {
		if o == t {
			copy(s.order[i:], s.order[i+1:])
			s.order[len(s.order)-1] = nil
			s.order = s.order[:len(s.order)-1]
			break
		}
	}
	s.warn.Forget(missingKey(id))
	return true
}

// DisposeOwned unregisters every trigger registered with the given owner and
// returns how many were removed.
func (s *Scheduler) DisposeOwned(owner string) int {
	var ids []TriggerID
	for _, t := range s.order {
		if t.spec.Owner == owner {
			ids = append(ids, t.id)
		}
	}
	for _, id := range ids {
		s.Unregister(id)
	}
	return len(ids)
}

// Lookup returns the trigger with the given id.
func (s *Scheduler) Lookup(id TriggerID) (*Trigger, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// Count returns the number of registered triggers.
func (s *Scheduler) Count() int {
	return len(s.order)
}

// CountOwned returns the number of registered triggers with the given owner.
func (s *Scheduler) CountOwned(owner string) int {
	n := 0
	for _, t := range s.order {
		if t.spec.Owner == owner {
			n++
		}
	}
	return n
}

// CountActive returns the number of active triggers.
func (s *Scheduler) CountActive() int {
	n := 0
	for _, t := range s.order {
		if t.active {
			n++
		}
	}
	return n
}

func missingKey(id TriggerID) string {
	return fmt.Sprintf("trigger/%d/missing", id)
}

// evaluate recomputes every trigger against the scroll state. Callbacks may
// register or unregister triggers; the iteration works on a snapshot and
// skips entries removed mid-pass.
func (s *Scheduler) evaluate(state ScrollState) {
	s.snap = append(s.snap[:0], s.order...)
	for _, t := range s.snap {
		if t.removed || t.dead {
			continue
		}
		s.evaluateOne(t, state)
	}
	clear(s.snap)
	s.snap = s.snap[:0]
}

func (s *Scheduler) evaluateOne(t *Trigger, state ScrollState) {
	var box Rect
	ok := false
	if t.spec.Element != nil {
		box, ok = t.spec.Element.Bounds()
	}
	if !ok {
		t.dead = true
		t.active = false
		s.warn.Warn(missingKey(t.id), "scroll trigger element missing; trigger disabled",
			"trigger", uint32(t.id), "owner", t.spec.Owner)
		return
	}

	start := t.spec.Start.scrollOffset(box, state.ViewportHeight)
	end := t.spec.End.scrollOffset(box, state.ViewportHeight)
	if end < start {
		start, end = end, start
	}
	y := state.SmoothedOffset
	inside := y >= start && y <= end

	var p float64
	switch {
	case end-start > 0:
		p = clamp((y-start)/(end-start), 0, 1)
	case y >= start:
		p = 1
	}
	if math.IsNaN(p) {
		p = 0
	}

	switch {
	case inside && !t.active:
		t.active = true
		t.progress = p
		if t.spec.OnEnter != nil {
			t.spec.OnEnter()
		}
		if t.spec.Mode == ModeScrub && !t.removed {
			s.progress(t, p)
		}
	case inside:
		t.progress = p
		if t.spec.Mode == ModeScrub {
			s.progress(t, p)
		}
	case t.active:
		t.active = false
		t.progress = p
		if t.spec.Mode == ModeScrub {
			s.progress(t, p)
		}
		if t.spec.OnLeave != nil && !t.removed {
			t.spec.OnLeave()
		}
	default:
		// A scrub range skipped over in a single tick still lands on its end value.
		jumped := p != t.progress
		t.progress = p
		if t.spec.Mode == ModeScrub && jumped {
			s.progress(t, p)
		}
	}
}

func (s *Scheduler) progress(t *Trigger, p float64) {
	if t.spec.OnProgress != nil {
		t.spec.OnProgress(p)
	}
}
