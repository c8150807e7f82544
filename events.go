package vinemotion

import "fmt"

// EventKind identifies a MotionEvent.
type EventKind uint8

const (
	// EventEnter fires when a trigger becomes active.
	EventEnter EventKind = iota
	// EventProgress carries a scrub trigger's progress.
	EventProgress
	// EventLeave fires when a trigger becomes inactive.
	EventLeave
	// EventPhase fires when the page-transition phase changes.
	EventPhase
)

var eventKindNames = [...]string{"enter", "progress", "leave", "phase"}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// MotionEvent mirrors a trigger callback or a transition phase change for
// consumers that prefer events to closures, such as an ECS world.
type MotionEvent struct {
	Kind  EventKind
	Frame uint64

	// Trigger fields.
	Trigger  TriggerID
	Owner    string
	Progress float64

	// Transition fields.
	Phase Phase
	From  string
	To    string
}

// EventSink is the interface for optional event integration.
type EventSink interface {
	EmitEvent(event MotionEvent)
}

// WithEventSink forwards trigger callbacks and phase changes to sink. The
// callbacks registered on the triggers still run first.
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

func (e *Engine) emit(ev MotionEvent) {
	if e.sink == nil {
		return
	}
	ev.Frame = e.clock.Seq()
	e.sink.EmitEvent(ev)
}

// forwardTrigger wraps spec's callbacks so each also emits an event. id is
// read when the callback fires, after registration has assigned it.
func (e *Engine) forwardTrigger(spec *TriggerSpec, id *TriggerID) {
	onEnter, onProgress, onLeave := spec.OnEnter, spec.OnProgress, spec.OnLeave
	owner := spec.Owner
	spec.OnEnter = func() {
		if onEnter != nil {
			onEnter()
		}
		e.emit(MotionEvent{Kind: EventEnter, Trigger: *id, Owner: owner})
	}
	spec.OnProgress = func(p float64) {
		if onProgress != nil {
			onProgress(p)
		}
		e.emit(MotionEvent{Kind: EventProgress, Trigger: *id, Owner: owner, Progress: p})
	}
	spec.OnLeave = func() {
		if onLeave != nil {
			onLeave()
		}
		e.emit(MotionEvent{Kind: EventLeave, Trigger: *id, Owner: owner})
	}
}

func (e *Engine) emitPhase(s *Session) {
	e.emit(MotionEvent{Kind: EventPhase, Phase: s.Phase, From: s.Outgoing, To: s.Incoming})
}
