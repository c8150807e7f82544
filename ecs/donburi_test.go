package ecs

import (
	"testing"
	"time"

	"github.com/phanxgames/vinemotion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

type box struct{ rect vinemotion.Rect }

func (b box) Bounds() (vinemotion.Rect, bool) { return b.rect, true }

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []vinemotion.MotionEvent
	MotionEventType.Subscribe(world, func(w donburi.World, e vinemotion.MotionEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(vinemotion.MotionEvent{
		Kind:    vinemotion.EventEnter,
		Trigger: 42,
		Owner:   "home",
	})
	sink.EmitEvent(vinemotion.MotionEvent{
		Kind:  vinemotion.EventPhase,
		Phase: vinemotion.PhaseLeaving,
		From:  "home",
		To:    "about",
	})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	MotionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Kind != vinemotion.EventEnter || e0.Trigger != 42 || e0.Owner != "home" {
		t.Errorf("event 0: %+v", e0)
	}
	e1 := received[1]
	if e1.Kind != vinemotion.EventPhase || e1.Phase != vinemotion.PhaseLeaving || e1.To != "about" {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiSink_FromEngine(t *testing.T) {
	world := donburi.NewWorld()
	engine, err := vinemotion.New(vinemotion.DefaultConfig(), vinemotion.WithEventSink(NewDonburiSink(world)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	engine.Init(600, 5000)
	engine.RegisterReveal(box{vinemotion.Rect{Width: 100, Height: 100}}, vinemotion.RevealOptions{
		Mode:        vinemotion.ModeScrub,
		StartOffset: -100,
		EndOffset:   100,
	})

	var progress []float64
	MotionEventType.Subscribe(world, func(w donburi.World, e vinemotion.MotionEvent) {
		if e.Kind == vinemotion.EventProgress {
			progress = append(progress, e.Progress)
		}
	})

	for i := 0; i < 3; i++ {
		engine.Tick(16 * time.Millisecond)
	}
	events.ProcessAllEvents(world)

	if len(progress) != 3 {
		t.Fatalf("progress events = %d, want one per tick", len(progress))
	}
	if progress[0] != 0.5 {
		t.Errorf("progress = %v, want 0.5", progress[0])
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	MotionEventType.Subscribe(world, func(w donburi.World, e vinemotion.MotionEvent) {
		count1++
	})
	MotionEventType.Subscribe(world, func(w donburi.World, e vinemotion.MotionEvent) {
		count2++
	})

	sink.EmitEvent(vinemotion.MotionEvent{Kind: vinemotion.EventLeave})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
