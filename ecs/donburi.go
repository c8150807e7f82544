// Package ecs provides ECS adapters for vinemotion.
package ecs

import (
	"github.com/phanxgames/vinemotion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// MotionEventType is the Donburi event type for vinemotion events.
// Subscribe to this in your ECS systems to receive trigger and transition
// events.
var MotionEventType = events.NewEventType[vinemotion.MotionEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Events are queued on MotionEventType and delivered by ProcessEvents, so
// ECS systems see them on their own schedule rather than mid-tick.
func NewDonburiSink(world donburi.World) vinemotion.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event vinemotion.MotionEvent) {
	MotionEventType.Publish(s.world, event)
}
