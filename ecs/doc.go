// Package ecs provides ECS adapters for vinemotion's motion events.
//
// The primary adapter is [NewDonburiSink], which forwards trigger enter,
// progress and leave callbacks and page-transition phase changes into a
// [Donburi] world as typed events. Subscribe to [MotionEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	engine, err := vinemotion.New(cfg, vinemotion.WithEventSink(sink))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
