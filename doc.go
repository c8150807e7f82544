// Package vinemotion coordinates the scroll- and pointer-driven motion of a
// content site: smoothed scrolling, scroll-triggered reveals, magnetic
// pointer springs, and page transitions, all driven by one frame clock.
//
// # Quick start
//
// Create an [Engine], initialize it with the viewport and content heights,
// and advance it once per frame, either by calling [Engine.Tick] from your
// own loop or by handing it a [FrameSource]:
//
//	eng, err := vinemotion.New(vinemotion.DefaultConfig(),
//		vinemotion.WithViews(resolve))
//	if err != nil {
//		log.Fatal(err)
//	}
//	eng.Init(720, 4800)
//	eng.Mount("home")
//
//	// every frame
//	eng.ScrollBy(wheelDelta)
//	eng.PointerMove(mouseX, mouseY+eng.State().SmoothedOffset)
//	eng.Tick(dt)
//
// The ebitenhost package runs an engine inside an Ebitengine game loop. The
// ecs module forwards trigger and transition events into a Donburi world
// through [WithEventSink].
//
// # Pipeline
//
// Every tick runs in a fixed order: page-transition timers, the scroll
// [Virtualizer], the trigger [Scheduler], spring integration in the
// [PointerEngine], then the consumers registered with [Engine.OnRender].
// Consumers therefore always see one consistent [ScrollState] per frame.
//
// # Views
//
// Pages implement [View]. When mounted, a view registers its effects through
// the [Scope] it is given:
//
//	func (p *aboutPage) Mount(s *vinemotion.Scope) {
//		s.RegisterReveal(p.heading, vinemotion.RevealOptions{
//			Mode:        vinemotion.ModeToggle,
//			StartOffset: -600,
//			EndOffset:   200,
//			OnEnter:     p.fadeIn,
//			OnLeave:     p.fadeOut,
//		})
//	}
//
// Navigation via [Engine.Navigate] disposes the scope of the outgoing view
// before the incoming view is mounted, so no registration outlives its page.
//
// Nothing in this package is safe for concurrent use. Call everything from
// the goroutine that drives the frame loop.
package vinemotion
