package vinemotion

import (
	"fmt"
	"log/slog"
	"time"
)

// Layout reports the current viewport and content heights. The engine asks
// for it when navigation settles so scroll limits and trigger ranges match
// the new page.
type Layout interface {
	Measure() (viewportH, contentH float64)
}

// LayoutFunc adapts a function to the Layout interface.
type LayoutFunc func() (viewportH, contentH float64)

// Measure calls f.
func (f LayoutFunc) Measure() (float64, float64) { return f() }

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithFrameSource drives the engine's clock from a platform frame source.
// Without one, the host calls Engine.Tick.
func WithFrameSource(src FrameSource) Option {
	return func(e *Engine) {
		e.src = src
	}
}

// WithSurface hands the native scroll surface to the Virtualizer.
func WithSurface(s Surface) Option {
	return func(e *Engine) {
		e.surface = s
	}
}

// WithLayout sets the layout provider consulted on NavigationSettled.
func WithLayout(l Layout) Option {
	return func(e *Engine) {
		e.layout = l
	}
}

// WithViews sets the resolver used by page transitions.
func WithViews(r ViewResolver) Option {
	return func(e *Engine) {
		e.views = r
	}
}

// RevealOptions configures a scroll-triggered effect. StartOffset and
// EndOffset are added to Start and End; with zero-value conditions they are
// the number of pixels the element's top edge has scrolled past the top of
// the viewport.
type RevealOptions struct {
	Mode        TriggerMode
	Start       Condition
	End         Condition
	StartOffset float64
	EndOffset   float64
	OnEnter     func()
	OnProgress  func(p float64)
	OnLeave     func()
}

// MagneticOptions configures a pointer-reactive element. Zero stiffness or
// damping uses the configured defaults; a zero Scale uses the default scale
// on both axes.
type MagneticOptions struct {
	Stiffness float64
	Damping   float64
	Scale     Vec2
	Apply     func(Vec2)
}

// Engine wires the clock, the scroll virtualizer, the trigger scheduler, the
// pointer springs and the page-transition lifecycle into one per-tick
// pipeline.
//
// Engine is not safe for concurrent use; all calls belong on the host's
// update goroutine.
type Engine struct {
	cfg     Config
	logger  *slog.Logger
	debug   bool
	src     FrameSource
	surface Surface
	layout  Layout
	views   ViewResolver
	sink    EventSink
	warn    *warnOnce

	clock     *Clock
	scroll    *Virtualizer
	triggers  *Scheduler
	pointers  *PointerEngine
	lifecycle *Lifecycle

	pipeline Disposer
	render   []*subscriber
	nextRend uint32
	renders  []*subscriber
	ready    bool
	closed   bool
	stats    Stats
}

// New creates an engine. The configuration is validated.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	e := &Engine{cfg: cfg, debug: cfg.Debug}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = discardLogger()
	}
	e.logger = e.logger.With("component", "vinemotion")
	e.warn = newWarnOnce(e.logger)

	e.clock = NewClock(e.src)
	e.scroll = newVirtualizer(cfg.Scroll, e.surface)
	e.triggers = newScheduler(e.warn)
	e.pointers = newPointerEngine(cfg.Spring.MaxStep)
	e.lifecycle = newLifecycle(e, cfg.Transition, e.views, e.logger)
	e.pipeline = e.clock.Subscribe(e.tick)
	return e, nil
}

// Init takes ownership of the scroll surface and enables the scroll and
// trigger stages of the pipeline. Transitions and springs run from New on.
// A second call is a no-op and returns false.
func (e *Engine) Init(viewportH, contentH float64) bool {
	if e.ready || e.closed {
		e.logger.Debug("init ignored", "ready", e.ready, "closed", e.closed)
		return false
	}
	e.ready = true
	e.scroll.Init(viewportH, contentH)
	return true
}

// Ready reports whether Init has run.
func (e *Engine) Ready() bool { return e.ready }

// Close stops the pipeline and disposes the mounted view. The clock suspends
// once nothing else is subscribed.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.lifecycle.teardown()
	if e.pipeline != nil {
		e.pipeline()
	}
}

// Clock returns the engine's frame clock. Other frame-driven systems should
// subscribe here instead of running their own loop.
func (e *Engine) Clock() *Clock { return e.clock }

// Scroll returns the scroll virtualizer.
func (e *Engine) Scroll() *Virtualizer { return e.scroll }

// Triggers returns the scroll-trigger scheduler.
func (e *Engine) Triggers() *Scheduler { return e.triggers }

// Pointers returns the pointer spring engine.
func (e *Engine) Pointers() *PointerEngine { return e.pointers }

// Lifecycle returns the page-transition manager.
func (e *Engine) Lifecycle() *Lifecycle { return e.lifecycle }

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Tick advances the engine by dt. Hosts without a FrameSource call this once
// per frame.
func (e *Engine) Tick(dt time.Duration) {
	e.clock.Tick(dt)
}

// OnRender registers a consumer that runs after the rest of the pipeline on
// every tick, with the final scroll state for the frame.
func (e *Engine) OnRender(fn func(Frame, ScrollState)) Disposer {
	e.nextRend++
	s := &subscriber{id: e.nextRend, alive: true}
	s.fn = func(f Frame) { fn(f, e.scroll.State()) }
	e.render = append(e.render, s)
	return once(func() {
		s.alive = false
		for i, r := range e.render {
			if r == s {
				e.render = append(e.render[:i], e.render[i+1:]...)
				return
			}
		}
	})
}

// tick is the single clock subscriber. Order within a frame: transitions,
// scroll, triggers, springs, render consumers. Scroll and triggers run only
// after Init.
func (e *Engine) tick(f Frame) {
	var t0 time.Time

	e.lifecycle.update(f)

	if e.ready {
		if e.debug {
			t0 = time.Now()
		}
		e.scroll.update(f)
		if e.debug {
			e.stats.ScrollTime = time.Since(t0)
			t0 = time.Now()
		}
		e.triggers.evaluate(e.scroll.State())
		if e.debug {
			e.stats.TriggerTime = time.Since(t0)
		}
	}
	if e.debug {
		t0 = time.Now()
	}
	e.pointers.update(f)
	if e.debug {
		e.stats.SpringTime = time.Since(t0)
	}

	e.renders = append(e.renders[:0], e.render...)
	for _, r := range e.renders {
		if r.alive {
			r.fn(f)
		}
	}
	clear(e.renders)
	e.renders = e.renders[:0]

	e.stats.Frame = f.Seq
	e.stats.Triggers = e.triggers.Count()
	e.stats.ActiveTriggers = e.triggers.CountActive()
	e.stats.Springs = e.pointers.Len()
	e.stats.Subscribers = e.clock.Len()
	e.stats.Phase = e.lifecycle.Phase()
	e.debugLog(e.stats)
}

// Stats returns the counters from the most recent tick.
func (e *Engine) Stats() Stats { return e.stats }

// State returns the current scroll state.
func (e *Engine) State() ScrollState { return e.scroll.State() }

// Phase returns the current transition phase.
func (e *Engine) Phase() Phase { return e.lifecycle.Phase() }

// ScrollBy feeds wheel or touch input, scaled by the configured multiplier.
func (e *Engine) ScrollBy(delta float64) {
	e.scroll.ScrollBy(delta * e.cfg.Scroll.WheelMultiplier)
}

// ScrollTo animates to target. A non-positive duration uses the configured
// default. Before Init it jumps instantly.
func (e *Engine) ScrollTo(target float64, duration time.Duration) {
	if duration <= 0 {
		duration = e.cfg.Scroll.ScrollToDuration
	}
	e.scroll.ScrollTo(target, duration)
}

// PointerMove routes a pointer position, in content coordinates, to the
// magnetic elements.
func (e *Engine) PointerMove(x, y float64) {
	e.pointers.PointerMove(x, y)
}

// PointerExit releases every magnetic element.
func (e *Engine) PointerExit() {
	e.pointers.PointerExit()
}

// RegisterReveal registers a scroll-triggered effect not owned by any view.
func (e *Engine) RegisterReveal(el Element, opts RevealOptions) Disposer {
	return e.registerReveal(el, opts, "")
}

func (e *Engine) registerReveal(el Element, opts RevealOptions, owner string) Disposer {
	start := opts.Start
	start.Offset += opts.StartOffset
	end := opts.End
	end.Offset += opts.EndOffset
	spec := TriggerSpec{
		Element:    el,
		Start:      start,
		End:        end,
		Mode:       opts.Mode,
		OnEnter:    opts.OnEnter,
		OnProgress: opts.OnProgress,
		OnLeave:    opts.OnLeave,
		Owner:      owner,
	}
	var id TriggerID
	if e.sink != nil {
		e.forwardTrigger(&spec, &id)
	}
	id = e.triggers.Register(spec).ID()
	return once(func() { e.triggers.Unregister(id) })
}

// RegisterMagnetic attaches a pointer spring not owned by any view. Invalid
// spring settings are clamped to the configured minimums and logged.
func (e *Engine) RegisterMagnetic(el Element, opts MagneticOptions) (Disposer, error) {
	d, _, err := e.registerMagnetic(el, opts, "")
	return d, err
}

func (e *Engine) registerMagnetic(el Element, opts MagneticOptions, owner string) (Disposer, *Handle, error) {
	cfg := SpringConfig{
		Stiffness: opts.Stiffness,
		Damping:   opts.Damping,
		Scale:     opts.Scale,
	}
	if cfg.Stiffness == 0 {
		cfg.Stiffness = e.cfg.Spring.Stiffness
	}
	if cfg.Damping == 0 {
		cfg.Damping = e.cfg.Spring.Damping
	}
	if cfg.Scale == (Vec2{}) {
		cfg.Scale = Vec2{X: e.cfg.Spring.Scale, Y: e.cfg.Spring.Scale}
	}
	if err := cfg.Validate(); err != nil {
		e.logger.Warn("magnetic spring clamped", "err", err, "owner", owner)
		cfg = cfg.Clamped(e.cfg.Spring.MinStiffness, e.cfg.Spring.MinDamping)
	}
	h, err := e.pointers.attach(el, cfg, owner)
	if err != nil {
		return func() {}, nil, fmt.Errorf("register magnetic: %w", err)
	}
	h.Apply = opts.Apply
	return once(h.Detach), h, nil
}

// Mount mounts the given view without a transition, for the first page.
func (e *Engine) Mount(id string) bool {
	return e.lifecycle.Mount(id)
}

// Navigate starts a transition from the current view to the given one.
func (e *Engine) Navigate(to string) <-chan struct{} {
	return e.lifecycle.Navigate(to)
}

// NavigationStart is the router's hook for a navigation boundary. The
// returned channel closes when the router may swap content.
func (e *Engine) NavigationStart(from, to string) <-chan struct{} {
	return e.lifecycle.Start(from, to)
}

// NavigationSettled is the router's hook for "new content is laid out". The
// engine re-measures the page so scroll limits and trigger ranges are current.
func (e *Engine) NavigationSettled() {
	if e.layout == nil || !e.scroll.Ready() {
		return
	}
	vh, ch := e.layout.Measure()
	e.scroll.Resize(vh, ch)
	e.logger.Debug("layout refreshed", "viewport", vh, "content", ch)
}
