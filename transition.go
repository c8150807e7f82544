package vinemotion

import (
	"log/slog"
	"time"
)

// View is a page that participates in transitions. Mount registers the
// view's triggers and magnetic elements through the scope; everything
// registered there is torn down when the view leaves. Exit and Enter may
// return nil when the view has no such animation.
type View interface {
	Mount(s *Scope)
	Exit() Animation
	Enter() Animation
}

// ViewResolver maps a route target to its view.
type ViewResolver func(id string) (View, bool)

// Session is one navigation from Outgoing to Incoming.
type Session struct {
	Outgoing string
	Incoming string
	Phase    Phase
}

// navRequest is a pending navigation. done closes when the request either
// reaches rendering or is superseded. from names the outgoing view when
// nothing is mounted.
type navRequest struct {
	from, to string
	done     chan struct{}
	closed   bool
}

func newNavRequest(from, to string) *navRequest {
	return &navRequest{from: from, to: to, done: make(chan struct{})}
}

func (r *navRequest) resolve() {
	if r.closed {
		return
	}
	r.closed = true
	close(r.done)
}

// mounted is the currently mounted view and the scope holding its
// registrations.
type mounted struct {
	id    string
	view  View
	scope *Scope
}

// Lifecycle runs page transitions: idle → leaving → rendering → idle.
// Requests that arrive while a transition is in flight replace one another;
// only the most recent target is ever mounted.
//
// Lifecycle is not safe for concurrent use.
type Lifecycle struct {
	engine  *Engine
	resolve ViewResolver
	cfg     TransitionConfig
	logger  *slog.Logger

	current *mounted
	session *Session
	req     *navRequest // request being served by the session
	pending *navRequest // latest request queued behind the session

	anim    Animation
	elapsed time.Duration
	last    *Session
}

func newLifecycle(e *Engine, cfg TransitionConfig, resolve ViewResolver, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{engine: e, cfg: cfg, resolve: resolve, logger: logger}
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	if l.session == nil {
		return PhaseIdle
	}
	return l.session.Phase
}

// Session returns a copy of the in-flight session and true, or the last
// completed session and false.
func (l *Lifecycle) Session() (Session, bool) {
	if l.session != nil {
		return *l.session, true
	}
	if l.last != nil {
		return *l.last, false
	}
	return Session{}, false
}

// Current returns the id of the mounted view, or "" if none.
func (l *Lifecycle) Current() string {
	if l.current == nil {
		return ""
	}
	return l.current.id
}

// CurrentScope returns the scope of the mounted view, or nil.
func (l *Lifecycle) CurrentScope() *Scope {
	if l.current == nil {
		return nil
	}
	return l.current.scope
}

// Mount mounts a view immediately without a transition, replacing whatever
// is mounted. Used for the first page load. It returns false if a transition
// is in flight or the view cannot be resolved.
func (l *Lifecycle) Mount(id string) bool {
	if l.session != nil {
		return false
	}
	view, ok := l.lookup(id)
	if !ok {
		return false
	}
	l.teardown()
	l.mount(id, view)
	return true
}

// Navigate requests a transition to the given view from the current one.
func (l *Lifecycle) Navigate(to string) <-chan struct{} {
	return l.Start(l.Current(), to)
}

// Start requests a transition. The returned channel closes once the
// outgoing view has been torn down and the router may swap content, or when
// the request is superseded by a newer one. The mounted view, if any, is the
// session's outgoing view; from is used only when nothing is mounted.
func (l *Lifecycle) Start(from, to string) <-chan struct{} {
	req := newNavRequest(from, to)
	if l.session == nil {
		l.begin(req)
		return req.done
	}

	if l.pending != nil {
		l.logger.Debug("navigation superseded", "to", l.pending.to, "by", to)
		l.pending.resolve()
	}

	switch l.session.Phase {
	case PhaseLeaving:
		// Nothing of the old target is mounted yet: retarget the session.
		l.logger.Debug("navigation retargeted", "from", l.session.Incoming, "to", to)
		l.req.resolve()
		l.req = req
		l.session.Incoming = to
		l.pending = nil
		l.engine.emitPhase(l.session)
	default:
		l.pending = req
	}
	return req.done
}

func (l *Lifecycle) begin(req *navRequest) {
	l.req = req
	from := l.Current()
	if from == "" {
		from = req.from
	}
	l.session = &Session{Outgoing: from, Incoming: req.to, Phase: PhaseLeaving}
	l.logger.Debug("navigation start", "from", l.session.Outgoing, "to", req.to)
	l.engine.emitPhase(l.session)

	var exit Animation
	if l.current != nil {
		exit = l.current.view.Exit()
	}
	l.teardown()
	l.engine.scroll.Lock()
	l.anim = exit
	l.elapsed = 0
}

// teardown disposes everything the mounted view registered.
func (l *Lifecycle) teardown() {
	if l.current == nil {
		return
	}
	l.current.scope.Dispose()
	l.current = nil
}

func (l *Lifecycle) lookup(id string) (View, bool) {
	if l.resolve == nil {
		l.logger.Warn("no view resolver configured", "view", id)
		return nil, false
	}
	view, ok := l.resolve(id)
	if !ok || view == nil {
		l.logger.Warn("unknown view", "view", id)
		return nil, false
	}
	return view, true
}

func (l *Lifecycle) mount(id string, view View) {
	scope := newScope(l.engine, id)
	view.Mount(scope)
	l.current = &mounted{id: id, view: view, scope: scope}
}

// cutEntry drops the running entry animation. Called when a newer
// request is waiting.
func (l *Lifecycle) cutEntry() {
	l.anim = nil
}

// update advances the transition state machine.
func (l *Lifecycle) update(f Frame) {
	if l.session == nil {
		return
	}
	l.elapsed += f.Delta

	switch l.session.Phase {
	case PhaseLeaving:
		if !l.step(f.Delta, l.cfg.ExitTimeout, "exit") {
			return
		}
		l.render()
	case PhaseRendering:
		if l.pending != nil {
			l.cutEntry()
		}
		if !l.step(f.Delta, l.cfg.EntryTimeout, "entry") {
			return
		}
		l.finish()
	}
}

// step runs the phase animation and reports whether the phase is over,
// either because the animation finished or because timeout elapsed.
func (l *Lifecycle) step(dt, timeout time.Duration, what string) bool {
	if l.anim == nil {
		return true
	}
	if l.anim.Update(dt) {
		l.anim = nil
		return true
	}
	if l.elapsed >= timeout {
		l.logger.Warn("transition animation timed out; forcing progression",
			"animation", what,
			"timeout", timeout,
			"from", l.session.Outgoing,
			"to", l.session.Incoming)
		l.anim = nil
		return true
	}
	return false
}

func (l *Lifecycle) render() {
	l.session.Phase = PhaseRendering
	l.elapsed = 0
	l.req.resolve()
	l.engine.emitPhase(l.session)

	l.engine.scroll.Reset()
	l.engine.scroll.Unlock()

	id := l.session.Incoming
	if view, ok := l.lookup(id); ok {
		l.mount(id, view)
		l.anim = view.Enter()
	} else {
		l.anim = nil
	}
}

func (l *Lifecycle) finish() {
	l.session.Phase = PhaseDone
	l.logger.Debug("navigation done", "from", l.session.Outgoing, "to", l.session.Incoming)
	l.engine.emitPhase(l.session)
	l.last = l.session
	l.session = nil
	l.req = nil
	l.anim = nil

	if next := l.pending; next != nil {
		l.pending = nil
		l.begin(next)
	}
}

// Scope collects the registrations of one mounted view.
type Scope struct {
	engine    *Engine
	owner     string
	disposers []Disposer
	disposed  bool
}

func newScope(e *Engine, owner string) *Scope {
	return &Scope{engine: e, owner: owner}
}

// Owner returns the view id this scope belongs to.
func (s *Scope) Owner() string {
	return s.owner
}

// RegisterReveal registers a scroll trigger owned by this scope. After
// Dispose it registers nothing and returns a no-op disposer.
func (s *Scope) RegisterReveal(el Element, opts RevealOptions) Disposer {
	if s.disposed {
		return func() {}
	}
	d := s.engine.registerReveal(el, opts, s.owner)
	s.disposers = append(s.disposers, d)
	return d
}

// RegisterMagnetic attaches a pointer spring owned by this scope. After
// Dispose it attaches nothing and returns a no-op disposer.
func (s *Scope) RegisterMagnetic(el Element, opts MagneticOptions) (Disposer, error) {
	if s.disposed {
		return func() {}, nil
	}
	d, _, err := s.engine.registerMagnetic(el, opts, s.owner)
	if err != nil {
		return func() {}, err
	}
	s.disposers = append(s.disposers, d)
	return d, nil
}

// Len returns the number of registrations made through this scope that are
// still alive in the engine.
func (s *Scope) Len() int {
	return s.engine.triggers.CountOwned(s.owner) + s.engine.pointers.CountOwned(s.owner)
}

// Dispose releases every registration made through the scope. Safe to call
// more than once.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for _, d := range s.disposers {
		d()
	}
	s.disposers = nil
}
