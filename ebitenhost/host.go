// Package ebitenhost runs a vinemotion engine inside an Ebitengine game.
//
// The Host drives the engine's clock from ebiten's Update, feeds it wheel
// and cursor input, swaps page content when a transition reaches its
// rendering phase, and draws the current page's boxes with scroll and
// spring offsets applied.
//
//	host, err := ebitenhost.New(vinemotion.DefaultConfig(), 960, 640)
//	host.AddPage("home", homePage)
//	host.Start("home")
//	ebiten.RunGame(host)
package ebitenhost

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/vinemotion"
)

// Input is the host's view of the pointer devices.
type Input interface {
	Wheel() (x, y float64)
	CursorPosition() (x, y int)
}

type ebitenInput struct{}

func (ebitenInput) Wheel() (float64, float64)  { return ebiten.Wheel() }
func (ebitenInput) CursorPosition() (int, int) { return ebiten.CursorPosition() }

// Option configures a Host.
type Option func(*Host)

// WithInput replaces ebiten's global input functions, for tests.
func WithInput(in Input) Option {
	return func(h *Host) { h.input = in }
}

// WithNow replaces the monotonic time source.
func WithNow(now func() time.Duration) Option {
	return func(h *Host) { h.now = now }
}

// WithLogger sets the logger handed to the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) { h.logger = logger }
}

// WithWheelStep sets how many pixels one wheel notch scrolls.
func WithWheelStep(px float64) Option {
	return func(h *Host) { h.wheelStep = px }
}

// WithOverlay toggles the stats overlay.
func WithOverlay(show bool) Option {
	return func(h *Host) { h.showOverlay = show }
}

// WithUpdateHook runs fn at the start of every Update. A non-nil error ends
// the game; return ebiten.Termination for a clean exit.
func WithUpdateHook(fn func(*Host) error) Option {
	return func(h *Host) { h.hook = fn }
}

// Host is an ebiten.Game that owns a vinemotion engine.
type Host struct {
	engine *vinemotion.Engine
	logger *slog.Logger
	input  Input
	now    func() time.Duration
	hook   func(*Host) error

	width, height int
	wheelStep     float64
	padding       float64
	background    color.RGBA

	pages   map[string]Page
	shown   Page
	shownID string

	frame       func(time.Duration)
	inside      bool
	nativeY     float64
	snapEnabled bool

	showOverlay bool
	overlay     *overlay
	pixel       *ebiten.Image
}

// New creates a host with a window of the given size and an engine built
// from cfg. The host is the engine's frame source, scroll surface, layout
// and view resolver.
func New(cfg vinemotion.Config, width, height int, opts ...Option) (*Host, error) {
	h := &Host{
		width:       width,
		height:      height,
		wheelStep:   60,
		padding:     120,
		background:  color.RGBA{R: 0x14, G: 0x17, B: 0x12, A: 0xff},
		pages:       make(map[string]Page),
		input:       ebitenInput{},
		snapEnabled: true,
		overlay:     newOverlay(),
	}
	start := time.Now()
	h.now = func() time.Duration { return time.Since(start) }
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	e, err := vinemotion.New(cfg,
		vinemotion.WithLogger(h.logger),
		vinemotion.WithFrameSource(h),
		vinemotion.WithSurface(h),
		vinemotion.WithLayout(h),
		vinemotion.WithViews(h.resolve),
	)
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: %w", err)
	}
	h.engine = e
	return h, nil
}

// Engine returns the engine driven by this host.
func (h *Host) Engine() *vinemotion.Engine { return h.engine }

// AddPage registers a page under a route id.
func (h *Host) AddPage(id string, p Page) {
	h.pages[id] = p
}

// Shown returns the id of the page currently drawn.
func (h *Host) Shown() string { return h.shownID }

// Start mounts the first page and initializes the engine. It returns an
// error if the page is unknown or the engine was already started.
func (h *Host) Start(id string) error {
	if !h.engine.Mount(id) {
		return fmt.Errorf("ebitenhost: cannot mount page %q", id)
	}
	h.show(id)
	vh, ch := h.Measure()
	if !h.engine.Init(vh, ch) {
		return fmt.Errorf("ebitenhost: engine already started")
	}
	return nil
}

func (h *Host) resolve(id string) (vinemotion.View, bool) {
	p, ok := h.pages[id]
	if !ok {
		return nil, false
	}
	return p, true
}

func (h *Host) show(id string) {
	h.shown = h.pages[id]
	h.shownID = id
}

// RequestFrame implements vinemotion.FrameSource. The callback fires on the
// next Update.
func (h *Host) RequestFrame(fn func(now time.Duration)) {
	h.frame = fn
}

// SetSnapEnabled implements vinemotion.Surface.
func (h *Host) SetSnapEnabled(enabled bool) { h.snapEnabled = enabled }

// SetNativeOffset implements vinemotion.Surface.
func (h *Host) SetNativeOffset(y float64) { h.nativeY = y }

// Overlay reports whether the stats overlay is shown.
func (h *Host) Overlay() bool { return h.showOverlay }

// SetOverlay shows or hides the stats overlay.
func (h *Host) SetOverlay(show bool) { h.showOverlay = show }

// NativeOffset returns the last offset the engine jumped the surface to.
func (h *Host) NativeOffset() float64 { return h.nativeY }

// Measure implements vinemotion.Layout.
func (h *Host) Measure() (viewportH, contentH float64) {
	vh := float64(h.height)
	if h.shown == nil {
		return vh, vh
	}
	return vh, contentHeight(h.shown.Boxes(), vh, h.padding)
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if h.hook != nil {
		if err := h.hook(h); err != nil {
			return err
		}
	}
	h.handleInput()

	if fn := h.frame; fn != nil {
		h.frame = nil
		fn(h.now())
	}

	// The outgoing page stays drawn while it animates out; the incoming one
	// replaces it once the engine has mounted it.
	if cur := h.engine.Lifecycle().Current(); cur != "" && cur != h.shownID {
		h.show(cur)
		h.engine.NavigationSettled()
	}
	if h.showOverlay {
		h.overlay.update(h)
	}
	return nil
}

func (h *Host) handleInput() {
	if _, wy := h.input.Wheel(); wy != 0 {
		// Positive wheel y is a scroll up.
		h.engine.ScrollBy(-wy * h.wheelStep)
	}

	cx, cy := h.input.CursorPosition()
	in := cx >= 0 && cy >= 0 && cx < h.width && cy < h.height
	switch {
	case in:
		h.inside = true
		h.engine.PointerMove(float64(cx), float64(cy)+h.engine.State().SmoothedOffset)
	case h.inside:
		h.inside = false
		h.engine.PointerExit()
	}
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(h.background)
	if h.pixel == nil {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if h.shown != nil {
		scroll := h.engine.State().SmoothedOffset
		view := vinemotion.Rect{Width: float64(h.width), Height: float64(h.height)}
		for _, b := range h.shown.Boxes() {
			h.drawBox(screen, b, scroll, view)
		}
	}
	if h.showOverlay {
		h.overlay.draw(screen)
	}
}

func (h *Host) drawBox(screen *ebiten.Image, b *Box, scroll float64, view vinemotion.Rect) {
	if b.Hidden || b.Alpha <= 0 {
		return
	}
	r := b.ScreenRect(scroll)
	if !r.Intersects(view) {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.ScaleWithColor(b.Color)
	op.ColorScale.ScaleAlpha(float32(min(b.Alpha, 1)))
	screen.DrawImage(h.pixel, &op)
}

// Layout implements ebiten.Game. A window resize re-measures the page.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != h.width || outsideHeight != h.height {
		h.width, h.height = outsideWidth, outsideHeight
		h.engine.NavigationSettled()
	}
	return h.width, h.height
}
