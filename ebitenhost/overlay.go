package ebitenhost

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const overlayRefresh = 500 * time.Millisecond

// overlay shows engine stats in the top-left corner. The text is rebuilt
// every overlayRefresh; the image is created lazily on first draw.
type overlay struct {
	text    string
	last    time.Duration
	started bool
	img     *ebiten.Image
	dirty   bool
}

func newOverlay() *overlay {
	return &overlay{}
}

func (o *overlay) update(h *Host) {
	now := h.now()
	if o.started && now-o.last < overlayRefresh {
		return
	}
	o.started = true
	o.last = now
	o.text = statsText(h, ebiten.ActualFPS(), ebiten.ActualTPS())
	o.dirty = true
}

func statsText(h *Host, fps, tps float64) string {
	e := h.engine
	s := e.Stats()
	st := e.State()
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\npage: %s (%s)\nscroll: %.0f / %.0f\ntriggers: %d (%d active)\nsprings: %d",
		fps, tps,
		h.shownID, s.Phase,
		st.SmoothedOffset, st.MaxOffset(),
		s.Triggers, s.ActiveTriggers,
		s.Springs)
}

func (o *overlay) draw(screen *ebiten.Image) {
	if o.img == nil {
		// Enough for five lines of debug text.
		o.img = ebiten.NewImage(220, 84)
		o.dirty = true
	}
	if o.dirty {
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, o.text)
		o.dirty = false
	}
	screen.DrawImage(o.img, nil)
}
