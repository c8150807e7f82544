package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/vinemotion"
	"github.com/phanxgames/vinemotion/ebitenhost"
)

const (
	pageWidth   = 960
	rowHeight   = 360
	firstRowY   = 420
	exitTime    = 350 * time.Millisecond
	enterTime   = 500 * time.Millisecond
	revealFloor = 0.15
)

var (
	leafGreen = color.RGBA{0x6b, 0x8f, 0x3a, 0xff}
	grapeDark = color.RGBA{0x4a, 0x24, 0x5e, 0xff}
	barkBrown = color.RGBA{0x7a, 0x55, 0x33, 0xff}
	wheatGold = color.RGBA{0xd9, 0xb4, 0x4a, 0xff}
)

// event is something a page observed, reported by the simulate command.
type event struct {
	Frame uint64 `json:"frame"`
	Page  string `json:"page"`
	Box   string `json:"box"`
	Kind  string `json:"kind"`
}

func (ev event) String() string {
	return fmt.Sprintf("%5d  %-8s %-12s %s", ev.Frame, ev.Page, ev.Box, ev.Kind)
}

// demoPage is a long page with a header, rows that fade in as they scroll
// into view, and magnetic buttons.
type demoPage struct {
	id      string
	header  *ebitenhost.Box
	reveals []*ebitenhost.Box
	buttons []*ebitenhost.Box
	all     []*ebitenhost.Box
	height  float64
	record  func(page, box, kind string)
}

func newDemoPage(id string, rows int, accent color.RGBA, record func(page, box, kind string)) *demoPage {
	p := &demoPage{id: id, record: record}
	p.header = ebitenhost.NewBox(id+"/header", 80, 60, pageWidth-160, 180, accent)
	p.all = append(p.all, p.header)

	for i := 0; i < rows; i++ {
		y := float64(firstRowY + i*rowHeight)
		x := 80.0
		if i%2 == 1 {
			x = pageWidth/2 + 20
		}
		row := ebitenhost.NewBox(fmt.Sprintf("%s/row%d", id, i), x, y, pageWidth/2-100, rowHeight-80, leafGreen)
		btn := ebitenhost.NewBox(fmt.Sprintf("%s/btn%d", id, i), x+40, y+rowHeight-150, 140, 44, wheatGold)
		p.reveals = append(p.reveals, row)
		p.buttons = append(p.buttons, btn)
		p.all = append(p.all, row, btn)
	}
	p.height = float64(firstRowY+rows*rowHeight) + 80
	return p
}

// Boxes implements ebitenhost.Page.
func (p *demoPage) Boxes() []*ebitenhost.Box { return p.all }

// Mount implements vinemotion.View.
func (p *demoPage) Mount(s *vinemotion.Scope) {
	for _, b := range p.all {
		b.Alpha = 1
		b.Offset = vinemotion.Vec2{}
	}
	for _, row := range p.reveals {
		row.Alpha = revealFloor
		s.RegisterReveal(row, vinemotion.RevealOptions{
			Mode:       vinemotion.ModeScrub,
			Start:      vinemotion.Condition{Edge: 0, Line: 1},
			End:        vinemotion.Condition{Edge: 0, Line: 0.4},
			OnProgress: func(v float64) { row.Alpha = revealFloor + (1-revealFloor)*v },
			OnEnter:    func() { p.emit(row.Name, "enter") },
			OnLeave:    func() { p.emit(row.Name, "leave") },
		})
	}
	for _, btn := range p.buttons {
		if _, err := s.RegisterMagnetic(btn, vinemotion.MagneticOptions{
			Apply: func(v vinemotion.Vec2) { btn.Offset = v },
		}); err != nil {
			p.emit(btn.Name, "magnetic rejected: "+err.Error())
		}
	}
	p.emit(p.header.Name, "mount")
}

// Exit implements vinemotion.View: everything fades out.
func (p *demoPage) Exit() vinemotion.Animation {
	fades := make([]vinemotion.Animation, 0, len(p.all))
	for _, b := range p.all {
		fades = append(fades, vinemotion.TweenAlpha(&b.Alpha, 0, exitTime, ease.InQuad))
	}
	return vinemotion.Parallel(fades...)
}

// Enter implements vinemotion.View: the header drops in and fades up.
func (p *demoPage) Enter() vinemotion.Animation {
	p.header.Alpha = 0
	p.header.Offset = vinemotion.Vec2{Y: -40}
	return vinemotion.Parallel(
		vinemotion.TweenAlpha(&p.header.Alpha, 1, enterTime, ease.OutCubic),
		vinemotion.TweenOffset(&p.header.Offset, vinemotion.Vec2{}, enterTime, ease.OutCubic),
	)
}

func (p *demoPage) emit(box, kind string) {
	if p.record != nil {
		p.record(p.id, box, kind)
	}
}

// vineyard builds the demo site.
func vineyard(record func(page, box, kind string)) map[string]*demoPage {
	return map[string]*demoPage{
		"home":    newDemoPage("home", 6, grapeDark, record),
		"harvest": newDemoPage("harvest", 4, barkBrown, record),
		"cellar":  newDemoPage("cellar", 2, wheatGold, record),
	}
}

// pageOrder is the keyboard mapping used by the run command.
var pageOrder = []string{"home", "harvest", "cellar"}
