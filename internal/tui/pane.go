package tui

import "github.com/charmbracelet/bubbles/viewport"

// viewPane adapts a viewport to controller.Pane. Offset changes made through
// SetScrollTop are remembered so the model can report them back as a scroll
// event, the way a browser fires one after a programmatic scroll.
type viewPane struct {
	vp    viewport.Model
	moved bool
}

func newViewPane() *viewPane {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return &viewPane{vp: vp}
}

func (p *viewPane) ScrollHeight() int { return p.vp.TotalLineCount() }
func (p *viewPane) ClientHeight() int { return p.vp.Height }
func (p *viewPane) ScrollTop() int    { return p.vp.YOffset }

func (p *viewPane) SetScrollTop(top int) {
	before := p.vp.YOffset
	p.vp.SetYOffset(top)
	if p.vp.YOffset != before {
		p.moved = true
	}
}

// takeMoved reports and clears a pending programmatic scroll.
func (p *viewPane) takeMoved() bool {
	moved := p.moved
	p.moved = false
	return moved
}
