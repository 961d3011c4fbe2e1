package controller

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SliderInput scrolls the preview to v percent of its scroll range. When the
// offset actually moves, the sync guard expects one more echoed scroll event
// and the returned command clears it after the fallback delay.
func (c *Controller) SliderInput(v int) tea.Cmd {
	if c.state.ActiveIndex == -1 {
		return nil
	}
	v = clampPercent(v)
	c.state.SliderValue = v

	before := c.pane.ScrollTop()
	maxScroll := max(c.pane.ScrollHeight()-c.pane.ClientHeight(), 0)
	c.pane.SetScrollTop(int(math.Round(float64(maxScroll) * float64(v) / 100)))
	if c.pane.ScrollTop() == before {
		return nil
	}

	g := &c.state.guard
	g.pending++
	g.gen++
	gen := g.gen

	return tea.Tick(c.syncGuard, func(time.Time) tea.Msg {
		return guardExpiredMsg{gen: gen}
	})
}

// Scrolled updates the slider from the preview's scroll offset. Scroll
// events echoing slider input are consumed, one per input that moved the
// pane.
func (c *Controller) Scrolled() {
	if c.state.guard.pending > 0 {
		c.state.guard.pending--
		return
	}
	if !c.state.ControlsEnabled {
		return
	}
	c.state.SliderValue = SliderFromScroll(c.pane.ScrollTop(), c.pane.ScrollHeight(), c.pane.ClientHeight())
}

// expireGuard drops echoes that never arrived once the fallback delay of
// the latest slider input has passed.
func (c *Controller) expireGuard(gen int) {
	if c.state.guard.gen == gen {
		c.state.guard.pending = 0
	}
}

// SliderFromScroll converts a scroll offset to a slider value in [0,100].
// Content that does not overflow the viewport maps to 0.
func SliderFromScroll(scrollTop, scrollHeight, clientHeight int) int {
	maxScroll := scrollHeight - clientHeight
	if maxScroll <= 0 {
		return 0
	}
	ratio := float64(scrollTop) / float64(maxScroll)
	return clampPercent(int(math.Round(ratio * 100)))
}

func clampPercent(v int) int {
	return min(max(v, 0), 100)
}
