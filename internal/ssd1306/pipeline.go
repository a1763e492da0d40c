package ssd1306

import (
	"oledui/internal/ledcode"
	"oledui/internal/status"
)

// DrawFunc fills one page tile. The tile is cleared before the call.
type DrawFunc func(page uint8, tile []byte)

// Stage is the pipeline position for the page being rendered.
type Stage uint8

const (
	StageAddr Stage = iota
	StageBuild
	StageStreamStart
	StageStreaming

	// StageIdle is reported while no frame is in progress.
	StageIdle Stage = 0xFF
)

type pipeline struct {
	active   bool
	rerender bool
	stage    Stage
	page     uint8
	draw     DrawFunc
}

// Begin starts rendering a frame from page 0. It fails with BadState while
// a frame is already in progress.
func (c *Controller) Begin(draw DrawFunc) error {
	if c.pipe.active {
		return status.BadState
	}
	c.pipe = pipeline{active: true, stage: StageAddr, draw: draw}
	c.post(ledcode.RenderStart, c.pages-1)
	return nil
}

// StartOrRequest begins a frame, or marks the running one for a re-render.
// It reports whether a new frame was started.
func (c *Controller) StartOrRequest(draw DrawFunc) bool {
	if c.pipe.active {
		c.RequestRerender()
		return false
	}
	_ = c.Begin(draw)
	return true
}

// RequestRerender asks for one more full frame once the current one ends.
// Outside a frame it does nothing.
func (c *Controller) RequestRerender() {
	if c.pipe.active {
		c.pipe.rerender = true
	}
}

// Active reports whether a frame is in progress.
func (c *Controller) Active() bool { return c.pipe.active }

// Stage returns the current stage, StageIdle outside a frame.
func (c *Controller) Stage() Stage {
	if !c.pipe.active {
		return StageIdle
	}
	return c.pipe.stage
}

// Process advances the transfer and the pipeline by at most one stage.
// It never blocks except for the short page address write.
func (c *Controller) Process() {
	c.pump()
	p := &c.pipe
	if !p.active {
		return
	}
	switch p.stage {
	case StageAddr:
		if c.xfer.active || c.bus.Busy() {
			return
		}
		c.post(ledcode.RenderStage, p.page&7)
		if err := c.setAddr(p.page); err != nil {
			c.err = err
		}
		p.stage = StageBuild
	case StageBuild:
		clear(c.tile[:])
		if p.draw != nil {
			p.draw(p.page, c.tile[:])
		}
		p.stage = StageStreamStart
	case StageStreamStart:
		if c.xfer.active || c.bus.Busy() {
			return
		}
		c.start(ctrlData, c.tile[:])
		p.stage = StageStreaming
	case StageStreaming:
		if c.xfer.active {
			return
		}
		p.page++
		if p.page < c.pages {
			p.stage = StageAddr
			return
		}
		again := p.rerender
		var v uint8
		if again {
			v = 1
		}
		c.post(ledcode.RenderDone, v)
		if !again {
			p.active = false
			p.draw = nil
			return
		}
		p.rerender = false
		p.page = 0
		p.stage = StageAddr
		c.post(ledcode.RenderStart, c.pages-1)
	}
}

// Drain runs the pipeline until the current frame and transfer finish.
func (c *Controller) Drain() {
	for c.pipe.active || c.xfer.active {
		c.Process()
	}
}

func (c *Controller) post(k ledcode.Kind, v uint8) {
	if c.Events != nil {
		c.Events.Post(k, v)
	}
}
