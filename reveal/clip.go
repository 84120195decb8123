/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package reveal

import "time"

const (
	ClipDelay    = 100 * time.Millisecond
	ClipDuration = 1400 * time.Millisecond
)

// Clip drives the width of the clip region that uncovers the scoring bands,
// from 0 to the dial's full diameter.
type Clip struct {
	diameter float64
	width    float64
	prog     *Progression

	target int
	shown  bool
}

func NewClip(clock Scheduler, diameter float64) *Clip {
	c := &Clip{diameter: diameter}
	c.prog = NewProgression(clock, ClipDelay, ClipDuration, func(eased float64) {
		c.width = eased * c.diameter
	})

	return c
}

// Set updates the trigger. The animation restarts from width 0 when the
// target changes while shown, or when show turns on. Turning show off
// cancels it and collapses the clip.
func (c *Clip) Set(target int, show bool) {
	switch {
	case !show:
		c.prog.Stop()
		c.width = 0
	case !c.shown || target != c.target:
		c.prog.Start()
	}

	c.target = target
	c.shown = show
}

// Cancel tears the animation down, e.g. when its screen goes away.
func (c *Clip) Cancel() {
	c.Set(c.target, false)
}

func (c *Clip) Width() float64 {
	return c.width
}

func (c *Clip) Shown() bool {
	return c.shown
}

func (c *Clip) Running() bool {
	return c.prog.Running()
}
