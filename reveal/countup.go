/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package reveal

import (
	"math"
	"time"
)

const (
	CountUpDelay    = 450 * time.Millisecond
	CountUpDuration = 1000 * time.Millisecond
)

// CountUp animates a displayed integer from 0 up to a cumulative score.
type CountUp struct {
	prog    *Progression
	target  int
	value   int
	started bool
}

func NewCountUp(clock Scheduler) *CountUp {
	c := &CountUp{}
	c.prog = NewProgression(clock, CountUpDelay, CountUpDuration, func(eased float64) {
		c.value = int(math.Round(float64(c.target) * eased))
	})

	return c
}

// SetTarget restarts the count from 0 when target differs from the current
// one. Setting the same target again leaves a running count alone.
func (c *CountUp) SetTarget(target int) {
	if c.started && target == c.target {
		return
	}

	c.target = target
	c.started = true
	c.prog.Start()
}

// Cancel stops counting and forgets the target so the next SetTarget starts
// over.
func (c *CountUp) Cancel() {
	c.prog.Stop()
	c.started = false
	c.value = 0
}

func (c *CountUp) Value() int {
	return c.value
}

func (c *CountUp) Target() int {
	return c.target
}

func (c *CountUp) Running() bool {
	return c.prog.Running()
}
