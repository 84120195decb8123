/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package reveal

import (
	"math"
	"time"
)

// EaseOutCubic is 1-(1-p)^3 with p clamped to [0,1].
func EaseOutCubic(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}

	return 1 - math.Pow(1-p, 3)
}

// Progression waits Delay, then reports eased progress from 0 to 1 over
// Duration, once per frame. Every Start or Stop bumps a generation token so
// a continuation scheduled by an earlier run can never report.
type Progression struct {
	clock    Scheduler
	delay    time.Duration
	duration time.Duration
	onUpdate func(eased float64)

	gen     uint64
	cancel  Cancel
	running bool
}

func NewProgression(clock Scheduler, delay, duration time.Duration, onUpdate func(eased float64)) *Progression {
	return &Progression{
		clock:    clock,
		delay:    delay,
		duration: duration,
		onUpdate: onUpdate,
	}
}

// Start restarts the progression from 0.
func (p *Progression) Start() {
	p.Stop()

	gen := p.gen
	p.running = true
	p.onUpdate(0)

	// Progress is measured from when the delay was due, not from when the
	// timer happened to fire.
	due := p.clock.Now().Add(p.delay)

	p.cancel = p.clock.After(p.delay, func() {
		if gen != p.gen {
			return
		}
		p.frame(gen, due)
	})
}

// Stop cancels any pending continuation. The last reported value stays.
func (p *Progression) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.running = false
}

func (p *Progression) Running() bool {
	return p.running
}

func (p *Progression) frame(gen uint64, start time.Time) {
	p.cancel = p.clock.NextFrame(func(now time.Time) {
		if gen != p.gen {
			return
		}

		raw := 1.0
		if p.duration > 0 {
			raw = float64(now.Sub(start)) / float64(p.duration)
		}

		p.onUpdate(EaseOutCubic(raw))

		if raw < 1 {
			p.frame(gen, start)
			return
		}

		p.cancel = nil
		p.running = false
	})
}
