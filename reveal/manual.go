/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package reveal

import (
	"sort"
	"time"
)

type manualTimer struct {
	seq       uint64
	due       time.Time
	fn        func()
	cancelled bool
}

type manualFrame struct {
	fn        func(time.Time)
	cancelled bool
}

// ManualClock is a Scheduler whose time only moves when Advance is called.
// Frames are delivered every FrameInterval of simulated time. It is not safe
// for concurrent use.
type ManualClock struct {
	FrameInterval time.Duration

	now    time.Time
	seq    uint64
	timers []*manualTimer
	frames []*manualFrame
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{FrameInterval: 16 * time.Millisecond, now: start}
}

func (m *ManualClock) Now() time.Time {
	return m.now
}

func (m *ManualClock) After(d time.Duration, fn func()) Cancel {
	m.seq++
	t := &manualTimer{seq: m.seq, due: m.now.Add(d), fn: fn}
	m.timers = append(m.timers, t)

	return func() { t.cancelled = true }
}

func (m *ManualClock) NextFrame(fn func(now time.Time)) Cancel {
	f := &manualFrame{fn: fn}
	m.frames = append(m.frames, f)

	return func() { f.cancelled = true }
}

// Pending reports how many live continuations are still registered.
func (m *ManualClock) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.cancelled {
			n++
		}
	}
	for _, f := range m.frames {
		if !f.cancelled {
			n++
		}
	}

	return n
}

// Advance moves time forward by d one frame at a time, firing due timers
// before the frames of each step.
func (m *ManualClock) Advance(d time.Duration) {
	end := m.now.Add(d)

	for m.now.Before(end) {
		step := m.FrameInterval
		if remaining := end.Sub(m.now); remaining < step {
			step = remaining
		}
		m.now = m.now.Add(step)

		m.fireTimers()
		m.fireFrames()
	}
}

func (m *ManualClock) fireTimers() {
	for {
		var due []*manualTimer
		rest := m.timers[:0]
		for _, t := range m.timers {
			switch {
			case t.cancelled:
			case !t.due.After(m.now):
				due = append(due, t)
			default:
				rest = append(rest, t)
			}
		}
		m.timers = rest

		if len(due) == 0 {
			return
		}

		sort.Slice(due, func(i, j int) bool {
			if due[i].due.Equal(due[j].due) {
				return due[i].seq < due[j].seq
			}
			return due[i].due.Before(due[j].due)
		})
		for _, t := range due {
			if !t.cancelled {
				t.fn()
			}
		}
	}
}

func (m *ManualClock) fireFrames() {
	batch := m.frames
	m.frames = nil

	for _, f := range batch {
		if !f.cancelled {
			f.fn(m.now)
		}
	}
}
