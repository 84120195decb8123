/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package reveal animates the end of a dial: the clip that uncovers the
// scoring bands and the count-up of the team score. Everything runs on a
// Scheduler so a test can drive time by hand.
package reveal

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Cancel unregisters a scheduled continuation. Calling it more than once is
// harmless.
type Cancel func()

// Scheduler is the single source of time for animations. Callbacks must run
// on the same goroutine that owns the animated state.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Cancel
	NextFrame(fn func(now time.Time)) Cancel
}

type pending struct {
	id        uint64
	fn        func(time.Time)
	cancelled atomic.Bool
}

// FrameClock is a Scheduler backed by a render-loop ticker. Continuations
// are handed to post, which queues them on the owning event loop.
type FrameClock struct {
	post     func(func())
	interval time.Duration

	mu     sync.Mutex
	nextID uint64
	frames map[uint64]*pending
}

func NewFrameClock(fps int, post func(func())) *FrameClock {
	if fps <= 0 {
		fps = 60
	}

	return &FrameClock{
		post:     post,
		interval: time.Second / time.Duration(fps),
		frames:   make(map[uint64]*pending),
	}
}

func (c *FrameClock) Now() time.Time {
	return time.Now()
}

func (c *FrameClock) After(d time.Duration, fn func()) Cancel {
	p := &pending{}

	t := time.AfterFunc(d, func() {
		c.post(func() {
			if !p.cancelled.Load() {
				fn()
			}
		})
	})

	return func() {
		p.cancelled.Store(true)
		t.Stop()
	}
}

func (c *FrameClock) NextFrame(fn func(now time.Time)) Cancel {
	c.mu.Lock()
	c.nextID++
	p := &pending{id: c.nextID, fn: fn}
	c.frames[p.id] = p
	c.mu.Unlock()

	return func() {
		p.cancelled.Store(true)

		c.mu.Lock()
		delete(c.frames, p.id)
		c.mu.Unlock()
	}
}

// Run ticks until ctx is done, flushing every frame request registered since
// the previous tick in one batch.
func (c *FrameClock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.flush()
		}
	}
}

func (c *FrameClock) flush() {
	c.mu.Lock()
	if len(c.frames) == 0 {
		c.mu.Unlock()
		return
	}
	batch := make([]*pending, 0, len(c.frames))
	for _, p := range c.frames {
		batch = append(batch, p)
	}
	c.frames = make(map[uint64]*pending)
	c.mu.Unlock()

	sort.Slice(batch, func(i, j int) bool { return batch[i].id < batch[j].id })

	c.post(func() {
		now := time.Now()
		for _, p := range batch {
			if !p.cancelled.Load() {
				p.fn(now)
			}
		}
	})
}
