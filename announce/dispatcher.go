// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package announce

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// SpeakTimeout bounds a single announcement
const SpeakTimeout = 30 * time.Second

// Dispatcher runs announcements on a fixed pool of workers fed by a
// bounded queue. It implements queue.Announcer.
type Dispatcher struct {
	speaker Speaker
	workers int
	pending chan int

	mu      sync.Mutex
	closed  bool
	started bool
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewDispatcher creates a dispatcher. Workers and queueSize below 1 are
// raised to 1. Call Start to begin speaking.
func NewDispatcher(speaker Speaker, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		speaker: speaker,
		workers: workers,
		pending: make(chan int, queueSize),
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()

	for number := range d.pending {
		ctx, cancel := context.WithTimeout(context.Background(), SpeakTimeout)
		if err := d.speaker.Speak(ctx, number); err != nil {
			slog.Error("failed to announce number", "number", number, "worker", id, "error", err)
		}
		cancel()
	}
}

// Announce queues a number without blocking. When the queue is full the
// oldest pending number is discarded. Numbers announced after Close are
// ignored.
func (d *Dispatcher) Announce(number int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	for {
		select {
		case d.pending <- number:
			return
		default:
		}

		select {
		case old := <-d.pending:
			d.dropped.Add(1)
			slog.Warn("announcement queue full, dropping oldest", "dropped", old, "number", number)
		default:
		}
	}
}

// Dropped reports how many announcements were discarded so far
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close stops accepting announcements and waits for the workers to finish
// what is already queued. If Start was never called the queue is discarded.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.pending)
	d.mu.Unlock()

	d.wg.Wait()
}
