/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package dispatch implements the serial execution context each TLS channel
// runs its state transitions on: a single worker goroutine draining a FIFO
// of closures, so that "one channel, one queue" holds without a mutex
// guarding every field of the channel's state (spec §5).
//
// It deliberately does not try to be a general-purpose worker pool: a
// channel's dispatch queue has exactly one worker, and cross-channel
// concurrency is achieved by simply giving each channel its own Queue, not
// by sharing one queue across channels.
package dispatch

import "sync"

// Queue is a per-channel serial dispatch queue.
type Queue struct {
	once   sync.Once
	closed chan struct{}
	work   chan func()
	done   chan struct{}
}

// NewQueue starts a new Queue with its worker goroutine running.
func NewQueue() *Queue {
	q := &Queue{
		closed: make(chan struct{}),
		work:   make(chan func(), 64),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		select {
		case fn, ok := <-q.work:
			if !ok {
				return
			}
			fn()
		case <-q.closed:
			// Drain whatever is already queued before exiting, so a Close
			// racing with an in-flight transport completion callback never
			// silently drops a pending step() re-entry.
			for {
				select {
				case fn, ok := <-q.work:
					if !ok {
						return
					}
					fn()
				default:
					return
				}
			}
		}
	}
}

// Post schedules fn to run on the queue's worker goroutine. Post never
// blocks the caller waiting for fn to run; it only blocks if the queue's
// internal buffer is full, which back-pressures a runaway producer instead
// of growing memory without bound.
//
// Post is a no-op once the queue has been stopped.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-q.closed:
		return
	default:
	}
	select {
	case q.work <- fn:
	case <-q.closed:
	}
}

// Stop signals the worker to finish any already-queued work and exit. Stop
// does not wait for the worker to drain; call Wait for that.
func (q *Queue) Stop() {
	q.once.Do(func() {
		close(q.closed)
	})
}

// Wait blocks until the worker goroutine has exited.
func (q *Queue) Wait() {
	<-q.done
}
