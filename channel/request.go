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

package channel

import "github.com/nabbar/tlsbridge/transport"

// request is a plaintext read or write sitting in one of the channel's
// FIFOs. For a read, buf is the destination slice the caller will see
// (truncated to the bytes actually filled); for a write, buf is an
// owned copy of the caller's payload, consumed whole once the adapter
// accepts it. deliver is the queue the caller asked its handler to be
// invoked on, independent of the channel's own internal serial queue.
type request struct {
	buf     []byte
	deliver transport.Queue
	handler transport.Handler
}

// requestQueue is the per-channel FIFO backing pending_reads/pending_writes.
// It is only ever touched from the channel's serial queue, so it carries
// no locking of its own.
type requestQueue struct {
	items []*request
}

func (q *requestQueue) push(r *request) {
	q.items = append(q.items, r)
}

// front returns the head request without removing it, or nil if empty.
func (q *requestQueue) front() *request {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// pop removes and returns the head request, or nil if empty.
func (q *requestQueue) pop() *request {
	if len(q.items) == 0 {
		return nil
	}
	r := q.items[0]
	q.items = q.items[1:]
	return r
}

func (q *requestQueue) empty() bool {
	return len(q.items) == 0
}
