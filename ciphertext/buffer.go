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

// Package ciphertext implements the unbounded FIFO byte buffer, with a soft
// capacity used purely as a back-pressure hint, that mediates between the
// synchronous TLS engine and the asynchronous transport on each side of a
// channel (ingress and egress).
package ciphertext

import "sync"

// DefaultSoftCap is the soft capacity applied when a Buffer is constructed
// with a non-positive cap.
const DefaultSoftCap = 4096

// Buffer is an append-only FIFO of bytes with an advisory soft cap. Writes
// never fail: a single Write may push UsedSpace past SoftCap, in which case
// AvailableSpace reports zero until enough bytes are Read back out.
//
// Buffer is safe for concurrent use, and is used concurrently: the channel
// engine touches it from its serial dispatch queue while the adapter's
// bridge goroutines (adapter/bridge.go) fill egress and drain ingress.
type Buffer struct {
	mu      sync.Mutex
	buf     []byte
	softCap int
}

// New returns a Buffer with the given soft cap. A non-positive softCap is
// replaced with DefaultSoftCap.
func New(softCap int) *Buffer {
	if softCap <= 0 {
		softCap = DefaultSoftCap
	}
	return &Buffer{softCap: softCap}
}

// SoftCap returns the configured soft capacity.
func (b *Buffer) SoftCap() int {
	return b.softCap
}

// UsedSpace returns the number of bytes currently buffered.
func (b *Buffer) UsedSpace() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

// AvailableSpace returns max(0, SoftCap - UsedSpace). It is a hint, not a
// hard limit: Write always succeeds in full regardless of this value.
func (b *Buffer) AvailableSpace() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available()
}

func (b *Buffer) available() int {
	if n := b.softCap - len(b.buf); n > 0 {
		return n
	}
	return 0
}

// Write appends p in full. It never fails: memory pressure is the host's
// problem, per spec. It returns the number of bytes appended, always
// len(p).
func (b *Buffer) Write(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p)
}

// Read returns up to max bytes from the front of the buffer. If the buffer
// is empty it returns (nil, false). A negative or zero max reads everything
// currently buffered (Read(-1) is the "read-all" form called out in spec
// §4.3; Read(0) behaves the same way for convenience since a genuine
// zero-length read is meaningless for a FIFO drain).
func (b *Buffer) Read(max int) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.buf) == 0 {
		return nil, false
	}

	n := len(b.buf)
	if max > 0 && max < n {
		n = max
	}

	out := make([]byte, n)
	copy(out, b.buf[:n])
	b.buf = b.buf[n:]

	// Let Go's GC reclaim the consumed prefix instead of carrying it forever
	// as spare capacity on a long-lived connection.
	if cap(b.buf) > 0 && len(b.buf) == 0 {
		b.buf = nil
	}

	return out, true
}

// ReadAll drains and returns the entire buffer, or (nil, false) if empty.
func (b *Buffer) ReadAll() ([]byte, bool) {
	return b.Read(-1)
}
