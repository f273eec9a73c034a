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

// Package transport defines the asynchronous, callback-driven byte-stream
// collaborator the TLS channel engine pumps ciphertext through (spec §6),
// plus a concrete TCP-backed implementation.
//
// The interface is deliberately symmetric with the channel engine's own
// public surface (package channel): a TLS-encrypted channel is therefore a
// drop-in substitute for a plain Transport, and vice versa.
package transport

import "github.com/nabbar/tlsbridge/sslerr"

// Handler is the completion callback contract for both Read and Write.
//
//   - done is true once the operation has fully completed (this package
//     never calls a Handler more than once per Read/Write call: there is no
//     partial-completion notion at this layer).
//   - data carries the bytes read for Read completions; it is nil for
//     Write completions and for a Read that observed EOF (zero-length,
//     non-nil data also signals EOF — callers must check len(data) == 0,
//     not data == nil).
//   - errno is sslerr.OK on success.
type Handler func(done bool, data []byte, errno sslerr.Errno)

// Queue is the minimal serial-dispatch contract a Transport needs in order
// to invoke a Handler on the channel's own execution context rather than
// from whatever goroutine the I/O actually completed on. dispatch.Queue
// satisfies this.
type Queue interface {
	Post(fn func())
}

// Transport is the external, asynchronous byte-stream collaborator that
// moves ciphertext to and from a file descriptor. It is the same shape the
// TLS channel exposes publicly (spec §6), so a TLS channel can stand in for
// a plain Transport.
type Transport interface {
	// FD returns the underlying file descriptor, for diagnostics only; the
	// engine never operates on it directly.
	FD() uintptr

	// Read requests up to length bytes starting at offset bytes into the
	// transport's read position; completion is reported by invoking handler
	// on q. offset is almost always 0 for a stream transport and exists for
	// interface parity with datagram-oriented transports (out of scope
	// here, see spec §1).
	Read(offset, length int, q Queue, handler Handler)

	// Write requests that data be written starting at offset bytes into the
	// transport's write position; completion is reported by invoking
	// handler on q.
	Write(offset int, data []byte, q Queue, handler Handler)

	// Close closes the transport. force selects an abortive close (no
	// attempt to flush/drain) versus a graceful one.
	Close(force bool) error

	// SetLowWater exists purely for interface parity with a plain transport
	// and is silently ignored by the TLS channel engine (spec §4.1).
	SetLowWater(n int)
}
