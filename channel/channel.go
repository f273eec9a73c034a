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

// Package channel is the TLS channel engine: the state machine that
// drives the in-memory TLS adapter against plaintext request FIFOs and
// advances the asynchronous ciphertext pump. It is the orchestration
// layer everything else in this module exists to support — a channel
// is, from the caller's perspective, a plaintext byte stream with the
// same read/write/close/set-low-water shape as the raw transport it
// wraps, so an encrypted channel is substitutable for a plain one.
package channel

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nabbar/tlsbridge/adapter"
	"github.com/nabbar/tlsbridge/shutdown"
	"github.com/nabbar/tlsbridge/sslerr"
	"github.com/nabbar/tlsbridge/tlsconfig"
	"github.com/nabbar/tlsbridge/tlslog"
	"github.com/nabbar/tlsbridge/transport"
)

// Channel is a single TLS-wrapped byte stream. All exported methods are
// safe to call from any goroutine: they marshal onto the channel's own
// serial queue before touching any state, per the concurrency model —
// at most one state-mutating operation for a given channel runs at a
// time, but different channels are free to run concurrently.
type Channel struct {
	id        uuid.UUID
	adapter   *adapter.Adapter
	transport transport.Transport
	queue     transport.Queue
	cleanup   func(sslerr.Errno)
	log       tlslog.Logger

	pendingReads  requestQueue
	pendingWrites requestQueue

	readingCiphertext bool
	writingCiphertext bool
	readingPlaintext  bool
	writingPlaintext  bool
	shuttingDown      bool

	fsm *shutdown.FSM

	err          sslerr.Errno
	cleanupFired bool
}

// Open takes ownership of tr, builds a TLS adapter per cfg, and begins
// reading ciphertext. cleanup fires exactly once, after the channel is
// fully closed (cleanly or due to an error), with errno 0 on a clean
// close or EIO otherwise. q is the channel's own serial execution
// context: every public method and every transport completion callback
// is marshaled onto it before touching channel state.
func Open(tr transport.Transport, q transport.Queue, cfg *tlsconfig.Config, cleanup func(sslerr.Errno)) (*Channel, error) {
	if tr == nil {
		return nil, fmt.Errorf("channel: nil transport")
	}
	if q == nil {
		return nil, fmt.Errorf("channel: nil queue")
	}
	if cfg == nil {
		return nil, fmt.Errorf("channel: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cleanup == nil {
		cleanup = func(sslerr.Errno) {}
	}

	c := &Channel{
		transport: tr,
		queue:     q,
		cleanup:   cleanup,
		log:       tlslog.Noop(),
		fsm:       shutdown.New(),
	}
	// notify lets the adapter's internal bridge wake the ciphertext pump
	// when the TLS engine produces egress bytes on its own (handshake
	// flights, alerts) rather than as the direct result of a plaintext
	// Read/Write call completing.
	c.adapter = adapter.New(cfg, func() { c.queue.Post(c.step) })
	c.id = register(c)

	c.queue.Post(func() {
		c.tryReadCiphertext()
		c.tryWriteCiphertext()
	})

	return c, nil
}

// SetLogger replaces the channel's diagnostic logger (default: a no-op).
// Protocol-error descriptions only ever reach this logger — the public
// boundary stays errno-only by design (spec §7).
func (c *Channel) SetLogger(l tlslog.Logger) {
	if l == nil {
		l = tlslog.Noop()
	}
	c.queue.Post(func() { c.log = l })
}

// Read enqueues a read request for up to length plaintext bytes. handler
// fires on q with (done=true, data, errno) exactly once. A length of 0
// completes immediately with a zero-length buffer, without touching the
// channel's serial queue.
func (c *Channel) Read(length int, q transport.Queue, handler transport.Handler) {
	if length <= 0 {
		q.Post(func() { handler(true, []byte{}, sslerr.OK) })
		return
	}
	c.queue.Post(func() {
		r := &request{buf: make([]byte, length), deliver: q, handler: handler}
		c.pendingReads.push(r)
		c.step()
	})
}

// Write enqueues data for plaintext delivery. handler fires on q with
// (done=true, data, errno) exactly once. A zero-length write completes
// immediately without touching the channel's serial queue.
func (c *Channel) Write(data []byte, q transport.Queue, handler transport.Handler) {
	if len(data) == 0 {
		q.Post(func() { handler(true, nil, sslerr.OK) })
		return
	}
	// Own a copy: the adapter hands the buffer to crypto/tls on its own
	// goroutine later, but the caller's slice is theirs to reuse the
	// moment Write returns, before the payload has actually been handed
	// to the adapter.
	owned := append([]byte(nil), data...)
	c.queue.Post(func() {
		r := &request{buf: owned, deliver: q, handler: handler}
		c.pendingWrites.push(r)
		c.step()
	})
}

// Close initiates shutdown. The adapter sends a close-notify alert
// (nothing is sent if the handshake has not completed) and, as soon as
// that call returns without error, the channel closes and fires
// cleanup(0). It does not wait for the peer's own close-notify, and
// force does not change this outcome: the adapter never reports a
// shutdown as still pending. If sending the alert fails, the error is
// latched and the channel closes with EIO.
func (c *Channel) Close(force bool) {
	c.queue.Post(func() {
		c.fsm.RequestClose(force)
		c.step()
	})
}

// SetLowWater is silently ignored: present only for interface
// compatibility with the plain transport (spec §4.1).
func (c *Channel) SetLowWater(int) {}

// step is the engine's dispatcher: on every entry it looks at the current
// shutdown state and the request FIFOs and kicks off whatever async
// operation is next, then always re-runs the ciphertext pump. Every
// async operation below (tryReadPlaintext, tryWritePlaintext,
// tryShutdown, tryReadCiphertext, tryWriteCiphertext) is idempotent and
// guarded by its own in-flight flag, and its completion callback calls
// step() again — so step is level-triggered rather than a loop-until-no-
// progress fixed point: there is nothing left to loop over once every
// blocking crypto/tls call runs on its own goroutine (see adapter/bridge.go).
func (c *Channel) step() {
	if c.fsm.State() == shutdown.Closed {
		// finishClose already drained everything queued before the close;
		// anything here was queued afterwards and can never be serviced.
		c.drainAll(sslerr.EIO)
		return
	}

	switch {
	case c.fsm.ShouldAttemptShutdown():
		c.tryShutdown()
	case c.fsm.State() == shutdown.Sent:
		// Skip the plaintext substeps entirely; only the ciphertext pump
		// below still runs. No plaintext read is issued in this state, so
		// the peer's close-notify is not observed from here.
	default: // Open, no shutdown in flight
		c.tryReadPlaintext()
		c.tryWritePlaintext()
	}

	c.tryReadCiphertext()
	c.tryWriteCiphertext()
}

// tryReadPlaintext issues at most one outstanding adapter read, sized to
// the head of pendingReads.
func (c *Channel) tryReadPlaintext() {
	if c.readingPlaintext {
		return
	}
	req := c.pendingReads.front()
	if req == nil {
		return
	}

	c.readingPlaintext = true
	c.adapter.ReadPlaintext(req.buf, c.queue, func(n int, err error) {
		c.readingPlaintext = false
		if c.fsm.State() == shutdown.Closed {
			// finishClose already completed req while this read was in flight.
			return
		}
		if err != nil {
			c.latch(err)
			return
		}

		c.pendingReads.pop()
		if n == 0 {
			c.complete(req, nil, sslerr.OK)
			c.applyEffect(c.fsm.NoteCloseNotify())
		} else {
			c.complete(req, req.buf[:n], sslerr.OK)
		}
		c.step()
	})
}

// tryWritePlaintext mirrors tryReadPlaintext for pendingWrites.
func (c *Channel) tryWritePlaintext() {
	if c.writingPlaintext {
		return
	}
	req := c.pendingWrites.front()
	if req == nil {
		return
	}
	if c.adapter.Egress().AvailableSpace() <= 0 {
		return
	}

	c.writingPlaintext = true
	c.adapter.WritePlaintext(req.buf, c.queue, func(n int, err error) {
		c.writingPlaintext = false
		if c.fsm.State() == shutdown.Closed {
			// finishClose already completed req while this write was in flight.
			return
		}
		if err != nil {
			c.latch(err)
			return
		}

		c.pendingWrites.pop()
		if n == 0 {
			// Peer closed before the payload was absorbed; hand the
			// caller back their unwritten bytes.
			c.complete(req, req.buf, sslerr.OK)
			c.applyEffect(c.fsm.NoteCloseNotify())
		} else {
			c.complete(req, nil, sslerr.OK)
		}
		c.step()
	})
}

// tryShutdown drives at most one outstanding attempt of the adapter's
// Shutdown.
func (c *Channel) tryShutdown() {
	if c.shuttingDown {
		return
	}

	c.shuttingDown = true
	c.adapter.Shutdown(c.queue, func(complete bool, err error) {
		c.shuttingDown = false
		if err != nil {
			c.latch(err)
			return
		}

		var eff shutdown.Effect
		if complete {
			eff = c.fsm.ShutdownComplete()
		} else {
			eff = c.fsm.ShutdownPending()
		}
		c.applyEffect(eff)
		c.step()
	})
}

func (c *Channel) applyEffect(eff shutdown.Effect) {
	switch eff {
	case shutdown.EffectCloseClean:
		c.finishClose(sslerr.OK)
	case shutdown.EffectCloseError:
		c.finishClose(sslerr.EIO)
	}
}

// finishClose closes the transport and the adapter's internal bridge
// goroutines, drains whatever is left in both FIFOs (an explicit
// improvement over silently leaking the callbacks of requests beyond the
// queue head — see DESIGN.md), and fires cleanup.
func (c *Channel) finishClose(errno sslerr.Errno) {
	_ = c.transport.Close(errno != sslerr.OK)
	c.adapter.Close()
	c.drainAll(errno)
	c.fireCleanup(errno)
}

func (c *Channel) drainAll(errno sslerr.Errno) {
	for {
		r := c.pendingReads.pop()
		if r == nil {
			break
		}
		c.complete(r, nil, errno)
	}
	for {
		r := c.pendingWrites.pop()
		if r == nil {
			break
		}
		c.complete(r, nil, errno)
	}
}

func (c *Channel) fireCleanup(errno sslerr.Errno) {
	if c.cleanupFired {
		return
	}
	c.cleanupFired = true
	deregister(c.id)
	c.cleanup(errno)
}

func (c *Channel) complete(r *request, data []byte, errno sslerr.Errno) {
	handler := r.handler
	r.deliver.Post(func() { handler(true, data, errno) })
}

// latch records the first error observed on this channel and forces the
// channel terminally closed. Later errors are ignored: the latched
// error is sticky. Protocol-error descriptions are logged here and
// nowhere else — the public boundary stays errno-only.
func (c *Channel) latch(cause error) {
	if c.err != sslerr.OK {
		return
	}

	var sc *sslerr.Cause
	if errors.As(cause, &sc) {
		c.err = sc.Errno()
		c.log.Error(tlslog.Fields{"kind": sc.Kind().String()}, sc.Error())
	} else {
		c.err = sslerr.EIO
		c.log.Error(nil, cause.Error())
	}

	c.applyEffect(c.fsm.Abort())
}

// tryReadCiphertext issues at most one outstanding transport read,
// sized to the adapter's available ingress space.
func (c *Channel) tryReadCiphertext() {
	if c.readingCiphertext {
		return
	}
	avail := c.adapter.Ingress().AvailableSpace()
	if avail <= 0 {
		return
	}

	c.readingCiphertext = true
	c.transport.Read(0, avail, c.queue, func(done bool, data []byte, errno sslerr.Errno) {
		if errno != sslerr.OK {
			c.latch(sslerr.NewTransportError(errno))
		}

		if len(data) == 0 && errno == sslerr.OK {
			// Transport EOF: suppress further reads permanently.
			c.adapter.NoteTransportEOF()
		} else {
			if done {
				c.readingCiphertext = false
			}
			if len(data) > 0 {
				c.adapter.FeedCiphertext(data)
			}
		}

		c.step()
	})
}

// tryWriteCiphertext issues at most one outstanding transport write,
// draining everything currently sitting in the adapter's egress buffer.
func (c *Channel) tryWriteCiphertext() {
	if c.writingCiphertext {
		return
	}
	data, ok := c.adapter.Egress().ReadAll()
	if !ok {
		return
	}

	c.writingCiphertext = true
	c.transport.Write(0, data, c.queue, func(done bool, _ []byte, errno sslerr.Errno) {
		if errno != sslerr.OK {
			c.latch(sslerr.NewTransportError(errno))
		}
		if done {
			c.writingCiphertext = false
		}
		c.step()
	})
}
