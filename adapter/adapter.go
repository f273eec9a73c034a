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

// Package adapter is the in-memory TLS adapter: the abstraction over an
// SSL engine that reads and writes plaintext against caller-supplied
// buffers while consuming and producing ciphertext through paired
// ingress/egress buffers. crypto/tls has no memory-BIO API comparable to
// OpenSSL's, so Adapter runs tls.Conn over one end of a real net.Pipe
// (see bridge.go) and drives every blocking call — Handshake (implicit),
// Read, Write, CloseWrite — on its own goroutine, posting the result back
// onto the caller's queue once it resolves. DESIGN.md covers why only
// this one backend exists in Go, where the original two-backend design
// (MemoryBioBackend / PortableBufferBackend) collapses to a single
// implementation.
package adapter

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/nabbar/tlsbridge/ciphertext"
	"github.com/nabbar/tlsbridge/sslerr"
	"github.com/nabbar/tlsbridge/tlsconfig"
)

// Queue is the minimal callback-dispatch contract the adapter needs to
// report asynchronous completions back onto a channel's own serial
// queue. It is satisfied by transport.Queue (and by dispatch.Queue)
// without importing either package directly.
type Queue interface {
	Post(fn func())
}

// Adapter wraps a crypto/tls.Conn running over a bridge. ReadPlaintext,
// WritePlaintext and Shutdown each run the underlying blocking crypto/tls
// call on its own goroutine and report back through Queue.Post, so the
// caller's own serial queue is never blocked waiting on the handshake or
// on the peer.
type Adapter struct {
	conn   *tls.Conn
	bridge *bridge
}

// New builds an Adapter for the given side, allocating its own ingress
// and egress ciphertext buffers sized per cfg.SoftCap(). notify, if
// non-nil, is called (from a bridge-internal goroutine, never from
// inside a Read/Write/Shutdown call) whenever new egress ciphertext
// becomes available — the hook a channel uses to re-run its ciphertext
// pump when the adapter makes handshake progress on its own.
func New(cfg *tlsconfig.Config, notify func()) *Adapter {
	ingress := ciphertext.New(cfg.SoftCap())
	egress := ciphertext.New(cfg.SoftCap())
	br := newBridge(ingress, egress, notify)

	tlsCfg := cfg.TLS()
	var conn *tls.Conn
	if cfg.Side == tlsconfig.SideServer {
		conn = tls.Server(br.appSide, tlsCfg)
	} else {
		conn = tls.Client(br.appSide, tlsCfg)
	}

	return &Adapter{conn: conn, bridge: br}
}

// Ingress is the ciphertext buffer the channel engine fills from the
// transport; the bridge's pumpIn goroutine drains it into the handshake.
func (a *Adapter) Ingress() *ciphertext.Buffer { return a.bridge.ingress }

// Egress is the ciphertext buffer the bridge's pumpOut goroutine fills
// from the TLS engine and the channel engine drains to the transport.
func (a *Adapter) Egress() *ciphertext.Buffer { return a.bridge.egress }

// FeedCiphertext makes newly-arrived transport bytes visible to the
// handshake/read path.
func (a *Adapter) FeedCiphertext(p []byte) { a.bridge.feedIngress(p) }

// NoteTransportEOF records that the transport will never deliver more
// ciphertext.
func (a *Adapter) NoteTransportEOF() { a.bridge.markIngressEOF() }

// HandshakeComplete reports whether the TLS handshake has finished. Safe
// to call concurrently with an in-flight Read/Write/Shutdown.
func (a *Adapter) HandshakeComplete() bool {
	return a.conn.ConnectionState().HandshakeComplete
}

// Close tears down the adapter's internal bridge goroutines. It does not
// touch the channel's real transport.
func (a *Adapter) Close() { a.bridge.close() }

// ReadPlaintext asynchronously drives the handshake to completion (the
// first call into crypto/tls.Conn.Read does this before touching
// application data) and fills into with decrypted application data. done
// is invoked on q exactly once:
//
//	n>0, err=nil:  n bytes of into were filled.
//	n==0, err=nil: the peer sent close_notify (EOF); also reported, without
//	               calling into crypto/tls, when into is empty.
//	err!=nil:      a protocol or transport failure; the adapter (and
//	               therefore the channel) is unusable from this point on.
//
// Read runs on its own goroutine because it can legitimately block for
// an arbitrary time (driving the handshake, or waiting on more ingress
// ciphertext fed in by the channel's own transport pump), and the
// caller's queue must stay free to keep that ciphertext flowing while it
// does.
func (a *Adapter) ReadPlaintext(into []byte, q Queue, done func(n int, err error)) {
	if len(into) == 0 {
		q.Post(func() { done(0, nil) })
		return
	}
	go func() {
		n, rerr := a.conn.Read(into)
		if rerr == nil {
			q.Post(func() { done(n, nil) })
			return
		}
		if errors.Is(rerr, io.EOF) {
			q.Post(func() { done(0, nil) })
			return
		}
		q.Post(func() { done(0, classify(rerr)) })
	}()
}

// WritePlaintext mirrors ReadPlaintext for the write direction. n is
// always len(from) on success, matching crypto/tls's all-or-nothing
// Write (partial writes are already impossible with crypto/tls, so
// there is no separate "disable partial writes" knob to configure — see
// DESIGN.md).
func (a *Adapter) WritePlaintext(from []byte, q Queue, done func(n int, err error)) {
	if len(from) == 0 {
		q.Post(func() { done(0, nil) })
		return
	}
	go func() {
		n, werr := a.conn.Write(from)
		if werr == nil {
			q.Post(func() { done(n, nil) })
			return
		}
		if errors.Is(werr, io.EOF) || errors.Is(werr, net.ErrClosed) {
			q.Post(func() { done(0, nil) })
			return
		}
		q.Post(func() { done(0, classify(werr)) })
	}()
}

// Shutdown asynchronously sends a close_notify alert. done is invoked on
// q exactly once with complete=true once the alert has been sent (or
// there was nothing graceful to send, e.g. before the handshake
// finished), or complete=false and a non-nil err on failure.
//
// This calls CloseWrite rather than Close: crypto/tls.Conn.Close also
// closes the underlying net.Conn unconditionally, which here would tear
// down the bridge before the channel has had a chance to observe the
// peer's own close_notify or flush the egress buffer. CloseWrite only
// sends the alert and is safe to call more than once (see DESIGN.md).
func (a *Adapter) Shutdown(q Queue, done func(complete bool, err error)) {
	go func() {
		serr := a.conn.CloseWrite()
		if serr == nil {
			q.Post(func() { done(true, nil) })
			return
		}
		if errors.Is(serr, io.EOF) || errors.Is(serr, net.ErrClosed) {
			q.Post(func() { done(true, nil) })
			return
		}
		if strings.Contains(serr.Error(), "before handshake complete") {
			// nothing graceful to send yet; let the channel close the
			// transport directly rather than retrying forever.
			q.Post(func() { done(true, nil) })
			return
		}
		q.Post(func() { done(false, classify(serr)) })
	}()
}

// classify maps a crypto/tls error to the adapter's error taxonomy. Every
// case still collapses to EIO at the channel's public boundary
// (sslerr.Cause.Errno); the distinction only matters for diagnostics.
func classify(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return sslerr.NewUncleanClose()
	}

	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return sslerr.NewProtocolError(err.Error())
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return sslerr.NewProtocolError(err.Error())
	}

	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return sslerr.NewProtocolError(err.Error())
	}

	return sslerr.NewUnexpectedError(err.Error())
}
