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

package adapter

import (
	"net"
	"sync"

	"github.com/nabbar/tlsbridge/ciphertext"
)

// bridge is what crypto/tls.Conn is actually built over. crypto/tls has no
// memory-BIO API the way OpenSSL does, so the obvious way to fake one is a
// synthetic net.Conn whose Read/Write never block, returning a transient
// "would block" net.Error when there is nothing to do yet. That shape does
// not work: tls.Conn.handshakeContext latches the very first error a
// handshake-time Read/Write returns into c.handshakeErr permanently, with
// no exemption for net.Error/Timeout()/Temporary() the way the
// post-handshake application-data path has. Since the ingress buffer is
// guaranteed to still be empty the first time anything calls into the
// handshake, a non-blocking memConn wedges the handshake on its first call,
// forever.
//
// bridge instead runs crypto/tls over one end of a genuine net.Pipe, and
// two dedicated goroutines (pumpOut/pumpIn) ferry bytes between the other
// end and the channel engine's ciphertext buffers. crypto/tls only ever
// sees real blocking I/O — the conventional way to drive a synchronous
// engine from asynchronous byte sources — so it never observes a
// transient error at all. Every call that can block (Handshake, Read,
// Write, CloseWrite) is driven from its own goroutine by Adapter; bridge's
// own pump goroutines never touch tls.Conn directly.
type bridge struct {
	netSide net.Conn // pumpOut/pumpIn's side
	appSide net.Conn // tls.Conn's side

	ingress *ciphertext.Buffer
	egress  *ciphertext.Buffer

	wake   chan struct{}
	notify func()

	mu         sync.Mutex
	ingressEOF bool
}

func newBridge(ingress, egress *ciphertext.Buffer, notify func()) *bridge {
	netSide, appSide := net.Pipe()
	b := &bridge{
		netSide: netSide,
		appSide: appSide,
		ingress: ingress,
		egress:  egress,
		wake:    make(chan struct{}, 1),
		notify:  notify,
	}
	go b.pumpOut()
	go b.pumpIn()
	return b
}

// pumpOut forwards whatever crypto/tls writes to appSide (handshake
// flights, alerts, encrypted application data) into egress, then wakes the
// channel engine so it flushes egress to the real transport. It exits once
// the pipe is closed.
func (b *bridge) pumpOut() {
	buf := make([]byte, 16*1024)
	for {
		n, err := b.netSide.Read(buf)
		if n > 0 {
			b.egress.Write(buf[:n])
			if b.notify != nil {
				b.notify()
			}
		}
		if err != nil {
			return
		}
	}
}

// pumpIn forwards whatever the real transport has delivered into ingress
// through to crypto/tls's side of the pipe, parking between batches until
// feedIngress or markIngressEOF wakes it.
func (b *bridge) pumpIn() {
	for {
		if data, ok := b.ingress.ReadAll(); ok {
			if _, err := b.netSide.Write(data); err != nil {
				return
			}
			continue
		}

		b.mu.Lock()
		eof := b.ingressEOF
		b.mu.Unlock()
		if eof {
			// Closing netSide makes appSide's pending and future Reads
			// observe io.EOF, the same signal a real closed net.Conn
			// would give crypto/tls.
			_ = b.netSide.Close()
			return
		}

		<-b.wake
	}
}

func (b *bridge) feedIngress(p []byte) {
	if len(p) == 0 {
		return
	}
	b.ingress.Write(p)
	b.wakePump()
}

func (b *bridge) markIngressEOF() {
	b.mu.Lock()
	b.ingressEOF = true
	b.mu.Unlock()
	b.wakePump()
}

func (b *bridge) wakePump() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// close tears down both pump goroutines. Safe to call more than once.
func (b *bridge) close() {
	_ = b.netSide.Close()
	_ = b.appSide.Close()
	// pumpIn may be parked on wake; marking EOF lets it observe the close.
	b.markIngressEOF()
}
