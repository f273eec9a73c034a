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

package transport

import (
	"errors"
	"io"
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/nabbar/tlsbridge/sslerr"
	"github.com/nabbar/tlsbridge/xatomic"
)

// TCP adapts a net.Conn (almost always a *net.TCPConn, but anything
// implementing net.Conn works, including net.Pipe for tests) to the
// asynchronous Transport contract: every Read/Write spawns one goroutine
// that performs the blocking stdlib call and posts the completion back onto
// the caller-supplied Queue.
//
// This mirrors the ownership model the teacher's socket package uses for
// its own fd-owning client/server types: the Transport owns conn outright
// and is the only thing that ever touches it directly.
//
// Close races freely against the Read/Write goroutines below (there is no
// queue hop serializing them — unlike channel.Channel, a TCP's own Close
// can be called from any goroutine while a Read or Write is mid-flight), so
// the idempotent-close guard uses xatomic.Value rather than a channel-local
// mutex.
type TCP struct {
	conn   net.Conn
	closed *xatomic.Value[bool]
}

func boolEq(a, b bool) bool { return a == b }

// NewTCP wraps conn as a Transport.
func NewTCP(conn net.Conn) *TCP {
	return &TCP{conn: conn, closed: xatomic.NewValueWith(false)}
}

// FD is best-effort: most net.Conn implementations (including net.Pipe) do
// not expose a descriptor, so this returns 0 unless the concrete type does.
func (t *TCP) FD() uintptr {
	sc, ok := t.conn.(syscall.Conn)
	if !ok {
		return 0
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return 0
	}
	var fd uintptr
	if err := rc.Control(func(f uintptr) { fd = f }); err != nil {
		return 0
	}
	return fd
}

func (t *TCP) Read(_, length int, q Queue, handler Handler) {
	if handler == nil {
		return
	}
	if length <= 0 {
		q.Post(func() { handler(true, nil, sslerr.OK) })
		return
	}

	go func() {
		buf := make([]byte, length)
		n, err := t.conn.Read(buf)

		var (
			data  []byte
			errno sslerr.Errno
		)
		if n > 0 {
			data = buf[:n]
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				// EOF: done=true, data=nil (or the trailing bytes already
				// read), errno=OK — spec §6 "data=nil on read signals EOF".
				if n == 0 {
					data = nil
				}
			} else {
				errno = errnoFromErr(err)
			}
		}
		q.Post(func() { handler(true, data, errno) })
	}()
}

func (t *TCP) Write(_ int, data []byte, q Queue, handler Handler) {
	if handler == nil {
		return
	}
	if len(data) == 0 {
		q.Post(func() { handler(true, nil, sslerr.OK) })
		return
	}

	go func() {
		_, err := t.conn.Write(data)
		errno := errnoFromErr(err)
		q.Post(func() { handler(true, nil, errno) })
	}()
}

func (t *TCP) Close(force bool) error {
	if !t.closed.CompareAndSwap(false, true, boolEq) {
		return nil
	}

	if !force {
		// Best-effort half-close of the write side so a cooperative peer
		// observes an orderly EOF instead of a reset; ignored if conn
		// doesn't support it (e.g. net.Pipe).
		type closeWriter interface{ CloseWrite() error }
		if cw, ok := t.conn.(closeWriter); ok {
			_ = cw.CloseWrite()
		}
	}
	return t.conn.Close()
}

func (t *TCP) SetLowWater(int) {}

func errnoFromErr(err error) sslerr.Errno {
	if err == nil {
		return sslerr.OK
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return sslerr.Errno(errno)
	}
	return sslerr.Errno(unix.EIO)
}
