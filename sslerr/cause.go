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

package sslerr

import "fmt"

// Kind classifies the internal reason a Cause was raised, mirroring the
// taxonomy in spec §7.
type Kind uint8

const (
	// KindUnknown is the zero Kind; never intentionally produced.
	KindUnknown Kind = iota
	// KindProtocol is a TLS-library protocol failure (alert, bad record, etc).
	KindProtocol
	// KindUnexpected is an engine return the adapter did not classify.
	KindUnexpected
	// KindUncleanClose is a transport close with no close-notify alert.
	KindUncleanClose
	// KindTransport is a transport-reported errno.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindProtocol:
		return "ssl_protocol_error"
	case KindUnexpected:
		return "unexpected_error"
	case KindUncleanClose:
		return "unclean_close"
	case KindTransport:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Cause is the internal, descriptive error value. It is never returned to a
// caller of the channel's public API: it collapses to EIO at the boundary
// (Errno below) and is only observable through structured logging.
type Cause struct {
	kind  Kind
	msg   string
	errno Errno
}

func (c *Cause) Error() string {
	if c.errno != OK {
		return fmt.Sprintf("%s: %s (errno %d)", c.kind, c.msg, c.errno)
	}
	return fmt.Sprintf("%s: %s", c.kind, c.msg)
}

// Kind returns the classification of the cause.
func (c *Cause) Kind() Kind { return c.kind }

// Errno returns the errno that should be surfaced at the channel boundary
// for this cause. Every Cause surfaces EIO (spec §7); TransportError keeps
// the originating errno around for logging even though EIO is what the
// caller sees.
func (c *Cause) Errno() Errno { return EIO }

// SourceErrno returns the originating transport errno for a KindTransport
// cause, or OK otherwise. For log enrichment only.
func (c *Cause) SourceErrno() Errno { return c.errno }

// NewProtocolError builds a Cause for a TLS protocol failure.
func NewProtocolError(msg string) *Cause {
	return &Cause{kind: KindProtocol, msg: msg}
}

// NewUnexpectedError builds a Cause for an unclassified engine return code.
func NewUnexpectedError(msg string) *Cause {
	return &Cause{kind: KindUnexpected, msg: msg}
}

// NewUncleanClose builds a Cause for a transport close with no close-notify.
func NewUncleanClose() *Cause {
	return &Cause{kind: KindUncleanClose, msg: "transport closed without a close_notify alert"}
}

// NewTransportError builds a Cause wrapping a transport-reported errno.
func NewTransportError(errno Errno) *Cause {
	return &Cause{kind: KindTransport, msg: "transport I/O failed", errno: errno}
}
