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

// Package shutdown implements the channel's half-close state machine.
// It owns no I/O itself — the channel engine drives it by reporting the
// outcome of each shutdown attempt (sent the alert, still pending, or
// observed the peer's close_notify) and acts on the returned Effect.
// This mirrors the two-phase shutdown idiom the brk0v/openssl wrapper
// uses around SSL_shutdown: one call sends the alert, a second may
// acknowledge the peer's alert if it arrived in the interim.
package shutdown

// State is the half-close state of a channel.
type State uint8

const (
	// Open: no shutdown requested yet.
	Open State = iota
	// Requested: close() was called; a shutdown attempt is pending.
	Requested
	// Sent: a close-notify alert was sent; waiting for the peer's own
	// close-notify (or for a forced second attempt) before Closed.
	Sent
	// Closed: the channel is fully torn down.
	Closed
)

func (s State) String() string {
	switch s {
	case Requested:
		return "shutdown-requested"
	case Sent:
		return "shutdown-sent"
	case Closed:
		return "closed"
	default:
		return "open"
	}
}

// Effect is the side-effect the channel engine must perform after a
// transition. The zero value means "no side-effect".
type Effect uint8

const (
	EffectNone Effect = iota
	// EffectCloseClean: close the transport and fire cleanup(0).
	EffectCloseClean
	// EffectCloseError: close (stop) the transport and fire cleanup(EIO).
	EffectCloseError
)

// FSM is the shutdown state machine for a single channel. It is not
// safe for concurrent use; callers run it on the channel's serial queue.
type FSM struct {
	state State
	force bool
	// readClosed records that the peer's close_notify was observed
	// (plaintext read/write returned 0) without yet being forced to
	// Closed — the half-close case: the host may keep writing until it
	// calls Close itself.
	readClosed bool
}

// New returns an FSM starting in Open.
func New() *FSM { return &FSM{} }

// State returns the current state.
func (f *FSM) State() State { return f.state }

// ReadClosed reports whether the peer's close_notify has been observed.
func (f *FSM) ReadClosed() bool { return f.readClosed }

// RequestClose handles the public close(force) call. Per spec, ShutdownSent
// ignores a plain close, but a forced close during ShutdownSent is treated
// as advancing the existing shutdown attempt rather than being silently
// dropped (documented open-question resolution, see DESIGN.md).
func (f *FSM) RequestClose(force bool) {
	switch f.state {
	case Open:
		f.state = Requested
		f.force = force
	case Requested:
		if force {
			f.force = true
		}
	case Sent:
		if force {
			f.force = true
		}
	case Closed:
		// ignored
	}
}

// ShouldAttemptShutdown reports whether the channel should currently be
// calling the adapter's shutdown() as part of a step.
func (f *FSM) ShouldAttemptShutdown() bool {
	return f.state == Requested || (f.state == Sent && f.force)
}

// ShutdownComplete handles the adapter reporting shutdown() == true (the
// close-notify exchange is fully done from our side).
func (f *FSM) ShutdownComplete() Effect {
	if f.state == Closed {
		return EffectNone
	}
	f.state = Closed
	return EffectCloseClean
}

// ShutdownPending handles the adapter reporting shutdown() == false (more
// I/O needed before it's done).
func (f *FSM) ShutdownPending() Effect {
	switch f.state {
	case Requested:
		if f.force {
			f.state = Closed
			return EffectCloseError
		}
		f.state = Sent
		return EffectNone
	case Sent:
		if f.force {
			f.state = Closed
			return EffectCloseError
		}
		return EffectNone
	default:
		return EffectNone
	}
}

// NoteCloseNotify handles the peer's close_notify being observed
// (plaintext read/write returning 0).
func (f *FSM) NoteCloseNotify() Effect {
	switch f.state {
	case Sent, Closed:
		if f.state == Closed {
			return EffectNone
		}
		f.state = Closed
		return EffectCloseClean
	default:
		f.readClosed = true
		return EffectNone
	}
}

// Abort forces the channel terminally closed following a latched
// transport or protocol error. The transition table technically leaves
// the shutdown state "unchanged" on a transport error (see spec §4.4),
// but a latched error makes the channel unusable regardless of
// shutdown progress, so the channel engine converges it to Closed here
// rather than leaving it stuck mid-handshake or mid-shutdown forever.
func (f *FSM) Abort() Effect {
	if f.state == Closed {
		return EffectNone
	}
	f.state = Closed
	return EffectCloseError
}
