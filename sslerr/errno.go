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

// Package sslerr provides the error taxonomy used by the TLS channel engine.
//
// Two layers are kept deliberately apart:
//
//   - Errno is the only thing that ever crosses the public boundary: a
//     POSIX-errno-flavoured int32, sourced from golang.org/x/sys/unix so it
//     lines up with the real kernel error numbers a transport would report.
//   - Cause is the richer, internal-only classification of what actually
//     went wrong inside the TLS engine. Cause values are logged (see
//     tlslog) but never returned to a caller: the channel boundary is
//     errno-only by design (spec §7).
package sslerr

import "golang.org/x/sys/unix"

// Errno is a POSIX errno value. Zero means success.
type Errno int32

// OK is the zero errno: no error.
const OK Errno = 0

// EIO is the only TLS-originated error ever surfaced at the channel boundary.
const EIO = Errno(unix.EIO)

// Error implements the error interface so an Errno can be compared and
// wrapped like any other Go error when it needs to travel outside the
// channel's own callback-based surface (e.g. from Transport.Close).
func (e Errno) Error() string {
	if e == OK {
		return "success"
	}
	return unix.Errno(e).Error()
}

// IsZero reports whether the errno represents success.
func (e Errno) IsZero() bool {
	return e == OK
}
