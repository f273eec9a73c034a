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

// Package tlsversion represents TLS protocol versions the channel engine is
// willing to negotiate. Versions below TLS 1.1 are rejected outright per
// spec §4.2 ("reject protocol versions older than TLS 1.1").
package tlsversion

import (
	"crypto/tls"
	"strings"
)

// Version wraps the crypto/tls version constants with parsing and a floor
// that excludes TLS 1.0.
type Version int

const (
	// VersionUnknown is the zero value: not a usable version.
	VersionUnknown Version = iota
	// VersionTLS11 is the minimum version this engine ever negotiates.
	VersionTLS11 = Version(tls.VersionTLS11)
	VersionTLS12 = Version(tls.VersionTLS12)
	VersionTLS13 = Version(tls.VersionTLS13)
)

// Floor is the lowest version the engine will ever configure, matching
// spec §4.2's "min_protocol = TLS 1.1".
const Floor = VersionTLS11

// List returns every supported version, highest first.
func List() []Version {
	return []Version{VersionTLS13, VersionTLS12, VersionTLS11}
}

func (v Version) String() string {
	switch v {
	case VersionTLS11:
		return "TLS 1.1"
	case VersionTLS12:
		return "TLS 1.2"
	case VersionTLS13:
		return "TLS 1.3"
	default:
		return "unknown"
	}
}

// Uint16 returns the crypto/tls numeric version, or 0 for VersionUnknown.
func (v Version) Uint16() uint16 {
	if v < Floor {
		return 0
	}
	return uint16(v)
}

// Valid reports whether v is at or above Floor.
func (v Version) Valid() bool {
	return v >= Floor
}

// Parse accepts the usual spellings ("1.2", "tls1.2", "TLSv1.2", "1_2", ...)
// and returns VersionUnknown if none match.
func Parse(s string) Version {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`"`, "", `'`, "", "tls", "", "ssl", "", "v", "", "-", ".", "_", ".").Replace(s)
	s = strings.TrimSpace(s)

	switch s {
	case "1.1":
		return VersionTLS11
	case "1.2":
		return VersionTLS12
	case "1.3":
		return VersionTLS13
	default:
		return VersionUnknown
	}
}
