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

// Package clientauth names a server's client-certificate policy the way
// the rest of this module names its enums: a small string-parseable type
// wrapping the crypto/tls constant, rather than the raw tls.ClientAuthType
// leaking into configuration files.
package clientauth

import (
	"crypto/tls"
	"strings"
)

// ClientAuth mirrors tls.ClientAuthType with friendlier parsing/printing.
type ClientAuth tls.ClientAuthType

const (
	None             = ClientAuth(tls.NoClientCert)
	Request          = ClientAuth(tls.RequestClientCert)
	RequireAny       = ClientAuth(tls.RequireAnyClientCert)
	VerifyIfGiven    = ClientAuth(tls.VerifyClientCertIfGiven)
	RequireAndVerify = ClientAuth(tls.RequireAndVerifyClientCert)
)

// List returns every recognized client-auth mode.
func List() []ClientAuth {
	return []ClientAuth{None, Request, RequireAny, VerifyIfGiven, RequireAndVerify}
}

// TLS returns the underlying tls.ClientAuthType.
func (c ClientAuth) TLS() tls.ClientAuthType {
	return tls.ClientAuthType(c)
}

// Code returns the short machine-readable spelling ("none", "request",
// "require-any", "verify-if-given", "strict").
func (c ClientAuth) Code() string {
	switch c {
	case Request:
		return "request"
	case RequireAny:
		return "require-any"
	case VerifyIfGiven:
		return "verify-if-given"
	case RequireAndVerify:
		return "strict"
	default:
		return "none"
	}
}

// String returns a human-readable label.
func (c ClientAuth) String() string {
	switch c {
	case Request:
		return "request client cert"
	case RequireAny:
		return "require any client cert"
	case VerifyIfGiven:
		return "verify client cert if given"
	case RequireAndVerify:
		return "require and verify client cert (strict)"
	default:
		return "no client cert"
	}
}

// ParseInt maps a raw tls.ClientAuthType value to a ClientAuth, falling
// back to None for anything out of range.
func ParseInt(v int) ClientAuth {
	switch tls.ClientAuthType(v) {
	case tls.RequestClientCert:
		return Request
	case tls.RequireAnyClientCert:
		return RequireAny
	case tls.VerifyClientCertIfGiven:
		return VerifyIfGiven
	case tls.RequireAndVerifyClientCert:
		return RequireAndVerify
	default:
		return None
	}
}

// Parse accepts the usual spellings ("strict", "require and verify",
// "REQUIRE AND VERIFY", "request", "require-any", "verify-if-given",
// "none", "", or anything unrecognized) and returns None unless the
// input matches one of the non-default modes.
func Parse(s string) ClientAuth {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	switch s {
	case "strict", "require and verify", "require verify":
		return RequireAndVerify
	case "verify if given", "verify given":
		return VerifyIfGiven
	case "require any", "require":
		return RequireAny
	case "request":
		return Request
	default:
		return None
	}
}
