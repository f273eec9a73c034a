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

// Package tlsconfig carries the configuration options spec §6 recognizes
// (side, ciphertext soft cap, minimum protocol version) plus the domain
// stack a real deployment of this engine needs on top: certificate
// loading, cipher-suite and curve preference, and client-auth mode —
// exactly the concerns the teacher's own certificates package configures,
// trimmed to what crypto/tls needs and renamed to fit this module.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"

	libval "github.com/go-playground/validator/v10"

	"github.com/nabbar/tlsbridge/ciphertext"
	"github.com/nabbar/tlsbridge/tlsconfig/certs"
	"github.com/nabbar/tlsbridge/tlsconfig/clientauth"
	"github.com/nabbar/tlsbridge/tlsconfig/tlsversion"
)

// Side selects which half of the handshake a channel plays.
type Side uint8

const (
	SideClient Side = iota
	SideServer
)

func (s Side) String() string {
	if s == SideServer {
		return "server"
	}
	return "client"
}

// Config is the full set of options recognized when constructing a
// channel's in-memory TLS adapter.
type Config struct {
	// Side selects client or server handshake behaviour.
	Side Side `validate:"oneof=0 1"`

	// CiphertextSoftCap is the advisory cap applied to both the ingress
	// and egress ciphertext buffers (spec §3, §6). Zero selects
	// ciphertext.DefaultSoftCap.
	CiphertextSoftCap int

	// MinProtocol is the lowest TLS version ever negotiated. It is
	// clamped up to tlsversion.Floor (TLS 1.1) if set lower, and defaults
	// to the floor if left at tlsversion.VersionUnknown.
	MinProtocol tlsversion.Version

	// MaxProtocol is the highest TLS version ever negotiated. Zero value
	// means "no ceiling" (crypto/tls picks its own maximum).
	MaxProtocol tlsversion.Version

	// Certificates are the identity certificate/key pairs this side
	// presents during the handshake. A server requires at least one; a
	// client only needs one when doing mutual TLS.
	Certificates []certs.Pair

	// RootCAs, when set, replaces the system root pool used to verify the
	// peer's certificate (client side) or the client certificate pool
	// (server side, combined with ClientAuth).
	RootCAs *x509.CertPool

	// ClientAuth controls whether/how a server demands a client
	// certificate. Ignored on the client side.
	ClientAuth clientauth.ClientAuth

	// CipherSuites restricts the negotiated cipher suite to this list. A
	// nil/empty list lets crypto/tls choose its own default set —
	// cipher-suite negotiation internals are delegated to crypto/tls per
	// spec §1 Non-goals; this field only narrows the candidate set.
	CipherSuites []uint16

	// CurvePreferences restricts the elliptic curves offered/accepted
	// during key exchange. Empty means crypto/tls's default list.
	CurvePreferences []tls.CurveID

	// ServerName is sent via SNI on the client side and used for
	// hostname verification; SNI *policy* (choosing which cert to
	// present per-name) is explicitly out of scope (spec §1 Non-goals),
	// so this is a passthrough value, not a callback.
	ServerName string
}

// Validate checks the structural constraints on Config (it does not open
// any certificate files or network connections).
func (c *Config) Validate() error {
	if err := libval.New().Struct(c); err != nil {
		if ve, ok := err.(libval.ValidationErrors); ok {
			return fmt.Errorf("tlsconfig: invalid configuration: %s", ve.Error())
		}
		return fmt.Errorf("tlsconfig: invalid configuration: %w", err)
	}

	if c.Side == SideServer && len(c.Certificates) == 0 {
		return fmt.Errorf("tlsconfig: server side requires at least one certificate pair")
	}

	min := c.minVersion()
	if c.MaxProtocol != tlsversion.VersionUnknown && c.MaxProtocol.Uint16() < min.Uint16() {
		return fmt.Errorf("tlsconfig: max protocol %s is below min protocol %s", c.MaxProtocol, min)
	}

	return nil
}

func (c *Config) minVersion() tlsversion.Version {
	if c.MinProtocol.Valid() {
		return c.MinProtocol
	}
	return tlsversion.Floor
}

// SoftCap returns the effective ciphertext soft cap for both buffers.
func (c *Config) SoftCap() int {
	if c.CiphertextSoftCap > 0 {
		return c.CiphertextSoftCap
	}
	return ciphertext.DefaultSoftCap
}

// TLS builds the *tls.Config the in-memory adapter hands to crypto/tls.
// Disabling partial writes and moving-write-buffer assumptions (spec
// §4.2) has no knob in crypto/tls: both behaviours are already how
// crypto/tls.Conn works, so there is nothing to set here for them — see
// DESIGN.md.
func (c *Config) TLS() *tls.Config {
	cfg := &tls.Config{
		MinVersion:       c.minVersion().Uint16(),
		CipherSuites:     c.CipherSuites,
		CurvePreferences: c.CurvePreferences,
		ServerName:       c.ServerName,
		RootCAs:          c.RootCAs,
		ClientCAs:        c.RootCAs,
		ClientAuth:       c.ClientAuth.TLS(),
	}
	if c.MaxProtocol.Valid() {
		cfg.MaxVersion = c.MaxProtocol.Uint16()
	}
	for _, p := range c.Certificates {
		cfg.Certificates = append(cfg.Certificates, p.TLS())
	}
	return cfg
}
