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

// Package certs loads certificate/private-key pairs for the channel's
// in-memory TLS adapter. Certificate validation *policy* (hostname checks,
// chain trust decisions) is out of scope (spec §1 Non-goals); this package
// only does mechanical PEM loading, exactly like the teacher's certs
// sub-package does for the rest of the library's TLS surface.
package certs

import (
	"crypto/tls"
	"fmt"
	"os"
)

// Pair is a loaded certificate/key pair ready to hand to a tls.Config.
type Pair struct {
	cert tls.Certificate
}

// TLS returns the underlying tls.Certificate.
func (p Pair) TLS() tls.Certificate {
	return p.cert
}

// ParsePair builds a Pair from an in-memory PEM-encoded key and certificate.
func ParsePair(keyPEM, certPEM string) (Pair, error) {
	c, err := tls.X509KeyPair([]byte(certPEM), []byte(keyPEM))
	if err != nil {
		return Pair{}, fmt.Errorf("certs: parse pair: %w", err)
	}
	return Pair{cert: c}, nil
}

// LoadPairFiles builds a Pair by reading the key and certificate from disk.
func LoadPairFiles(keyFile, certFile string) (Pair, error) {
	key, err := os.ReadFile(keyFile)
	if err != nil {
		return Pair{}, fmt.Errorf("certs: read key file: %w", err)
	}
	crt, err := os.ReadFile(certFile)
	if err != nil {
		return Pair{}, fmt.Errorf("certs: read cert file: %w", err)
	}
	return ParsePair(string(key), string(crt))
}
