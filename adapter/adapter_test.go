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

package adapter_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/tlsbridge/adapter"
	"github.com/nabbar/tlsbridge/dispatch"
	"github.com/nabbar/tlsbridge/tlsconfig"
	"github.com/nabbar/tlsbridge/tlsconfig/certs"
)

func TestAdapter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "adapter Suite")
}

func selfSignedPair() certs.Pair {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).NotTo(HaveOccurred())

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{Organization: []string{"tlsbridge test"}},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(24 * time.Hour * 365),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"tlsbridge.test"},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	Expect(err).NotTo(HaveOccurred())

	keyDER, err := x509.MarshalECPrivateKey(key)
	Expect(err).NotTo(HaveOccurred())

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	pair, err := certs.ParsePair(string(keyPEM), string(certPEM))
	Expect(err).NotTo(HaveOccurred())
	return pair
}

// trustPool builds an x509.CertPool trusting exactly the leaf certificate
// in pair, standing in for a real CA chain in these loopback tests.
func trustPool(pair certs.Pair) *x509.CertPool {
	leaf, err := x509.ParseCertificate(pair.TLS().Certificate[0])
	Expect(err).NotTo(HaveOccurred())

	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	return pool
}

// pumpOnce drains each adapter's egress into the other's ingress once,
// reporting whether anything moved.
func pumpOnce(client, server *adapter.Adapter) bool {
	moved := false
	if b, ok := client.Egress().ReadAll(); ok {
		server.FeedCiphertext(b)
		moved = true
	}
	if b, ok := server.Egress().ReadAll(); ok {
		client.FeedCiphertext(b)
		moved = true
	}
	return moved
}

// startPump launches a goroutine that keeps shuttling ciphertext between
// the two adapters' bridges, standing in for the channel engine's own
// ciphertext pump without a real transport. Read/Write/Handshake now run
// on the adapter's own goroutines (see bridge.go), so unlike the old
// synchronous adapter this has to keep running concurrently with them
// rather than being driven in lockstep from the test goroutine. The
// returned stop func must be called once the test no longer needs it.
func startPump(client, server *adapter.Adapter) (stop func()) {
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				pumpOnce(client, server)
			}
		}
	}()
	return func() { close(done) }
}

var _ = Describe("client/server adapters over a simulated transport", func() {
	var client, server *adapter.Adapter

	BeforeEach(func() {
		pair := selfSignedPair()

		serverCfg := &tlsconfig.Config{Side: tlsconfig.SideServer, Certificates: []certs.Pair{pair}}
		clientCfg := &tlsconfig.Config{
			Side:       tlsconfig.SideClient,
			ServerName: "tlsbridge.test",
			RootCAs:    trustPool(pair),
		}

		client = adapter.New(clientCfg, nil)
		server = adapter.New(serverCfg, nil)
	})

	It("completes the handshake and exchanges application data both ways", func() {
		stop := startPump(client, server)
		defer stop()

		clientQ := dispatch.NewQueue()
		serverQ := dispatch.NewQueue()
		defer clientQ.Stop()
		defer serverQ.Stop()

		clientBuf := make([]byte, 4096)
		serverBuf := make([]byte, 4096)
		clientGot := make(chan string, 1)
		serverGot := make(chan string, 1)

		// The first Read on each side drives the handshake to completion
		// internally (crypto/tls.Conn.Read always does this before
		// touching application data) before it ever returns; it only
		// actually completes once the peer writes something.
		client.ReadPlaintext(clientBuf, clientQ, func(n int, err error) {
			Expect(err).NotTo(HaveOccurred())
			clientGot <- string(clientBuf[:n])
		})
		server.ReadPlaintext(serverBuf, serverQ, func(n int, err error) {
			Expect(err).NotTo(HaveOccurred())
			serverGot <- string(serverBuf[:n])
		})

		Eventually(client.HandshakeComplete, 5*time.Second, 5*time.Millisecond).Should(BeTrue())
		Eventually(server.HandshakeComplete, 5*time.Second, 5*time.Millisecond).Should(BeTrue())

		clientWrote := make(chan struct{})
		client.WritePlaintext([]byte("hello server"), clientQ, func(n int, err error) {
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(len("hello server")))
			close(clientWrote)
		})
		Eventually(clientWrote, 5*time.Second).Should(BeClosed())
		Eventually(serverGot, 5*time.Second).Should(Receive(Equal("hello server")))

		serverWrote := make(chan struct{})
		server.WritePlaintext([]byte("hello client"), serverQ, func(n int, err error) {
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(len("hello client")))
			close(serverWrote)
		})
		Eventually(serverWrote, 5*time.Second).Should(BeClosed())
		Eventually(clientGot, 5*time.Second).Should(Receive(Equal("hello client")))
	})

	It("does not complete a plaintext read until ciphertext actually arrives", func() {
		q := dispatch.NewQueue()
		defer q.Stop()

		buf := make([]byte, 16)
		fired := make(chan struct{})
		server.ReadPlaintext(buf, q, func(int, error) { close(fired) })

		// No pump is running and nothing has fed the server any
		// ciphertext, so the read must genuinely block rather than
		// complete (or busy-spin) on its own.
		Consistently(fired, 200*time.Millisecond, 10*time.Millisecond).ShouldNot(BeClosed())
	})
})
