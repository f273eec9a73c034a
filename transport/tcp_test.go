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

package transport_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/tlsbridge/dispatch"
	"github.com/nabbar/tlsbridge/sslerr"
	"github.com/nabbar/tlsbridge/transport"
)

func TestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "transport Suite")
}

var _ = Describe("TCP over a loopback pipe", func() {
	It("delivers a write as a read on the other side", func() {
		a, b := transport.NewLoopbackPair()
		defer a.Close(true)
		defer b.Close(true)

		q := dispatch.NewQueue()
		defer q.Stop()

		writeDone := make(chan sslerr.Errno, 1)
		a.Write(0, []byte("ping"), q, func(done bool, data []byte, errno sslerr.Errno) {
			Expect(done).To(BeTrue())
			writeDone <- errno
		})

		readDone := make(chan []byte, 1)
		b.Read(0, 16, q, func(done bool, data []byte, errno sslerr.Errno) {
			Expect(done).To(BeTrue())
			Expect(errno).To(Equal(sslerr.OK))
			readDone <- data
		})

		Eventually(writeDone, time.Second).Should(Receive(Equal(sslerr.OK)))
		Eventually(readDone, time.Second).Should(Receive(Equal([]byte("ping"))))
	})

	It("reports EOF as done=true, errno=OK, empty data", func() {
		a, b := transport.NewLoopbackPair()
		defer b.Close(true)

		readDone := make(chan []byte, 1)
		q := dispatch.NewQueue()
		defer q.Stop()

		b.Read(0, 16, q, func(done bool, data []byte, errno sslerr.Errno) {
			Expect(done).To(BeTrue())
			Expect(errno).To(Equal(sslerr.OK))
			readDone <- data
		})

		Expect(a.Close(true)).To(Succeed())
		Eventually(readDone, time.Second).Should(Receive(BeEmpty()))
	})

	It("a zero-length read/write completes immediately without touching the conn", func() {
		a, _ := transport.NewLoopbackPair()
		defer a.Close(true)
		q := dispatch.NewQueue()
		defer q.Stop()

		done := make(chan struct{})
		a.Read(0, 0, q, func(done_ bool, data []byte, errno sslerr.Errno) {
			Expect(done_).To(BeTrue())
			Expect(errno).To(Equal(sslerr.OK))
			close(done)
		})
		Eventually(done, time.Second).Should(BeClosed())

		done2 := make(chan struct{})
		a.Write(0, nil, q, func(done_ bool, data []byte, errno sslerr.Errno) {
			Expect(done_).To(BeTrue())
			close(done2)
		})
		Eventually(done2, time.Second).Should(BeClosed())
	})
})
