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

package ciphertext_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/tlsbridge/ciphertext"
)

func TestCiphertext(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ciphertext Suite")
}

var _ = Describe("Buffer", func() {
	It("defaults the soft cap when non-positive", func() {
		b := ciphertext.New(0)
		Expect(b.SoftCap()).To(Equal(ciphertext.DefaultSoftCap))
	})

	It("tracks used and available space across writes and reads", func() {
		b := ciphertext.New(16)
		Expect(b.AvailableSpace()).To(Equal(16))

		n := b.Write([]byte("hello"))
		Expect(n).To(Equal(5))
		Expect(b.UsedSpace()).To(Equal(5))
		Expect(b.AvailableSpace()).To(Equal(11))

		got, ok := b.Read(3)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal([]byte("hel")))
		Expect(b.UsedSpace()).To(Equal(2))
	})

	It("a batch write succeeds in full even past the soft cap", func() {
		b := ciphertext.New(4)
		n := b.Write([]byte("0123456789"))
		Expect(n).To(Equal(10))
		Expect(b.UsedSpace()).To(Equal(10))
		Expect(b.AvailableSpace()).To(Equal(0))
	})

	It("Read returns nil,false on an empty buffer", func() {
		b := ciphertext.New(4)
		got, ok := b.Read(10)
		Expect(ok).To(BeFalse())
		Expect(got).To(BeNil())
	})

	It("ReadAll drains everything at once", func() {
		b := ciphertext.New(4)
		b.Write([]byte("abcdef"))
		got, ok := b.ReadAll()
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal([]byte("abcdef")))
		Expect(b.UsedSpace()).To(Equal(0))
	})

	It("Read never returns more than requested", func() {
		b := ciphertext.New(4)
		b.Write([]byte("abcdef"))
		got, ok := b.Read(2)
		Expect(ok).To(BeTrue())
		Expect(got).To(Equal([]byte("ab")))
		rest, ok := b.Read(100)
		Expect(ok).To(BeTrue())
		Expect(rest).To(Equal([]byte("cdef")))
	})

	It("preserves FIFO order across interleaved writes and reads", func() {
		b := ciphertext.New(64)
		b.Write([]byte("aaa"))
		b.Write([]byte("bbb"))
		first, _ := b.Read(3)
		b.Write([]byte("ccc"))
		second, _ := b.ReadAll()
		Expect(first).To(Equal([]byte("aaa")))
		Expect(second).To(Equal([]byte("bbbccc")))
	})
})
