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

package channel_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/tlsbridge/channel"
	"github.com/nabbar/tlsbridge/sslerr"
)

var _ = Describe("channel registry", func() {
	It("makes an open channel findable by id, and removes it once cleanup fires", func() {
		p := newLoopbackPair()

		id := p.client.ID()
		found, ok := channel.Lookup(id)
		Expect(ok).To(BeTrue())
		Expect(found).To(BeIdenticalTo(p.client))

		// Pre-handshake, CloseWrite reports instantly complete (nothing to
		// flush yet), so even a forced close resolves clean rather than EIO.
		p.client.Close(true)
		Eventually(p.clientDone, 5*time.Second).Should(Receive(Equal(sslerr.OK)))

		_, ok = channel.Lookup(id)
		Expect(ok).To(BeFalse())
	})
})
