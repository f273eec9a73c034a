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

package dispatch_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/tlsbridge/dispatch"
)

func TestDispatch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "dispatch Suite")
}

var _ = Describe("Queue", func() {
	It("runs posted work in order", func() {
		q := dispatch.NewQueue()
		defer q.Stop()

		var order []int
		done := make(chan struct{})
		for i := 0; i < 5; i++ {
			n := i
			q.Post(func() {
				order = append(order, n)
				if n == 4 {
					close(done)
				}
			})
		}
		Eventually(done, time.Second).Should(BeClosed())
		Expect(order).To(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("never runs two posted closures concurrently", func() {
		q := dispatch.NewQueue()
		defer q.Stop()

		var running, maxConcurrent int32
		done := make(chan struct{})
		for i := 0; i < 20; i++ {
			last := i == 19
			q.Post(func() {
				running++
				if running > maxConcurrent {
					maxConcurrent = running
				}
				running--
				if last {
					close(done)
				}
			})
		}
		Eventually(done, time.Second).Should(BeClosed())
		Expect(maxConcurrent).To(Equal(int32(1)))
	})

	It("drains queued work before Wait returns after Stop", func() {
		q := dispatch.NewQueue()
		var ran bool
		q.Post(func() { ran = true })
		q.Stop()
		q.Wait()
		Expect(ran).To(BeTrue())
	})
})
