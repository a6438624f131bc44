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

package atomic_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libatm "github.com/nabbar/reactor/atomic"
)

var _ = Describe("Value", func() {
	It("loads the zero value before the first store", func() {
		v := libatm.NewValue[int]()
		Expect(v.Load()).To(Equal(0))
	})

	It("stores and loads", func() {
		v := libatm.NewValue[string]()
		v.Store("hello")
		Expect(v.Load()).To(Equal("hello"))
	})

	It("swaps and returns the previous value", func() {
		v := libatm.NewValue[int]()
		v.Store(1)
		Expect(v.Swap(2)).To(Equal(1))
		Expect(v.Load()).To(Equal(2))
	})

	It("compare-and-swaps only from the expected value", func() {
		v := libatm.NewValue[int]()
		v.Store(10)

		Expect(v.CompareAndSwap(99, 11)).To(BeFalse())
		Expect(v.Load()).To(Equal(10))

		Expect(v.CompareAndSwap(10, 11)).To(BeTrue())
		Expect(v.Load()).To(Equal(11))
	})

	It("admits exactly one winner among concurrent compare-and-swaps", func() {
		v := libatm.NewValue[int]()
		v.Store(0)

		var wg sync.WaitGroup
		wins := make(chan int, 8)

		for i := 1; i <= 8; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				if v.CompareAndSwap(0, n) {
					wins <- n
				}
			}(i)
		}

		wg.Wait()
		close(wins)

		var winners []int
		for n := range wins {
			winners = append(winners, n)
		}
		Expect(winners).To(HaveLen(1))
		Expect(v.Load()).To(Equal(winners[0]))
	})
})
