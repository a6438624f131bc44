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

package pool_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/pool"
	"github.com/nabbar/reactor/timestamp"
)

var _ = Describe("Pool", func() {
	var base *eventloop.EventLoop

	BeforeEach(func() {
		var err error
		base, err = eventloop.New(timestamp.SystemClock)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = base.Close()
	})

	It("falls back to the base loop with zero workers", func() {
		p := pool.New(base, "single", 0, nil)
		Expect(p.Start(nil)).To(Succeed())

		Expect(p.GetNextLoop("any-key")).To(BeIdenticalTo(base))
		Expect(p.GetAllLoops()).To(ConsistOf(base))
	})

	It("spawns numThreads workers and assigns keys consistently", func() {
		p := pool.New(base, "worker-", 3, nil)
		Expect(p.Start(nil)).To(Succeed())
		defer p.Stop()

		loops := p.GetAllLoops()
		Expect(loops).To(HaveLen(3))

		for _, l := range loops {
			defer func(l *eventloop.EventLoop) { _ = l.Close() }(l)
		}

		first := p.GetNextLoop("stable-key")
		for i := 0; i < 10; i++ {
			Expect(p.GetNextLoop("stable-key")).To(BeIdenticalTo(first))
		}
	})

	It("spreads distinct keys across more than one worker", func() {
		p := pool.New(base, "worker-", 4, nil)
		Expect(p.Start(nil)).To(Succeed())
		defer p.Stop()

		for _, l := range p.GetAllLoops() {
			defer func(l *eventloop.EventLoop) { _ = l.Close() }(l)
		}

		seen := map[*eventloop.EventLoop]bool{}
		for i := 0; i < 64; i++ {
			seen[p.GetNextLoop(fmt.Sprintf("key-%d", i))] = true
		}
		Expect(len(seen)).To(BeNumerically(">", 1))
	})
})
