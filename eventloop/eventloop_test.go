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

package eventloop_test

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/timestamp"
)

func runningLoop() (*eventloop.EventLoop, func()) {
	loop, err := eventloop.New(timestamp.SystemClock)
	Expect(err).NotTo(HaveOccurred())

	done := make(chan struct{})
	go func() {
		_ = loop.Loop()
		close(done)
	}()

	return loop, func() {
		loop.Quit()
		<-done
		_ = loop.Close()
	}
}

var _ = Describe("EventLoop", func() {
	var (
		loop *eventloop.EventLoop
		stop func()
	)

	BeforeEach(func() {
		loop, stop = runningLoop()
	})

	AfterEach(func() {
		stop()
	})

	It("runs a QueueInLoop functor exactly once", func() {
		var calls int32
		loop.QueueInLoop(func() { atomic.AddInt32(&calls, 1) })

		Eventually(func() int32 { return atomic.LoadInt32(&calls) }, time.Second).Should(Equal(int32(1)))
		Consistently(func() int32 { return atomic.LoadInt32(&calls) }, 100*time.Millisecond).Should(Equal(int32(1)))
	})

	It("fires RunAfter once after the delay elapses", func() {
		fired := make(chan struct{})
		loop.RunAfter(0.02, func() { close(fired) })

		Eventually(fired, time.Second).Should(BeClosed())
	})

	It("fires RunEvery repeatedly until cancelled", func() {
		var count int32
		id := loop.RunEvery(0.01, func() { atomic.AddInt32(&count, 1) })

		Eventually(func() int32 { return atomic.LoadInt32(&count) }, time.Second).Should(BeNumerically(">=", 3))

		loop.CancelTimer(id)
		n := atomic.LoadInt32(&count)
		Consistently(func() int32 { return atomic.LoadInt32(&count) }, 100*time.Millisecond).Should(BeNumerically("<=", n+1))
	})

	It("reports PollReturnTime as valid once the loop has polled", func() {
		// An idle loop blocks in Poll for up to 10s; queueing a functor
		// writes the wakeup fd so the first Poll returns promptly.
		loop.QueueInLoop(func() {})
		Eventually(func() bool { return loop.PollReturnTime().Valid() }, time.Second).Should(BeTrue())
	})

	It("runs timers with earlier deadlines first", func() {
		var mu sync.Mutex
		var order []string

		record := func(tag string) func() {
			return func() {
				mu.Lock()
				order = append(order, tag)
				mu.Unlock()
			}
		}

		loop.RunAfter(0.05, record("late"))
		loop.RunAfter(0.01, record("early"))
		loop.RunAfter(0.03, record("middle"))

		Eventually(func() []string {
			mu.Lock()
			defer mu.Unlock()
			return append([]string(nil), order...)
		}, time.Second).Should(Equal([]string{"early", "middle", "late"}))
	})

	It("does not re-arm a repeating timer cancelled from its own callback", func() {
		var count int32
		var id eventloop.TimerID

		ready := make(chan struct{})
		loop.QueueInLoop(func() {
			id = loop.RunEvery(0.01, func() {
				if atomic.AddInt32(&count, 1) == 1 {
					loop.CancelTimer(id)
				}
			})
			close(ready)
		})
		Eventually(ready, time.Second).Should(BeClosed())

		Eventually(func() int32 { return atomic.LoadInt32(&count) }, time.Second).Should(Equal(int32(1)))
		Consistently(func() int32 { return atomic.LoadInt32(&count) }, 100*time.Millisecond).Should(Equal(int32(1)))
	})
})
