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

package connection_test

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sys/unix"

	"github.com/nabbar/reactor/buffer"
	"github.com/nabbar/reactor/connection"
	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/rsocket"
	"github.com/nabbar/reactor/timestamp"
)

// socketpairLoop spins up a real EventLoop on its own goroutine and
// returns it along with a stop func, since Connection is loop-affine and
// cannot be driven synchronously from the test goroutine.
func socketpairLoop() (*eventloop.EventLoop, func()) {
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

var _ = Describe("Connection", func() {
	var (
		loop    *eventloop.EventLoop
		stop    func()
		fds     [2]int
		peerFd  int
		addr    rsocket.Address
	)

	BeforeEach(func() {
		var err error
		fds, err = unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
		Expect(err).NotTo(HaveOccurred())
		peerFd = fds[1]

		loop, stop = socketpairLoop()
		addr, _ = rsocket.NewAddress("127.0.0.1:0")
	})

	AfterEach(func() {
		stop()
		_ = unix.Close(peerFd)
	})

	It("delivers received bytes through the message callback", func() {
		var gotMsg atomic.Value

		c := connection.New(loop, "test-conn", fds[0], addr, addr, nil)
		c.SetMessageCallback(func(cn *connection.Connection, buf *buffer.Buffer, _ timestamp.Timestamp) {
			gotMsg.Store(buf.RetrieveAllAsString())
		})
		loop.RunInLoop(c.ConnectEstablished)

		Eventually(func() bool { return c.Connected() }).Should(BeTrue())

		_, err := unix.Write(peerFd, []byte("hello"))
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() interface{} {
			v := gotMsg.Load()
			if v == nil {
				return nil
			}
			return v
		}, time.Second).Should(Equal("hello"))
	})

	It("writes Send'd bytes out to the peer", func() {
		c := connection.New(loop, "test-conn", fds[0], addr, addr, nil)
		loop.RunInLoop(c.ConnectEstablished)
		Eventually(func() bool { return c.Connected() }).Should(BeTrue())

		c.Send([]byte("world"))

		buf := make([]byte, 16)
		Eventually(func() (int, error) {
			return unix.Read(peerFd, buf)
		}, time.Second).Should(Equal(5))
		Expect(string(buf[:5])).To(Equal("world"))
	})

	It("fires the close callback and transitions to disconnected on peer hangup", func() {
		closed := make(chan struct{})

		c := connection.New(loop, "test-conn", fds[0], addr, addr, nil)
		c.SetCloseCallback(func(cn *connection.Connection) {
			close(closed)
		})
		loop.RunInLoop(c.ConnectEstablished)
		Eventually(func() bool { return c.Connected() }).Should(BeTrue())

		Expect(unix.Close(peerFd)).To(Succeed())
		peerFd = -1

		Eventually(closed, time.Second).Should(BeClosed())
		Expect(c.State()).To(Equal(connection.StateDisconnected))
	})

	It("preserves send order across goroutines", func() {
		c := connection.New(loop, "test-conn", fds[0], addr, addr, nil)
		loop.RunInLoop(c.ConnectEstablished)
		Eventually(func() bool { return c.Connected() }).Should(BeTrue())

		c.Send([]byte("A"))
		c.Send([]byte("B"))

		got := make([]byte, 0, 2)
		buf := make([]byte, 2)
		Eventually(func() string {
			n, err := unix.Read(peerFd, buf)
			if err == nil && n > 0 {
				got = append(got, buf[:n]...)
			}
			return string(got)
		}, time.Second).Should(Equal("AB"))
	})

	It("fires the high-water-mark callback once per upward crossing", func() {
		const highWaterMark = 1024 * 1024

		var fires int32
		c := connection.New(loop, "test-conn", fds[0], addr, addr, nil)
		c.SetHighWaterMarkCallback(func(_ *connection.Connection, queued int) {
			atomic.AddInt32(&fires, 1)
			Expect(queued).To(BeNumerically(">=", highWaterMark))
		}, highWaterMark)
		loop.RunInLoop(c.ConnectEstablished)
		Eventually(func() bool { return c.Connected() }).Should(BeTrue())

		// The peer never reads, so the kernel buffer fills and the
		// second chunk lands entirely in the output buffer, crossing
		// the threshold exactly once.
		chunk := make([]byte, 700*1024)
		c.Send(chunk)
		c.Send(chunk)

		Eventually(func() int32 { return atomic.LoadInt32(&fires) }, time.Second).Should(Equal(int32(1)))
		Consistently(func() int32 { return atomic.LoadInt32(&fires) }, 100*time.Millisecond).Should(Equal(int32(1)))
	})

	It("delivers all queued bytes before the half-close reaches the peer", func() {
		const total = 1024 * 1024

		c := connection.New(loop, "test-conn", fds[0], addr, addr, nil)
		loop.RunInLoop(c.ConnectEstablished)
		Eventually(func() bool { return c.Connected() }).Should(BeTrue())

		c.Send(make([]byte, total))
		c.Shutdown()

		read := 0
		buf := make([]byte, 64*1024)
		Eventually(func() bool {
			n, err := unix.Read(peerFd, buf)
			if n > 0 {
				read += n
				return false
			}
			// EOF from shutdown(WR) must only show up after every
			// queued byte has been drained.
			return err == nil && n == 0
		}, 5*time.Second, time.Millisecond).Should(BeTrue())

		Expect(read).To(Equal(total))
	})
})
