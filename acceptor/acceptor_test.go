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

package acceptor_test

import (
	"io"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sys/unix"

	"github.com/nabbar/reactor/acceptor"
	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/rsocket"
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

// dialEventually retries until the listener is armed, since Listen is
// scheduled onto the loop and may not have run yet.
func dialEventually(ipPort string) net.Conn {
	var conn net.Conn
	Eventually(func() error {
		c, err := net.DialTimeout("tcp", ipPort, 100*time.Millisecond)
		if err == nil {
			conn = c
		}
		return err
	}, time.Second).Should(Succeed())
	return conn
}

var _ = Describe("Acceptor", func() {
	var (
		loop *eventloop.EventLoop
		stop func()
		acc  *acceptor.Acceptor
	)

	BeforeEach(func() {
		loop, stop = runningLoop()

		addr, err := rsocket.NewAddress("127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		acc, err = acceptor.New(loop, addr, false, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		stop()
		_ = acc.Close()
	})

	It("resolves the kernel-assigned port after binding port 0", func() {
		la, err := acc.LocalAddress()
		Expect(err).NotTo(HaveOccurred())
		Expect(la.Port()).NotTo(BeZero())
		Expect(la.IP()).To(Equal("127.0.0.1"))
	})

	It("hands every accepted connection's fd and peer address to the sink", func() {
		type accepted struct {
			fd   int
			peer rsocket.Address
		}
		got := make(chan accepted, 4)

		acc.SetNewConnectionCallback(func(fd int, peer rsocket.Address) {
			got <- accepted{fd: fd, peer: peer}
		})

		loop.RunInLoop(func() { _ = acc.Listen() })
		Eventually(acc.Listening, time.Second).Should(BeTrue())

		la, err := acc.LocalAddress()
		Expect(err).NotTo(HaveOccurred())

		conn := dialEventually(la.IPPort())
		defer func() { _ = conn.Close() }()

		var a accepted
		Eventually(got, time.Second).Should(Receive(&a))
		Expect(a.fd).To(BeNumerically(">", 0))
		Expect(a.peer.IP()).To(Equal("127.0.0.1"))
		Expect(unix.Close(a.fd)).To(Succeed())
	})

	It("closes accepted connections when no sink is registered", func() {
		loop.RunInLoop(func() { _ = acc.Listen() })
		Eventually(acc.Listening, time.Second).Should(BeTrue())

		la, err := acc.LocalAddress()
		Expect(err).NotTo(HaveOccurred())

		conn := dialEventually(la.IPPort())
		defer func() { _ = conn.Close() }()

		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		buf := make([]byte, 1)
		_, err = conn.Read(buf)
		Expect(err).To(Equal(io.EOF))
	})
})
