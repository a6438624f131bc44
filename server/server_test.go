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

package server_test

import (
	"io"
	"net"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/reactor/buffer"
	"github.com/nabbar/reactor/connection"
	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/server"
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

var _ = Describe("Server", func() {
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

	It("refuses to construct on an invalid configuration", func() {
		_, err := server.New(loop, server.Config{}, nil, nil)
		Expect(err).To(HaveOccurred())
	})

	It("echoes bytes back to the client and fires WriteComplete once", func() {
		cfg := server.Config{
			Name:          "echo",
			ListenAddress: "127.0.0.1:0",
			NumThreads:    1,
		}

		srv, err := server.New(loop, cfg, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		var writeCompletes int32
		srv.SetMessageCallback(func(c *connection.Connection, buf *buffer.Buffer, _ timestamp.Timestamp) {
			c.Send([]byte(buf.RetrieveAllAsString()))
		})
		srv.SetWriteCompleteCallback(func(*connection.Connection) {
			atomic.AddInt32(&writeCompletes, 1)
		})

		Expect(srv.Start()).To(Succeed())
		defer srv.Stop()

		la, err := srv.ListenAddress()
		Expect(err).NotTo(HaveOccurred())

		conn := dialEventually(la.IPPort())
		defer func() { _ = conn.Close() }()

		_, err = conn.Write([]byte("Hello"))
		Expect(err).NotTo(HaveOccurred())

		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		got := make([]byte, 5)
		_, err = io.ReadFull(conn, got)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(got)).To(Equal("Hello"))

		Eventually(func() int32 { return atomic.LoadInt32(&writeCompletes) }, time.Second).Should(Equal(int32(1)))
		Consistently(func() int32 { return atomic.LoadInt32(&writeCompletes) }, 100*time.Millisecond).Should(Equal(int32(1)))
	})

	It("tracks the connection count across connect and disconnect", func() {
		cfg := server.Config{
			Name:          "count",
			ListenAddress: "127.0.0.1:0",
		}

		srv, err := server.New(loop, cfg, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		connected := make(chan bool, 4)
		srv.SetConnectionCallback(func(c *connection.Connection) {
			connected <- c.Connected()
		})

		Expect(srv.Start()).To(Succeed())
		defer srv.Stop()

		la, err := srv.ListenAddress()
		Expect(err).NotTo(HaveOccurred())

		conn := dialEventually(la.IPPort())

		Eventually(connected, time.Second).Should(Receive(BeTrue()))
		Eventually(srv.ConnectionCount, time.Second).Should(Equal(1))

		Expect(conn.Close()).To(Succeed())

		Eventually(connected, time.Second).Should(Receive(BeFalse()))
		Eventually(srv.ConnectionCount, time.Second).Should(Equal(0))
	})

	It("is idempotent on Start", func() {
		cfg := server.Config{
			Name:          "idem",
			ListenAddress: "127.0.0.1:0",
		}

		srv, err := server.New(loop, cfg, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(srv.Start()).To(Succeed())
		defer srv.Stop()
		Expect(srv.Start()).To(Succeed())
	})
})
