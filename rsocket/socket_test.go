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

package rsocket_test

import (
	stderrors "errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sys/unix"

	"github.com/nabbar/reactor/rsocket"
)

var _ = Describe("Socket", func() {
	It("binds, listens, and accepts a loopback connection", func() {
		addr, err := rsocket.NewAddress("127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		listener, err := rsocket.NewListenSocket()
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = listener.Close() }()

		Expect(listener.SetReuseAddr(true)).To(Succeed())
		Expect(listener.BindAddress(addr)).To(Succeed())
		Expect(listener.Listen()).To(Succeed())

		bound, err := listener.LocalAddress()
		Expect(err).NotTo(HaveOccurred())
		Expect(bound.Port()).NotTo(Equal(uint16(0)))

		client, err := rsocket.NewListenSocket()
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = client.Close() }()

		connectErr := unix.Connect(client.Fd(), &unix.SockaddrInet4{Port: int(bound.Port()), Addr: [4]byte{127, 0, 0, 1}})
		if connectErr != nil && !stderrors.Is(connectErr, unix.EINPROGRESS) {
			Expect(connectErr).NotTo(HaveOccurred())
		}

		Eventually(func() error {
			_, _, err := listener.Accept()
			return err
		}).Should(Succeed())
	})

	It("reports EAGAIN unwrapped when nothing is pending", func() {
		listener, err := rsocket.NewListenSocket()
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = listener.Close() }()

		addr, _ := rsocket.NewAddress("127.0.0.1:0")
		Expect(listener.BindAddress(addr)).To(Succeed())
		Expect(listener.Listen()).To(Succeed())

		_, _, err = listener.Accept()
		Expect(stderrors.Is(err, unix.EAGAIN)).To(BeTrue())
	})
})
