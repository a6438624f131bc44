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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sys/unix"

	"github.com/nabbar/reactor/rsocket"
)

var _ = Describe("Address", func() {
	Context("NewAddress", func() {
		It("parses a host:port pair", func() {
			addr, err := rsocket.NewAddress("127.0.0.1:8080")
			Expect(err).NotTo(HaveOccurred())
			Expect(addr.IP()).To(Equal("127.0.0.1"))
			Expect(addr.Port()).To(Equal(uint16(8080)))
			Expect(addr.IPPort()).To(Equal("127.0.0.1:8080"))
		})

		It("defaults to 0.0.0.0 when host is empty", func() {
			addr, err := rsocket.NewAddress(":9090")
			Expect(err).NotTo(HaveOccurred())
			Expect(addr.IP()).To(Equal("0.0.0.0"))
			Expect(addr.Port()).To(Equal(uint16(9090)))
		})

		It("rejects a missing port", func() {
			_, err := rsocket.NewAddress("127.0.0.1")
			Expect(err).To(HaveOccurred())
		})

		It("rejects an IPv6 literal", func() {
			_, err := rsocket.NewAddress("[::1]:8080")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("FromSockaddrInet4", func() {
		It("round-trips through String", func() {
			sa := &unix.SockaddrInet4{Port: 4040, Addr: [4]byte{10, 0, 0, 1}}
			addr := rsocket.FromSockaddrInet4(sa)
			Expect(addr.String()).To(Equal("10.0.0.1:4040"))
		})
	})
})
