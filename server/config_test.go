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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/reactor/server"
)

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		cfg := server.Config{
			Name:          "test",
			ListenAddress: "127.0.0.1:9000",
			NumThreads:    2,
			HighWaterMark: 1024,
		}
		Expect(cfg.Validate()).To(BeNil())
	})

	It("rejects a missing name", func() {
		cfg := server.Config{
			ListenAddress: "127.0.0.1:9000",
		}
		Expect(cfg.Validate()).NotTo(BeNil())
	})

	It("rejects an address that does not parse", func() {
		cfg := server.Config{
			Name:          "test",
			ListenAddress: "no-port-here",
		}
		Expect(cfg.Validate()).NotTo(BeNil())
	})

	It("rejects a hostname, since no name resolution is performed", func() {
		cfg := server.Config{
			Name:          "test",
			ListenAddress: "localhost.example.invalid:9000",
		}
		Expect(cfg.Validate()).NotTo(BeNil())
	})

	It("rejects a negative thread count", func() {
		cfg := server.Config{
			Name:          "test",
			ListenAddress: "127.0.0.1:9000",
			NumThreads:    -1,
		}
		Expect(cfg.Validate()).NotTo(BeNil())
	})
})
