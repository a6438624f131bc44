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

package logsink_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/reactor/logger"
	"github.com/nabbar/reactor/logsink"
)

// fileSink builds a Sink whose records land in a file the test can read
// back, stdout stays quiet.
func fileSink(path string) logsink.Sink {
	l := logger.New(context.Background())
	l.SetLevel(logger.DebugLevel)

	Expect(l.SetOptions(&logger.Options{
		DisableStandard: true,
		DisableColor:    true,
		LogFilePath:     path,
		LogFileCreate:   true,
	})).To(BeNil())

	return logsink.NewLogger(l)
}

var _ = Describe("Sink", func() {
	It("discards silently", func() {
		Expect(func() {
			logsink.Discard.Errorf("nothing to see", logsink.Fields{"k": "v"}, fmt.Errorf("boom"))
		}).NotTo(Panic())
	})

	It("writes fields and message through to the logger", func() {
		path := filepath.Join(GinkgoT().TempDir(), "sink.log")
		s := fileSink(path)

		s.Infof("new connection", logsink.Fields{"conn": "echo-127.0.0.1:9#1"})

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("new connection"))
		Expect(string(data)).To(ContainSubstring("echo-127.0.0.1:9#1"))
	})

	It("attaches error args to the record", func() {
		path := filepath.Join(GinkgoT().TempDir(), "sinkerr.log")
		s := fileSink(path)

		s.Errorf("write failed", logsink.Fields{"conn": "c1"}, fmt.Errorf("broken pipe"))

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("write failed"))
		Expect(string(data)).To(ContainSubstring("broken pipe"))
	})
})
