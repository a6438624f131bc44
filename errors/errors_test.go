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

package errors_test

import (
	stderrors "errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/reactor/errors"
)

const (
	errCodeFirst errors.CodeError = iota + errors.MinAvailable + 9000
	errCodeSecond
)

func testMessage(code errors.CodeError) string {
	switch code {
	case errCodeFirst:
		return "first test error"
	case errCodeSecond:
		return "second test error"
	}
	return ""
}

func init() {
	errors.RegisterIdFctMessage(errCodeFirst, testMessage)
}

var _ = Describe("CodeError", func() {
	It("resolves a registered code to its message", func() {
		Expect(errCodeFirst.GetMessage()).To(Equal("first test error"))
		Expect(errCodeSecond.GetMessage()).To(Equal("second test error"))
	})

	It("falls back to a placeholder for an unclaimed code", func() {
		var unknown errors.CodeError = 12345
		Expect(unknown.GetMessage()).To(ContainSubstring("unknown error code"))
	})

	It("mints an Error carrying the code and message", func() {
		e := errCodeFirst.Error(nil)
		Expect(e.GetCode()).To(Equal(errCodeFirst))
		Expect(e.IsCode(errCodeFirst)).To(BeTrue())
		Expect(e.IsCode(errCodeSecond)).To(BeFalse())
		Expect(e.Error()).To(Equal("first test error"))
	})

	It("ignores nil parents", func() {
		e := errCodeFirst.Error(nil)
		Expect(e.HasParent()).To(BeFalse())

		e.Add(nil, nil)
		Expect(e.HasParent()).To(BeFalse())
	})

	It("chains non-nil parents and renders them in the message", func() {
		cause := fmt.Errorf("underlying cause")

		e := errCodeFirst.Error(cause)
		Expect(e.HasParent()).To(BeTrue())
		Expect(e.GetParent()).To(HaveLen(1))
		Expect(e.Error()).To(ContainSubstring("underlying cause"))
	})

	It("exposes parents to the standard errors package", func() {
		cause := fmt.Errorf("root failure")

		e := errCodeSecond.Error(cause)
		Expect(stderrors.Is(e, cause)).To(BeTrue())
	})

	It("matches two coded errors by code through errors.Is", func() {
		a := errCodeFirst.Error(nil)
		b := errCodeFirst.Error(fmt.Errorf("other parent"))

		Expect(stderrors.Is(a, b)).To(BeTrue())
		Expect(stderrors.Is(a, errCodeSecond.Error(nil))).To(BeFalse())
	})
})
