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

package errors

import "strings"

// Error is a coded error with an optional chain of parent causes. It
// satisfies the standard error interface, and Unwrap exposes the
// parents to errors.Is / errors.As.
type Error interface {
	error

	// GetCode returns the code this Error was minted from.
	GetCode() CodeError

	// IsCode reports whether this Error carries the given code.
	IsCode(code CodeError) bool

	// Add attaches every non-nil parent as a cause. Nil entries are
	// ignored so call sites can pass through a possibly-nil error.
	Add(parent ...error)

	// HasParent reports whether at least one cause is attached.
	HasParent() bool

	// GetParent returns the attached causes in insertion order.
	GetParent() []error

	// Unwrap exposes the causes to the standard errors package.
	Unwrap() []error
}

type ers struct {
	code    CodeError
	message string
	parent  []error
}

func (e *ers) Error() string {
	if len(e.parent) == 0 {
		return e.message
	}

	s := make([]string, 0, len(e.parent)+1)
	s = append(s, e.message)
	for _, p := range e.parent {
		s = append(s, p.Error())
	}

	return strings.Join(s, ", ")
}

func (e *ers) GetCode() CodeError {
	return e.code
}

func (e *ers) IsCode(code CodeError) bool {
	return e.code == code
}

func (e *ers) Add(parent ...error) {
	for _, p := range parent {
		if p == nil {
			continue
		}
		e.parent = append(e.parent, p)
	}
}

func (e *ers) HasParent() bool {
	return len(e.parent) > 0
}

func (e *ers) GetParent() []error {
	return append([]error(nil), e.parent...)
}

func (e *ers) Unwrap() []error {
	return e.GetParent()
}

// Is lets errors.Is match two coded errors by code alone, so a caller
// can write errors.Is(err, ErrorSocketBind.Error()) without the
// message or parents mattering.
func (e *ers) Is(target error) bool {
	if t, ok := target.(Error); ok {
		return t.GetCode() == e.code
	}
	return false
}
