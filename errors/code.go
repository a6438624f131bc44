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

// Package errors gives every package of this module a numeric error
// code space and a uniform coded-error value. Each package claims a
// block of codes offset from MinAvailable, registers a message function
// for its block at init, and mints Error values from its codes:
//
//	const (
//		ErrorSocketCreate errors.CodeError = iota + errors.MinAvailable + 200
//		ErrorSocketBind
//	)
//
//	func init() {
//		errors.RegisterIdFctMessage(ErrorSocketCreate, getMessage)
//	}
//
//	return ErrorSocketBind.Error(err)
//
// Callers can branch on the code of a received error without parsing
// its message, and the original cause stays attached as a parent.
package errors

import (
	"strconv"
	"sync"
)

// CodeError is one numeric error code. Codes below MinAvailable are
// reserved; each package starts its own block at MinAvailable plus a
// per-package offset so no two packages collide.
type CodeError uint16

// UnknownError is the zero code, returned when no code applies.
const UnknownError CodeError = 0

// MinAvailable is the first code usable by this module's packages.
const MinAvailable CodeError = 4000

// Message resolves one code of a registered block to its text. It must
// return the empty string for codes outside the block so the registry
// can try the next block.
type Message func(code CodeError) string

var (
	msgMu  sync.RWMutex
	msgFct []Message
)

// RegisterIdFctMessage registers the message function covering the
// block that starts at minCode. Intended to be called once per package,
// from init. The minCode parameter documents the block; resolution is
// by asking each registered function in turn.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	if fct == nil {
		return
	}

	msgMu.Lock()
	defer msgMu.Unlock()

	msgFct = append(msgFct, fct)
}

// GetMessage returns the registered text for the code, or a generic
// placeholder when no block claims it.
func (c CodeError) GetMessage() string {
	msgMu.RLock()
	defer msgMu.RUnlock()

	for _, f := range msgFct {
		if m := f(c); m != "" {
			return m
		}
	}

	return "unknown error code " + strconv.Itoa(int(c))
}

// GetUint16 returns the raw code value.
func (c CodeError) GetUint16() uint16 {
	return uint16(c)
}

// Error mints an Error carrying this code and its registered message,
// with every non-nil parent attached as a cause.
func (c CodeError) Error(parent ...error) Error {
	e := &ers{
		code:    c,
		message: c.GetMessage(),
	}
	e.Add(parent...)
	return e
}
