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

// Package atomic wraps the standard library's atomic value behind a
// typed generic surface, so state like a connection's lifecycle enum
// can be read and compare-and-swapped without interface assertions at
// every call site.
package atomic

import "sync/atomic"

// Value is a typed atomic cell. The zero value of T is returned by Load
// before the first Store.
type Value[T comparable] interface {
	// Load returns the current value.
	Load() T

	// Store replaces the current value.
	Store(v T)

	// Swap replaces the current value and returns the previous one.
	Swap(v T) T

	// CompareAndSwap replaces the value with new only if it currently
	// equals old, reporting whether the swap happened.
	CompareAndSwap(old, new T) bool
}

// NewValue returns a Value initialized to the zero value of T.
func NewValue[T comparable]() Value[T] {
	v := &val[T]{}
	var zero T
	v.av.Store(box[T]{v: zero})
	return v
}

// box keeps the stored dynamic type constant across Store calls, which
// the underlying atomic.Value requires.
type box[T comparable] struct {
	v T
}

type val[T comparable] struct {
	av atomic.Value
}

func (o *val[T]) Load() T {
	return o.av.Load().(box[T]).v
}

func (o *val[T]) Store(v T) {
	o.av.Store(box[T]{v: v})
}

func (o *val[T]) Swap(v T) T {
	return o.av.Swap(box[T]{v: v}).(box[T]).v
}

func (o *val[T]) CompareAndSwap(old, new T) bool {
	return o.av.CompareAndSwap(box[T]{v: old}, box[T]{v: new})
}
