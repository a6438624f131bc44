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

// Package buffer provides the non-thread-safe, growable byte buffer that
// backs every TcpConnection's input and output queues. It reserves a small
// prepend region so callers can stamp a length-prefix header onto already
// buffered bytes without a copy, and its Buffer.ReadFd uses readv with a
// 64 KiB stack-allocated overflow buffer so most reads complete in a single
// syscall even when the Buffer's own writable region is small.
package buffer

// CheapPrepend is the number of bytes reserved before ReaderIndex so a
// caller can prepend a short header in place.
const CheapPrepend = 8

// InitialSize is the default writable capacity of a newly created Buffer.
const InitialSize = 1024

const extraBufSize = 65536

// Buffer is a growable byte queue with a cheap-prepend region. It is not
// safe for concurrent use: every Buffer belongs to exactly one
// TcpConnection, which is itself pinned to exactly one EventLoop goroutine.
type Buffer struct {
	buf    []byte
	reader int
	writer int
}

// New returns a Buffer with the given initial writable capacity. A
// non-positive size falls back to InitialSize.
func New(initialSize int) *Buffer {
	if initialSize <= 0 {
		initialSize = InitialSize
	}
	return &Buffer{
		buf:    make([]byte, CheapPrepend+initialSize),
		reader: CheapPrepend,
		writer: CheapPrepend,
	}
}

// ReadableBytes returns the number of bytes available to Peek/Retrieve.
func (b *Buffer) ReadableBytes() int {
	return b.writer - b.reader
}

// WritableBytes returns the number of bytes available to Append without
// growing the underlying slice.
func (b *Buffer) WritableBytes() int {
	return len(b.buf) - b.writer
}

// PrependableBytes returns the number of bytes currently free before the
// reader index, available to Prepend.
func (b *Buffer) PrependableBytes() int {
	return b.reader
}

// Peek returns the readable region without consuming it. The returned
// slice aliases the Buffer's storage and is invalidated by the next
// Append/Retrieve/EnsureWritable call.
func (b *Buffer) Peek() []byte {
	return b.buf[b.reader:b.writer]
}

// Retrieve advances the reader index by len, clamped to ReadableBytes.
func (b *Buffer) Retrieve(length int) {
	if length < b.ReadableBytes() {
		b.reader += length
	} else {
		b.RetrieveAll()
	}
}

// RetrieveAll resets both indices to the start of the writable region,
// discarding all readable bytes without zeroing the backing array.
func (b *Buffer) RetrieveAll() {
	b.reader = CheapPrepend
	b.writer = CheapPrepend
}

// RetrieveAllAsString drains the entire readable region and returns it.
func (b *Buffer) RetrieveAllAsString() string {
	return b.RetrieveAsString(b.ReadableBytes())
}

// RetrieveAsString drains length bytes from the readable region and
// returns them as a string.
func (b *Buffer) RetrieveAsString(length int) string {
	s := string(b.buf[b.reader : b.reader+length])
	b.Retrieve(length)
	return s
}

// EnsureWritableBytes grows or compacts the Buffer so WritableBytes() >= len.
func (b *Buffer) EnsureWritableBytes(length int) {
	if b.WritableBytes() < length {
		b.makeSpace(length)
	}
}

// BeginWrite returns the writable region's start. The returned slice
// aliases the Buffer's storage and is invalidated by the next mutation.
func (b *Buffer) BeginWrite() []byte {
	return b.buf[b.writer:]
}

// Append copies data into the writable region, growing the Buffer first
// if necessary, and advances the writer index.
func (b *Buffer) Append(data []byte) {
	b.EnsureWritableBytes(len(data))
	copy(b.buf[b.writer:], data)
	b.writer += len(data)
}

// Prepend writes data immediately before the readable region, into the
// cheap-prepend reserve. It panics if data does not fit in
// PrependableBytes — callers only ever prepend fixed-size headers smaller
// than CheapPrepend, so this is a programmer error, not a runtime
// condition to recover from.
func (b *Buffer) Prepend(data []byte) {
	b.reader -= len(data)
	copy(b.buf[b.reader:], data)
}

func (b *Buffer) makeSpace(length int) {
	if b.PrependableBytes()+b.WritableBytes() < length+CheapPrepend {
		grown := make([]byte, b.writer+length)
		copy(grown, b.buf[:b.writer])
		b.buf = grown
	} else {
		readable := b.ReadableBytes()
		copy(b.buf[CheapPrepend:], b.buf[b.reader:b.writer])
		b.reader = CheapPrepend
		b.writer = b.reader + readable
	}
}
