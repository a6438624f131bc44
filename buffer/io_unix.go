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

//go:build linux || darwin || freebsd || netbsd || openbsd

package buffer

import (
	"golang.org/x/sys/unix"
)

// ReadFd drains a single readv(2) worth of data from fd into the Buffer.
// A 64KB stack buffer backs the iovec that overflows past the Buffer's own
// writable region so large reads cost one syscall instead of a
// read/grow/read loop. One call reads at most the writable region plus
// 64KB; since the poller runs level-triggered, bytes still queued in the
// socket are reported readable again on the next poll.
func (b *Buffer) ReadFd(fd int) (n int, savedErrno error) {
	var extrabuf [extraBufSize]byte

	writable := b.WritableBytes()

	iovs := [][]byte{b.buf[b.writer:]}
	if writable < extraBufSize {
		iovs = append(iovs, extrabuf[:])
	}

	nn, err := unix.Readv(fd, iovs)
	if err != nil {
		return 0, err
	}

	switch {
	case nn <= writable:
		b.writer += nn
	default:
		b.writer = len(b.buf)
		b.Append(extrabuf[:nn-writable])
	}

	return nn, nil
}

// WriteFd writes the entire readable region to fd in one write(2) call.
// It does not retry on a short write — callers (TcpConnection) are
// responsible for retrying the remainder once the fd is writable again.
func (b *Buffer) WriteFd(fd int) (n int, savedErrno error) {
	nn, err := unix.Write(fd, b.Peek())
	if err != nil {
		return 0, err
	}
	return nn, nil
}
