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

//go:build !linux

package eventloop

import (
	"golang.org/x/sys/unix"
)

// newWakeupFds falls back to a self-pipe on platforms without eventfd:
// the read end is the Channel fd, the write end is what Wakeup writes to.
func newWakeupFds() (readFd int, writeFd int, err error) {
	var fds [2]int
	if e := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); e != nil {
		return -1, -1, ErrorWakeupCreate.Error(e)
	}
	return fds[0], fds[1], nil
}

func writeWakeup(fd int) error {
	_, err := unix.Write(fd, []byte{1})
	return err
}

func readWakeup(fd int) error {
	var buf [64]byte
	for {
		n, err := unix.Read(fd, buf[:])
		if n <= 0 || err != nil {
			return nil
		}
	}
}

// closeWakeupFd releases both ends of the self-pipe.
func closeWakeupFd(readFd int, writeFd int) error {
	_ = unix.Close(writeFd)
	if writeFd != readFd {
		_ = unix.Close(readFd)
	}
	return nil
}
