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

//go:build linux

package eventloop

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// newWakeupFds creates the eventfd used to pull the loop's goroutine out
// of a blocking Poll call from another goroutine. The same descriptor
// serves as both the readable Channel fd and the fd Wakeup writes to.
func newWakeupFds() (readFd int, writeFd int, err error) {
	fd, e := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if e != nil {
		return -1, -1, ErrorWakeupCreate.Error(e)
	}
	return fd, fd, nil
}

func writeWakeup(fd int) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	n, err := unix.Write(fd, buf[:])
	if err != nil {
		return err
	}
	if n != 8 {
		return ErrorWakeupWrite.Error(nil)
	}
	return nil
}

func readWakeup(fd int) error {
	var buf [8]byte
	n, err := unix.Read(fd, buf[:])
	if err != nil {
		return err
	}
	if n != 8 {
		return ErrorWakeupRead.Error(nil)
	}
	return nil
}

// closeWakeupFd releases the eventfd; both ends are the same descriptor.
func closeWakeupFd(readFd int, _ int) error {
	return unix.Close(readFd)
}
