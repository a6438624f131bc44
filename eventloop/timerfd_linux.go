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
	"golang.org/x/sys/unix"

	"github.com/nabbar/reactor/timestamp"
)

// createTimerFd creates the single monotonic timer descriptor a
// TimerQueue multiplexes every application timer onto, mirroring
// TimerQueue::createTimerfd in the original source.
func createTimerFd() (int, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return -1, ErrorTimerfdCreate.Error(err)
	}
	return fd, nil
}

// armTimerFd re-arms fd to fire at when, clamped to at least
// minTimerLeadSeconds from now so an expiration already in the past
// still registers a fire instead of silently disarming the timer.
func armTimerFd(fd int, when timestamp.Timestamp) error {
	lead := when.Diff(timestamp.Now())
	if lead < minTimerLeadSeconds {
		lead = minTimerLeadSeconds
	}

	spec := unix.ItimerSpec{
		Value: unix.NsecToTimespec(int64(lead * float64(timestamp.MicroSecondsPerSecond) * 1000)),
	}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		return ErrorTimerfdSettime.Error(err)
	}
	return nil
}

// readTimerFd drains the overrun counter so the descriptor stops
// reporting readable until the next expiration.
func readTimerFd(fd int) error {
	var buf [8]byte
	n, err := unix.Read(fd, buf[:])
	if err != nil {
		if err == unix.EAGAIN {
			return nil
		}
		return ErrorTimerfdRead.Error(err)
	}
	if n != 8 {
		return ErrorTimerfdRead.Error(nil)
	}
	return nil
}

// closeTimerFd releases the timer descriptor.
func closeTimerFd(fd int) error {
	return unix.Close(fd)
}
