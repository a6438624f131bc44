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
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/nabbar/reactor/timestamp"
)

// fallbackTimer backs createTimerFd on platforms without timerfd: a
// self-pipe stands in for the kernel descriptor, and a time.Timer writes
// one byte to it on expiration, the same shape as wakeup_other.go's
// self-pipe but single-shot and re-armed on every TimerQueue insert.
type fallbackTimer struct {
	mu      sync.Mutex
	writeFd int
	timer   *time.Timer
}

var fallbackTimers = struct {
	mu sync.Mutex
	m  map[int]*fallbackTimer
}{m: make(map[int]*fallbackTimer)}

// createTimerFd allocates the self-pipe used as this platform's timer
// descriptor.
func createTimerFd() (int, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return -1, ErrorTimerfdCreate.Error(err)
	}

	fallbackTimers.mu.Lock()
	fallbackTimers.m[fds[0]] = &fallbackTimer{writeFd: fds[1]}
	fallbackTimers.mu.Unlock()

	return fds[0], nil
}

// armTimerFd stops any pending fire and schedules a new one at when,
// clamped to at least minTimerLeadSeconds from now.
func armTimerFd(fd int, when timestamp.Timestamp) error {
	fallbackTimers.mu.Lock()
	ft := fallbackTimers.m[fd]
	fallbackTimers.mu.Unlock()
	if ft == nil {
		return ErrorTimerfdSettime.Error(nil)
	}

	lead := when.Diff(timestamp.Now())
	if lead < minTimerLeadSeconds {
		lead = minTimerLeadSeconds
	}
	d := time.Duration(lead * float64(time.Second))

	ft.mu.Lock()
	defer ft.mu.Unlock()

	if ft.timer != nil {
		ft.timer.Stop()
	}
	writeFd := ft.writeFd
	ft.timer = time.AfterFunc(d, func() {
		_, _ = unix.Write(writeFd, []byte{1})
	})
	return nil
}

// readTimerFd drains the self-pipe so it stops reporting readable.
func readTimerFd(fd int) error {
	var buf [64]byte
	for {
		n, err := unix.Read(fd, buf[:])
		if n <= 0 || err != nil {
			return nil
		}
	}
}

// closeTimerFd stops any pending fire and releases both pipe ends.
func closeTimerFd(fd int) error {
	fallbackTimers.mu.Lock()
	ft := fallbackTimers.m[fd]
	delete(fallbackTimers.m, fd)
	fallbackTimers.mu.Unlock()

	if ft != nil {
		ft.mu.Lock()
		if ft.timer != nil {
			ft.timer.Stop()
		}
		_ = unix.Close(ft.writeFd)
		ft.mu.Unlock()
	}
	return unix.Close(fd)
}
