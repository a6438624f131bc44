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

	"github.com/nabbar/reactor/timestamp"
)

// PollPoller is the portable Poller backend for platforms without epoll,
// built on poll(2). It re-scans every registered Channel's interest set
// into a fresh pollfd slice on each call rather than maintaining kernel
// side state, since poll(2) has no incremental registration primitive.
type PollPoller struct {
	channels map[int]*Channel
}

// NewPoller returns the platform default Poller: PollPoller outside Linux.
func NewPoller() (Poller, error) {
	return &PollPoller{channels: make(map[int]*Channel)}, nil
}

func toPollEvents(e Event) int16 {
	var m int16
	if e&EventRead != 0 {
		m |= unix.POLLIN | unix.POLLPRI
	}
	if e&EventWrite != 0 {
		m |= unix.POLLOUT
	}
	return m
}

func fromPollEvents(m int16) Event {
	var e Event
	if m&(unix.POLLIN|unix.POLLPRI) != 0 {
		e |= EventRead
	}
	if m&unix.POLLOUT != 0 {
		e |= EventWrite
	}
	if m&unix.POLLERR != 0 {
		e |= EventErr
	}
	if m&unix.POLLHUP != 0 {
		e |= EventHup
	}
	return e
}

// Poll blocks in poll(2) for up to timeoutMs milliseconds.
func (p *PollPoller) Poll(timeoutMs int, activeChannels *ChannelList) (timestamp.Timestamp, error) {
	fds := make([]unix.PollFd, 0, len(p.channels))
	order := make([]*Channel, 0, len(p.channels))

	for _, ch := range p.channels {
		fds = append(fds, unix.PollFd{Fd: int32(ch.Fd()), Events: toPollEvents(ch.Events())})
		order = append(order, ch)
	}

	n, err := unix.Poll(fds, timeoutMs)
	now := timestamp.Now()

	if err != nil {
		if err == unix.EINTR {
			return now, nil
		}
		return now, ErrorPollerWait.Error(err)
	}

	if n > 0 {
		for i, fd := range fds {
			if fd.Revents != 0 {
				order[i].SetRevents(fromPollEvents(fd.Revents))
				*activeChannels = append(*activeChannels, order[i])
			}
		}
	}

	return now, nil
}

// UpdateChannel registers ch or marks it idle once its interest set is
// empty, matching EpollPoller's kNew/kAdded/kDeleted bookkeeping even
// though poll(2) itself has no incremental registration to push.
func (p *PollPoller) UpdateChannel(ch *Channel) error {
	if ch.IsNoneEvent() {
		if ch.Index() == IndexAdded {
			ch.SetIndex(IndexDeleted)
		}
		return nil
	}
	if ch.Index() != IndexAdded {
		ch.SetIndex(IndexAdded)
	}
	p.channels[ch.Fd()] = ch
	return nil
}

// RemoveChannel unregisters ch, returning it to IndexNew.
func (p *PollPoller) RemoveChannel(ch *Channel) error {
	delete(p.channels, ch.Fd())
	ch.SetIndex(IndexNew)
	return nil
}

// HasChannel reports whether ch is currently tracked by this poller.
func (p *PollPoller) HasChannel(ch *Channel) bool {
	c, ok := p.channels[ch.Fd()]
	return ok && c == ch
}

// Close is a no-op: PollPoller owns no descriptor of its own.
func (p *PollPoller) Close() error {
	return nil
}
