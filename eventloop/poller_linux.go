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

const initEventListSize = 16

// EpollPoller is the Linux Poller backend, driving epoll_create1/
// epoll_ctl/epoll_wait directly through golang.org/x/sys/unix.
type EpollPoller struct {
	epollFd  int
	events   []unix.EpollEvent
	channels map[int]*Channel
}

// NewPoller returns the platform default Poller: EpollPoller on Linux.
func NewPoller() (Poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, ErrorPollerCreate.Error(err)
	}
	return &EpollPoller{
		epollFd:  fd,
		events:   make([]unix.EpollEvent, initEventListSize),
		channels: make(map[int]*Channel),
	}, nil
}

func toEpollEvents(e Event) uint32 {
	var m uint32
	if e&EventRead != 0 {
		m |= unix.EPOLLIN | unix.EPOLLPRI
	}
	if e&EventWrite != 0 {
		m |= unix.EPOLLOUT
	}
	return m
}

func fromEpollEvents(m uint32) Event {
	var e Event
	if m&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
		e |= EventRead
	}
	if m&unix.EPOLLOUT != 0 {
		e |= EventWrite
	}
	if m&unix.EPOLLERR != 0 {
		e |= EventErr
	}
	if m&unix.EPOLLHUP != 0 {
		e |= EventHup
	}
	return e
}

// Poll blocks in epoll_wait for up to timeoutMs milliseconds.
func (p *EpollPoller) Poll(timeoutMs int, activeChannels *ChannelList) (timestamp.Timestamp, error) {
	n, err := unix.EpollWait(p.epollFd, p.events, timeoutMs)
	now := timestamp.Now()

	if err != nil {
		if err == unix.EINTR {
			return now, nil
		}
		return now, ErrorPollerWait.Error(err)
	}

	for i := 0; i < n; i++ {
		fd := int(p.events[i].Fd)
		if ch, ok := p.channels[fd]; ok {
			ch.SetRevents(fromEpollEvents(p.events[i].Events))
			*activeChannels = append(*activeChannels, ch)
		}
	}

	if n == len(p.events) {
		p.events = make([]unix.EpollEvent, len(p.events)*2)
	}

	return now, nil
}

// UpdateChannel registers ch with epoll (EPOLL_CTL_ADD) the first time it
// is seen, re-arms its interest set (EPOLL_CTL_MOD) while registered, or
// drops it to idle (EPOLL_CTL_DEL, IndexDeleted) once its interest set
// becomes empty — mirroring EpollPoller::updateChannel's kNew/kAdded/
// kDeleted state machine exactly.
func (p *EpollPoller) UpdateChannel(ch *Channel) error {
	index := ch.Index()

	if index == IndexAdded {
		if ch.IsNoneEvent() {
			if err := p.ctl(unix.EPOLL_CTL_DEL, ch); err != nil {
				return err
			}
			ch.SetIndex(IndexDeleted)
			return nil
		}
		return p.ctl(unix.EPOLL_CTL_MOD, ch)
	}

	if index == IndexNew {
		p.channels[ch.Fd()] = ch
	}
	ch.SetIndex(IndexAdded)
	return p.ctl(unix.EPOLL_CTL_ADD, ch)
}

// RemoveChannel unregisters ch entirely, returning it to IndexNew.
func (p *EpollPoller) RemoveChannel(ch *Channel) error {
	delete(p.channels, ch.Fd())

	if ch.Index() == IndexAdded {
		if err := p.ctl(unix.EPOLL_CTL_DEL, ch); err != nil {
			return err
		}
	}
	ch.SetIndex(IndexNew)
	return nil
}

// HasChannel reports whether ch is currently tracked by this poller.
func (p *EpollPoller) HasChannel(ch *Channel) bool {
	c, ok := p.channels[ch.Fd()]
	return ok && c == ch
}

// Close releases the epoll descriptor.
func (p *EpollPoller) Close() error {
	return unix.Close(p.epollFd)
}

func (p *EpollPoller) ctl(op int, ch *Channel) error {
	ev := unix.EpollEvent{
		Events: toEpollEvents(ch.Events()),
		Fd:     int32(ch.Fd()),
	}
	if err := unix.EpollCtl(p.epollFd, op, ch.Fd(), &ev); err != nil {
		return ErrorPollerCtl.Error(err)
	}
	return nil
}
