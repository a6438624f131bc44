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

package eventloop

import (
	"sync/atomic"

	"github.com/nabbar/reactor/timestamp"
)

// Event is a bitmask of the interest/return events tracked on a Channel.
// The bit positions are private to this package; each Poller backend
// (epoll on Linux, poll elsewhere) translates to and from its own
// platform event mask, so Channel itself stays portable.
type Event uint32

const (
	EventNone Event = 0
	// EventRead covers both ordinary readable data and urgent (OOB) data.
	EventRead  Event = 1 << 0
	EventWrite Event = 1 << 1
	EventErr   Event = 1 << 2
	EventHup   Event = 1 << 3
)

// ChannelIndex records where a Channel sits in its Poller's bookkeeping.
type ChannelIndex int32

const (
	// IndexNew means the Channel has never been added to the poller.
	IndexNew ChannelIndex = -1
	// IndexAdded means the Channel is currently registered with the poller.
	IndexAdded ChannelIndex = 1
	// IndexDeleted means the Channel was registered but is now idle
	// (interest set to none) without being unregistered.
	IndexDeleted ChannelIndex = 2
)

// ReadEventCallback is invoked when a Channel's fd becomes readable; it is
// handed the Poller's return-from-wait time so message handlers can stamp
// the time data was observed, not the time it is processed.
type ReadEventCallback func(receiveTime timestamp.Timestamp)

// EventCallback is invoked for write/close/error notifications, none of
// which need the poll time.
type EventCallback func()

// Channel binds one file descriptor's interest set and event callbacks to
// an owning EventLoop. A Channel is not safe for concurrent use; it must
// only be touched from its owning EventLoop's goroutine.
type Channel struct {
	loop *EventLoop
	fd   int

	events  Event
	revents Event
	index   ChannelIndex

	tied     bool
	tieAlive *atomic.Bool

	readCallback  ReadEventCallback
	writeCallback EventCallback
	errorCallback EventCallback
	closeCallback EventCallback
}

// NewChannel returns a Channel for fd, owned by loop. The Channel starts
// with no interest and IndexNew, matching a freshly constructed muduo
// Channel before its first EnableReading/EnableWriting call.
func NewChannel(loop *EventLoop, fd int) *Channel {
	return &Channel{
		loop:  loop,
		fd:    fd,
		index: IndexNew,
	}
}

// Fd returns the underlying file descriptor.
func (c *Channel) Fd() int { return c.fd }

// Events returns the current interest set.
func (c *Channel) Events() Event { return c.events }

// SetRevents records the events the poller observed as ready; only the
// poller backend calls this, right before handing the Channel to the
// loop's dispatch pass.
func (c *Channel) SetRevents(revt Event) { c.revents = revt }

// Index returns where the poller's bookkeeping considers this Channel.
func (c *Channel) Index() ChannelIndex { return c.index }

// SetIndex updates the poller bookkeeping state; only a Poller
// implementation calls this.
func (c *Channel) SetIndex(idx ChannelIndex) { c.index = idx }

// SetReadCallback assigns the callback run when EventRead is ready.
func (c *Channel) SetReadCallback(cb ReadEventCallback) { c.readCallback = cb }

// SetWriteCallback assigns the callback run when EventWrite is ready.
func (c *Channel) SetWriteCallback(cb EventCallback) { c.writeCallback = cb }

// SetErrorCallback assigns the callback run on a poller-reported error.
func (c *Channel) SetErrorCallback(cb EventCallback) { c.errorCallback = cb }

// SetCloseCallback assigns the callback run on a hang-up notification.
func (c *Channel) SetCloseCallback(cb EventCallback) { c.closeCallback = cb }

// Tie binds the Channel's callback dispatch to alive: HandleEvent becomes
// a no-op once alive reports false. TcpConnection uses this so a Channel
// event that races the connection's teardown never calls into a
// half-destroyed connection.
func (c *Channel) Tie(alive *atomic.Bool) {
	c.tieAlive = alive
	c.tied = true
}

// EnableReading adds EventRead to the interest set and pushes the change
// to the poller.
func (c *Channel) EnableReading() {
	c.events |= EventRead
	c.update()
}

// EnableWriting adds EventWrite to the interest set and pushes the change
// to the poller.
func (c *Channel) EnableWriting() {
	c.events |= EventWrite
	c.update()
}

// DisableWriting removes EventWrite from the interest set and pushes the
// change to the poller.
func (c *Channel) DisableWriting() {
	c.events &^= EventWrite
	c.update()
}

// DisableReading removes EventRead from the interest set and pushes the
// change to the poller.
func (c *Channel) DisableReading() {
	c.events &^= EventRead
	c.update()
}

// DisableAll clears the interest set entirely and pushes the change to
// the poller.
func (c *Channel) DisableAll() {
	c.events = EventNone
	c.update()
}

// IsNoneEvent reports whether the Channel currently has no interest.
func (c *Channel) IsNoneEvent() bool { return c.events == EventNone }

// IsReading reports whether EventRead is in the interest set.
func (c *Channel) IsReading() bool { return c.events&EventRead != 0 }

// IsWriting reports whether EventWrite is in the interest set.
func (c *Channel) IsWriting() bool { return c.events&EventWrite != 0 }

// OwnerLoop returns the EventLoop this Channel belongs to.
func (c *Channel) OwnerLoop() *EventLoop { return c.loop }

func (c *Channel) update() {
	c.loop.UpdateChannel(c)
}

// Remove unregisters the Channel from its owning EventLoop's poller. The
// caller must have already called DisableAll.
func (c *Channel) Remove() {
	c.loop.RemoveChannel(c)
}

// HandleEvent dispatches the events recorded by SetRevents to the
// registered callbacks, honoring the Tie guard if one was set. The
// returned-event set is cleared on exit so it is only ever non-zero
// while a dispatch is in flight.
func (c *Channel) HandleEvent(receiveTime timestamp.Timestamp) {
	if c.tied {
		if c.tieAlive == nil || !c.tieAlive.Load() {
			c.revents = EventNone
			return
		}
	}
	c.handleEventWithGuard(receiveTime)
	c.revents = EventNone
}

// handleEventWithGuard dispatches in close -> error -> read -> write
// order: a hang-up with no pending readable data fires close first so a
// half-closed peer's last bytes are never silently dropped behind a close
// notification, matching the event ordering spec.md requires.
func (c *Channel) handleEventWithGuard(receiveTime timestamp.Timestamp) {
	if c.revents&EventHup != 0 && c.revents&EventRead == 0 {
		if c.closeCallback != nil {
			c.closeCallback()
		}
	}

	if c.revents&EventErr != 0 {
		if c.errorCallback != nil {
			c.errorCallback()
		}
	}

	if c.revents&EventRead != 0 {
		if c.readCallback != nil {
			c.readCallback(receiveTime)
		}
	}

	if c.revents&EventWrite != 0 {
		if c.writeCallback != nil {
			c.writeCallback()
		}
	}
}
