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

import "github.com/nabbar/reactor/timestamp"

// ChannelList is the slice of Channels a Poller reports as active after
// one Poll call.
type ChannelList []*Channel

// Poller is the IO-multiplexing backend an EventLoop drives. NewPoller
// selects EpollPoller on Linux and a portable poll(2)-based
// implementation everywhere else.
type Poller interface {
	// Poll blocks for up to timeoutMs milliseconds and appends every
	// Channel with a ready event onto activeChannels, returning the time
	// it woke up.
	Poll(timeoutMs int, activeChannels *ChannelList) (timestamp.Timestamp, error)
	// UpdateChannel registers ch with the backend or updates its
	// interest set if already registered.
	UpdateChannel(ch *Channel) error
	// RemoveChannel unregisters ch from the backend.
	RemoveChannel(ch *Channel) error
	// HasChannel reports whether ch is currently registered.
	HasChannel(ch *Channel) bool
	// Close releases the backend's own descriptor.
	Close() error
}
