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

// Package connection implements TcpConnection: the per-connection state
// machine, its input/output Buffers, and the read/write/close dispatch
// that spec.md §4.6 documents. A Connection is loop-affine — every field
// but its reference-counted Go pointer identity is touched only from its
// owning EventLoop's goroutine; Send/SendFile/Shutdown are the only
// entry points safe to call from any other goroutine.
package connection

import (
	stderrors "errors"
	"sync/atomic"

	"golang.org/x/sys/unix"

	atm "github.com/nabbar/reactor/atomic"
	"github.com/nabbar/reactor/buffer"
	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/logsink"
	"github.com/nabbar/reactor/rsocket"
	"github.com/nabbar/reactor/timestamp"
)

// defaultHighWaterMark matches muduo's TcpConnection default of 64 MiB.
const defaultHighWaterMark = 64 * 1024 * 1024

// Connection is the reactor's per-socket state machine. It must be
// constructed on the EventLoop that will own it (the worker loop a
// server.Server's pool assigned it to), and ConnectEstablished/
// ConnectDestroyed must only ever be invoked on that loop's goroutine.
type Connection struct {
	loop *eventloop.EventLoop
	name string

	state atm.Value[State]
	alive atomic.Bool

	socket  *rsocket.Socket
	channel *eventloop.Channel

	localAddr rsocket.Address
	peerAddr  rsocket.Address

	inputBuffer  *buffer.Buffer
	outputBuffer *buffer.Buffer

	highWaterMark int

	sendFileActive    bool
	sendFileFd        int
	sendFileOffset    int64
	sendFileRemaining int64

	connectionCallback    ConnectionCallback
	messageCallback       MessageCallback
	writeCompleteCallback WriteCompleteCallback
	highWaterMarkCallback HighWaterMarkCallback
	closeCallback         CloseCallback

	sink logsink.Sink
}

// New constructs a Connection in state Connecting, bound to fd (already
// accepted, non-blocking) on loop. Callers must call ConnectEstablished
// to move it to Connected and start dispatching events.
func New(loop *eventloop.EventLoop, name string, fd int, local, peer rsocket.Address, sink logsink.Sink) *Connection {
	if sink == nil {
		sink = logsink.Discard
	}

	sock := rsocket.FromFd(fd)
	_ = sock.SetKeepAlive(true)

	c := &Connection{
		loop:          loop,
		name:          name,
		socket:        sock,
		localAddr:     local,
		peerAddr:      peer,
		inputBuffer:   buffer.New(buffer.InitialSize),
		outputBuffer:  buffer.New(buffer.InitialSize),
		highWaterMark: defaultHighWaterMark,
		sink:          sink,
	}
	c.state = atm.NewValue[State]()
	c.state.Store(StateConnecting)

	c.channel = eventloop.NewChannel(loop, fd)
	c.channel.SetReadCallback(c.handleRead)
	c.channel.SetWriteCallback(c.handleWrite)
	c.channel.SetCloseCallback(c.handleClose)
	c.channel.SetErrorCallback(c.handleError)

	return c
}

// Loop returns the EventLoop this Connection is bound to.
func (c *Connection) Loop() *eventloop.EventLoop { return c.loop }

// Name returns the unique connection name the server minted.
func (c *Connection) Name() string { return c.name }

// LocalAddress returns the connection's local endpoint.
func (c *Connection) LocalAddress() rsocket.Address { return c.localAddr }

// PeerAddress returns the connection's remote endpoint.
func (c *Connection) PeerAddress() rsocket.Address { return c.peerAddr }

// Connected reports whether the connection is currently in state
// Connected.
func (c *Connection) Connected() bool {
	return c.state.Load() == StateConnected
}

// State returns the current lifecycle state.
func (c *Connection) State() State { return c.state.Load() }

// Fd returns the connection's socket file descriptor.
func (c *Connection) Fd() int { return c.channel.Fd() }

// SetConnectionCallback installs the connection-established/final-close
// callback.
func (c *Connection) SetConnectionCallback(cb ConnectionCallback) { c.connectionCallback = cb }

// SetMessageCallback installs the readable-data callback.
func (c *Connection) SetMessageCallback(cb MessageCallback) { c.messageCallback = cb }

// SetWriteCompleteCallback installs the output-buffer-drained callback.
func (c *Connection) SetWriteCompleteCallback(cb WriteCompleteCallback) {
	c.writeCompleteCallback = cb
}

// SetCloseCallback installs the internal close callback server.Server
// uses to drive ConnectionMap removal.
func (c *Connection) SetCloseCallback(cb CloseCallback) { c.closeCallback = cb }

// SetHighWaterMarkCallback installs the backpressure-advisory callback
// and its threshold.
func (c *Connection) SetHighWaterMarkCallback(cb HighWaterMarkCallback, highWaterMark int) {
	c.highWaterMarkCallback = cb
	c.highWaterMark = highWaterMark
}

// Send queues buf for transmission. Safe to call from any goroutine; if
// called off-loop the bytes are copied before being handed to the loop's
// inbox so the caller's slice can be reused immediately. Sends from the
// same calling goroutine are delivered in submission order because the
// loop's inbox is itself FIFO.
func (c *Connection) Send(buf []byte) {
	if c.state.Load() != StateConnected {
		return
	}
	data := append([]byte(nil), buf...)
	c.loop.RunInLoop(func() {
		c.sendInLoop(data)
	})
}

// SendFile queues count bytes of fd, starting at offset, for zero-copy
// transmission via the host's sendfile(2). The completion callback
// (WriteCompleteCallback) fires once the full count has been written.
func (c *Connection) SendFile(fd int, offset int64, count int64) {
	if c.state.Load() != StateConnected {
		c.sink.Errorf("sendfile on a connection that is not connected", logsink.Fields{"conn": c.name})
		return
	}
	c.loop.RunInLoop(func() {
		c.sendFileInLoop(fd, offset, count)
	})
}

// Shutdown half-closes the write direction once the output buffer has
// drained. Reads continue until the peer closes its side.
func (c *Connection) Shutdown() {
	if c.state.CompareAndSwap(StateConnected, StateDisconnecting) {
		c.loop.RunInLoop(c.shutdownInLoop)
	}
}

// ConnectEstablished transitions Connecting -> Connected, ties the
// Channel's lifetime to this Connection, enables reads, and fires the
// connection callback. Must run on the owning loop's goroutine.
func (c *Connection) ConnectEstablished() {
	c.state.Store(StateConnected)
	c.alive.Store(true)
	c.channel.Tie(&c.alive)
	c.channel.EnableReading()

	if c.connectionCallback != nil {
		c.connectionCallback(c)
	}
}

// ConnectDestroyed is the final step of removal, invoked by server.Server
// once the ConnectionMap no longer references this Connection. If the
// connection never saw handleClose (e.g. the server is shutting down
// with connections still open) it fires the connection callback one last
// time with Connected()==false, then unregisters the Channel.
func (c *Connection) ConnectDestroyed() {
	if c.state.CompareAndSwap(StateConnected, StateDisconnected) {
		c.channel.DisableAll()
		if c.connectionCallback != nil {
			c.connectionCallback(c)
		}
	}
	c.alive.Store(false)
	c.channel.Remove()
}

func (c *Connection) handleRead(receiveTime timestamp.Timestamp) {
	n, err := c.inputBuffer.ReadFd(c.channel.Fd())
	switch {
	case err != nil:
		if !isWouldBlock(err) {
			c.handleError()
		}
	case n == 0:
		c.handleClose()
	default:
		if c.messageCallback != nil {
			c.messageCallback(c, c.inputBuffer, receiveTime)
		}
	}
}

func (c *Connection) handleWrite() {
	if !c.channel.IsWriting() {
		c.sink.Errorf("connection fd is down, no more writing", logsink.Fields{"conn": c.name, "fd": c.channel.Fd()})
		return
	}

	if c.sendFileActive {
		c.progressSendFile()
		return
	}

	n, err := c.outputBuffer.WriteFd(c.channel.Fd())
	if err != nil {
		if !isWouldBlock(err) {
			c.sink.Errorf("write failed", logsink.Fields{"conn": c.name}, err)
		}
		return
	}

	c.outputBuffer.Retrieve(n)
	if c.outputBuffer.ReadableBytes() == 0 {
		c.channel.DisableWriting()
		if c.writeCompleteCallback != nil {
			c.loop.QueueInLoop(func() {
				c.writeCompleteCallback(c)
			})
		}
		if c.state.Load() == StateDisconnecting {
			c.shutdownInLoop()
		}
	}
}

func (c *Connection) progressSendFile() {
	n, err := unix.Sendfile(c.channel.Fd(), c.sendFileFd, &c.sendFileOffset, int(c.sendFileRemaining))
	if err != nil {
		if isWouldBlock(err) {
			return
		}
		c.sink.Errorf("sendfile failed", logsink.Fields{"conn": c.name}, err)
		c.clearSendFile()
		c.channel.DisableWriting()
		return
	}

	c.sendFileRemaining -= int64(n)
	if c.sendFileRemaining > 0 {
		return
	}

	c.clearSendFile()
	c.channel.DisableWriting()
	if c.writeCompleteCallback != nil {
		c.loop.QueueInLoop(func() {
			c.writeCompleteCallback(c)
		})
	}
	if c.state.Load() == StateDisconnecting {
		c.shutdownInLoop()
	}
}

func (c *Connection) clearSendFile() {
	c.sendFileActive = false
	c.sendFileFd = 0
	c.sendFileOffset = 0
	c.sendFileRemaining = 0
}

// handleClose fires on a peer hang-up: the connection is marked
// Disconnected, all interest is dropped, and both the application's
// connection callback and the server's internal close callback run —
// the latter drives ConnectionMap removal, which eventually schedules
// ConnectDestroyed back onto this same loop.
func (c *Connection) handleClose() {
	c.state.Store(StateDisconnected)
	c.channel.DisableAll()

	if c.connectionCallback != nil {
		c.connectionCallback(c)
	}
	if c.closeCallback != nil {
		c.closeCallback(c)
	}
}

func (c *Connection) handleError() {
	err := c.socket.SOError()
	c.sink.Errorf("socket error", logsink.Fields{"conn": c.name, "fd": c.channel.Fd()}, err)
}

func (c *Connection) sendInLoop(data []byte) {
	if c.state.Load() == StateDisconnected {
		c.sink.Errorf("disconnected, give up writing", logsink.Fields{"conn": c.name})
		return
	}

	nwrote := 0
	remaining := len(data)
	faultError := false

	if !c.channel.IsWriting() && c.outputBuffer.ReadableBytes() == 0 {
		n, err := unix.Write(c.channel.Fd(), data)
		if err != nil {
			if !isWouldBlock(err) {
				c.sink.Errorf("write failed", logsink.Fields{"conn": c.name}, err)
				if stderrors.Is(err, unix.EPIPE) || stderrors.Is(err, unix.ECONNRESET) {
					faultError = true
				}
			}
		} else {
			nwrote = n
			remaining = len(data) - nwrote
			if remaining == 0 && c.writeCompleteCallback != nil {
				c.loop.QueueInLoop(func() {
					c.writeCompleteCallback(c)
				})
			}
		}
	}

	if !faultError && remaining > 0 {
		oldLen := c.outputBuffer.ReadableBytes()
		if oldLen < c.highWaterMark && oldLen+remaining >= c.highWaterMark && c.highWaterMarkCallback != nil {
			queued := oldLen + remaining
			c.loop.QueueInLoop(func() {
				c.highWaterMarkCallback(c, queued)
			})
		}
		c.outputBuffer.Append(data[nwrote:])
		if !c.channel.IsWriting() {
			c.channel.EnableWriting()
		}
	}
}

func (c *Connection) shutdownInLoop() {
	if !c.channel.IsWriting() {
		_ = c.socket.ShutdownWrite()
	}
}

// sendFileInLoop starts a zero-copy transfer. Per the REDESIGN FLAG
// resolving spec.md §9's open question, a short sendfile does not
// requeue itself: it arms write interest and lets handleWrite drive the
// remaining bytes on each subsequent writable notification.
func (c *Connection) sendFileInLoop(fd int, offset int64, count int64) {
	if c.state.Load() == StateDisconnecting || c.state.Load() == StateDisconnected {
		c.sink.Errorf("disconnected, give up writing", logsink.Fields{"conn": c.name})
		return
	}

	if c.channel.IsWriting() || c.outputBuffer.ReadableBytes() > 0 || c.sendFileActive {
		c.sink.Errorf("sendfile while another write is in flight is unsupported", logsink.Fields{"conn": c.name})
		return
	}

	off := offset
	n, err := unix.Sendfile(c.channel.Fd(), fd, &off, int(count))
	if err != nil {
		if !isWouldBlock(err) {
			c.sink.Errorf("sendfile failed", logsink.Fields{"conn": c.name}, err)
			if stderrors.Is(err, unix.EPIPE) || stderrors.Is(err, unix.ECONNRESET) {
				return
			}
		}
		n = 0
	}

	remaining := count - int64(n)
	if remaining == 0 {
		if c.writeCompleteCallback != nil {
			c.loop.QueueInLoop(func() {
				c.writeCompleteCallback(c)
			})
		}
		return
	}

	c.sendFileActive = true
	c.sendFileFd = fd
	c.sendFileOffset = off
	c.sendFileRemaining = remaining
	c.channel.EnableWriting()
}

func isWouldBlock(err error) bool {
	return stderrors.Is(err, unix.EAGAIN) || stderrors.Is(err, unix.EWOULDBLOCK)
}
