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

// Package acceptor implements the listening half of the reactor: one
// Acceptor owns a non-blocking listening socket and hands every accepted
// connection's fd and peer address to a registered sink, exactly the
// single declared form of muduo's Acceptor (spec.md §9 notes the
// original source carries a second, empty/stub declaration — this
// package implements only the complete one spec.md §4.5 documents).
package acceptor

import (
	stderrors "errors"

	"golang.org/x/sys/unix"

	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/logsink"
	"github.com/nabbar/reactor/rsocket"
	"github.com/nabbar/reactor/timestamp"
)

// NewConnectionSink receives every successfully accepted connection. It
// always runs on the Acceptor's owning loop's goroutine.
type NewConnectionSink func(fd int, peer rsocket.Address)

// Acceptor listens on one address and fans accepted connections out to a
// sink. It must live on the "main" EventLoop — the one that owns the
// listening socket's Channel — per spec.md §2's control-flow description.
type Acceptor struct {
	loop   *eventloop.EventLoop
	socket *rsocket.Socket
	chan_  *eventloop.Channel
	sink   logsink.Sink

	listening bool
	newConn   NewConnectionSink
}

// New creates a non-blocking listening socket bound to addr. Socket
// creation and bind failures are configuration-fatal per spec.md §7 kind
// 1 — the caller should log and abort the process rather than retry.
func New(loop *eventloop.EventLoop, addr rsocket.Address, reusePort bool, sink logsink.Sink) (*Acceptor, error) {
	if sink == nil {
		sink = logsink.Discard
	}

	sock, err := rsocket.NewListenSocket()
	if err != nil {
		return nil, err
	}

	if err = sock.SetReuseAddr(true); err != nil {
		_ = sock.Close()
		return nil, err
	}
	if err = sock.SetReusePort(reusePort); err != nil {
		_ = sock.Close()
		return nil, err
	}
	if err = sock.BindAddress(addr); err != nil {
		_ = sock.Close()
		return nil, err
	}

	a := &Acceptor{
		loop:   loop,
		socket: sock,
		sink:   sink,
	}

	a.chan_ = eventloop.NewChannel(loop, sock.Fd())
	a.chan_.SetReadCallback(a.handleRead)

	return a, nil
}

// SetNewConnectionCallback installs the sink new connections are handed
// to. Must be called before Listen.
func (a *Acceptor) SetNewConnectionCallback(cb NewConnectionSink) {
	a.newConn = cb
}

// Listening reports whether Listen has been called.
func (a *Acceptor) Listening() bool { return a.listening }

// LocalAddress reads the bound listen address via getsockname. When the
// Acceptor was configured with port 0 this is the only way to learn the
// kernel-assigned port.
func (a *Acceptor) LocalAddress() (rsocket.Address, error) {
	return a.socket.LocalAddress()
}

// Listen marks the socket accepting and arms the read interest. Socket
// option/bind errors already surfaced from New; a Listen() failure here
// is likewise configuration-fatal.
func (a *Acceptor) Listen() error {
	a.listening = true
	if err := a.socket.Listen(); err != nil {
		return err
	}
	a.chan_.EnableReading()
	return nil
}

// handleRead drains every pending connection on one readable
// notification: the listening socket is level-triggered and non-blocking,
// so looping Accept until EAGAIN keeps the backlog from building up
// behind a single edge.
func (a *Acceptor) handleRead(_ timestamp.Timestamp) {
	for {
		conn, peer, err := a.socket.Accept()
		if err != nil {
			if stderrors.Is(err, unix.EAGAIN) {
				return
			}
			a.sink.Errorf("accept failed", logsink.Fields{"fd": a.socket.Fd()}, err)
			if stderrors.Is(err, unix.EMFILE) {
				a.sink.Errorf("accepted fd limit reached, listener remains accepting", nil, nil)
			}
			return
		}

		if a.newConn != nil {
			a.newConn(conn.Fd(), peer)
		} else {
			_ = conn.Close()
		}
	}
}

// Close tears down the listening Channel and socket. Used when a
// TcpServer is discarded without ever calling Start.
func (a *Acceptor) Close() error {
	a.chan_.DisableAll()
	a.chan_.Remove()
	return a.socket.Close()
}
