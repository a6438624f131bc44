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

// Package server assembles an Acceptor, an EventLoopThreadPool, and the
// Connection lifecycle into the single top-level type applications
// construct: Server. It is the direct counterpart of muduo's TcpServer —
// same construction order, same two-hop removeConnection dance to get a
// Connection's teardown back onto its owning loop.
package server

import (
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/reactor/acceptor"
	"github.com/nabbar/reactor/connection"
	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/logsink"
	"github.com/nabbar/reactor/pool"
	"github.com/nabbar/reactor/rsocket"
)

// Server listens on one address and distributes accepted connections
// across a worker pool, exposing the muduo TcpServer surface: a fixed
// set of callbacks installed before Start, and a ConnectionMap it
// maintains internally.
type Server struct {
	loop     *eventloop.EventLoop
	cfg      Config
	ipPort   string
	acceptor *acceptor.Acceptor
	pool     *pool.Pool
	sink     logsink.Sink

	conns     *connectionMap
	nextConnID int64

	started atomic.Int32

	connectionCallback    connection.ConnectionCallback
	messageCallback       connection.MessageCallback
	writeCompleteCallback connection.WriteCompleteCallback
	highWaterMarkCallback connection.HighWaterMarkCallback
	threadInitCallback    pool.ThreadInitCallback
}

// New validates cfg, builds the listening Acceptor on loop, and wires up
// an empty worker pool. Start must be called before the server accepts
// any connections.
func New(loop *eventloop.EventLoop, cfg Config, sink logsink.Sink, reg prometheus.Registerer) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = logsink.Discard
	}

	addr, err := rsocket.NewAddress(cfg.ListenAddress)
	if err != nil {
		return nil, ErrorConfigInvalidAddress.Error(err)
	}

	a, err := acceptor.New(loop, addr, cfg.ReusePort, sink)
	if err != nil {
		return nil, ErrorAcceptorCreate.Error(err)
	}

	s := &Server{
		loop:       loop,
		cfg:        cfg,
		ipPort:     addr.IPPort(),
		acceptor:   a,
		pool:       pool.New(loop, cfg.Name, cfg.NumThreads, reg),
		sink:       sink,
		conns:      newConnectionMap(),
		nextConnID: 1,
	}

	a.SetNewConnectionCallback(s.newConnection)

	return s, nil
}

// SetConnectionCallback installs the callback fired on every connection
// established/closed transition, forwarded to each accepted Connection.
func (s *Server) SetConnectionCallback(cb connection.ConnectionCallback) { s.connectionCallback = cb }

// SetMessageCallback installs the callback fired on every readable
// notification, forwarded to each accepted Connection.
func (s *Server) SetMessageCallback(cb connection.MessageCallback) { s.messageCallback = cb }

// SetWriteCompleteCallback installs the callback fired whenever a
// Connection's output buffer drains to empty.
func (s *Server) SetWriteCompleteCallback(cb connection.WriteCompleteCallback) {
	s.writeCompleteCallback = cb
}

// SetHighWaterMarkCallback installs the backpressure-advisory callback
// fired when a Connection's output buffer crosses Config.HighWaterMark
// (or the connection package's default, if unset).
func (s *Server) SetHighWaterMarkCallback(cb connection.HighWaterMarkCallback) {
	s.highWaterMarkCallback = cb
}

// SetThreadInitCallback installs the hook run on each worker loop's own
// goroutine right after construction, before it starts accepting work.
func (s *Server) SetThreadInitCallback(cb pool.ThreadInitCallback) { s.threadInitCallback = cb }

// ConnectionCount returns the number of connections currently tracked.
func (s *Server) ConnectionCount() int { return s.conns.Count() }

// ListenAddress reads the bound listen address via getsockname, resolving
// the kernel-assigned port when Config.ListenAddress used port 0.
func (s *Server) ListenAddress() (rsocket.Address, error) {
	return s.acceptor.LocalAddress()
}

// Start is idempotent: only the first call spins up the worker pool and
// arms the acceptor. Subsequent calls are no-ops.
func (s *Server) Start() error {
	if s.started.Add(1) != 1 {
		return nil
	}

	if err := s.pool.Start(s.threadInitCallback); err != nil {
		return err
	}

	s.loop.RunInLoop(func() {
		if err := s.acceptor.Listen(); err != nil {
			s.sink.Errorf("failed to start listening", logsink.Fields{"addr": s.ipPort}, err)
		}
	})

	return nil
}

// Stop quits every worker loop. The server's own loop (and the acceptor
// bound to it) is left running — the caller owns that loop's lifecycle.
func (s *Server) Stop() {
	s.pool.Stop()
}

// newConnection is the Acceptor's sink: it assigns the new fd to a
// worker loop by consistent hash on the peer's address, constructs the
// Connection there, and schedules connectEstablished on that same loop.
func (s *Server) newConnection(fd int, peer rsocket.Address) {
	ioLoop := s.pool.GetNextLoop(peer.IPPort())

	connID := atomic.AddInt64(&s.nextConnID, 1) - 1
	connName := fmt.Sprintf("%s-%s#%d", s.cfg.Name, s.ipPort, connID)

	local, err := rsocket.FromFd(fd).LocalAddress()
	if err != nil {
		s.sink.Errorf("failed to resolve local address for new connection", logsink.Fields{"conn": connName}, err)
	}

	s.sink.Infof("new connection", logsink.Fields{"conn": connName, "peer": peer.String()})

	conn := connection.New(ioLoop, connName, fd, local, peer, s.sink)
	if s.highWaterMarkCallback != nil {
		hwm := s.cfg.HighWaterMark
		if hwm == 0 {
			hwm = 64 * 1024 * 1024 // the connection package's default
		}
		conn.SetHighWaterMarkCallback(s.highWaterMarkCallback, hwm)
	}
	conn.SetConnectionCallback(s.connectionCallback)
	conn.SetMessageCallback(s.messageCallback)
	conn.SetWriteCompleteCallback(s.writeCompleteCallback)
	conn.SetCloseCallback(s.removeConnection)

	s.conns.put(conn)

	ioLoop.RunInLoop(conn.ConnectEstablished)
}

// removeConnection is the Connection's close callback: it always hops
// back onto the server's own loop before mutating the shared
// ConnectionMap, mirroring TcpServer::removeConnection in the original
// source — the first hop of the two-hop removal dance.
func (s *Server) removeConnection(conn *connection.Connection) {
	s.loop.RunInLoop(func() {
		s.removeConnectionInLoop(conn)
	})
}

// removeConnectionInLoop drops conn from the ConnectionMap, then queues
// its final ConnectDestroyed back onto the connection's own owning loop
// (which may differ from the server's loop in the multi-worker case) —
// the second hop of the two-hop removal dance.
func (s *Server) removeConnectionInLoop(conn *connection.Connection) {
	s.sink.Infof("removing connection", logsink.Fields{"conn": conn.Name()})
	s.conns.remove(conn.Name())

	ioLoop := conn.Loop()
	ioLoop.QueueInLoop(conn.ConnectDestroyed)
}
