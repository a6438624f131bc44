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

package rsocket

import (
	"golang.org/x/sys/unix"
)

// listenBacklog matches muduo's Socket::listen backlog of 1024.
const listenBacklog = 1024

// Socket owns exactly one non-blocking, close-on-exec file descriptor.
// It is not safe for concurrent use; callers (Acceptor, TcpConnection)
// are already pinned to a single EventLoop goroutine.
type Socket struct {
	fd int
}

// NewListenSocket creates a non-blocking, close-on-exec IPv4 TCP socket
// suitable for Listen, mirroring muduo's Acceptor::createNonblocking.
func NewListenSocket() (*Socket, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, ErrorSocketCreate.Error(err)
	}
	return &Socket{fd: fd}, nil
}

// FromFd wraps an already-open file descriptor (e.g. one handed back by
// Accept) without creating a new one.
func FromFd(fd int) *Socket {
	return &Socket{fd: fd}
}

// Fd returns the underlying file descriptor.
func (s *Socket) Fd() int { return s.fd }

// BindAddress binds the socket to addr. Configuration-fatal per spec.md
// §7 kind 1 — callers should abort the process on failure.
func (s *Socket) BindAddress(addr Address) error {
	if err := unix.Bind(s.fd, addr.sockaddr()); err != nil {
		return ErrorSocketBind.Error(err)
	}
	return nil
}

// Listen marks the socket as a listening socket.
func (s *Socket) Listen() error {
	if err := unix.Listen(s.fd, listenBacklog); err != nil {
		return ErrorSocketListen.Error(err)
	}
	return nil
}

// Accept accepts one pending connection, returning the accepted Socket
// (already non-blocking and close-on-exec via accept4) and the peer
// Address. EAGAIN/EWOULDBLOCK is returned unwrapped so Acceptor can stop
// its accept loop without logging a spurious error.
func (s *Socket) Accept() (*Socket, Address, error) {
	nfd, sa, err := unix.Accept4(s.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if err == unix.EAGAIN {
			return nil, Address{}, err
		}
		return nil, Address{}, ErrorSocketAccept.Error(err)
	}

	inet4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		_ = unix.Close(nfd)
		return nil, Address{}, ErrorSocketAccept.Error(nil)
	}

	return &Socket{fd: nfd}, FromSockaddrInet4(inet4), nil
}

// LocalAddress reads the socket's bound local address via getsockname,
// the way TcpServer::newConnection resolves a new connection's local
// address.
func (s *Socket) LocalAddress() (Address, error) {
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return Address{}, ErrorSocketAccept.Error(err)
	}
	inet4, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		return Address{}, ErrorSocketAccept.Error(nil)
	}
	return FromSockaddrInet4(inet4), nil
}

// ShutdownWrite half-closes the socket's write direction while leaving
// reads open, the mechanism connection.TcpConnection.Shutdown drives.
func (s *Socket) ShutdownWrite() error {
	if err := unix.Shutdown(s.fd, unix.SHUT_WR); err != nil {
		return ErrorSocketShutdown.Error(err)
	}
	return nil
}

// SetReuseAddr toggles SO_REUSEADDR, letting a restarted listener rebind
// a port still in TIME_WAIT.
func (s *Socket) SetReuseAddr(on bool) error {
	return s.setBoolOpt(unix.SOL_SOCKET, unix.SO_REUSEADDR, on)
}

// SetReusePort toggles SO_REUSEPORT, letting multiple listening sockets
// share one port for kernel-level load balancing. Optional per spec.md §6.
func (s *Socket) SetReusePort(on bool) error {
	return s.setBoolOpt(unix.SOL_SOCKET, unix.SO_REUSEPORT, on)
}

// SetKeepAlive toggles SO_KEEPALIVE, applied to every accepted connection
// per spec.md §6.
func (s *Socket) SetKeepAlive(on bool) error {
	return s.setBoolOpt(unix.SOL_SOCKET, unix.SO_KEEPALIVE, on)
}

// SetTCPNoDelay toggles TCP_NODELAY, disabling Nagle's algorithm.
func (s *Socket) SetTCPNoDelay(on bool) error {
	return s.setBoolOpt(unix.IPPROTO_TCP, unix.TCP_NODELAY, on)
}

func (s *Socket) setBoolOpt(level, opt int, on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := unix.SetsockoptInt(s.fd, level, opt, v); err != nil {
		return ErrorSocketOption.Error(err)
	}
	return nil
}

// SOError reads and clears the socket's pending SO_ERROR, the value
// TcpConnection.handleError reports on a poller-observed error event.
func (s *Socket) SOError() error {
	v, err := unix.GetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if v == 0 {
		return nil
	}
	return unix.Errno(v)
}

// Close releases the file descriptor.
func (s *Socket) Close() error {
	return unix.Close(s.fd)
}
