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

// Command echo is the reactor's demonstration server: it accepts
// connections and writes back whatever it reads, the same shape as
// muduo's examples/echoserver.cpp.
package main

import (
	"context"
	"log"

	"github.com/nabbar/reactor/buffer"
	"github.com/nabbar/reactor/connection"
	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/logger"
	"github.com/nabbar/reactor/logsink"
	"github.com/nabbar/reactor/server"
	"github.com/nabbar/reactor/timestamp"
)

func main() {
	sink := logsink.NewDefault(context.Background(), logger.InfoLevel)

	loop, err := eventloop.New(timestamp.SystemClock)
	if err != nil {
		log.Fatalf("failed to create event loop: %v", err)
	}

	cfg := server.Config{
		Name:          "EchoServer",
		ListenAddress: "0.0.0.0:8080",
		NumThreads:    4,
	}

	srv, err := server.New(loop, cfg, sink, nil)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	srv.SetConnectionCallback(func(c *connection.Connection) {
		if c.Connected() {
			sink.Infof("new connection", logsink.Fields{"conn": c.Name(), "peer": c.PeerAddress().String()})
		} else {
			sink.Infof("connection is down", logsink.Fields{"conn": c.Name()})
		}
	})

	srv.SetMessageCallback(func(c *connection.Connection, buf *buffer.Buffer, t timestamp.Timestamp) {
		msg := buf.RetrieveAllAsString()
		sink.Infof("received bytes", logsink.Fields{"conn": c.Name(), "bytes": len(msg), "at": t.String()})
		c.Send([]byte(msg))
	})

	if err = srv.Start(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	if err = loop.Loop(); err != nil {
		log.Fatalf("event loop exited with error: %v", err)
	}
}
