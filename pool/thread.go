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

// Package pool implements the "one loop per thread" worker model:
// EventLoopThread spawns exactly one goroutine and hands back the
// EventLoop that goroutine owns, and Pool fans a main
// loop's accepted connections out across a fixed set of such workers by
// consistent hash.
package pool

import (
	"time"

	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/timestamp"
)

// loopStartTimeout bounds how long startLoop waits for the spawned
// goroutine to construct its EventLoop and signal readiness.
const loopStartTimeout = 10 * time.Second

// ThreadInitCallback runs on a worker's own goroutine immediately after
// its EventLoop is constructed and before Loop() begins, the same
// one-shot initialization hook muduo's EventLoopThread offers.
type ThreadInitCallback func(loop *eventloop.EventLoop)

// EventLoopThread owns exactly one goroutine running exactly one
// EventLoop for that goroutine's lifetime.
type EventLoopThread struct {
	clock    timestamp.Clock
	callback ThreadInitCallback

	loop    *eventloop.EventLoop
	ready   chan *eventloop.EventLoop
	failure chan error
	done    chan struct{}
}

// newEventLoopThread constructs an EventLoopThread without starting it.
func newEventLoopThread(clock timestamp.Clock, cb ThreadInitCallback) *EventLoopThread {
	return &EventLoopThread{
		clock:    clock,
		callback: cb,
		ready:    make(chan *eventloop.EventLoop, 1),
		failure:  make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// startLoop spawns the worker goroutine and blocks until it has
// constructed its EventLoop — the Go equivalent of muduo's condition
// variable handshake in EventLoopThread::startLoop, expressed as a
// buffered channel so the goroutine never blocks sending its result even
// if startLoop's caller has already timed out.
func (t *EventLoopThread) startLoop() (*eventloop.EventLoop, error) {
	go t.threadFunc()

	select {
	case loop := <-t.ready:
		t.loop = loop
		return loop, nil
	case err := <-t.failure:
		return nil, err
	case <-time.After(loopStartTimeout):
		return nil, ErrorLoopStartTimeout.Error(nil)
	}
}

func (t *EventLoopThread) threadFunc() {
	loop, err := eventloop.New(t.clock)
	if err != nil {
		t.failure <- ErrorLoopCreate.Error(err)
		return
	}

	if t.callback != nil {
		t.callback(loop)
	}

	t.ready <- loop

	_ = loop.Loop()

	close(t.done)
}

// stop asks the worker loop to quit and waits for its goroutine to
// return from Loop().
func (t *EventLoopThread) stop() {
	if t.loop == nil {
		return
	}
	t.loop.Quit()
	<-t.done
}
