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

// Package eventloop implements the one-reactor-per-goroutine core: Channel
// (a registered fd with interest/callback state), Poller (the epoll/poll
// backend multiplexing many Channels), EventLoop (owns a Poller, a pending
// functor queue, and a TimerQueue, and drives them from one goroutine for
// its entire lifetime), and the Timer/TimerQueue pair that multiplexes an
// arbitrary number of application timers onto a single OS timer.
//
// Every type here is pinned to one goroutine: a Channel, a timer, and the
// EventLoop itself must only be touched from the goroutine running that
// EventLoop's Loop(), except through RunInLoop/QueueInLoop and the
// EventLoop methods built on them (Quit, RunAt/RunAfter/RunEvery,
// CancelTimer), which are the cross-goroutine-safe entry points.
package eventloop
