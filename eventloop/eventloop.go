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
	"sync"
	"sync/atomic"

	"github.com/nabbar/reactor/timestamp"
)

// Functor is a closure an EventLoop runs on its own goroutine, either
// synchronously via RunInLoop or deferred via QueueInLoop.
type Functor func()

const pollTimeoutMs = 10000

// EventLoop is a single-threaded cooperative reactor: one goroutine calls
// Loop() for the EventLoop's entire lifetime, polling its Poller,
// dispatching ready Channels in readiness order, then draining its task
// inbox. Quit, RunInLoop/QueueInLoop, RunAt/RunAfter/RunEvery,
// CancelTimer, PollReturnTime and Clock are safe to call from any
// goroutine; UpdateChannel, RemoveChannel and HasChannel touch the
// Poller's bookkeeping unsynchronised and must run on the loop's own
// goroutine. RunInLoop/QueueInLoop are the only doors back onto it.
type EventLoop struct {
	poller Poller
	clock  timestamp.Clock

	goroutineID uint64

	looping atomic.Bool
	quitF   atomic.Bool

	pollReturnTime atomic.Value // timestamp.Timestamp

	activeChannels ChannelList

	timerQueue *TimerQueue

	wakeupReadFd  int
	wakeupWriteFd int
	wakeupChannel *Channel

	mu                    sync.Mutex
	pendingFunctors       []Functor
	callingPendingFunctor atomic.Bool
}

// New constructs an EventLoop. Any one goroutine may then drive it by
// calling Loop(); the goroutine that calls New need not be that one. A
// process may run any number of EventLoops, each on its own goroutine —
// the muduo source enforces "one EventLoop per thread" via a thread-local
// pointer; Go has no thread-local storage for goroutines, so nothing here
// checks which goroutine runs Loop(), and a second EventLoop driven from
// the same goroutine is not detected. New records a per-loop sequence tag
// in goroutineID; no code consults it.
func New(clock timestamp.Clock) (*EventLoop, error) {
	if clock == nil {
		clock = timestamp.SystemClock
	}

	poller, err := NewPoller()
	if err != nil {
		return nil, err
	}

	readFd, writeFd, err := newWakeupFds()
	if err != nil {
		_ = poller.Close()
		return nil, err
	}

	l := &EventLoop{
		poller:        poller,
		clock:         clock,
		wakeupReadFd:  readFd,
		wakeupWriteFd: writeFd,
	}
	l.goroutineID = nextGoroutineTag()
	l.pollReturnTime.Store(timestamp.Invalid())

	l.wakeupChannel = NewChannel(l, readFd)
	l.wakeupChannel.SetReadCallback(l.handleWakeupRead)
	l.wakeupChannel.EnableReading()

	l.timerQueue, err = newTimerQueue(l)
	if err != nil {
		_ = poller.Close()
		return nil, err
	}

	return l, nil
}

var goroutineTagSeq uint64

func nextGoroutineTag() uint64 {
	return atomic.AddUint64(&goroutineTagSeq, 1)
}

// PollReturnTime returns the receive timestamp of the most recent Poll
// call, the same value handed to read callbacks during that dispatch.
func (l *EventLoop) PollReturnTime() timestamp.Timestamp {
	return l.pollReturnTime.Load().(timestamp.Timestamp)
}

// Loop runs the poll/dispatch/drain cycle until Quit is called. It must
// only be invoked once, and from one goroutine; after a Quit issued before
// Loop starts, Loop returns without polling.
func (l *EventLoop) Loop() error {
	l.looping.Store(true)

	for !l.quitF.Load() {
		l.activeChannels = l.activeChannels[:0]

		now, err := l.poller.Poll(pollTimeoutMs, &l.activeChannels)
		if err != nil {
			return err
		}
		l.pollReturnTime.Store(now)

		for _, ch := range l.activeChannels {
			ch.HandleEvent(now)
		}

		l.doPendingFunctors()
	}

	l.looping.Store(false)
	return nil
}

// Quit stops the loop after its current iteration. Calling it from a
// goroutine other than the loop's own wakes the loop immediately so the
// exit happens within one poll cycle, matching muduo's EventLoop::quit.
func (l *EventLoop) Quit() {
	l.quitF.Store(true)
	l.wakeup()
}

// RunInLoop schedules f to run on the loop's goroutine. Callers already
// running on that goroutine (e.g. from inside a Channel callback) should
// just call f directly instead; RunInLoop always defers through
// QueueInLoop since Go gives no cheap way to detect "this is already the
// loop's goroutine" from the outside.
func (l *EventLoop) RunInLoop(f Functor) {
	l.QueueInLoop(f)
}

// QueueInLoop appends f to the pending-functor inbox and wakes the loop.
// muduo skips the wakeup when the caller is already on the loop's own
// goroutine and the loop isn't mid-drain; Go has no cheap thread-local
// check for "is this goroutine the loop's", so QueueInLoop always writes
// the wakeup byte. The extra eventfd write is harmless — the loop would
// have woken on the next poll regardless — and keeps the one invariant
// that matters: a task queued before a wakeup write is always observed
// within one poll cycle.
func (l *EventLoop) QueueInLoop(f Functor) {
	l.mu.Lock()
	l.pendingFunctors = append(l.pendingFunctors, f)
	l.mu.Unlock()

	l.wakeup()
}

func (l *EventLoop) doPendingFunctors() {
	l.callingPendingFunctor.Store(true)

	l.mu.Lock()
	functors := l.pendingFunctors
	l.pendingFunctors = nil
	l.mu.Unlock()

	for _, f := range functors {
		f()
	}

	l.callingPendingFunctor.Store(false)
}

func (l *EventLoop) wakeup() {
	if err := writeWakeup(l.wakeupWriteFd); err != nil {
		_ = ErrorWakeupWrite.Error(err)
	}
}

func (l *EventLoop) handleWakeupRead(_ timestamp.Timestamp) {
	_ = readWakeup(l.wakeupReadFd)
}

// UpdateChannel registers a Channel's current interest set with the
// Poller. Only the Channel itself and this package's other components
// call it.
func (l *EventLoop) UpdateChannel(ch *Channel) {
	_ = l.poller.UpdateChannel(ch)
}

// RemoveChannel unregisters a Channel from the Poller.
func (l *EventLoop) RemoveChannel(ch *Channel) {
	_ = l.poller.RemoveChannel(ch)
}

// HasChannel reports whether ch is currently registered with this loop's
// Poller.
func (l *EventLoop) HasChannel(ch *Channel) bool {
	return l.poller.HasChannel(ch)
}

// RunAt schedules cb to run once at the given time.
func (l *EventLoop) RunAt(when timestamp.Timestamp, cb Functor) TimerID {
	return l.timerQueue.AddTimer(cb, when, 0)
}

// RunAfter schedules cb to run once after delaySeconds have elapsed.
func (l *EventLoop) RunAfter(delaySeconds float64, cb Functor) TimerID {
	return l.RunAt(l.clock.Now().Add(delaySeconds), cb)
}

// RunEvery schedules cb to run once every intervalSeconds, starting
// intervalSeconds from now.
func (l *EventLoop) RunEvery(intervalSeconds float64, cb Functor) TimerID {
	when := l.clock.Now().Add(intervalSeconds)
	return l.timerQueue.AddTimer(cb, when, intervalSeconds)
}

// CancelTimer cancels a previously scheduled timer. Safe to call from any
// goroutine.
func (l *EventLoop) CancelTimer(id TimerID) {
	l.timerQueue.Cancel(id)
}

// Clock returns the Clock capability this loop stamps timers with.
func (l *EventLoop) Clock() timestamp.Clock {
	return l.clock
}

// Close releases the loop's own descriptors (wakeup fd, timer fd, poller
// backend). Callers must stop Loop() first.
func (l *EventLoop) Close() error {
	l.timerQueue.close()
	_ = closeWakeupFd(l.wakeupReadFd, l.wakeupWriteFd)
	return l.poller.Close()
}
