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
	"sort"
	"sync/atomic"

	"github.com/nabbar/reactor/timestamp"
)

// minTimerLeadSeconds is the smallest lead time ever armed on the kernel
// timer descriptor, matching the "clamped >= 100us from now" rule in
// spec.md §4.4 so an expiration computed as already-past still arms a
// fire rather than silently failing to register.
const minTimerLeadSeconds = 0.0001

// TimerQueue multiplexes an arbitrary number of application timers onto a
// single kernel timer descriptor. It is driven entirely from its owning
// EventLoop's goroutine; AddTimer/Cancel are the only entry points safe
// to call from any other goroutine, and both hop onto the loop before
// touching the queue's bookkeeping.
type TimerQueue struct {
	loop *EventLoop

	timerFd int
	channel *Channel

	// byExpiration is kept sorted by (expiration, sequence); it is the
	// Go analogue of muduo's std::set<Entry>.
	byExpiration []*timer
	activeByID   map[uint64]*timer

	callingExpiredTimers bool
	cancelingDuringFire  map[uint64]bool
}

func newTimerQueue(loop *EventLoop) (*TimerQueue, error) {
	fd, err := createTimerFd()
	if err != nil {
		return nil, err
	}

	q := &TimerQueue{
		loop:       loop,
		timerFd:    fd,
		activeByID: make(map[uint64]*timer),
	}

	q.channel = NewChannel(loop, fd)
	q.channel.SetReadCallback(q.handleRead)
	q.channel.EnableReading()

	return q, nil
}

// timerSequenceSeq mints timer sequences across every TimerQueue in the
// process.
var timerSequenceSeq uint64

// AddTimer schedules cb to fire at when, and every interval seconds
// thereafter if interval > 0. Safe to call from any goroutine.
func (q *TimerQueue) AddTimer(cb Functor, when timestamp.Timestamp, interval float64) TimerID {
	t := newTimer(cb, when, interval)
	t.sequence = atomic.AddUint64(&timerSequenceSeq, 1)

	id := TimerID{sequence: t.sequence}
	q.loop.RunInLoop(func() {
		q.addTimerInLoop(t)
	})
	return id
}

// Cancel removes a pending timer. The removal always goes through the
// loop's inbox, so it runs after the current fire pass: a repeating timer
// that cancels itself from its own callback is re-armed by that pass and
// then removed by the deferred cancel, before its next expiration. The
// cancelingDuringFire marking in cancelInLoop is not reached through
// Cancel.
func (q *TimerQueue) Cancel(id TimerID) {
	q.loop.RunInLoop(func() {
		q.cancelInLoop(id)
	})
}

func (q *TimerQueue) addTimerInLoop(t *timer) {
	earliestChanged := q.insert(t)
	if earliestChanged {
		_ = armTimerFd(q.timerFd, q.earliestExpiration())
	}
}

func (q *TimerQueue) cancelInLoop(id TimerID) {
	t, ok := q.activeByID[id.sequence]
	if !ok {
		if q.callingExpiredTimers {
			q.cancelingDuringFire[id.sequence] = true
		}
		return
	}

	delete(q.activeByID, id.sequence)
	q.removeFromExpiration(t)

	if q.callingExpiredTimers {
		q.cancelingDuringFire[id.sequence] = true
	}
}

// insert places t into byExpiration in sorted order and records it in
// activeByID, returning whether t is now the earliest-expiring timer.
func (q *TimerQueue) insert(t *timer) bool {
	earliestChanged := len(q.byExpiration) == 0 || t.expiration.Before(q.byExpiration[0].expiration)

	idx := sort.Search(len(q.byExpiration), func(i int) bool {
		return timerLess(t, q.byExpiration[i])
	})
	q.byExpiration = append(q.byExpiration, nil)
	copy(q.byExpiration[idx+1:], q.byExpiration[idx:])
	q.byExpiration[idx] = t

	q.activeByID[t.sequence] = t

	return earliestChanged
}

func (q *TimerQueue) removeFromExpiration(t *timer) {
	for i, e := range q.byExpiration {
		if e == t {
			q.byExpiration = append(q.byExpiration[:i], q.byExpiration[i+1:]...)
			return
		}
	}
}

func timerLess(a, b *timer) bool {
	if !a.expiration.Equal(b.expiration) {
		return a.expiration.Before(b.expiration)
	}
	return a.sequence < b.sequence
}

func (q *TimerQueue) earliestExpiration() timestamp.Timestamp {
	if len(q.byExpiration) == 0 {
		return timestamp.Invalid()
	}
	return q.byExpiration[0].expiration
}

// handleRead fires on the kernel timer descriptor becoming readable: it
// drains the overrun counter, collects every timer whose expiration has
// passed, runs each in expiration order, re-arms repeating ones, and
// finally re-arms the kernel timer to the new earliest expiration.
func (q *TimerQueue) handleRead(now timestamp.Timestamp) {
	_ = readTimerFd(q.timerFd)

	expired := q.getExpired(now)

	q.callingExpiredTimers = true
	q.cancelingDuringFire = make(map[uint64]bool)

	for _, t := range expired {
		t.callback()
	}

	q.callingExpiredTimers = false

	q.reset(expired, now)

	if len(q.byExpiration) > 0 {
		_ = armTimerFd(q.timerFd, q.earliestExpiration())
	}
}

func (q *TimerQueue) getExpired(now timestamp.Timestamp) []*timer {
	idx := sort.Search(len(q.byExpiration), func(i int) bool {
		return now.Before(q.byExpiration[i].expiration)
	})

	expired := make([]*timer, idx)
	copy(expired, q.byExpiration[:idx])

	q.byExpiration = q.byExpiration[idx:]
	for _, t := range expired {
		delete(q.activeByID, t.sequence)
	}

	return expired
}

func (q *TimerQueue) reset(expired []*timer, now timestamp.Timestamp) {
	for _, t := range expired {
		if t.repeat && !q.cancelingDuringFire[t.sequence] {
			t.restart(now)
			q.insert(t)
		}
	}
}

func (q *TimerQueue) close() {
	q.channel.DisableAll()
	_ = closeTimerFd(q.timerFd)
}
