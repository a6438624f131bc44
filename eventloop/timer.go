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

// timer is one scheduled callback. sequence is a process-wide monotone id
// minted by TimerQueue, used to disambiguate two timers that land on the
// same expiration and as the cancellation handle's identity.
type timer struct {
	callback   Functor
	expiration timestamp.Timestamp
	interval   float64
	repeat     bool
	sequence   uint64
}

func newTimer(cb Functor, when timestamp.Timestamp, interval float64) *timer {
	return &timer{
		callback:   cb,
		expiration: when,
		interval:   interval,
		repeat:     interval > 0,
	}
}

// restart recomputes expiration as now+interval for a repeating timer
// that just fired; non-repeating timers are never restarted.
func (t *timer) restart(now timestamp.Timestamp) {
	if t.repeat {
		t.expiration = now.Add(t.interval)
	} else {
		t.expiration = timestamp.Invalid()
	}
}

// TimerID is an opaque handle returned by AddTimer/RunAt/RunAfter/RunEvery,
// passed back to CancelTimer to remove a still-pending timer.
type TimerID struct {
	sequence uint64
}
