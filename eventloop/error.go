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

import "github.com/nabbar/reactor/errors"

const (
	ErrorPollerCreate errors.CodeError = iota + errors.MinAvailable + 100
	ErrorPollerWait
	ErrorPollerCtl
	ErrorWakeupCreate
	ErrorWakeupWrite
	ErrorWakeupRead
	ErrorTimerfdCreate
	ErrorTimerfdSettime
	ErrorTimerfdRead
	ErrorLoopReentrant
	ErrorNotInLoopThread
)

func init() {
	errors.RegisterIdFctMessage(ErrorPollerCreate, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorPollerCreate:
		return "cannot create the poller backend"
	case ErrorPollerWait:
		return "poller wait call failed"
	case ErrorPollerCtl:
		return "poller control call failed"
	case ErrorWakeupCreate:
		return "cannot create the cross-thread wakeup descriptor"
	case ErrorWakeupWrite:
		return "wakeup write did not deliver the expected byte count"
	case ErrorWakeupRead:
		return "wakeup read did not consume the expected byte count"
	case ErrorTimerfdCreate:
		return "cannot create the timer descriptor"
	case ErrorTimerfdSettime:
		return "cannot arm the timer descriptor"
	case ErrorTimerfdRead:
		return "timer descriptor read did not consume the expected byte count"
	case ErrorLoopReentrant:
		return "another event loop already owns this goroutine"
	case ErrorNotInLoopThread:
		return "operation must run on the owning event loop's goroutine"
	}
	return ""
}
