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

// Package timestamp provides a microsecond-resolution point in time and the
// Clock capability used by the event loop to stamp polls and schedule timers.
package timestamp

import (
	"fmt"
	"time"
)

// MicroSecondsPerSecond is the number of microseconds in one second.
const MicroSecondsPerSecond int64 = 1000 * 1000

// Timestamp is a point in time expressed as microseconds since the Unix epoch.
// The zero value is Invalid.
type Timestamp struct {
	micro int64
}

// New returns a Timestamp for the given microseconds-since-epoch value.
func New(microSecondsSinceEpoch int64) Timestamp {
	return Timestamp{micro: microSecondsSinceEpoch}
}

// Now returns a Timestamp for the current wall-clock time.
func Now() Timestamp {
	t := time.Now()
	return Timestamp{micro: t.Unix()*MicroSecondsPerSecond + int64(t.Nanosecond())/1000}
}

// Invalid returns the zero Timestamp.
func Invalid() Timestamp {
	return Timestamp{}
}

// Valid reports whether the Timestamp holds a strictly positive value.
func (t Timestamp) Valid() bool {
	return t.micro > 0
}

// MicroSecondsSinceEpoch returns the raw microsecond value.
func (t Timestamp) MicroSecondsSinceEpoch() int64 {
	return t.micro
}

// SecondsSinceEpoch returns the value truncated to whole seconds.
func (t Timestamp) SecondsSinceEpoch() int64 {
	return t.micro / MicroSecondsPerSecond
}

// Time converts the Timestamp to the standard library's time.Time.
func (t Timestamp) Time() time.Time {
	sec := t.micro / MicroSecondsPerSecond
	rem := t.micro % MicroSecondsPerSecond
	return time.Unix(sec, rem*1000)
}

// String formats the Timestamp as "YYYY-MM-DD HH:MM:SS" in local time.
func (t Timestamp) String() string {
	return t.Time().Local().Format("2006-01-02 15:04:05")
}

// Before reports whether t happens strictly before o.
func (t Timestamp) Before(o Timestamp) bool {
	return t.micro < o.micro
}

// Equal reports whether t and o hold the same microsecond value.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.micro == o.micro
}

// Add returns a Timestamp offset by the given duration (may be negative).
func (t Timestamp) Add(seconds float64) Timestamp {
	delta := int64(seconds * float64(MicroSecondsPerSecond))
	return Timestamp{micro: t.micro + delta}
}

// Diff returns, in seconds, how far ahead t is of o. A negative value means
// t happens before o.
func (t Timestamp) Diff(o Timestamp) float64 {
	return float64(t.micro-o.micro) / float64(MicroSecondsPerSecond)
}

// GoString supports %#v and debugger inspection.
func (t Timestamp) GoString() string {
	return fmt.Sprintf("timestamp.New(%d)", t.micro)
}

// Clock is the capability an EventLoop uses to compute RunAfter/RunEvery
// deadlines. Production code and the tests use SystemClock; poll-return
// times and timer expiry checks read Now directly, not the Clock.
type Clock interface {
	Now() Timestamp
}

type systemClock struct{}

// Now returns the current wall-clock time.
func (systemClock) Now() Timestamp {
	return Now()
}

// SystemClock is the default Clock, backed by the OS wall clock.
var SystemClock Clock = systemClock{}
