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

package connection

import (
	"github.com/nabbar/reactor/buffer"
	"github.com/nabbar/reactor/timestamp"
)

// ConnectionCallback fires on the Connected transition and on the final
// transition to Disconnected (spec.md §6).
type ConnectionCallback func(c *Connection)

// MessageCallback fires once per handleRead with data available; the
// application consumes from buf at its own pace, and unconsumed bytes
// remain across calls.
type MessageCallback func(c *Connection, buf *buffer.Buffer, receiveTime timestamp.Timestamp)

// WriteCompleteCallback fires when the output buffer goes from
// non-empty to empty.
type WriteCompleteCallback func(c *Connection)

// HighWaterMarkCallback fires once on each upward crossing of the
// configured threshold; it is advisory and never backpressures writes.
type HighWaterMarkCallback func(c *Connection, queuedBytes int)

// CloseCallback is installed internally by server.Server to drive
// ConnectionMap removal; application code never sets it directly.
type CloseCallback func(c *Connection)
