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

package server

import (
	"sync"

	"github.com/nabbar/reactor/connection"
)

// connectionMap tracks every live Connection by name, guarded by its own
// mutex since newConnection/removeConnectionInLoop both run on the
// server's own loop but Count/Snapshot may be called from anywhere (e.g.
// a metrics scrape or a graceful-shutdown sweep).
type connectionMap struct {
	mu    sync.Mutex
	byName map[string]*connection.Connection
}

func newConnectionMap() *connectionMap {
	return &connectionMap{byName: make(map[string]*connection.Connection)}
}

func (m *connectionMap) put(c *connection.Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byName[c.Name()] = c
}

func (m *connectionMap) remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byName, name)
}

// Count returns the number of connections currently tracked.
func (m *connectionMap) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byName)
}

// Snapshot returns every tracked Connection at the time of the call.
func (m *connectionMap) Snapshot() []*connection.Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*connection.Connection, 0, len(m.byName))
	for _, c := range m.byName {
		out = append(out, c)
	}
	return out
}
